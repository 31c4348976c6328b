// apptokens drives the panel controller from the command line against a
// running token backend: list and revoke app tokens, create new ones, and
// show the WebDAV endpoints they can be used with.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mschlachter/ocis-app-tokens/internal/client"
	"github.com/mschlachter/ocis-app-tokens/internal/config"
	"github.com/mschlachter/ocis-app-tokens/internal/expiry"
	"github.com/mschlachter/ocis-app-tokens/internal/panel"
)

func main() {
	configPath := flag.String("config", "", "path to yaml configuration")
	amount := flag.Int("amount", 0, "expiry amount for create (0 uses the configured default)")
	unitFlag := flag.String("unit", "", "expiry unit for create: Minutes|Hours|Days|Weeks|Months|Years")
	label := flag.String("label", "", "custom token label (needs enable_custom_labels)")
	bearer := flag.String("bearer", "", "value for the Authorization header")
	yes := flag.Bool("yes", false, "skip the delete confirmation prompt")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	headers := http.Header{}
	if *bearer != "" {
		headers.Set("Authorization", "Bearer "+*bearer)
	}

	api := client.New(
		&http.Client{Timeout: 30 * time.Second},
		cfg.Panel.TokenAPIURL,
		cfg.Panel.DrivesURL,
		headers,
	)
	controller := panel.New(api, cfg.Panel.EnableCustomLabels)
	ctx := context.Background()

	switch flag.Arg(0) {
	case "list", "":
		run(controller.Initialize(ctx))
		printTokens(controller)
	case "endpoints":
		run(controller.Initialize(ctx))
		printEndpoints(controller)
	case "create":
		createAmount, createUnit := createExpiry(cfg, *amount, *unitFlag)
		run(controller.RequestCreate(ctx, createAmount, createUnit, *label))
		created := controller.PendingCreatedToken()
		if created == nil {
			log.Fatal("create succeeded but no token was returned")
		}
		fmt.Printf("New token (shown only once):\n  %s\n", created.Token)
		fmt.Printf("Label:   %s\nExpires: %s\n", created.Label, created.ExpirationDate.Format(time.RFC3339))
		controller.AcknowledgeCreatedToken()
		printTokens(controller)
	case "delete":
		target := flag.Arg(1)
		if target == "" {
			log.Fatal("usage: apptokens delete <token>")
		}
		run(controller.Initialize(ctx))
		controller.RequestDelete(target)
		if !*yes && !confirm(target) {
			controller.CancelDelete()
			fmt.Println("Aborted.")
			return
		}
		run(controller.ConfirmDelete(ctx))
		printTokens(controller)
	default:
		log.Fatalf("unknown command %q (want list, create, delete or endpoints)", flag.Arg(0))
	}
}

func run(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

// createExpiry resolves the create flags against the configured defaults.
func createExpiry(cfg *config.Config, amount int, unitFlag string) (int, expiry.Unit) {
	defaultAmount, defaultUnit := cfg.DefaultExpiry()
	if amount == 0 {
		amount = defaultAmount
	}
	if unitFlag == "" {
		return amount, defaultUnit
	}
	unit, err := expiry.ParseUnit(unitFlag)
	if err != nil {
		log.Fatalf("invalid -unit: %v", err)
	}
	return amount, unit
}

func confirm(target string) bool {
	fmt.Printf("Delete token %s? [y/N] ", target)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printTokens(controller *panel.Controller) {
	tokens := controller.Tokens()
	if len(tokens) == 0 {
		fmt.Println("No app tokens.")
		return
	}
	fmt.Printf("%-20s %-25s %-25s %s\n", "LABEL", "CREATED", "EXPIRES", "TOKEN")
	for _, token := range tokens {
		fmt.Printf("%-20s %-25s %-25s %s\n",
			token.Label,
			token.CreatedDate.Format(time.RFC3339),
			token.ExpirationDate.Format(time.RFC3339),
			token.Token,
		)
	}
}

func printEndpoints(controller *panel.Controller) {
	endpoints := controller.Endpoints()
	if len(endpoints) == 0 {
		fmt.Println("No WebDAV endpoints.")
		return
	}
	fmt.Printf("%-15s %-10s %s\n", "NAME", "TYPE", "WEBDAV URL")
	for _, endpoint := range endpoints {
		fmt.Printf("%-15s %-10s %s\n", endpoint.Name, endpoint.DriveType, endpoint.WebDavURL())
	}
}
