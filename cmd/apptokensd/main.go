// apptokensd is the development backend for the App Tokens panel. It speaks
// the same wire protocol as the production token service so the client core
// can be exercised against a live server.
package main

import (
	"flag"
	"log"

	"github.com/mschlachter/ocis-app-tokens/internal/api"
	"github.com/mschlachter/ocis-app-tokens/internal/config"
	"github.com/mschlachter/ocis-app-tokens/internal/db"
)

func main() {
	configPath := flag.String("config", "", "path to yaml configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	database, err := db.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer func() {
		if err := db.CloseDatabase(database); err != nil {
			log.Printf("close database: %v", err)
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(database); err != nil {
			log.Fatalf("migrate database: %v", err)
		}
	}

	drives := api.SeedDrives(cfg.Server.PublicURL, cfg.Server.UserName)
	router := api.SetupRouter(database, drives)

	log.Printf("app-tokens dev backend listening on %s", cfg.Server.Addr())
	if err := router.Run(cfg.Server.Addr()); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
