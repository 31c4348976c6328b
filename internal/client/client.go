// Package client implements the HTTP protocol of the token backend: the
// /auth-app/tokens create/list/delete surface and the graph drives listing.
// The transport is injected so tests can substitute a fake.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mschlachter/ocis-app-tokens/internal/models"
)

// ErrTransport marks any request failure: connection errors, non-2xx
// responses and undecodable bodies are all treated the same way.
var ErrTransport = errors.New("transport failure")

// Doer is the injected transport capability. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues requests against the token API and the drives endpoint.
type Client struct {
	http      Doer
	tokensURL string
	drivesURL string
	headers   http.Header
}

// New creates a Client. tokensURL is the base of the token API
// (".../auth-app/tokens"), drivesURL the graph drives listing. headers carries
// whatever the host authentication context requires on every request; it is
// opaque to the client and may be nil.
func New(transport Doer, tokensURL, drivesURL string, headers http.Header) *Client {
	if transport == nil {
		transport = http.DefaultClient
	}
	return &Client{
		http:      transport,
		tokensURL: tokensURL,
		drivesURL: drivesURL,
		headers:   headers,
	}
}

// ListTokens fetches the current token listing. Secrets in the result are the
// stored digests, not the plaintext values.
func (c *Client) ListTokens(ctx context.Context) ([]models.AppToken, error) {
	var tokens []models.AppToken
	if err := c.call(ctx, http.MethodGet, c.tokensURL, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// CreateToken requests a new token with the given wire expiry ("72h", "30m").
// label is added as a request parameter only when non-empty; the response is
// the only place the plaintext secret ever appears.
func (c *Client) CreateToken(ctx context.Context, expiry, label string) (*models.AppToken, error) {
	params := url.Values{}
	params.Set("expiry", expiry)
	if label != "" {
		params.Set("label", label)
	}

	var token models.AppToken
	if err := c.call(ctx, http.MethodPost, c.tokensURL+"?"+params.Encode(), &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteToken revokes the token identified by the value shown in the listing.
func (c *Client) DeleteToken(ctx context.Context, token string) error {
	params := url.Values{}
	params.Set("token", token)
	return c.call(ctx, http.MethodDelete, c.tokensURL+"?"+params.Encode(), nil)
}

// ListEndpoints fetches the WebDAV endpoints available to the user.
func (c *Client) ListEndpoints(ctx context.Context) ([]models.Endpoint, error) {
	var drives models.DriveList
	if err := c.call(ctx, http.MethodGet, c.drivesURL, &drives); err != nil {
		return nil, err
	}
	return drives.Value, nil
}

// call issues one request and decodes the response into out (skipped when out
// is nil). Every failure mode collapses into ErrTransport so callers can roll
// back uniformly.
func (c *Client) call(ctx context.Context, method, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: build %s %s: %v", ErrTransport, method, rawURL, err)
	}
	for key, values := range c.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s: HTTP %d", ErrTransport, method, rawURL, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", ErrTransport, method, rawURL, err)
	}
	return nil
}
