// Package panel holds the state behind the App Tokens panel: the token and
// endpoint listings plus the create/delete workflow against the token API.
// It renders nothing; a view binds to the accessors and refreshes on the
// change callback.
package panel

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/mschlachter/ocis-app-tokens/internal/client"
	"github.com/mschlachter/ocis-app-tokens/internal/expiry"
	"github.com/mschlachter/ocis-app-tokens/internal/models"
)

var (
	// ErrOperationInProgress rejects a mutation while another create or
	// delete (including its follow-up refresh) is still in flight. The
	// rejected call never reaches the network.
	ErrOperationInProgress = errors.New("another token operation is in progress")
	// ErrNoPendingDelete is returned by ConfirmDelete when no token has been
	// marked for deletion.
	ErrNoPendingDelete = errors.New("no token marked for deletion")
)

// Mutation phases. A mutation and its mandatory refresh are one unit: the
// controller stays busy until the refresh response is observed.
type phase int

const (
	phaseIdle phase = iota
	phaseSubmitting
	phaseRefreshing
)

// Controller owns the panel state and serializes all writes. The displayed
// token collection always equals the most recently fetched server listing;
// mutations never splice it locally.
type Controller struct {
	api                *client.Client
	enableCustomLabels bool
	onChange           func()

	mu             sync.Mutex
	phase          phase
	tokens         []models.AppToken
	endpoints      []models.Endpoint
	pendingCreated *models.AppToken
	pendingDelete  string
}

// New creates a Controller on top of the given API client.
// enableCustomLabels mirrors the host configuration flag: when false, labels
// passed to RequestCreate are dropped and the server assigns its fixed label.
func New(api *client.Client, enableCustomLabels bool) *Controller {
	return &Controller{api: api, enableCustomLabels: enableCustomLabels}
}

// SetOnChange registers a callback fired after every state change. It is
// invoked without internal locks held, so the callback may read controller
// state freely.
func (c *Controller) SetOnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Initialize loads the token listing and then the endpoint listing. The two
// reads fail independently: one failing does not keep the other's collection
// from loading. Each successful response replaces its collection wholesale.
func (c *Controller) Initialize(ctx context.Context) error {
	tokens, tokensErr := c.api.ListTokens(ctx)
	endpoints, endpointsErr := c.api.ListEndpoints(ctx)

	c.mu.Lock()
	if tokensErr == nil {
		c.tokens = tokens
	}
	if endpointsErr == nil {
		c.endpoints = endpoints
	}
	c.mu.Unlock()
	c.notify()

	return errors.Join(tokensErr, endpointsErr)
}

// RequestCreate converts amount and unit to the wire duration, issues the
// create request and, on success, records the one-time created token and
// re-fetches the full listing. An invalid unit fails locally before any
// request is sent; a failed create leaves the listing untouched.
func (c *Controller) RequestCreate(ctx context.Context, amount int, unit expiry.Unit, label string) error {
	wire, err := expiry.CreateExpiryString(amount, unit)
	if err != nil {
		return err
	}
	if !c.enableCustomLabels {
		label = ""
	}

	if err := c.beginMutation(); err != nil {
		return err
	}

	created, err := c.api.CreateToken(ctx, wire, label)
	if err != nil {
		c.settle(func() {})
		return fmt.Errorf("create token: %w", err)
	}

	c.mu.Lock()
	c.pendingCreated = created
	c.phase = phaseRefreshing
	c.mu.Unlock()
	c.notify()

	return c.refreshTokens(ctx)
}

// RequestDelete marks a token for deletion. Nothing is sent until
// ConfirmDelete; CancelDelete clears the mark with no network effect.
func (c *Controller) RequestDelete(token string) {
	c.mu.Lock()
	c.pendingDelete = token
	c.mu.Unlock()
	c.notify()
}

// CancelDelete clears a pending delete mark.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	c.pendingDelete = ""
	c.mu.Unlock()
	c.notify()
}

// ConfirmDelete revokes the marked token and re-fetches the listing on
// success. On failure the mark is cleared and the listing stays at its last
// known-good state.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	target := c.pendingDelete
	c.mu.Unlock()
	if target == "" {
		return ErrNoPendingDelete
	}

	if err := c.beginMutation(); err != nil {
		return err
	}

	err := c.api.DeleteToken(ctx, target)
	if err != nil {
		c.settle(func() { c.pendingDelete = "" })
		return fmt.Errorf("delete token: %w", err)
	}

	c.mu.Lock()
	c.pendingDelete = ""
	c.phase = phaseRefreshing
	c.mu.Unlock()
	c.notify()

	return c.refreshTokens(ctx)
}

// AcknowledgeCreatedToken clears the one-time created token once the user
// has had the chance to copy the secret.
func (c *Controller) AcknowledgeCreatedToken() {
	c.mu.Lock()
	c.pendingCreated = nil
	c.mu.Unlock()
	c.notify()
}

// Tokens returns the displayed token listing in server order.
func (c *Controller) Tokens() []models.AppToken {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.tokens)
}

// Endpoints returns the WebDAV endpoints available to the user.
func (c *Controller) Endpoints() []models.Endpoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.endpoints)
}

// PendingCreatedToken returns the just-created token, including its
// plaintext secret, or nil. The secret is not retrievable later.
func (c *Controller) PendingCreatedToken() *models.AppToken {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingCreated == nil {
		return nil
	}
	created := *c.pendingCreated
	return &created
}

// PendingDeleteTarget returns the token marked for deletion, or "".
func (c *Controller) PendingDeleteTarget() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingDelete
}

// Busy reports whether a mutation or its follow-up refresh is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase != phaseIdle
}

// beginMutation claims the single mutation slot or rejects synchronously.
func (c *Controller) beginMutation() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != phaseIdle {
		return ErrOperationInProgress
	}
	c.phase = phaseSubmitting
	return nil
}

// settle applies a state fix-up, returns to idle and notifies. Used on the
// failure paths, where the collections must stay untouched.
func (c *Controller) settle(fixup func()) {
	c.mu.Lock()
	fixup()
	c.phase = phaseIdle
	c.mu.Unlock()
	c.notify()
}

// refreshTokens resynchronizes the listing after a successful mutation. On a
// refresh failure the last known-good listing is kept and the error is
// reported; the mutation itself already happened on the server.
func (c *Controller) refreshTokens(ctx context.Context) error {
	tokens, err := c.api.ListTokens(ctx)

	c.mu.Lock()
	if err == nil {
		c.tokens = tokens
	}
	c.phase = phaseIdle
	c.mu.Unlock()
	c.notify()

	if err != nil {
		return fmt.Errorf("refresh token list: %w", err)
	}
	return nil
}

// notify fires the change callback, if any, without holding the lock.
func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
