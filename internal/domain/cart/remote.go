package cart

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/your-org/gurukul-storefront/internal/pkg/api"
	"golang.org/x/sync/singleflight"
)

// CartAPI is the backend cart surface
type CartAPI interface {
	UserCart(ctx context.Context, token string) ([]api.CartLine, error)
	AddToCart(ctx context.Context, token, productID string, quantity int) error
	UpdateCartLine(ctx context.Context, token, lineID string, quantity int) error
	RemoveCartLine(ctx context.Context, token, lineID string) error
	ClearCart(ctx context.Context, token string) error
}

// TokenSource supplies the bearer token of the current session
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// RemoteCart keeps the cart on the backend. Reads return the last fetched
// server list; each mutation is followed by a refetch. Item IDs are server
// line ids.
type RemoteCart struct {
	api    CartAPI
	tokens TokenSource
	logger *logrus.Logger

	group   singleflight.Group
	loading atomic.Int32

	mu       sync.Mutex
	lines    []api.CartLine
	owner    string // token the cached lines were fetched with
	inFlight map[string]struct{}
}

// NewRemoteCart creates a server-backed cart
func NewRemoteCart(cartAPI CartAPI, tokens TokenSource, logger *logrus.Logger) *RemoteCart {
	return &RemoteCart{
		api:      cartAPI,
		tokens:   tokens,
		logger:   logger,
		inFlight: make(map[string]struct{}),
	}
}

// Loading reports whether a fetch is outstanding
func (r *RemoteCart) Loading() bool {
	return r.loading.Load() > 0
}

// Refresh fetches the authoritative list. Concurrent calls share one request.
// On failure the previous list is kept.
func (r *RemoteCart) Refresh(ctx context.Context) error {
	token, ok := r.tokens.Token(ctx)
	if !ok {
		return ErrNotAuthenticated
	}
	return r.refresh(ctx, token)
}

// refresh joins the shared fetch for token. A caller that gives up only stops
// waiting; the fetch carries on for the others.
func (r *RemoteCart) refresh(ctx context.Context, token string) error {
	fetchCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(token, func() (any, error) {
		r.loading.Add(1)
		defer r.loading.Add(-1)

		lines, err := r.api.UserCart(fetchCtx, token)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch cart: %w", err)
		}

		r.mu.Lock()
		r.lines = lines
		r.owner = token
		r.mu.Unlock()
		return nil, nil
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the server list with totals, fetching it on first use or
// after the session changed.
func (r *RemoteCart) Snapshot(ctx context.Context) (Snapshot, error) {
	token, ok := r.tokens.Token(ctx)
	if !ok {
		return Snapshot{}, ErrNotAuthenticated
	}

	if err := r.ensureLoaded(ctx, token); err != nil {
		return Snapshot{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return NewSnapshot(Flatten(r.lines)), nil
}

// AddItem adds quantity units of the product. If the server cart already has
// a line for it the line quantity is raised instead of creating a second row.
func (r *RemoteCart) AddItem(ctx context.Context, in ItemInput, quantity int) error {
	if in.ID == "" {
		return ErrInvalidItem
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	token, ok := r.tokens.Token(ctx)
	if !ok {
		return ErrNotAuthenticated
	}

	if err := r.ensureLoaded(ctx, token); err != nil {
		return err
	}

	line, found := r.lineForProduct(token, in.ID)
	if found {
		return r.mutate(ctx, token, line.ID.String(), func() error {
			return r.api.UpdateCartLine(ctx, token, line.ID.String(), line.Quantity+quantity)
		})
	}
	return r.mutate(ctx, token, "product:"+in.ID, func() error {
		return r.api.AddToCart(ctx, token, in.ID, quantity)
	})
}

// UpdateQuantity sets a line's quantity; zero or less deletes the line.
// Unknown lines are ignored.
func (r *RemoteCart) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return r.RemoveItem(ctx, id)
	}
	token, ok := r.tokens.Token(ctx)
	if !ok {
		return ErrNotAuthenticated
	}
	if err := r.ensureLoaded(ctx, token); err != nil {
		return err
	}
	if !r.hasLine(token, id) {
		return nil
	}
	return r.mutate(ctx, token, id, func() error {
		return r.api.UpdateCartLine(ctx, token, id, quantity)
	})
}

// RemoveItem deletes a line; unknown lines are ignored.
func (r *RemoteCart) RemoveItem(ctx context.Context, id string) error {
	token, ok := r.tokens.Token(ctx)
	if !ok {
		return ErrNotAuthenticated
	}
	if err := r.ensureLoaded(ctx, token); err != nil {
		return err
	}
	if !r.hasLine(token, id) {
		return nil
	}
	return r.mutate(ctx, token, id, func() error {
		return r.api.RemoveCartLine(ctx, token, id)
	})
}

// Clear empties the server cart
func (r *RemoteCart) Clear(ctx context.Context) error {
	token, ok := r.tokens.Token(ctx)
	if !ok {
		return ErrNotAuthenticated
	}
	return r.mutate(ctx, token, "*", func() error {
		return r.api.ClearCart(ctx, token)
	})
}

func (r *RemoteCart) ensureLoaded(ctx context.Context, token string) error {
	r.mu.Lock()
	stale := r.owner != token
	r.mu.Unlock()
	if stale {
		return r.refresh(ctx, token)
	}
	return nil
}

// mutate runs call unless another mutation holds key, then refetches.
func (r *RemoteCart) mutate(ctx context.Context, token, key string, call func() error) error {
	r.mu.Lock()
	if _, busy := r.inFlight[key]; busy {
		r.mu.Unlock()
		return ErrMutationInFlight
	}
	r.inFlight[key] = struct{}{}
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.inFlight, key)
		r.mu.Unlock()
	}()

	if err := call(); err != nil {
		r.logger.WithError(err).WithField("line", key).Warn("Cart mutation failed")
		return fmt.Errorf("failed to update cart: %w", err)
	}
	return r.refresh(ctx, token)
}

func (r *RemoteCart) lineForProduct(token, productID string) (api.CartLine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owner != token {
		return api.CartLine{}, false
	}
	for _, l := range r.lines {
		if l.Product.ID.String() == productID {
			return l, true
		}
	}
	return api.CartLine{}, false
}

func (r *RemoteCart) hasLine(token, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owner != token {
		return false
	}
	for _, l := range r.lines {
		if l.ID.String() == id {
			return true
		}
	}
	return false
}
