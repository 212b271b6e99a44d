// Package app is the root composition of the storefront: it owns the cart
// and session singletons and hands them to the HTTP server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/gurukul-storefront/internal/config"
	"github.com/your-org/gurukul-storefront/internal/domain/auth"
	"github.com/your-org/gurukul-storefront/internal/domain/cart"
	"github.com/your-org/gurukul-storefront/internal/domain/checkout"
	"github.com/your-org/gurukul-storefront/internal/domain/course"
	"github.com/your-org/gurukul-storefront/internal/domain/product"
	"github.com/your-org/gurukul-storefront/internal/domain/session"
	"github.com/your-org/gurukul-storefront/internal/infrastructure/storage"
	httpserver "github.com/your-org/gurukul-storefront/internal/interfaces/http"
	"github.com/your-org/gurukul-storefront/internal/interfaces/http/routes"
	"github.com/your-org/gurukul-storefront/internal/pkg/api"
	"github.com/your-org/gurukul-storefront/internal/pkg/sheety"
)

const watchDebounce = 250 * time.Millisecond

// App holds the wired storefront components
type App struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Storage  storage.Storage
	API      *api.Client
	Sessions *session.Manager
	Cart     cart.Manager
	Auth     *auth.Service
	Products *product.Service
	Checkout *checkout.Service
	Courses  *course.Service

	localCart *cart.Store
	watcher   *storage.Watcher
}

// New opens the configured storage and wires the storefront on top of it
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	a, err := NewWithStorage(ctx, cfg, store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	return a, nil
}

// NewWithStorage wires the storefront on top of an open storage. The session
// expiry timer is armed before anything else can read the session.
func NewWithStorage(ctx context.Context, cfg *config.Config, store storage.Storage, logger *logrus.Logger) (*App, error) {
	sessions := session.NewManager(store, nil, logger)
	sessions.ArmExpiryTimer(ctx)

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger)

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Storage:  store,
		API:      client,
		Sessions: sessions,
	}

	switch cfg.Cart.Mode {
	case config.CartModeRemote:
		a.Cart = cart.NewRemoteCart(client, sessions, logger)
	default:
		a.localCart = cart.NewStore(ctx, store, logger)
		a.Cart = a.localCart
	}

	a.Auth = auth.NewService(client, sessions, cfg.Session.TTL, logger)
	a.Products = product.NewService(client, sessions, logger)
	sheets := sheety.NewClient(cfg.API.Timeout)
	a.Checkout = checkout.NewService(a.Cart, sheets, client, sessions, cfg.Checkout, logger)
	a.Courses = course.NewService(sheets, cfg.Courses, logger)

	logger.WithFields(logrus.Fields{
		"storage":   cfg.Storage.Driver,
		"cart_mode": cfg.Cart.Mode,
		"session":   sessions.State(ctx).String(),
	}).Info("Storefront initialized")

	return a, nil
}

// WatchStorage reloads the local cart whenever another process writes the
// sqlite storage file. It is a no-op for other drivers and the server cart.
func (a *App) WatchStorage(ctx context.Context) error {
	db, ok := a.Storage.(*storage.SQLite)
	if !ok || a.localCart == nil || !a.Config.Storage.Watch {
		return nil
	}

	w, err := storage.NewWatcher(db.Path(), watchDebounce, func() {
		a.localCart.Reload(context.Background())
	}, a.Logger)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		w.Close()
		return err
	}
	a.watcher = w
	return nil
}

// HTTPServer builds the local UI API server
func (a *App) HTTPServer() *httpserver.Server {
	deps := routes.Dependencies{
		Cart:     a.Cart,
		Sessions: a.Sessions,
		Auth:     a.Auth,
		Products: a.Products,
		Checkout: a.Checkout,
		Courses:  a.Courses,
	}
	return httpserver.NewServer(a.Config, deps, a.Storage, a.Logger)
}

// Close stops the expiry timer and the watcher and closes storage
func (a *App) Close() error {
	a.Sessions.Close()

	var errs []error
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop storage watcher: %w", err))
		}
	}
	if err := a.Storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
	}
	return errors.Join(errs...)
}
