// Package storefront assembles the client core: one App per process holds the
// local store, the REST client and the session, cart and catalogue services.
package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	cartapp "github.com/dwikikusuma/honey-storefront/internal/cart/app"
	"github.com/dwikikusuma/honey-storefront/internal/cart/infra/adapter"
	cartstore "github.com/dwikikusuma/honey-storefront/internal/cart/infra/kvstore"
	catalogapp "github.com/dwikikusuma/honey-storefront/internal/catalog/app"
	"github.com/dwikikusuma/honey-storefront/internal/catalog/infra/remote"
	"github.com/dwikikusuma/honey-storefront/internal/notify"
	"github.com/dwikikusuma/honey-storefront/internal/restapi"
	sessionapp "github.com/dwikikusuma/honey-storefront/internal/session/app"
	sessionstore "github.com/dwikikusuma/honey-storefront/internal/session/infra/kvstore"
	"github.com/dwikikusuma/honey-storefront/pkg/config"
	"github.com/dwikikusuma/honey-storefront/pkg/kv"
)

type App struct {
	Config  config.Config
	Log     *slog.Logger
	Store   kv.Store
	API     *restapi.Client
	Notify  notify.Notifier
	Session *sessionapp.Manager
	Cart    *cartapp.Service
	Catalog *catalogapp.Service
}

type options struct {
	notifier   notify.Notifier
	httpClient *http.Client
	store      kv.Store
}

type Option func(*options)

// WithNotifier adds n next to the log notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

func WithHTTPClient(h *http.Client) Option {
	return func(o *options) { o.httpClient = h }
}

// WithStore uses s instead of opening the configured store. App.Close still
// closes it.
func WithStore(s kv.Store) Option {
	return func(o *options) { o.store = s }
}

// New wires the services and restores the persisted session and cart. A
// backend that cannot be reached does not fail New.
func New(ctx context.Context, cfg config.Config, log *slog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if log == nil {
		log = slog.Default()
	}

	store := o.store
	if store == nil {
		var err error
		store, err = kv.Open(ctx, kv.Config{
			Driver:    cfg.Store.Driver,
			DSN:       cfg.Store.DSN,
			Namespace: cfg.Store.Namespace,
		})
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
		}
	}

	var notifier notify.Notifier = notify.NewLogNotifier(log)
	if o.notifier != nil {
		notifier = notify.Fanout{notifier, o.notifier}
	}

	apiOpts := []restapi.Option{restapi.WithLogger(log)}
	if o.httpClient != nil {
		apiOpts = append(apiOpts, restapi.WithHTTPClient(o.httpClient))
	}
	api := restapi.New(restapi.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout}, apiOpts...)

	catalog := catalogapp.NewService(remote.NewProductRepo(api))

	session := sessionapp.NewManager(api,
		sessionstore.NewSessionRepo(store, cfg.Store.TokenKey, cfg.Store.UserKey, log),
		sessionapp.WithLogger(log),
		sessionapp.WithNotifier(notifier),
	)

	cart := cartapp.NewService(ctx, cartstore.NewCartRepo(store, cfg.Store.CartKey),
		cartapp.WithLogger(log),
		cartapp.WithNotifier(notifier),
		cartapp.WithCatalog(adapter.NewCatalogServiceReader(catalog)),
		cartapp.WithPlaceholderImage(cfg.Cart.PlaceholderImage),
		cartapp.WithRefreshLimit(cfg.Cart.RefreshLimit),
	)

	session.Initialize(ctx)

	log.Info("storefront ready",
		slog.String("api", cfg.API.BaseURL),
		slog.String("store", cfg.Store.Driver),
		slog.Bool("signed_in", session.IsAuthenticated()),
		slog.Int("cart_items", cart.TotalItems()),
	)

	return &App{
		Config:  cfg,
		Log:     log,
		Store:   store,
		API:     api,
		Notify:  notifier,
		Session: session,
		Cart:    cart,
		Catalog: catalog,
	}, nil
}

func (a *App) Close() error {
	return a.Store.Close()
}
