package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dwikikusuma/honey-storefront/internal/apperr"
	"github.com/dwikikusuma/honey-storefront/internal/cart/domain"
	"github.com/dwikikusuma/honey-storefront/internal/notify"
	"github.com/dwikikusuma/honey-storefront/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPlaceholderImage = "/img/placeholder.png"
	notifySource            = "cart"
)

var ErrEmptyCart = apperr.New("cart.Checkout", apperr.ErrValidation, "cart is empty", nil)

// Service is the cart of one storefront client. Every successful mutation is
// followed by a save of the full item list; a failed save is reported through
// the notifier and the in-memory change stands.
type Service struct {
	repo    CartRepo
	catalog CatalogReader
	notify  notify.Notifier
	log     *slog.Logger
	tracer  trace.Tracer

	placeholder   string
	maxConcurrent int

	mu   sync.Mutex
	cart domain.Cart
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) { s.notify = n }
}

// WithCatalog enables RefreshStock.
func WithCatalog(c CatalogReader) Option {
	return func(s *Service) { s.catalog = c }
}

func WithPlaceholderImage(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.placeholder = path
		}
	}
}

// WithRefreshLimit bounds the concurrent product lookups of RefreshStock.
func WithRefreshLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrent = n
		}
	}
}

// NewService restores the persisted cart. A corrupt value is erased and the
// cart starts empty; an unreadable store also yields an empty cart.
func NewService(ctx context.Context, repo CartRepo, opts ...Option) *Service {
	s := &Service{
		repo:          repo,
		log:           slog.Default(),
		tracer:        telemetry.Tracer("storefront/cart"),
		placeholder:   DefaultPlaceholderImage,
		maxConcurrent: 10,
	}
	for _, opt := range opts {
		opt(s)
	}

	cart, err := repo.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrCorruptCart):
		s.log.Warn("discarding corrupt cart", slog.Any("err", err))
		if err := repo.Clear(ctx); err != nil {
			s.storageFailed(ctx, "erase corrupt cart", err)
		}
		cart = domain.Cart{}
	case err != nil:
		s.storageFailed(ctx, "load cart", err)
		cart = domain.Cart{}
	}
	s.cart = cart
	return s
}

func (s *Service) AddItem(ctx context.Context, p *domain.Product, quantity int) error {
	return s.mutate(ctx, "cart.AddItem", func(c *domain.Cart) error {
		return c.Add(p, quantity, s.placeholder)
	})
}

// RemoveItem is a no-op for a product that is not in the cart.
func (s *Service) RemoveItem(ctx context.Context, productID int64) error {
	return s.mutate(ctx, "cart.RemoveItem", func(c *domain.Cart) error {
		c.Remove(productID)
		return nil
	})
}

func (s *Service) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	return s.mutate(ctx, "cart.UpdateQuantity", func(c *domain.Cart) error {
		return c.SetQuantity(productID, quantity)
	})
}

func (s *Service) ClearCart(ctx context.Context) error {
	return s.mutate(ctx, "cart.ClearCart", func(c *domain.Cart) error {
		c.Clear()
		return nil
	})
}

// Items returns a copy of the line items in insertion order.
func (s *Service) Items() []domain.LineItem {
	return s.Snapshot().Items
}

func (s *Service) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *Service) TotalItems() int {
	return s.Snapshot().TotalItems()
}

func (s *Service) TotalAmount() float64 {
	return s.Snapshot().TotalAmount()
}

func (s *Service) TotalPrice() string {
	return s.Snapshot().TotalPrice()
}

// Adjustment records what RefreshStock changed on one line.
type Adjustment struct {
	ProductID   int64
	Name        string
	OldStock    int
	NewStock    int
	OldQuantity int
	NewQuantity int
	Removed     bool
}

// RefreshStock re-reads every product in the cart and applies the current
// inventory: the stock ceiling is updated, quantities above it are lowered
// and lines whose product is gone or sold out are removed. Nothing changes
// if any lookup fails for another reason.
func (s *Service) RefreshStock(ctx context.Context) ([]Adjustment, error) {
	ctx, span := s.tracer.Start(ctx, "cart.RefreshStock")
	defer span.End()

	if s.catalog == nil {
		return nil, errors.New("cart: no catalog configured")
	}

	items := s.Items()
	if len(items) == 0 {
		return nil, nil
	}
	span.SetAttributes(attribute.Int("cart.lines", len(items)))

	stock := make([]int, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range items {
		g.Go(func() error {
			p, err := s.catalog.GetProduct(gctx, items[idx].ProductID)
			if errors.Is(err, apperr.ErrNotFound) {
				stock[idx] = 0
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get product %d: %w", items[idx].ProductID, err)
			}
			stock[idx] = p.Stock
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	latest := make(map[int64]int, len(items))
	for idx, it := range items {
		latest[it.ProductID] = stock[idx]
	}

	var adjustments []Adjustment
	err := s.mutate(ctx, "cart.RefreshStock", func(c *domain.Cart) error {
		kept := c.Items[:0:0]
		for _, it := range c.Items {
			ceiling, ok := latest[it.ProductID]
			if !ok {
				kept = append(kept, it)
				continue
			}
			adj := Adjustment{
				ProductID:   it.ProductID,
				Name:        it.Name,
				OldStock:    it.Stock,
				NewStock:    ceiling,
				OldQuantity: it.Quantity,
				NewQuantity: min(it.Quantity, ceiling),
			}
			if ceiling <= 0 {
				adj.NewQuantity = 0
				adj.Removed = true
				adjustments = append(adjustments, adj)
				continue
			}
			it.Stock = ceiling
			it.Quantity = adj.NewQuantity
			if adj.NewQuantity != adj.OldQuantity || adj.NewStock != adj.OldStock {
				adjustments = append(adjustments, adj)
			}
			kept = append(kept, it)
		}
		c.Items = kept
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("cart stock refreshed", slog.Int("lines", len(items)), slog.Int("adjusted", len(adjustments)))
	return adjustments, nil
}

// Checkout hands back the cart contents and empties it.
func (s *Service) Checkout(ctx context.Context) (domain.Cart, error) {
	var out domain.Cart
	err := s.mutate(ctx, "cart.Checkout", func(c *domain.Cart) error {
		if len(c.Items) == 0 {
			return ErrEmptyCart
		}
		out = c.Clone()
		c.Clear()
		return nil
	})
	if err != nil {
		return domain.Cart{}, err
	}
	return out, nil
}

// mutate applies fn to a copy of the cart and, if it succeeds, installs the
// copy and saves it. A rejected mutation leaves the cart untouched.
func (s *Service) mutate(ctx context.Context, op string, fn func(c *domain.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cart.Clone()
	if err := fn(&next); err != nil {
		s.log.Debug("cart mutation rejected", slog.String("op", op), slog.Any("err", err))
		return err
	}
	s.cart = next

	if err := s.repo.Save(ctx, next); err != nil {
		s.storageFailed(ctx, "save cart", err)
	}
	return nil
}

func (s *Service) storageFailed(ctx context.Context, what string, err error) {
	err = apperr.Storage("cart."+what, err)
	s.log.Error("cart storage failed", slog.String("op", what), slog.Any("err", err))
	notify.Warn(ctx, s.notify, notifySource, "Could not "+what+"; your cart will only last for this session.")
}
