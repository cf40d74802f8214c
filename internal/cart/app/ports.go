package app

import (
	"context"

	"github.com/dwikikusuma/honey-storefront/internal/cart/domain"
)

// CartRepo persists the whole line item list under one key. Load returns
// domain.ErrCorruptCart for a value that cannot be a cart.
type CartRepo interface {
	Load(ctx context.Context) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
	Clear(ctx context.Context) error
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
}
