// Package kvstore keeps the cart as one JSON array in the local key/value store.
package kvstore

import (
	"context"
	"errors"

	"github.com/dwikikusuma/honey-storefront/internal/cart/domain"
	"github.com/dwikikusuma/honey-storefront/pkg/kv"
)

const DefaultCartKey = "ysj_cart"

type CartRepo struct {
	store kv.Store
	key   string
}

func NewCartRepo(store kv.Store, key string) *CartRepo {
	if key == "" {
		key = DefaultCartKey
	}
	return &CartRepo{store: store, key: key}
}

// Load returns an empty cart when nothing was saved yet.
func (r *CartRepo) Load(ctx context.Context) (domain.Cart, error) {
	raw, err := r.store.Get(ctx, r.key)
	if errors.Is(err, kv.ErrNotFound) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return domain.Cart{}, err
	}
	return domain.Decode(raw)
}

func (r *CartRepo) Save(ctx context.Context, cart domain.Cart) error {
	raw, err := domain.Encode(cart)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, r.key, raw)
}

func (r *CartRepo) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, r.key)
}
