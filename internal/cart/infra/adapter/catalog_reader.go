package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/honey-storefront/internal/cart/app"
	cartdomain "github.com/dwikikusuma/honey-storefront/internal/cart/domain"
	catalogapp "github.com/dwikikusuma/honey-storefront/internal/catalog/app"
	catalogdomain "github.com/dwikikusuma/honey-storefront/internal/catalog/domain"
)

var _ cartapp.CatalogReader = (*CatalogServiceReader)(nil)

type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) GetProduct(ctx context.Context, productID int64) (cartdomain.Product, error) {
	p, err := r.svc.GetProduct(ctx, productID)
	if err != nil {
		return cartdomain.Product{}, err
	}
	return ToCartProduct(p), nil
}

// ToCartProduct converts a catalogue record into what the cart accepts.
func ToCartProduct(p catalogdomain.Product) cartdomain.Product {
	return cartdomain.Product{
		ID:     p.ID,
		Name:   p.Name,
		Price:  p.Price,
		Stock:  p.Stock(),
		Images: p.Images,
	}
}
