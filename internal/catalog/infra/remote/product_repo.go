// Package remote reads the product catalogue from the storefront REST API.
package remote

import (
	"context"

	"github.com/dwikikusuma/honey-storefront/internal/catalog/domain"
)

// ProductSource is the part of the REST client the catalogue uses.
type ProductSource interface {
	Products(ctx context.Context, category string, featured bool) ([]domain.Product, error)
	Product(ctx context.Context, id int64) (domain.Product, error)
}

type ProductRepo struct {
	src ProductSource
}

func NewProductRepo(src ProductSource) *ProductRepo {
	return &ProductRepo{src: src}
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	return r.src.Product(ctx, id)
}

func (r *ProductRepo) List(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	return r.src.Products(ctx, filter.Category, filter.Featured)
}
