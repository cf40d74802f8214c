package app

import (
	"context"

	"github.com/dwikikusuma/honey-storefront/internal/catalog/domain"
)

type ProductRepo interface {
	Get(ctx context.Context, id int64) (domain.Product, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error)
}
