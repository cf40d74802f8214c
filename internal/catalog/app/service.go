package app

import (
	"context"
	"strings"

	"github.com/dwikikusuma/honey-storefront/internal/apperr"
	"github.com/dwikikusuma/honey-storefront/internal/catalog/domain"
)

var (
	ErrInvalidInput = apperr.New("catalog", apperr.ErrValidation, "invalid input", nil)
)

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	if id <= 0 {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

// ListProducts clamps the limit to 1..100 (default 20); the remote endpoint
// returns everything, so the cut happens client side.
func (s *Service) ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(products) > filter.Limit {
		products = products[:filter.Limit]
	}
	return products, nil
}
