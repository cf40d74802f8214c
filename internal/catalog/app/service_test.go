package app

import (
	"context"
	"errors"
	"testing"

	"github.com/dwikikusuma/honey-storefront/internal/catalog/domain"
)

type fakeRepo struct {
	products []domain.Product
	filter   domain.ListFilter
	getCalls int
}

func (f *fakeRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	f.getCalls++
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, errors.New("missing")
}

func (f *fakeRepo) List(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	f.filter = filter
	return f.products, nil
}

func TestGetProductValidation(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	t.Run("zero id -> invalid", func(t *testing.T) {
		_, err := svc.GetProduct(context.Background(), 0)
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("negative id -> invalid", func(t *testing.T) {
		_, err := svc.GetProduct(context.Background(), -4)
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	if repo.getCalls != 0 {
		t.Fatalf("repo must not be called for invalid ids, got %d calls", repo.getCalls)
	}
}

func TestListProductsLimit(t *testing.T) {
	products := make([]domain.Product, 30)
	for i := range products {
		products[i] = domain.Product{ID: int64(i + 1)}
	}
	repo := &fakeRepo{products: products}
	svc := NewService(repo)

	t.Run("default limit", func(t *testing.T) {
		got, err := svc.ListProducts(context.Background(), domain.ListFilter{Category: "  honey "})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 20 {
			t.Fatalf("expected 20 products, got %d", len(got))
		}
		if repo.filter.Category != "honey" {
			t.Fatalf("category not trimmed: %q", repo.filter.Category)
		}
	})

	t.Run("cap at 100", func(t *testing.T) {
		_, err := svc.ListProducts(context.Background(), domain.ListFilter{Limit: 500})
		if err != nil {
			t.Fatal(err)
		}
		if repo.filter.Limit != 100 {
			t.Fatalf("limit = %d, want 100", repo.filter.Limit)
		}
	})
}
