package remote

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/dwikikusuma/honey-storefront/internal/apperr"
	"github.com/dwikikusuma/honey-storefront/internal/catalog/app"
	"github.com/dwikikusuma/honey-storefront/internal/catalog/domain"
	"github.com/dwikikusuma/honey-storefront/internal/mockapi"
	"github.com/dwikikusuma/honey-storefront/internal/restapi"
	"github.com/dwikikusuma/honey-storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepoThroughService(t *testing.T) {
	srv := mockapi.New()
	srv.Seed()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client := restapi.New(restapi.Config{BaseURL: ts.URL}, restapi.WithLogger(logger.Discard()))
	svc := app.NewService(NewProductRepo(client))
	ctx := context.Background()

	featured, err := svc.ListProducts(ctx, domain.ListFilter{Featured: true, Limit: 1})
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.True(t, featured[0].IsFeatured)

	p, err := svc.GetProduct(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "Royal Jelly 100g", p.Name)
	assert.Equal(t, 2, p.Stock())

	_, err = svc.GetProduct(ctx, 77)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.GetProduct(ctx, 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
