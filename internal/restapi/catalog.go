package restapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dwikikusuma/honey-storefront/internal/apperr"
	"github.com/dwikikusuma/honey-storefront/internal/catalog/domain"
)

func (c *Client) Products(ctx context.Context, category string, featured bool) ([]domain.Product, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if featured {
		q.Set("featured", "true")
	}

	var out struct {
		Products []domain.Product `json:"products"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   PathProducts,
		query:  q,
	}, &out)
	return out.Products, err
}

func (c *Client) Product(ctx context.Context, id int64) (domain.Product, error) {
	var out struct {
		Product *domain.Product `json:"product"`
	}
	path := PathProducts + "/" + strconv.FormatInt(id, 10)
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   path,
	}, &out)
	if err != nil {
		return domain.Product{}, err
	}
	if out.Product == nil {
		return domain.Product{}, apperr.Protocol("GET "+path, "response has no product")
	}
	return *out.Product, nil
}
