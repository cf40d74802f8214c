package restapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dwikikusuma/honey-storefront/internal/session/domain"
)

func pageQuery(page, perPage int) url.Values {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	return q
}

func (c *Client) PointsRecords(ctx context.Context, token string, page, perPage int) (domain.Page[domain.PointsRecord], error) {
	var out domain.Page[domain.PointsRecord]
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   PathPointsRecords,
		query:  pageQuery(page, perPage),
		token:  token,
	}, &out)
	return out, err
}

func (c *Client) Coupons(ctx context.Context, token string, page, perPage int) (domain.Page[domain.Coupon], error) {
	var out domain.Page[domain.Coupon]
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   PathCoupons,
		query:  pageQuery(page, perPage),
		token:  token,
	}, &out)
	return out, err
}

func (c *Client) Addresses(ctx context.Context, token string) ([]domain.Address, error) {
	var out struct {
		Addresses []domain.Address `json:"addresses"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   PathAddresses,
		token:  token,
	}, &out)
	return out.Addresses, err
}
