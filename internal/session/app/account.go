package app

import (
	"context"

	"github.com/dwikikusuma/honey-storefront/internal/apperr"
	"github.com/dwikikusuma/honey-storefront/internal/session/domain"
)

func (m *Manager) requireToken(op string) (string, uint64, error) {
	token, gen := m.current()
	if token == "" {
		return "", 0, apperr.New(op, apperr.ErrAuthRejected, "not signed in", nil)
	}
	return token, gen, nil
}

func (m *Manager) PointsRecords(ctx context.Context, page, perPage int) (domain.Page[domain.PointsRecord], error) {
	var out domain.Page[domain.PointsRecord]
	token, gen, err := m.requireToken("session.PointsRecords")
	if err != nil {
		return out, err
	}
	err = m.authorized(ctx, token, gen, func(ctx context.Context, token string) error {
		var err error
		out, err = m.api.PointsRecords(ctx, token, page, perPage)
		return err
	})
	return out, err
}

func (m *Manager) Coupons(ctx context.Context, page, perPage int) (domain.Page[domain.Coupon], error) {
	var out domain.Page[domain.Coupon]
	token, gen, err := m.requireToken("session.Coupons")
	if err != nil {
		return out, err
	}
	err = m.authorized(ctx, token, gen, func(ctx context.Context, token string) error {
		var err error
		out, err = m.api.Coupons(ctx, token, page, perPage)
		return err
	})
	return out, err
}

func (m *Manager) Addresses(ctx context.Context) ([]domain.Address, error) {
	var out []domain.Address
	token, gen, err := m.requireToken("session.Addresses")
	if err != nil {
		return nil, err
	}
	err = m.authorized(ctx, token, gen, func(ctx context.Context, token string) error {
		var err error
		out, err = m.api.Addresses(ctx, token)
		return err
	})
	return out, err
}
