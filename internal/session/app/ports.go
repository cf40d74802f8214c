package app

import (
	"context"

	"github.com/dwikikusuma/honey-storefront/internal/restapi"
	"github.com/dwikikusuma/honey-storefront/internal/session/domain"
)

// IdentityAPI is the slice of the remote API the session needs. Every
// authenticated call takes the bearer token explicitly.
type IdentityAPI interface {
	Login(ctx context.Context, login, password string) (restapi.LoginResponse, error)
	Register(ctx context.Context, payload map[string]any) (restapi.RegisterResponse, error)
	Me(ctx context.Context, token string, includeDetails bool) (domain.User, error)
	UpdateMe(ctx context.Context, token string, partial map[string]any) (*domain.User, error)
	ChangePassword(ctx context.Context, token, current, next string) error

	PointsRecords(ctx context.Context, token string, page, perPage int) (domain.Page[domain.PointsRecord], error)
	Coupons(ctx context.Context, token string, page, perPage int) (domain.Page[domain.Coupon], error)
	Addresses(ctx context.Context, token string) ([]domain.Address, error)
}

// SessionRepo persists the token and the cached profile between runs.
// Load reports absent or unreadable values as empty, never as an error
// the caller has to handle.
type SessionRepo interface {
	Load(ctx context.Context) (token string, user *domain.User, err error)
	SaveToken(ctx context.Context, token string) error
	SaveUser(ctx context.Context, user domain.User) error
	Clear(ctx context.Context) error
}
