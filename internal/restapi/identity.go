package restapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dwikikusuma/honey-storefront/internal/session/domain"
)

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type RegisterResponse struct {
	AccessToken string `json:"access_token,omitempty"`
	UserID      int64  `json:"user_id,omitempty"`
	Message     string `json:"message,omitempty"`
}

func (c *Client) Login(ctx context.Context, login, password string) (LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   PathLogin,
		body:   map[string]string{"login": login, "password": password},
	}, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, payload map[string]any) (RegisterResponse, error) {
	var out RegisterResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   PathRegister,
		body:   payload,
	}, &out)
	return out, err
}

// Me fetches the profile behind token. includeDetails asks the backend to
// expand detail and custom fields.
func (c *Client) Me(ctx context.Context, token string, includeDetails bool) (domain.User, error) {
	var q url.Values
	if includeDetails {
		q = url.Values{}
		q.Set("include_details", "true")
		q.Set("include_custom_fields", "true")
	}

	var out domain.User
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   PathMe,
		query:  q,
		token:  token,
	}, &out)
	return out, err
}

// UpdateMe sends a partial profile. The returned user is nil when the backend
// only acknowledged the change.
func (c *Client) UpdateMe(ctx context.Context, token string, partial map[string]any) (*domain.User, error) {
	var out struct {
		User    *domain.User `json:"user"`
		Message string       `json:"message"`
	}
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   PathMe,
		token:  token,
		body:   partial,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) ChangePassword(ctx context.Context, token, current, next string) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   PathPassword,
		token:  token,
		body: map[string]string{
			"current_password": current,
			"new_password":     next,
		},
	}, nil)
}
