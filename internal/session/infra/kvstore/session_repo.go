// Package kvstore persists the session in the local key/value store: the
// token and the profile each live under their own key as a JSON value.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/dwikikusuma/honey-storefront/internal/session/domain"
	"github.com/dwikikusuma/honey-storefront/pkg/kv"
)

const (
	DefaultTokenKey = "authToken"
	DefaultUserKey  = "authUser"
)

type SessionRepo struct {
	store    kv.Store
	tokenKey string
	userKey  string
	log      *slog.Logger
}

func NewSessionRepo(store kv.Store, tokenKey, userKey string, log *slog.Logger) *SessionRepo {
	if tokenKey == "" {
		tokenKey = DefaultTokenKey
	}
	if userKey == "" {
		userKey = DefaultUserKey
	}
	if log == nil {
		log = slog.Default()
	}
	return &SessionRepo{store: store, tokenKey: tokenKey, userKey: userKey, log: log}
}

// Load returns whatever survives of the persisted session. Values that do not
// decode are deleted and read as absent.
func (r *SessionRepo) Load(ctx context.Context) (string, *domain.User, error) {
	var token string
	found, err := r.read(ctx, r.tokenKey, &token)
	if err != nil {
		return "", nil, err
	}
	if !found {
		token = ""
	}

	var user domain.User
	found, err = r.read(ctx, r.userKey, &user)
	if err != nil {
		return token, nil, err
	}
	if !found {
		return token, nil, nil
	}
	return token, &user, nil
}

func (r *SessionRepo) SaveToken(ctx context.Context, token string) error {
	return r.write(ctx, r.tokenKey, token)
}

func (r *SessionRepo) SaveUser(ctx context.Context, user domain.User) error {
	return r.write(ctx, r.userKey, user)
}

func (r *SessionRepo) Clear(ctx context.Context) error {
	return errors.Join(
		r.store.Delete(ctx, r.tokenKey),
		r.store.Delete(ctx, r.userKey),
	)
}

func (r *SessionRepo) read(ctx context.Context, key string, v any) (bool, error) {
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil || string(raw) == "null" {
		r.log.Warn("discarding unreadable session value", slog.String("key", key), slog.Any("err", err))
		if derr := r.store.Delete(ctx, key); derr != nil {
			return false, derr
		}
		return false, nil
	}
	return true, nil
}

func (r *SessionRepo) write(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, key, raw)
}
