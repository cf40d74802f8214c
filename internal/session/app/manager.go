package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dwikikusuma/honey-storefront/internal/apperr"
	"github.com/dwikikusuma/honey-storefront/internal/notify"
	"github.com/dwikikusuma/honey-storefront/internal/session/domain"
	"github.com/dwikikusuma/honey-storefront/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	notifySource = "session"
	clearTimeout = 5 * time.Second
)

// Manager owns the authentication state of one storefront client. It is
// safe for concurrent use; the lock is never held across a remote call.
type Manager struct {
	api    IdentityAPI
	repo   SessionRepo
	log    *slog.Logger
	notify notify.Notifier
	tracer trace.Tracer

	mu    sync.RWMutex
	token string
	user  *domain.User
	// gen changes whenever the token is installed or cleared. Remote results
	// obtained under an older generation are dropped.
	gen uint64
}

type Option func(*Manager)

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

func WithNotifier(n notify.Notifier) Option {
	return func(m *Manager) { m.notify = n }
}

func NewManager(api IdentityAPI, repo SessionRepo, opts ...Option) *Manager {
	m := &Manager{
		api:    api,
		repo:   repo,
		log:    slog.Default(),
		tracer: telemetry.Tracer("storefront/session"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize restores a persisted session. Remote failures are logged and
// never returned, so callers can always proceed.
func (m *Manager) Initialize(ctx context.Context) {
	ctx, span := m.tracer.Start(ctx, "session.Initialize")
	defer span.End()

	token, user, err := m.repo.Load(ctx)
	if err != nil {
		m.storageFailed(ctx, "load session", err)
	}
	if token == "" {
		m.Logout(ctx)
		return
	}

	m.mu.Lock()
	m.token = token
	m.user = user
	m.gen++
	m.mu.Unlock()

	if user == nil {
		m.FetchUser(ctx)
	}
}

// Login exchanges credentials for a token, then loads the profile. A profile
// fetch failure after a successful exchange still counts as success: the
// token stays and the session is unauthenticated until a later FetchUser.
// Every other failure clears the session before it is returned.
func (m *Manager) Login(ctx context.Context, creds domain.Credentials) (err error) {
	ctx, span := m.tracer.Start(ctx, "session.Login")
	defer func() { endSpan(span, err) }()

	defer func() {
		if err != nil {
			m.Logout(ctx)
		}
	}()

	login := creds.Identifier()
	if login == "" || creds.Password == "" {
		return apperr.Validation("session.Login", "login and password are required")
	}

	res, err := m.api.Login(ctx, login, creds.Password)
	if err != nil {
		m.log.Warn("login failed", slog.String("login", login), slog.Any("err", err))
		return err
	}
	if strings.TrimSpace(res.AccessToken) == "" {
		return apperr.Protocol("session.Login", "login response has no access token")
	}

	m.install(ctx, res.AccessToken)
	m.FetchUser(ctx)

	if m.Token() == "" {
		return apperr.New("session.Login", apperr.ErrAuthRejected, "token rejected while loading the profile", nil)
	}
	if !m.IsAuthenticated() {
		m.log.Warn("logged in without a user profile", slog.String("login", login))
	}
	return nil
}

// Register creates an account. A token in the response is used directly, and
// a rejection while loading the profile fails the call as it does for Login.
// Without a token it signs in with the new credentials.
func (m *Manager) Register(ctx context.Context, reg domain.Registration) (err error) {
	ctx, span := m.tracer.Start(ctx, "session.Register")
	defer func() { endSpan(span, err) }()

	res, err := m.api.Register(ctx, reg.Payload())
	if err != nil {
		m.log.Warn("registration failed", slog.String("username", reg.Username), slog.Any("err", err))
		return err
	}

	if token := strings.TrimSpace(res.AccessToken); token != "" {
		m.install(ctx, token)
		m.FetchUser(ctx)
		if m.Token() == "" {
			m.Logout(ctx)
			return apperr.New("session.Register", apperr.ErrAuthRejected, "token rejected while loading the profile", nil)
		}
		return nil
	}

	return m.Login(ctx, domain.Credentials{Login: reg.LoginIdentifier(), Password: reg.Password})
}

// FetchUser refreshes the cached profile. It is a no-op without a token. A
// credential rejection logs the session out; other failures leave the
// session as it was.
func (m *Manager) FetchUser(ctx context.Context) {
	ctx, span := m.tracer.Start(ctx, "session.FetchUser")
	defer span.End()

	token, gen := m.current()
	if token == "" {
		return
	}

	var user domain.User
	err := m.authorized(ctx, token, gen, func(ctx context.Context, token string) error {
		var err error
		user, err = m.api.Me(ctx, token, true)
		return err
	})
	if err != nil {
		m.log.Warn("fetch user failed", slog.Any("err", err))
		span.RecordError(err)
		return
	}

	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		m.log.Debug("dropping stale profile", slog.Int64("user_id", user.ID))
		return
	}
	u := user.Clone()
	m.user = &u
	m.mu.Unlock()

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	if err := m.repo.SaveUser(ctx, user); err != nil {
		m.storageFailed(ctx, "save user", err)
	}
}

// Logout clears the session in memory and in the store. It always succeeds.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.gen++
	m.mu.Unlock()

	// The caller may be logging out because its own context expired.
	clearCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), clearTimeout)
	defer cancel()
	if err := m.repo.Clear(clearCtx); err != nil {
		m.storageFailed(ctx, "clear session", err)
	}
}

// UpdateProfile sends partial profile fields. It returns false without
// calling out when nobody is signed in.
func (m *Manager) UpdateProfile(ctx context.Context, partial map[string]any) (ok bool, err error) {
	ctx, span := m.tracer.Start(ctx, "session.UpdateProfile")
	defer func() { endSpan(span, err) }()

	if !m.IsAuthenticated() {
		return false, nil
	}
	token, gen := m.current()

	var updated *domain.User
	err = m.authorized(ctx, token, gen, func(ctx context.Context, token string) error {
		var err error
		updated, err = m.api.UpdateMe(ctx, token, partial)
		return err
	})
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	if m.gen != gen || m.user == nil {
		m.mu.Unlock()
		return false, nil
	}
	var next domain.User
	if updated != nil {
		next = updated.Clone()
	} else {
		next, err = m.user.Merge(partial)
		if err != nil {
			m.mu.Unlock()
			return false, apperr.New("session.UpdateProfile", apperr.ErrValidation, "profile fields do not fit the user record", err)
		}
	}
	m.user = &next
	m.mu.Unlock()

	if err := m.repo.SaveUser(ctx, next); err != nil {
		m.storageFailed(ctx, "save user", err)
	}
	return true, nil
}

// ChangePassword returns false without calling out when nobody is signed in.
// The cached token is kept after a successful change.
func (m *Manager) ChangePassword(ctx context.Context, current, next string) (ok bool, err error) {
	ctx, span := m.tracer.Start(ctx, "session.ChangePassword")
	defer func() { endSpan(span, err) }()

	if !m.IsAuthenticated() {
		return false, nil
	}
	token, gen := m.current()

	err = m.authorized(ctx, token, gen, func(ctx context.Context, token string) error {
		return m.api.ChangePassword(ctx, token, current, next)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *Manager) Snapshot() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := domain.Session{Token: m.token}
	if m.user != nil {
		u := m.user.Clone()
		s.User = &u
	}
	return s
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != "" && m.user != nil
}

func (m *Manager) IsAdmin() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil && m.user.Admin()
}

func (m *Manager) current() (string, uint64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.gen
}

// install makes token the session credential and persists it.
func (m *Manager) install(ctx context.Context, token string) {
	m.mu.Lock()
	m.token = token
	m.user = nil
	m.gen++
	m.mu.Unlock()

	if err := m.repo.SaveToken(ctx, token); err != nil {
		m.storageFailed(ctx, "save token", err)
	}
}

// authorized runs an authenticated remote call. A credential rejection logs
// the session out, unless the session has already moved to another token,
// and the original error is still returned.
func (m *Manager) authorized(ctx context.Context, token string, gen uint64, call func(ctx context.Context, token string) error) error {
	err := call(ctx, token)
	if err == nil || !errors.Is(err, apperr.ErrAuthRejected) {
		return err
	}

	m.mu.RLock()
	stale := m.gen != gen
	m.mu.RUnlock()
	if stale {
		return err
	}

	m.log.Warn("credentials rejected, logging out", slog.Any("err", err))
	m.Logout(ctx)
	return err
}

func (m *Manager) storageFailed(ctx context.Context, what string, err error) {
	err = apperr.Storage("session."+what, err)
	m.log.Error("session storage failed", slog.String("op", what), slog.Any("err", err))
	notify.Warn(ctx, m.notify, notifySource, "Could not "+what+" locally; your sign-in may not survive a restart.")
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperr.Message(err))
	}
	span.End()
}
