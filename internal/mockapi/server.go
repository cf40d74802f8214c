// Package mockapi is an in-memory stand-in for the storefront REST backend.
// Tests and local development run the Remote API Client against it; it keeps
// just enough state (users, tokens, products, account records) to answer the
// endpoints the client consumes, plus hooks to inject failures.
package mockapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	catalog "github.com/dwikikusuma/honey-storefront/internal/catalog/domain"
	session "github.com/dwikikusuma/honey-storefront/internal/session/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

type account struct {
	user      session.User
	password  string
	points    []session.PointsRecord
	coupons   []session.Coupon
	addresses []session.Address
}

// Call is one request seen by the server.
type Call struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	RequestID     string
}

type failure struct {
	status    int
	remaining int
}

type gate struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

type Server struct {
	mu       sync.Mutex
	accounts map[int64]*account
	tokens   map[string]int64
	products map[int64]catalog.Product
	nextID   int64

	tokenOnRegister bool
	echoUser        bool

	failures map[string]*failure
	gates    map[string]*gate
	calls    []Call

	log *slog.Logger
}

type Option func(*Server)

// WithTokenOnRegister makes /api/register answer with an access token.
func WithTokenOnRegister() Option {
	return func(s *Server) { s.tokenOnRegister = true }
}

// WithUserEcho makes PUT /api/me answer with the updated user record instead
// of a bare acknowledgement.
func WithUserEcho() Option {
	return func(s *Server) { s.echoUser = true }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

func New(opts ...Option) *Server {
	s := &Server{
		accounts: make(map[int64]*account),
		tokens:   make(map[string]int64),
		products: make(map[int64]catalog.Product),
		failures: make(map[string]*failure),
		gates:    make(map[string]*gate),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(s.record)
	r.Use(s.inject)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.handle(s.login))
		r.Post("/register", s.handle(s.register))

		r.Get("/products", s.handle(s.listProducts))
		r.Get("/products/{id}", s.handle(s.getProduct))

		r.Group(func(r chi.Router) {
			r.Use(s.requireToken)
			r.Get("/me", s.handle(s.me))
			r.Put("/me", s.handle(s.updateMe))
			r.Put("/me/password", s.handle(s.changePassword))
			r.Get("/me/addresses", s.handle(s.addresses))
			r.Get("/points-records", s.handle(s.pointsRecords))
			r.Get("/coupons", s.handle(s.coupons))
		})
	})

	return r
}

// SeedUser stores an account and returns its profile.
func (s *Server) SeedUser(u session.User, password string) session.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	u.ID = s.nextID
	if u.CreatedAt == "" {
		u.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	s.accounts[u.ID] = &account{user: u, password: password}
	return u
}

func (s *Server) SeedPoints(userID int64, records ...session.PointsRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[userID]; ok {
		a.points = append(a.points, records...)
	}
}

func (s *Server) SeedCoupons(userID int64, coupons ...session.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[userID]; ok {
		a.coupons = append(a.coupons, coupons...)
	}
}

func (s *Server) SeedAddresses(userID int64, addrs ...session.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[userID]; ok {
		a.addresses = append(a.addresses, addrs...)
	}
}

func (s *Server) SeedProduct(p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// SetStock changes the available stock of a seeded product.
func (s *Server) SetStock(productID int64, available int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[productID]; ok {
		p.AvailableStock = available
		s.products[productID] = p
	}
}

// IssueToken signs userID in without a password exchange.
func (s *Server) IssueToken(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(userID)
}

// RevokeToken makes every later request bearing token answer 401.
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// Fail answers the next times requests to method+path with status.
func (s *Server) Fail(method, path string, status, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = &failure{status: status, remaining: times}
}

// Hold parks the next request to method+path until release is called.
// entered is closed once that request has arrived.
func (s *Server) Hold(method, path string) (entered <-chan struct{}, release func()) {
	g := &gate{entered: make(chan struct{}), release: make(chan struct{})}
	s.mu.Lock()
	s.gates[method+" "+path] = g
	s.mu.Unlock()
	return g.entered, func() { g.once.Do(func() { close(g.release) }) }
}

func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsTo filters Calls by path.
func (s *Server) CallsTo(path string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) issueLocked(userID int64) string {
	token := uuid.NewString()
	s.tokens[token] = userID
	return token
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method:        r.Method,
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		s.mu.Lock()
		g := s.gates[key]
		delete(s.gates, key)
		status := 0
		if f, ok := s.failures[key]; ok && f.remaining > 0 {
			f.remaining--
			status = f.status
		}
		s.mu.Unlock()

		if g != nil {
			close(g.entered)
			select {
			case <-g.release:
			case <-r.Context().Done():
				return
			}
		}

		if status != 0 {
			s.log.Debug("mockapi injected failure", slog.String("route", key), slog.Int("status", status))
			writeJSON(w, status, map[string]string{"error": fmt.Sprintf("injected failure (%d)", status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sortedByID[T any](items []T, id func(T) int64) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
