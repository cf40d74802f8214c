package mockapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/dwikikusuma/honey-storefront/internal/apperr"
	catalog "github.com/dwikikusuma/honey-storefront/internal/catalog/domain"
	session "github.com/dwikikusuma/honey-storefront/internal/session/domain"
	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ctxKey struct{}

func userIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(ctxKey{}).(int64)
	return id
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		httpStatus, code, msg := apperr.HTTPStatus(err)
		writeJSON(w, httpStatus, map[string]string{"error": msg, "code": code})
	}
}

// requireToken mimics the backend's JWT layer, which answers {"msg": ...}.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Missing Authorization Header"})
			return
		}

		s.mu.Lock()
		id, known := s.tokens[token]
		_, exists := s.accounts[id]
		s.mu.Unlock()
		if !known || !exists {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Token has expired"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("decode", "invalid JSON body")
	}
	return nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Login    string `json:"login"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		return err
	}
	login := req.Login
	if login == "" {
		login = req.Username
	}
	if login == "" || req.Password == "" {
		return apperr.Validation("login", "login and password are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if !matchesLogin(a.user, login) {
			continue
		}
		if a.password != req.Password {
			break
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_token": s.issueLocked(a.user.ID)})
		return nil
	}
	return apperr.New("login", apperr.ErrAuthRejected, "invalid login credentials", nil)
}

func matchesLogin(u session.User, login string) bool {
	login = normalize(login)
	return login == normalize(u.Username) ||
		(u.Email != "" && login == normalize(u.Email)) ||
		(u.Phone != "" && login == normalize(u.Phone))
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) error {
	var req map[string]any
	if err := decode(r, &req); err != nil {
		return err
	}
	str := func(k string) string {
		v, _ := req[k].(string)
		return strings.TrimSpace(v)
	}
	username, password := str("username"), str("password")
	if username == "" || password == "" {
		return apperr.Validation("register", "username and password are required")
	}
	if len(password) < 6 {
		return apperr.Validation("register", "password must be at least 6 characters")
	}

	u := session.User{
		Username: username,
		Email:    str("email"),
		Phone:    str("phone"),
		Nickname: str("nickname"),
		Role:     "user",
	}

	s.mu.Lock()
	for _, a := range s.accounts {
		if matchesLogin(a.user, username) ||
			(u.Email != "" && matchesLogin(a.user, u.Email)) ||
			(u.Phone != "" && matchesLogin(a.user, u.Phone)) {
			s.mu.Unlock()
			return status.Error(codes.AlreadyExists, "username, email or phone already registered")
		}
	}
	s.mu.Unlock()

	u = s.SeedUser(u, password)
	body := map[string]any{"message": "registration successful", "user_id": u.ID}
	if s.tokenOnRegister {
		body["access_token"] = s.IssueToken(u.ID)
	}
	writeJSON(w, http.StatusCreated, body)
	return nil
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) error {
	details := r.URL.Query().Get("include_details") == "true"
	custom := r.URL.Query().Get("include_custom_fields") == "true"

	s.mu.Lock()
	a := s.accounts[userIDFrom(r.Context())]
	u := a.user.Clone()
	s.mu.Unlock()

	if !details {
		u.Points = 0
		u.MemberLevel = ""
	}
	if !custom {
		u.CustomFields = nil
	}
	writeJSON(w, http.StatusOK, u)
	return nil
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) error {
	var partial map[string]any
	if err := decode(r, &partial); err != nil {
		return err
	}
	for _, k := range []string{"id", "username", "role", "is_admin", "points"} {
		delete(partial, k)
	}

	s.mu.Lock()
	a := s.accounts[userIDFrom(r.Context())]
	merged, err := a.user.Merge(partial)
	if err == nil {
		a.user = merged
	}
	s.mu.Unlock()
	if err != nil {
		return apperr.Validation("update profile", "invalid profile fields")
	}

	if s.echoUser {
		writeJSON(w, http.StatusOK, map[string]any{"message": "profile updated", "user": merged})
		return nil
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "profile updated"})
	return nil
}

// changePassword answers a wrong current password with 400 so the client
// keeps its session.
func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Current string `json:"current_password"`
		Next    string `json:"new_password"`
	}
	if err := decode(r, &req); err != nil {
		return err
	}
	if req.Current == "" || req.Next == "" {
		return apperr.Validation("change password", "current_password and new_password are required")
	}
	if len(req.Next) < 6 {
		return apperr.Validation("change password", "new password must be at least 6 characters")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[userIDFrom(r.Context())]
	if a.password != req.Current {
		return apperr.Validation("change password", "current password is incorrect")
	}
	a.password = req.Next
	writeJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
	return nil
}

func (s *Server) addresses(w http.ResponseWriter, r *http.Request) error {
	s.mu.Lock()
	a := s.accounts[userIDFrom(r.Context())]
	out := sortedByID(a.addresses, func(x session.Address) int64 { return x.ID })
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"addresses": out})
	return nil
}

func (s *Server) pointsRecords(w http.ResponseWriter, r *http.Request) error {
	s.mu.Lock()
	a := s.accounts[userIDFrom(r.Context())]
	all := sortedByID(a.points, func(x session.PointsRecord) int64 { return -x.ID })
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, paginate(r, all))
	return nil
}

func (s *Server) coupons(w http.ResponseWriter, r *http.Request) error {
	s.mu.Lock()
	a := s.accounts[userIDFrom(r.Context())]
	all := sortedByID(a.coupons, func(x session.Coupon) int64 { return x.ID })
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, paginate(r, all))
	return nil
}

func paginate[T any](r *http.Request, all []T) session.Page[T] {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}

	start := (page - 1) * perPage
	if start > len(all) {
		start = len(all)
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}

	pages := (len(all) + perPage - 1) / perPage
	items := append([]T{}, all[start:end]...)
	return session.Page[T]{Items: items, Total: len(all), Page: page, PerPage: perPage, Pages: pages}
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) error {
	category := r.URL.Query().Get("category")
	featured := r.URL.Query().Get("featured") == "true"

	s.mu.Lock()
	out := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && !strings.EqualFold(p.CategoryName, category) && strconv.FormatInt(p.CategoryID, 10) != category {
			continue
		}
		if featured && !p.IsFeatured {
			continue
		}
		out = append(out, p)
	}
	s.mu.Unlock()

	out = sortedByID(out, func(p catalog.Product) int64 { return p.ID })
	writeJSON(w, http.StatusOK, map[string]any{"products": out})
	return nil
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return apperr.Validation("get product", "invalid product id")
	}

	s.mu.Lock()
	p, ok := s.products[id]
	s.mu.Unlock()
	if !ok {
		return apperr.NotFound("get product", "product %d not found", id)
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": p})
	return nil
}
