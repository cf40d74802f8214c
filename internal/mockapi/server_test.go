package mockapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	session "github.com/dwikikusuma/honey-storefront/internal/session/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	s := New(opts...)
	s.Seed()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func call(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestLogin(t *testing.T) {
	_, ts := newTestServer(t)

	t.Run("by username", func(t *testing.T) {
		resp, body := call(t, http.MethodPost, ts.URL+"/api/login", "", map[string]string{"login": "alice", "password": "secret123"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, body["access_token"])
	})

	t.Run("by phone", func(t *testing.T) {
		resp, _ := call(t, http.MethodPost, ts.URL+"/api/login", "", map[string]string{"login": "13800000001", "password": "secret123"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, body := call(t, http.MethodPost, ts.URL+"/api/login", "", map[string]string{"login": "alice", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "invalid login credentials", body["error"])
	})

	t.Run("missing fields", func(t *testing.T) {
		resp, _ := call(t, http.MethodPost, ts.URL+"/api/login", "", map[string]string{"login": "alice"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRegister(t *testing.T) {
	_, ts := newTestServer(t)

	resp, body := call(t, http.MethodPost, ts.URL+"/api/register", "", map[string]string{"username": "bob", "password": "hunter22"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotContains(t, body, "access_token")

	resp, body = call(t, http.MethodPost, ts.URL+"/api/register", "", map[string]string{"username": "bob", "password": "hunter22"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_EXISTS", body["code"])
}

func TestRegisterIssuesToken(t *testing.T) {
	_, ts := newTestServer(t, WithTokenOnRegister())

	resp, body := call(t, http.MethodPost, ts.URL+"/api/register", "", map[string]string{"username": "carol", "password": "hunter22"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)

	resp, body = call(t, http.MethodGet, ts.URL+"/api/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "carol", body["username"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s, ts := newTestServer(t)

	resp, body := call(t, http.MethodGet, ts.URL+"/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Missing Authorization Header", body["msg"])

	token := s.IssueToken(1)
	resp, _ = call(t, http.MethodGet, ts.URL+"/api/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	s.RevokeToken(token)
	resp, _ = call(t, http.MethodGet, ts.URL+"/api/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMeDetails(t *testing.T) {
	s, ts := newTestServer(t)
	alice := s.SeedUser(session.User{Username: "alice2", Points: 40, MemberLevel: "gold", CustomFields: map[string]any{"favourite": "acacia"}}, "secret123")
	token := s.IssueToken(alice.ID)

	_, plain := call(t, http.MethodGet, ts.URL+"/api/me", token, nil)
	assert.NotContains(t, plain, "points")
	assert.NotContains(t, plain, "custom_fields")

	_, full := call(t, http.MethodGet, ts.URL+"/api/me?include_details=true&include_custom_fields=true", token, nil)
	assert.EqualValues(t, 40, full["points"])
	assert.Equal(t, "gold", full["member_level"])
	assert.Equal(t, map[string]any{"favourite": "acacia"}, full["custom_fields"])
}

func TestUpdateMe(t *testing.T) {
	s, ts := newTestServer(t, WithUserEcho())
	token := s.IssueToken(2)

	resp, body := call(t, http.MethodPut, ts.URL+"/api/me", token, map[string]any{"nickname": "Ally", "is_admin": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ally", user["nickname"])
	assert.Equal(t, false, user["is_admin"])
}

func TestChangePassword(t *testing.T) {
	s, ts := newTestServer(t)
	token := s.IssueToken(2)

	resp, _ := call(t, http.MethodPut, ts.URL+"/api/me/password", token, map[string]string{"current_password": "wrong1", "new_password": "newpass1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, http.MethodPut, ts.URL+"/api/me/password", token, map[string]string{"current_password": "secret123", "new_password": "newpass1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, http.MethodPost, ts.URL+"/api/login", "", map[string]string{"login": "alice", "password": "newpass1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPagination(t *testing.T) {
	s, ts := newTestServer(t)
	token := s.IssueToken(2)

	_, body := call(t, http.MethodGet, ts.URL+"/api/points-records?page=2&per_page=1", token, nil)
	assert.EqualValues(t, 2, body["total"])
	assert.EqualValues(t, 2, body["pages"])
	assert.EqualValues(t, 2, body["page"])
	items, _ := body["items"].([]any)
	require.Len(t, items, 1)
	assert.EqualValues(t, 1, items[0].(map[string]any)["id"])

	_, body = call(t, http.MethodGet, ts.URL+"/api/coupons?page=5", token, nil)
	assert.Empty(t, body["items"])
}

func TestProducts(t *testing.T) {
	s, ts := newTestServer(t)

	_, body := call(t, http.MethodGet, ts.URL+"/api/products?featured=true", "", nil)
	products, _ := body["products"].([]any)
	assert.Len(t, products, 2)

	s.SetStock(7, 1)
	resp, body := call(t, http.MethodGet, ts.URL+"/api/products/7", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := body["product"].(map[string]any)
	assert.EqualValues(t, 1, p["available_stock"])
	assert.EqualValues(t, 39.9, p["price"])

	resp, _ = call(t, http.MethodGet, ts.URL+"/api/products/404", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFailAndCalls(t *testing.T) {
	s, ts := newTestServer(t)
	s.Fail(http.MethodGet, "/api/products", http.StatusServiceUnavailable, 1)

	resp, _ := call(t, http.MethodGet, ts.URL+"/api/products", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp, _ = call(t, http.MethodGet, ts.URL+"/api/products", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Len(t, s.CallsTo("/api/products"), 2)
}

func TestHold(t *testing.T) {
	s, ts := newTestServer(t)
	entered, release := s.Hold(http.MethodGet, "/api/products/1")

	done := make(chan int, 1)
	go func() {
		resp, err := http.Get(ts.URL + "/api/products/1")
		if err != nil {
			done <- 0
			return
		}
		resp.Body.Close()
		done <- resp.StatusCode
	}()

	<-entered
	select {
	case <-done:
		t.Fatal("request finished before release")
	default:
	}
	release()
	assert.Equal(t, http.StatusOK, <-done)
}
