package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

type User struct {
	ID           int64          `json:"id"`
	Username     string         `json:"username"`
	Email        string         `json:"email,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	Nickname     string         `json:"nickname,omitempty"`
	Avatar       string         `json:"avatar,omitempty"`
	Role         string         `json:"role,omitempty"`
	IsAdmin      bool           `json:"is_admin"`
	Points       int64          `json:"points,omitempty"`
	MemberLevel  string         `json:"member_level,omitempty"`
	CreatedAt    string         `json:"created_at,omitempty"`
	CustomFields map[string]any `json:"custom_fields,omitempty"`
}

// Admin reports whether the profile carries administrative privilege, either
// through the boolean flag or a role name.
func (u User) Admin() bool {
	return u.IsAdmin || strings.EqualFold(strings.TrimSpace(u.Role), "admin")
}

func (u User) Clone() User {
	if u.CustomFields != nil {
		cf := make(map[string]any, len(u.CustomFields))
		for k, v := range u.CustomFields {
			cf[k] = v
		}
		u.CustomFields = cf
	}
	return u
}

// Merge shallow-merges partial (JSON field names) over u.
func (u User) Merge(partial map[string]any) (User, error) {
	base, err := json.Marshal(u)
	if err != nil {
		return User{}, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return User{}, err
	}
	for k, v := range partial {
		fields[k] = v
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return User{}, err
	}
	var out User
	if err := json.Unmarshal(merged, &out); err != nil {
		return User{}, fmt.Errorf("merge profile: %w", err)
	}
	return out, nil
}

// Session is a read-only snapshot handed to readers. User is nil whenever
// Token is empty.
type Session struct {
	Token string
	User  *User
}

func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

func (s Session) IsAdmin() bool {
	return s.User != nil && s.User.Admin()
}

type Credentials struct {
	Username string `json:"username,omitempty"`
	Login    string `json:"login,omitempty"`
	Password string `json:"password"`
}

// Identifier prefers the username form and falls back to the generic login.
func (c Credentials) Identifier() string {
	if v := strings.TrimSpace(c.Username); v != "" {
		return v
	}
	return strings.TrimSpace(c.Login)
}

type Registration struct {
	Username string         `json:"username,omitempty"`
	Email    string         `json:"email,omitempty"`
	Phone    string         `json:"phone,omitempty"`
	Nickname string         `json:"nickname,omitempty"`
	Password string         `json:"password"`
	Extra    map[string]any `json:"-"`
}

// LoginIdentifier picks the identifier used for the automatic login after
// sign-up: a phone number wins over a username.
func (r Registration) LoginIdentifier() string {
	if v := strings.TrimSpace(r.Phone); v != "" {
		return v
	}
	return strings.TrimSpace(r.Username)
}

// Payload flattens the registration and its extra profile fields into one
// JSON object body. Named fields win over Extra on collision.
func (r Registration) Payload() map[string]any {
	out := make(map[string]any, len(r.Extra)+5)
	for k, v := range r.Extra {
		out[k] = v
	}
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	set("username", r.Username)
	set("email", r.Email)
	set("phone", r.Phone)
	set("nickname", r.Nickname)
	out["password"] = r.Password
	return out
}
