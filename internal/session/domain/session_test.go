package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserAdmin(t *testing.T) {
	assert.True(t, User{IsAdmin: true}.Admin())
	assert.True(t, User{Role: " Admin "}.Admin())
	assert.False(t, User{Role: "member"}.Admin())
}

func TestSessionDerived(t *testing.T) {
	admin := &User{ID: 1, IsAdmin: true}

	assert.False(t, Session{}.IsAuthenticated())
	assert.False(t, Session{Token: "abc"}.IsAuthenticated())
	assert.False(t, Session{User: admin}.IsAuthenticated())
	assert.True(t, Session{Token: "abc", User: admin}.IsAuthenticated())
	assert.True(t, Session{Token: "abc", User: admin}.IsAdmin())
	assert.False(t, Session{Token: "abc", User: &User{ID: 2}}.IsAdmin())
}

func TestUserMerge(t *testing.T) {
	u := User{ID: 3, Username: "alice", Email: "old@example.com", CustomFields: map[string]any{"city": "Hangzhou"}}

	got, err := u.Merge(map[string]any{"email": "new@example.com", "nickname": "Al", "unknown": 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "new@example.com", got.Email)
	assert.Equal(t, "Al", got.Nickname)
	assert.Equal(t, "Hangzhou", got.CustomFields["city"])

	_, err = u.Merge(map[string]any{"id": "not-a-number"})
	assert.Error(t, err)
}

func TestUserCloneDetachesCustomFields(t *testing.T) {
	u := User{CustomFields: map[string]any{"k": "v"}}
	c := u.Clone()
	c.CustomFields["k"] = "changed"
	assert.Equal(t, "v", u.CustomFields["k"])
}

func TestCredentialsIdentifier(t *testing.T) {
	assert.Equal(t, "alice", Credentials{Username: " alice ", Login: "a@example.com"}.Identifier())
	assert.Equal(t, "a@example.com", Credentials{Login: "a@example.com"}.Identifier())
	assert.Empty(t, Credentials{}.Identifier())
}

func TestRegistrationLoginIdentifier(t *testing.T) {
	assert.Equal(t, "13800000000", Registration{Username: "bob", Phone: "13800000000"}.LoginIdentifier())
	assert.Equal(t, "bob", Registration{Username: "bob"}.LoginIdentifier())
}

func TestRegistrationPayload(t *testing.T) {
	r := Registration{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "secret",
		Extra:    map[string]any{"username": "shadowed", "invite_code": "HONEY"},
	}
	p := r.Payload()
	assert.Equal(t, "bob", p["username"])
	assert.Equal(t, "HONEY", p["invite_code"])
	assert.Equal(t, "secret", p["password"])
	assert.NotContains(t, p, "phone")
}
