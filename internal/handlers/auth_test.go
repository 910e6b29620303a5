package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nosaterra/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "ana@example.com",
		"password": "segredo1",
		"name":     "Ana",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	registered := decodeBody[AuthResponse](t, rec)
	assert.NotEmpty(t, registered.AccessToken)
	assert.Equal(t, "bearer", registered.TokenType)
	assert.Equal(t, "ana@example.com", registered.User.Email)
	assert.Equal(t, types.RoleMember, registered.User.Role)
	assert.Empty(t, registered.User.PasswordHash)

	rec = env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "segredo1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	logged := decodeBody[AuthResponse](t, rec)
	assert.Equal(t, registered.User.ID, logged.User.ID)

	rec = env.request(t, http.MethodGet, "/api/auth/me", logged.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	me := decodeBody[types.User](t, rec)
	assert.Equal(t, registered.User.ID, me.ID)
	assert.Equal(t, "Ana", me.Name)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ana@example.com", "Ana")

	rec := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "ana@example.com",
		"password": "outro123",
		"name":     "Outra Ana",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", decodeBody[DetailResponse](t, rec).Detail)
}

func TestRegisterIgnoresClientRole(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "mallory@example.com",
		"password": "segredo1",
		"name":     "Mallory",
		"role":     types.RoleAdmin,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.RoleMember, decodeBody[AuthResponse](t, rec).User.Role)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"password": "segredo1", "name": "Ana"}},
		{"bad email", map[string]string{"email": "not-an-email", "password": "segredo1", "name": "Ana"}},
		{"missing password", map[string]string{"email": "ana@example.com", "name": "Ana"}},
		{"missing name", map[string]string{"email": "ana@example.com", "password": "segredo1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.request(t, http.MethodPost, "/api/auth/register", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ana@example.com", "Ana")

	wrongPassword := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "errada99",
	})
	unknownEmail := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ninguem@example.com",
		"password": "qualquer1",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, "Invalid email or password", decodeBody[DetailResponse](t, wrongPassword).Detail)
	assert.Equal(t, "Invalid email or password", decodeBody[DetailResponse](t, unknownEmail).Detail)
}

func TestMeWithoutToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", decodeBody[DetailResponse](t, rec).Detail)
}

func TestMeWithExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	_, user := env.register(t, "ana@example.com", "Ana")

	expired := signTestToken(t, testSecret, user.ID, -time.Minute)

	rec := env.request(t, http.MethodGet, "/api/auth/me", expired, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token expired", decodeBody[DetailResponse](t, rec).Detail)
}

func TestMeWithForeignSignature(t *testing.T) {
	env := newTestEnv(t)
	_, user := env.register(t, "ana@example.com", "Ana")

	forged := signTestToken(t, "some-other-secret", user.ID, time.Hour)

	rec := env.request(t, http.MethodGet, "/api/auth/me", forged, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", decodeBody[DetailResponse](t, rec).Detail)
}

func TestMeAfterAccountDeleted(t *testing.T) {
	env := newTestEnv(t)
	token, user := env.register(t, "ana@example.com", "Ana")

	require.NoError(t, env.users.Delete(context.Background(), user.ID))

	rec := env.request(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not found", decodeBody[DetailResponse](t, rec).Detail)
}

func signTestToken(t *testing.T, secret, subject string, ttl time.Duration) string {
	t.Helper()

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}
