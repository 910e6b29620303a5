package handlers

import (
	"net/http"
	"testing"

	"github.com/nosaterra/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfilePartial(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "ana@example.com", "Ana")

	rec := env.request(t, http.MethodPut, "/api/users/profile", token, map[string]string{
		"bio":      "Community gardener",
		"location": "Porto",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decodeBody[types.User](t, rec)
	assert.Equal(t, "Community gardener", updated.Bio)
	assert.Equal(t, "Porto", updated.Location)
	// Absent fields stay untouched.
	assert.Equal(t, "Ana", updated.Name)
	assert.Empty(t, updated.Phone)
}

func TestUpdateProfileEmptyBodyIsNoop(t *testing.T) {
	env := newTestEnv(t)
	token, user := env.register(t, "ana@example.com", "Ana")

	rec := env.request(t, http.MethodPut, "/api/users/profile", token, map[string]string{})
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decodeBody[types.User](t, rec)
	assert.Equal(t, user.ID, updated.ID)
	assert.Equal(t, "Ana", updated.Name)
}

func TestGetUser(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "ana@example.com", "Ana")
	_, other := env.register(t, "bruno@example.com", "Bruno")

	rec := env.request(t, http.MethodGet, "/api/users/"+other.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[types.User](t, rec)
	assert.Equal(t, other.ID, got.ID)
	assert.Equal(t, "Bruno", got.Name)
	assert.Empty(t, got.PasswordHash)
}

func TestGetUserNotFound(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "ana@example.com", "Ana")

	rec := env.request(t, http.MethodGet, "/api/users/no-such-user", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decodeBody[DetailResponse](t, rec).Detail)
}
