package handlers_test

import (
	"net/http"
	"testing"

	"github.com/BseoY/120EastState3/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRedirectsToProvider(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/auth/login?returnTo=/dashboard", "", nil, "")
	assert.Equal(t, http.StatusFound, w.Code)

	location := w.Header().Get("Location")
	assert.Contains(t, location, "accounts.google.com")
	assert.Contains(t, location, "state=%2Fdashboard")
	assert.Contains(t, location, "prompt=select_account")
}

func TestCallbackWithoutCode(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/auth/login/callback", "", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization code not provided")
}

func TestLogoutIsStateless(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/logout", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logged out")
}

func TestCurrentUserEndpoint(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser("sub-me", "me@example.com", models.RoleUser)

	w := env.do(http.MethodGet, "/api/auth/user", env.tokenFor(user), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeJSON(t, w)
	assert.Equal(t, true, resp["authenticated"])
	profile := resp["user"].(map[string]any)
	assert.Equal(t, "me@example.com", profile["email"])
	assert.Equal(t, models.RoleUser, profile["role"])

	w = env.do(http.MethodGet, "/api/auth/user", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
