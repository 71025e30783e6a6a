package services

import (
	"testing"
	"time"

	"github.com/BseoY/120EastState3/internal/config"
	"github.com/BseoY/120EastState3/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenConfig(ttl time.Duration) *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", TTL: ttl},
	}
}

func testUser() *models.User {
	return &models.User{
		ID:         1,
		GoogleID:   "google-sub-123",
		Email:      "writer@example.com",
		Name:       "Writer",
		ProfilePic: "https://example.com/pic.jpg",
		Role:       models.RoleUser,
	}
}

func TestIssueAndValidateRoundTrip(t *testing.T) {
	svc := NewTokenService(tokenConfig(time.Hour))

	token, err := svc.Issue(testUser())
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "google-sub-123", claims.Subject)
	assert.Equal(t, "writer@example.com", claims.Email)
	assert.Equal(t, "Writer", claims.Name)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, "https://example.com/pic.jpg", claims.ProfilePic)
}

func TestIssueTwiceYieldsIdenticalClaims(t *testing.T) {
	svc := NewTokenService(tokenConfig(time.Hour))
	user := testUser()

	first, err := svc.Issue(user)
	require.NoError(t, err)
	second, err := svc.Issue(user)
	require.NoError(t, err)

	a, err := svc.Validate(first)
	require.NoError(t, err)
	b, err := svc.Validate(second)
	require.NoError(t, err)

	assert.Equal(t, a.Subject, b.Subject)
	assert.Equal(t, a.Email, b.Email)
	assert.Equal(t, a.Role, b.Role)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewTokenService(tokenConfig(-time.Minute))

	token, err := svc.Issue(testUser())
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateGarbageToken(t *testing.T) {
	svc := NewTokenService(tokenConfig(time.Hour))

	_, err := svc.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateWrongSecret(t *testing.T) {
	issuer := NewTokenService(tokenConfig(time.Hour))
	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	other := NewTokenService(&config.Config{
		JWT: config.JWTConfig{Secret: "different-secret", TTL: time.Hour},
	})
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
