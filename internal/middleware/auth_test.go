package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BseoY/120EastState3/internal/config"
	"github.com/BseoY/120EastState3/internal/models"
	"github.com/BseoY/120EastState3/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type gateEnv struct {
	router *gin.Engine
	tokens *services.TokenService
	db     *gorm.DB
}

func newGateEnv(t *testing.T) *gateEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	cfg := &config.Config{JWT: config.JWTConfig{Secret: "gate-secret", TTL: time.Hour}}
	tokens := services.NewTokenService(cfg)
	directory := services.NewUserDirectory(db, cfg)

	ok := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentUser(c).Email})
	}

	router := gin.New()
	router.Handle(http.MethodGet, "/protected", RequireAuth(tokens, directory), ok)
	router.Handle(http.MethodOptions, "/protected", RequireAuth(tokens, directory), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	router.Handle(http.MethodGet, "/admin", RequireRoles(tokens, directory, models.RoleAdmin), ok)

	return &gateEnv{router: router, tokens: tokens, db: db}
}

func (e *gateEnv) seedUser(t *testing.T, role string) *models.User {
	t.Helper()
	user := &models.User{
		GoogleID: "sub-" + role,
		Email:    role + "@example.com",
		Name:     "Test " + role,
		Role:     role,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *gateEnv) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestRequireAuthMissingToken(t *testing.T) {
	env := newGateEnv(t)
	w := env.get("/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Missing token")
}

func TestRequireAuthInvalidToken(t *testing.T) {
	env := newGateEnv(t)
	w := env.get("/protected", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestRequireAuthExpiredToken(t *testing.T) {
	env := newGateEnv(t)
	user := env.seedUser(t, models.RoleUser)

	expiredTokens := services.NewTokenService(&config.Config{
		JWT: config.JWTConfig{Secret: "gate-secret", TTL: -time.Minute},
	})
	token, err := expiredTokens.Issue(user)
	require.NoError(t, err)

	w := env.get("/protected", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token expired")
}

func TestRequireAuthUnknownSubject(t *testing.T) {
	env := newGateEnv(t)
	token, err := env.tokens.Issue(&models.User{
		GoogleID: "sub-ghost",
		Email:    "ghost@example.com",
		Name:     "Ghost",
		Role:     models.RoleUser,
	})
	require.NoError(t, err)

	w := env.get("/protected", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown user")
}

func TestRequireAuthAttachesUser(t *testing.T) {
	env := newGateEnv(t)
	user := env.seedUser(t, models.RoleUser)
	token, err := env.tokens.Issue(user)
	require.NoError(t, err)

	w := env.get("/protected", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.Email)
}

func TestPreflightBypassesAuth(t *testing.T) {
	env := newGateEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/protected", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequireRolesForbidsOrdinaryUser(t *testing.T) {
	env := newGateEnv(t)
	user := env.seedUser(t, models.RoleUser)
	token, err := env.tokens.Issue(user)
	require.NoError(t, err)

	w := env.get("/admin", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient permissions")
}

func TestRequireRolesAdmitsAdmin(t *testing.T) {
	env := newGateEnv(t)
	admin := env.seedUser(t, models.RoleAdmin)
	token, err := env.tokens.Issue(admin)
	require.NoError(t, err)

	w := env.get("/admin", token)
	assert.Equal(t, http.StatusOK, w.Code)
}
