package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/BseoY/120EastState3/internal/models"
	"github.com/BseoY/120EastState3/internal/services"

	"github.com/gin-gonic/gin"
)

const userKey = "currentUser"

// CurrentUser returns the authenticated user attached by RequireAuth,
// or nil when the request is anonymous.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func bearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(auth, "Bearer "), true
}

// authenticate resolves the bearer credential and attaches the user
// to the context. It aborts the request on failure and reports
// whether the caller may proceed.
func authenticate(c *gin.Context, tokens *services.TokenService, directory *services.UserDirectory) bool {
	tokenString, ok := bearerToken(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return false
	}

	claims, err := tokens.Validate(tokenString)
	if err != nil {
		msg := "Invalid token"
		if errors.Is(err, services.ErrTokenExpired) {
			msg = "Token expired"
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
		return false
	}

	user, err := directory.Lookup(claims.Subject)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return false
	}

	c.Set(userKey, user)
	return true
}

// RequireAuth rejects requests without a valid bearer credential and
// attaches the resolved user to the request context. CORS preflight
// requests pass through untouched.
func RequireAuth(tokens *services.TokenService, directory *services.UserDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		if !authenticate(c, tokens, directory) {
			return
		}
		c.Next()
	}
}

// RequireRoles applies the authentication requirement, then rejects
// users whose role is not in the permitted set.
func RequireRoles(tokens *services.TokenService, directory *services.UserDirectory, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		if !authenticate(c, tokens, directory) {
			return
		}

		user := CurrentUser(c)
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// OptionalAuth attaches the user when a valid credential is present
// but never rejects. Used by read paths whose visibility widens for
// admins and owners.
func OptionalAuth(tokens *services.TokenService, directory *services.UserDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := tokens.Validate(tokenString); err == nil {
				if user, err := directory.Lookup(claims.Subject); err == nil {
					c.Set(userKey, user)
				}
			}
		}
		c.Next()
	}
}
