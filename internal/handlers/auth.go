package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/BseoY/120EastState3/internal/middleware"
	"github.com/BseoY/120EastState3/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	verifier       *services.GoogleVerifier
	tokens         *services.TokenService
	directory      *services.UserDirectory
	frontendOrigin string
}

func NewAuthHandler(verifier *services.GoogleVerifier, tokens *services.TokenService, directory *services.UserDirectory, frontendOrigin string) *AuthHandler {
	return &AuthHandler{
		verifier:       verifier,
		tokens:         tokens,
		directory:      directory,
		frontendOrigin: frontendOrigin,
	}
}

// Login redirects to Google's consent screen. The returnTo path is
// carried through the OAuth state parameter.
func (h *AuthHandler) Login(c *gin.Context) {
	returnTo := c.Query("returnTo")
	c.Redirect(http.StatusFound, h.verifier.AuthCodeURL(returnTo))
}

// Callback completes the code exchange, resolves the user, and
// redirects back to the frontend with a bearer token in the URL.
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")

	info, err := h.verifier.Verify(c.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization code not provided"})
		case errors.Is(err, services.ErrEmailNotVerified):
			c.JSON(http.StatusBadRequest, gin.H{"error": "User email not verified by Google"})
		default:
			log.Printf("oauth callback failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Authentication error: %v", err)})
		}
		return
	}

	user, err := h.directory.ResolveOrCreate(info)
	if err != nil {
		log.Printf("user resolution failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user"})
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		log.Printf("token issue failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	redirect := fmt.Sprintf("%s?token=%s", h.frontendOrigin, url.QueryEscape(token))
	if state := c.Query("state"); state != "" {
		redirect += "&returnTo=" + url.QueryEscape(state)
	}
	c.Redirect(http.StatusFound, redirect)
}

// Logout is a stateless acknowledgment: token invalidation happens
// client-side by discarding the credential.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user": gin.H{
			"id":          user.ID,
			"name":        user.Name,
			"email":       user.Email,
			"profile_pic": user.ProfilePic,
			"role":        user.Role,
		},
	})
}
