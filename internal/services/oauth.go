package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/BseoY/120EastState3/internal/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoEndpoint = "https://openidconnect.googleapis.com/v1/userinfo"

var (
	ErrMissingCode = errors.New("authorization code not provided")
	// ErrEmailNotVerified is a hard rejection: no user record is
	// created or updated for an unverified Google account.
	ErrEmailNotVerified = errors.New("user email not verified by Google")
)

// UserInfo is the verified identity returned by Google's userinfo
// endpoint after a successful code exchange.
type UserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type GoogleVerifier struct {
	oauth   *oauth2.Config
	timeout time.Duration
}

func NewGoogleVerifier(cfg *config.Config) *GoogleVerifier {
	return &GoogleVerifier{
		oauth: &oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		timeout: 5 * time.Second,
	}
}

// AuthCodeURL builds the Google consent URL. The state parameter
// carries the frontend's returnTo path through the redirect.
func (v *GoogleVerifier) AuthCodeURL(state string) string {
	return v.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Verify exchanges an authorization code for an access token and
// fetches the subject's profile from the userinfo endpoint.
func (v *GoogleVerifier) Verify(ctx context.Context, code string) (*UserInfo, error) {
	if code == "" {
		return nil, ErrMissingCode
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	token, err := v.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("userinfo request: %w", err)
	}
	token.SetAuthHeader(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo fetch: unexpected status %d", resp.StatusCode)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("userinfo decode: %w", err)
	}

	if !info.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	return &info, nil
}
