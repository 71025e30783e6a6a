package services

import (
	"errors"
	"time"

	"github.com/BseoY/120EastState3/internal/config"
	"github.com/BseoY/120EastState3/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned for a well-formed token past its
	// expiry, so callers can prompt a re-login instead of rejecting.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// Claims is the full identity payload embedded in issued tokens.
// The Google subject id rides in the registered "sub" claim.
type Claims struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	ProfilePic string `json:"profile_pic,omitempty"`
	jwt.RegisteredClaims
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secret: []byte(cfg.JWT.Secret),
		ttl:    cfg.JWT.TTL,
	}
}

func (s *TokenService) Issue(user *models.User) (string, error) {
	claims := Claims{
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		ProfilePic: user.ProfilePic,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.GoogleID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
