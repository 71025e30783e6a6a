package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BseoY/120EastState3/internal/config"
	"github.com/BseoY/120EastState3/internal/models"

	"gorm.io/gorm"
)

// UserDirectory maps verified Google identities to internal user
// records. It is the only component that creates or mutates users.
type UserDirectory struct {
	db      *gorm.DB
	domains []string
	emails  []string
}

func NewUserDirectory(db *gorm.DB, cfg *config.Config) *UserDirectory {
	return &UserDirectory{
		db:      db,
		domains: cfg.Admin.Domains,
		emails:  cfg.Admin.Emails,
	}
}

// IsAdminEmail reports whether the allowlist grants the admin role.
func (d *UserDirectory) IsAdminEmail(email string) bool {
	for _, domain := range d.domains {
		if strings.HasSuffix(email, domain) {
			return true
		}
	}
	for _, admin := range d.emails {
		if email == admin {
			return true
		}
	}
	return false
}

// ResolveOrCreate looks up the user for a verified identity, creating
// one on first login. An existing user that now matches the allowlist
// is promoted to admin; promotion is one-directional, the directory
// never demotes.
func (d *UserDirectory) ResolveOrCreate(info *UserInfo) (*models.User, error) {
	isAdmin := d.IsAdminEmail(info.Email)

	var user models.User
	err := d.db.Where("google_id = ?", info.Sub).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		role := models.RoleUser
		if isAdmin {
			role = models.RoleAdmin
		}
		user = models.User{
			GoogleID:   info.Sub,
			Email:      info.Email,
			Name:       info.Name,
			ProfilePic: info.Picture,
			Role:       role,
		}
		if err := d.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return &user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if isAdmin && user.Role != models.RoleAdmin {
		user.Role = models.RoleAdmin
		if err := d.db.Model(&user).Update("role", models.RoleAdmin).Error; err != nil {
			return nil, fmt.Errorf("promote user: %w", err)
		}
	}
	return &user, nil
}

// Lookup resolves a token subject to a user without any side effects.
// Read paths (middleware) go through here, never ResolveOrCreate.
func (d *UserDirectory) Lookup(googleID string) (*models.User, error) {
	var user models.User
	if err := d.db.Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
