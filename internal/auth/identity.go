// Package auth issues and verifies staff sessions and maps roles to capabilities.
package auth

import (
	"errors"

	"github.com/cvmfinance/orcr-api/internal/models"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrAccountInactive        = errors.New("account is inactive")
)

// Identity is the authenticated principal carried by a session
type Identity struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// IdentityFromUser builds the session identity for u
func IdentityFromUser(u *models.User) *Identity {
	return &Identity{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// Can reports whether the identity's role grants c
func (i *Identity) Can(c Capability) bool {
	if i == nil {
		return false
	}
	return Can(i.Role, c)
}
