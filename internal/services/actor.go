package services

import "github.com/cvmfinance/orcr-api/internal/auth"

// Actor is the authenticated caller of a state-changing operation
type Actor struct {
	auth.Identity
	IPAddress string
	UserAgent string
}

// NewActor builds an actor from a resolved identity and request origin
func NewActor(identity *auth.Identity, ip, userAgent string) Actor {
	return Actor{Identity: *identity, IPAddress: ip, UserAgent: userAgent}
}

func (a Actor) require(c auth.Capability) error {
	if a.UserID == "" {
		return ErrAuthenticationRequired
	}
	if !a.Can(c) {
		return ErrForbidden
	}
	return nil
}
