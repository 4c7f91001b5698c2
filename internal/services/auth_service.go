package services

import (
	"context"
	"strings"

	"github.com/cvmfinance/orcr-api/internal/auth"
	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/cvmfinance/orcr-api/pkg/logger"
)

// AuthService handles authentication operations on top of the configured provider
type AuthService struct {
	provider auth.Provider
}

// NewAuthService creates a new auth service
func NewAuthService(provider auth.Provider) *AuthService {
	return &AuthService{provider: provider}
}

// Login authenticates a user and returns a session
func (s *AuthService) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, validationError("Email and password are required")
	}

	session, err := s.provider.Authenticate(ctx, email, password)
	if err != nil {
		logger.FromContext(ctx).Warn("login failed", "email", strings.ToLower(strings.TrimSpace(email)), "error", err)
		return nil, err
	}

	logger.FromContext(ctx).Info("login", "user_id", session.User.ID, "role", session.User.Role)
	return session, nil
}

// Me reloads the user behind token, failing closed when it is gone or inactive
func (s *AuthService) Me(ctx context.Context, token string) (*models.User, error) {
	return s.provider.CurrentUser(ctx, token)
}
