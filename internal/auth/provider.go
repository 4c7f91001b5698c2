package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cvmfinance/orcr-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Session is the result of a successful login
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// UserStore is the user lookup a provider needs
type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Provider authenticates staff and resolves sessions
type Provider interface {
	// Authenticate checks credentials and issues a session
	Authenticate(ctx context.Context, email, password string) (*Session, error)
	// ResolveSession verifies a token without touching the store
	ResolveSession(ctx context.Context, token string) (*Identity, error)
	// CurrentUser resolves the token and reloads the user, failing closed
	// with ErrAuthenticationRequired when the user is gone and
	// ErrAccountInactive when it has been deactivated
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// JWTProvider is the default provider backed by signed session tokens
type JWTProvider struct {
	users  UserStore
	tokens *TokenManager
}

// NewJWTProvider creates a JWT-backed provider
func NewJWTProvider(users UserStore, tokens *TokenManager) *JWTProvider {
	return &JWTProvider{users: users, tokens: tokens}
}

func (p *JWTProvider) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	user, err := p.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	token, expiresAt, err := p.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (p *JWTProvider) ResolveSession(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrAuthenticationRequired
	}
	identity, err := p.tokens.Parse(token)
	if err != nil {
		return nil, ErrAuthenticationRequired
	}
	return identity, nil
}

func (p *JWTProvider) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	identity, err := p.ResolveSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return reload(ctx, p.users, identity.UserID)
}

// FixedIdentityProvider always acts as one pre-existing user. It is selected
// only through explicit configuration for demos and local testing.
type FixedIdentityProvider struct {
	users  UserStore
	userID string
}

// NewFixedIdentityProvider loads the user with the given email and pins every session to it
func NewFixedIdentityProvider(ctx context.Context, users UserStore, email string) (*FixedIdentityProvider, error) {
	if email == "" {
		return nil, errors.New("fixed identity email is required")
	}
	user, err := users.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, fmt.Errorf("load fixed identity %q: %w", email, err)
	}
	return &FixedIdentityProvider{users: users, userID: user.ID}, nil
}

func (p *FixedIdentityProvider) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	user, err := reload(ctx, p.users, p.userID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: "fixed:" + user.ID, ExpiresAt: time.Now().Add(8 * time.Hour), User: user}, nil
}

func (p *FixedIdentityProvider) ResolveSession(ctx context.Context, token string) (*Identity, error) {
	user, err := reload(ctx, p.users, p.userID)
	if err != nil {
		return nil, err
	}
	return IdentityFromUser(user), nil
}

func (p *FixedIdentityProvider) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	return reload(ctx, p.users, p.userID)
}

func reload(ctx context.Context, users UserStore, id string) (*models.User, error) {
	user, err := users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthenticationRequired
		}
		return nil, fmt.Errorf("reload user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return user, nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	return string(bytes), err
}

// VerifyPassword compares a password with a hash
func VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
