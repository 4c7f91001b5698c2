package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/cvmfinance/orcr-api/internal/auth"
	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/cvmfinance/orcr-api/internal/repository"
	"github.com/cvmfinance/orcr-api/pkg/logger"
)

const minPasswordLength = 8

// UserInput is the payload for creating a staff account
type UserInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// UserFilter narrows a user listing
type UserFilter struct {
	Search string
	Role   string
	Page   int
	Limit  int
}

// UserService administers staff accounts
type UserService struct {
	repo  repository.UserRepository
	tx    repository.Transactor
	audit *AuditService
}

func NewUserService(repo repository.UserRepository, tx repository.Transactor, audit *AuditService) *UserService {
	return &UserService{repo: repo, tx: tx, audit: audit}
}

// SystemActor is the identity used by command-line administration
func SystemActor() Actor {
	return Actor{
		Identity: auth.Identity{
			UserID:    "system",
			Email:     "system@loanctl",
			Role:      models.RoleAdmin,
			FirstName: "System",
		},
		UserAgent: "loanctl",
	}
}

func (s *UserService) List(ctx context.Context, filter UserFilter, actor Actor) ([]models.User, models.Pagination, error) {
	if err := actor.require(auth.CapManageUsers); err != nil {
		return nil, models.Pagination{}, err
	}

	query := repository.NewListQuery()
	query.Page = filter.Page
	query.PerPage = filter.Limit
	query.Search = filter.Search
	query.Filters["role"] = strings.ToUpper(strings.TrimSpace(filter.Role))
	query.Normalize()

	users, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list users: %w", err)
	}
	return users, models.NewPagination(query.Page, query.PerPage, total), nil
}

// Create adds an active account with a bcrypt password hash
func (s *UserService) Create(ctx context.Context, in UserInput, actor Actor) (*models.User, error) {
	if err := actor.require(auth.CapManageUsers); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := strings.ToUpper(strings.TrimSpace(in.Role))
	if role == "" {
		role = models.RoleProcessor
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, validationError("Valid email is required")
	}
	switch {
	case len(in.Password) < minPasswordLength:
		return nil, validationError(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	case blank(in.FirstName):
		return nil, validationError("First name is required")
	case blank(in.LastName):
		return nil, validationError("Last name is required")
	case !models.ValidRole(role):
		return nil, validationError("Role must be ADMIN or PROCESSOR")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         role,
		IsActive:     true,
	}

	err = s.tx.WithinTransaction(ctx, func(r *repository.Repositories) error {
		if err := r.User.Create(ctx, user); err != nil {
			return err
		}
		return s.audit.Record(ctx, r.Audit, actor, models.EntityUser, user.ID, models.AuditActionCreate,
			map[string]interface{}{"email": user.Email, "role": user.Role})
	})
	if errors.Is(err, repository.ErrDuplicateKey) {
		return nil, validationError("A user with this email already exists")
	}
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user created", "id", user.ID, "email", user.Email, "role", user.Role)
	return user, nil
}

// Deactivate blocks an account from signing in. Existing sessions fail on their next request.
func (s *UserService) Deactivate(ctx context.Context, id string, actor Actor) (*models.User, error) {
	if err := actor.require(auth.CapManageUsers); err != nil {
		return nil, err
	}
	if id == actor.UserID {
		return nil, validationError("You cannot deactivate your own account")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User")
	}
	if !user.IsActive {
		return nil, invalidState("User is already inactive")
	}

	err = s.tx.WithinTransaction(ctx, func(r *repository.Repositories) error {
		if err := r.User.SetActive(ctx, id, false); err != nil {
			return notFound(err, "User")
		}
		return s.audit.Record(ctx, r.Audit, actor, models.EntityUser, id, models.AuditActionDeactivate,
			Change{From: "ACTIVE", To: "INACTIVE", Extra: map[string]interface{}{"email": user.Email}})
	})
	if err != nil {
		return nil, err
	}

	user.IsActive = false
	logger.FromContext(ctx).Info("user deactivated", "id", id, "email", user.Email, "by", actor.Email)
	return user, nil
}

// DeactivateByEmail is Deactivate addressed by login email
func (s *UserService) DeactivateByEmail(ctx context.Context, email string, actor Actor) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, notFound(err, "User")
	}
	return s.Deactivate(ctx, user.ID, actor)
}
