package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-kit/ticketing-service/internal/auth"
	"github.com/helpdesk-kit/ticketing-service/internal/config"
	"github.com/helpdesk-kit/ticketing-service/internal/domain"
	"github.com/helpdesk-kit/ticketing-service/internal/repository"
	apperrors "github.com/helpdesk-kit/ticketing-service/pkg/util"
)

// AccountService lets admins provision staff accounts and suspend or
// reinstate any account.
type AccountService struct {
	users      repository.UserRepository
	bcryptCost int
}

// StaffAccountInput describes an admin-created staff account.
type StaffAccountInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
	Company  string
}

// NewAccountService constructs the service.
func NewAccountService(cfg config.Config, users repository.UserRepository) *AccountService {
	return &AccountService{users: users, bcryptCost: cfg.Auth.BcryptCost}
}

// CreateStaffAccount provisions a staff-role account.
func (s *AccountService) CreateStaffAccount(ctx context.Context, actor domain.Identity, input StaffAccountInput) (*domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email, password required", nil)
	}
	if !input.Role.IsStaff() {
		return nil, apperrors.NewValidationError("role must be a staff role", map[string]any{"role": input.Role})
	}
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Company:      input.Company,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// SetActive suspends or reinstates an account.
func (s *AccountService) SetActive(ctx context.Context, actor domain.Identity, accountID string, active bool) (*domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role required")
	}
	user, err := s.users.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", map[string]any{"account_id": accountID})
		}
		return nil, apperrors.MapError(err)
	}
	user.IsActive = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
