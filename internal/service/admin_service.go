package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/projectfair/backend/internal/auth"
	"github.com/projectfair/backend/internal/config"
	"github.com/projectfair/backend/internal/domain"
	"github.com/projectfair/backend/internal/repository"
	apperrors "github.com/projectfair/backend/pkg/util/errorutil"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// AdminService manages admin accounts.
type AdminService struct {
	admins     repository.AdminRepository
	bcryptCost int
}

// AdminListFilters define listing parameters.
type AdminListFilters struct {
	Role   *domain.AdminRole
	Limit  int
	Offset int
}

// CreateAdminInput carries the fields of a new admin.
type CreateAdminInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      domain.AdminRole
}

// NewAdminService constructs the service.
func NewAdminService(cfg config.AuthConfig, admins repository.AdminRepository) *AdminService {
	return &AdminService{admins: admins, bcryptCost: cfg.BcryptCost}
}

// ListAdmins returns a page of admins.
func (s *AdminService) ListAdmins(ctx context.Context, filters AdminListFilters) ([]domain.Admin, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}
	admins, err := s.admins.List(ctx, repository.AdminFilter{Role: filters.Role, Limit: limit, Offset: offset})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return admins, nil
}

// GetAdmin fetches one admin.
func (s *AdminService) GetAdmin(ctx context.Context, id int64) (*domain.Admin, error) {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "admin")
	}
	return admin, nil
}

// CreateAdmin registers a new admin. Only root admins may create other root admins.
func (s *AdminService) CreateAdmin(ctx context.Context, actor *domain.Admin, input CreateAdminInput) (*domain.Admin, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("jwt token not provided")
	}
	if _, err := domain.ParseAdminRole(int(input.Role)); err != nil {
		return nil, apperrors.NewValidationError("invalid admin role")
	}
	if input.Role == domain.AdminRoleRoot && actor.Role != domain.AdminRoleRoot {
		return nil, apperrors.NewForbidden("only root admins can create root admins")
	}

	email := normalizeEmail(input.Email)
	if err := validateAccountFields(input.FirstName, input.LastName, email, input.Password); err != nil {
		return nil, err
	}

	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	admin := &domain.Admin{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, apperrors.MapError(err)
	}
	return admin, nil
}

// DeleteAdmin removes an admin account. Admins cannot delete themselves
// and only root admins may delete root admins.
func (s *AdminService) DeleteAdmin(ctx context.Context, actor *domain.Admin, id int64) error {
	if actor == nil {
		return apperrors.NewUnauthorized("jwt token not provided")
	}
	if actor.ID == id {
		return apperrors.NewValidationError("admins cannot delete their own account")
	}
	target, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "admin")
	}
	if target.Role == domain.AdminRoleRoot && actor.Role != domain.AdminRoleRoot {
		return apperrors.NewForbidden("only root admins can delete root admins")
	}
	if err := s.admins.Delete(ctx, id); err != nil {
		return notFoundOr(err, "admin")
	}
	return nil
}

func validateAccountFields(firstName, lastName, email, password string) error {
	switch {
	case strings.TrimSpace(firstName) == "":
		return apperrors.NewValidationError("first_name is required")
	case strings.TrimSpace(lastName) == "":
		return apperrors.NewValidationError("last_name is required")
	case email == "" || !strings.Contains(email, "@"):
		return apperrors.NewValidationError("a valid email is required")
	case len(password) < minPasswordLength:
		return apperrors.NewValidationError("password must be at least 8 characters")
	}
	return nil
}

func notFoundOr(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource)
	}
	return apperrors.MapError(err)
}
