package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/projectfair/backend/internal/config"
	"github.com/projectfair/backend/internal/domain"
	"github.com/projectfair/backend/internal/repository"
	apperrors "github.com/projectfair/backend/pkg/util/errorutil"
)

const (
	codeAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeGroupLength   = 3
	maxCodeAttempts   = 16
	pgUniqueViolation = "23505"
)

// SecurityCodeService issues and checks project security codes.
type SecurityCodeService struct {
	codes       repository.SecurityCodeRepository
	projects    repository.ProjectRepository
	minValidity time.Duration
	now         func() time.Time
	generate    func() (string, error)
}

// CreateSecurityCodeInput carries the fields of a new code.
type CreateSecurityCodeInput struct {
	ProjectID   int64
	StudentRole int
	Expiration  time.Time
}

// NewSecurityCodeService constructs the service.
func NewSecurityCodeService(cfg config.SecurityCodeConfig, codes repository.SecurityCodeRepository, projects repository.ProjectRepository) *SecurityCodeService {
	return &SecurityCodeService{
		codes:       codes,
		projects:    projects,
		minValidity: time.Duration(cfg.MinValidityHours) * time.Hour,
		now:         time.Now,
		generate:    GenerateSecurityCode,
	}
}

// CreateCode generates a unique code for a project and student role.
func (s *SecurityCodeService) CreateCode(ctx context.Context, input CreateSecurityCodeInput) (*domain.SecurityCode, error) {
	if input.ProjectID <= 0 {
		return nil, apperrors.NewValidationError("project_id is required")
	}
	role, err := domain.ParseStudentRole(input.StudentRole)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid student role")
	}
	if input.Expiration.Before(s.now().Add(s.minValidity)) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("expiration must be at least %s in the future", s.minValidity))
	}
	if _, err := s.projects.GetByID(ctx, input.ProjectID); err != nil {
		return nil, notFoundOr(err, "project")
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		value, err := s.generate()
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		exists, err := s.codes.Exists(ctx, value)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if exists {
			continue
		}

		code := &domain.SecurityCode{
			ProjectID:   input.ProjectID,
			StudentRole: role,
			Code:        value,
			Expiration:  input.Expiration.UTC(),
		}
		if err := s.codes.Create(ctx, code); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return nil, apperrors.MapError(err)
		}
		return code, nil
	}
	return nil, apperrors.NewInternalError(errors.New("unable to generate a unique security code"))
}

// ListCodes returns codes, optionally restricted to one project.
func (s *SecurityCodeService) ListCodes(ctx context.Context, projectID *int64) ([]domain.SecurityCode, error) {
	codes, err := s.codes.List(ctx, projectID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return codes, nil
}

// DeleteCode removes a code.
func (s *SecurityCodeService) DeleteCode(ctx context.Context, id int64) error {
	if err := s.codes.Delete(ctx, id); err != nil {
		return notFoundOr(err, "security code")
	}
	return nil
}

// ValidateCode reports whether code is usable and, if so, the project it grants.
func (s *SecurityCodeService) ValidateCode(ctx context.Context, code string) (bool, *domain.Project, error) {
	securityCode, err := s.codes.GetByCode(ctx, normalizeCode(code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil, nil
		}
		return false, nil, apperrors.MapError(err)
	}
	if securityCode.Expired(s.now()) {
		return false, nil, nil
	}

	project, err := s.projects.GetByID(ctx, securityCode.ProjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return true, nil, nil
		}
		return false, nil, apperrors.MapError(err)
	}
	return true, project, nil
}

// GenerateSecurityCode returns a random code shaped like "D3K-Z9A".
func GenerateSecurityCode() (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < 2*codeGroupLength; i++ {
		if i == codeGroupLength {
			b.WriteByte('-')
		}
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
