package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/projectfair/backend/internal/auth"
	"github.com/projectfair/backend/internal/config"
	"github.com/projectfair/backend/internal/domain"
	"github.com/projectfair/backend/internal/events"
	"github.com/projectfair/backend/internal/repository"
	apperrors "github.com/projectfair/backend/pkg/util/errorutil"
)

const (
	msgBadCredentials     = "Incorrect email or password"
	msgInvalidResetToken  = "invalid or expired reset token"
	minPasswordLength     = 8
	defaultRootAdminFirst = "Root"
	defaultRootAdminLast  = "Admin"

	// hashed with the configured cost and compared against when the email is unknown
	unknownAccountPassword = "unknown-account-password"
)

// AuthService coordinates login, logout and password reset flows.
type AuthService struct {
	admins      repository.AdminRepository
	students    repository.StudentRepository
	resets      repository.PasswordResetRepository
	tokenMgr    *auth.TokenManager
	revocations auth.RevocationStore
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	bcryptCost  int
	resetTTL    time.Duration
	now         func() time.Time
	compare     func(hashed, plain string) error

	dummyOnce sync.Once
	dummyHash string
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	AdminRepo         repository.AdminRepository
	StudentRepo       repository.StudentRepository
	PasswordResetRepo repository.PasswordResetRepository
	TokenManager      *auth.TokenManager
	Revocations       auth.RevocationStore
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		admins:      deps.AdminRepo,
		students:    deps.StudentRepo,
		resets:      deps.PasswordResetRepo,
		tokenMgr:    deps.TokenManager,
		revocations: deps.Revocations,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		bcryptCost:  cfg.BcryptCost,
		resetTTL:    cfg.PasswordResetTTL(),
		now:         time.Now,
		compare:     auth.ComparePassword,
	}
}

// LoginAdmin authenticates an admin and returns a tier-bearing token.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*domain.Admin, string, time.Time, error) {
	admin, err := s.admins.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, "", time.Time{}, s.rejectLogin(err, password)
	}
	if err := s.compare(admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized(msgBadCredentials)
	}
	token, exp, err := s.tokenMgr.IssueAdminToken(admin.ID, admin.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return admin, token, exp, nil
}

// LoginStudent authenticates a confirmed student.
func (s *AuthService) LoginStudent(ctx context.Context, email, password string) (*domain.Student, string, time.Time, error) {
	student, err := s.students.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, "", time.Time{}, s.rejectLogin(err, password)
	}
	if err := s.compare(student.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized(msgBadCredentials)
	}
	if student.IsPending {
		return nil, "", time.Time{}, apperrors.NewForbidden("account is pending confirmation")
	}
	token, exp, err := s.tokenMgr.IssueStudentToken(student.ID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return student, token, exp, nil
}

// Logout revokes the token the caller authenticated with.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal) error {
	if principal == nil {
		return apperrors.NewUnauthorized("jwt token not provided")
	}
	if s.revocations == nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, principal.Token, principal.ExpiresAt); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// EnsureDefaultAdmin creates a root admin with the given credentials unless the email is taken.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, nil
	}
	_, err := s.admins.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return false, err
	}
	admin := &domain.Admin{
		FirstName:    defaultRootAdminFirst,
		LastName:     defaultRootAdminLast,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.AdminRoleRoot,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return false, err
	}
	s.logger.Info("default root admin created", zap.Int64("admin_id", admin.ID))
	return true, nil
}

// RequestPasswordReset stores a single-use reset token for the account owning email.
// Unknown emails yield a nil token and no error so callers cannot probe accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, subjectType domain.SubjectType, email string) (*domain.PasswordResetToken, error) {
	email = normalizeEmail(email)
	subjectID, err := s.subjectIDByEmail(ctx, subjectType, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Info("password reset requested for unknown account", zap.String("subject_type", string(subjectType)))
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}

	token := &domain.PasswordResetToken{
		SubjectType: subjectType,
		SubjectID:   subjectID,
		Token:       uuid.NewString(),
		ExpiresAt:   s.now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventPasswordResetRequested,
		Actor:     events.SubjectActor(subjectType, subjectID),
		Timestamp: s.now(),
		Payload: events.PasswordResetRequestedPayload{
			Email:     email,
			Token:     token.Token,
			ExpiresAt: token.ExpiresAt,
		},
	})
	return token, nil
}

// ConfirmPasswordReset consumes the reset token and sets the new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, subjectType domain.SubjectType, tokenStr, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.NewValidationError("password must be at least 8 characters")
	}

	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError(msgInvalidResetToken)
		}
		return apperrors.MapError(err)
	}
	if token.SubjectType != subjectType || token.UsedAt != nil || !s.now().Before(token.ExpiresAt) {
		return apperrors.NewValidationError(msgInvalidResetToken)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	// Claim the token before touching the password so a replay cannot win a race.
	if err := s.resets.MarkUsed(ctx, token.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError(msgInvalidResetToken)
		}
		return apperrors.MapError(err)
	}

	switch subjectType {
	case domain.SubjectTypeAdmin:
		admin, err := s.admins.GetByID(ctx, token.SubjectID)
		if err != nil {
			return apperrors.MapError(err)
		}
		admin.PasswordHash = hash
		return apperrors.MapError(s.admins.Update(ctx, admin))
	case domain.SubjectTypeStudent:
		student, err := s.students.GetByID(ctx, token.SubjectID)
		if err != nil {
			return apperrors.MapError(err)
		}
		student.PasswordHash = hash
		return apperrors.MapError(s.students.Update(ctx, student))
	default:
		return apperrors.NewValidationError(msgInvalidResetToken)
	}
}

// TokenManager exposes the underlying token manager.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) subjectIDByEmail(ctx context.Context, subjectType domain.SubjectType, email string) (int64, error) {
	switch subjectType {
	case domain.SubjectTypeAdmin:
		admin, err := s.admins.GetByEmail(ctx, email)
		if err != nil {
			return 0, err
		}
		return admin.ID, nil
	case domain.SubjectTypeStudent:
		student, err := s.students.GetByEmail(ctx, email)
		if err != nil {
			return 0, err
		}
		return student.ID, nil
	default:
		return 0, apperrors.NewValidationError("unknown subject type")
	}
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// rejectLogin spends a bcrypt comparison on unknown emails so they take as
// long to reject as a wrong password.
func (s *AuthService) rejectLogin(err error, password string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		_ = s.compare(s.unknownAccountHash(), password)
	}
	return credentialError(err)
}

func (s *AuthService) unknownAccountHash() string {
	s.dummyOnce.Do(func() {
		hash, err := auth.HashPassword(unknownAccountPassword, s.bcryptCost)
		if err != nil {
			s.logger.Warn("hash unknown account password", zap.Error(err))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func credentialError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewUnauthorized(msgBadCredentials)
	}
	return apperrors.NewInternalError(err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
