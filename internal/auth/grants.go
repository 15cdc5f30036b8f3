package auth

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/projectfair/backend/internal/domain"
	apperrors "github.com/projectfair/backend/pkg/util/errorutil"
)

// Credential headers; the admin header wins when both are sent.
const (
	AdminHeader   = "X-Admin-Token"
	StudentHeader = "X-Student-Token"
)

const msgInvalidToken = "Invalid token"

// AuthoritySet is the set of authority tags granted to a request.
type AuthoritySet map[string]struct{}

// NewAuthoritySet builds a set from tags.
func NewAuthoritySet(tags ...string) AuthoritySet {
	set := make(AuthoritySet, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	return set
}

// Has reports whether tag is granted.
func (s AuthoritySet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Slice returns the tags sorted.
func (s AuthoritySet) Slice() []string {
	out := make([]string, 0, len(s))
	for tag := range s {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// AdminLookup loads admin rows by id.
type AdminLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.Admin, error)
}

// StudentLookup loads student rows by id.
type StudentLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.Student, error)
}

// Extractor turns request credentials into a Principal.
type Extractor struct {
	tokens   *TokenManager
	admins   AdminLookup
	students StudentLookup
	revoked  RevocationStore
	logger   *zap.Logger
}

// NewExtractor wires the extractor. revoked may be nil to skip revocation checks.
func NewExtractor(tokens *TokenManager, admins AdminLookup, students StudentLookup, revoked RevocationStore, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		tokens:   tokens,
		admins:   admins,
		students: students,
		revoked:  revoked,
		logger:   logger,
	}
}

// Extract resolves the caller from the credential headers read through header.
// A request without credentials yields a nil Principal and no error.
func (e *Extractor) Extract(ctx context.Context, header func(key string) string) (*Principal, error) {
	raw := header(AdminHeader)
	if raw == "" {
		raw = header(StudentHeader)
	}
	if raw == "" {
		return nil, nil
	}

	claims, err := e.tokens.Decode(raw)
	if err != nil {
		e.logger.Warn("unable to decode jwt token", zap.Error(err))
		return nil, apperrors.NewUnauthorized(msgInvalidToken)
	}

	if e.revoked != nil {
		revoked, err := e.revoked.IsRevoked(ctx, raw)
		if err != nil {
			e.logger.Error("unable to check token revocation", zap.Error(err))
			return nil, apperrors.NewInternalError(err)
		}
		if revoked {
			return nil, apperrors.NewUnauthorized(msgInvalidToken)
		}
	}

	principal := &Principal{Token: raw, ExpiresAt: expiry(claims)}
	if claims.Admin {
		return e.resolveAdmin(ctx, claims, principal)
	}
	return e.resolveStudent(ctx, claims, principal)
}

func (e *Extractor) resolveAdmin(ctx context.Context, claims *Claims, principal *Principal) (*Principal, error) {
	role, err := domain.ParseAdminRole(claims.RoleTier)
	if err != nil {
		e.logger.Warn("invalid admin role in token", zap.Int("role", claims.RoleTier))
		return nil, apperrors.NewUnauthorized(msgInvalidToken)
	}

	admin, err := e.admins.GetByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			e.logger.Warn("token for non-existing admin", zap.Int64("admin_id", claims.SubjectID))
			return nil, apperrors.NewUnauthorized(msgInvalidToken)
		}
		e.logger.Error("unable to fetch admin from database", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	principal.SubjectType = domain.SubjectTypeAdmin
	principal.Admin = admin
	principal.AdminRole = role
	principal.authorities = NewAuthoritySet(role.Authority())
	return principal, nil
}

func (e *Extractor) resolveStudent(ctx context.Context, claims *Claims, principal *Principal) (*Principal, error) {
	student, err := e.students.GetByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			e.logger.Warn("token for non-existing student", zap.Int64("student_id", claims.SubjectID))
			return nil, apperrors.NewUnauthorized(msgInvalidToken)
		}
		e.logger.Error("unable to fetch student from database", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	principal.SubjectType = domain.SubjectTypeStudent
	principal.Student = student
	principal.authorities = NewAuthoritySet(domain.AuthorityStudent)
	return principal, nil
}

func expiry(claims *Claims) time.Time {
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
