package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/projectfair/backend/internal/domain"
)

const principalKey = "auth_principal"

// ErrUnableToExtractUser is returned when the requested identity is not on the request.
var ErrUnableToExtractUser = errors.New("unable to extract user")

// Principal represents the authenticated caller. Exactly one of Admin or Student is set.
type Principal struct {
	SubjectType domain.SubjectType
	Admin       *domain.Admin
	AdminRole   domain.AdminRole
	Student     *domain.Student
	Token       string
	ExpiresAt   time.Time

	authorities AuthoritySet
}

// Authorities returns the granted tags; a nil Principal has none.
func (p *Principal) Authorities() AuthoritySet {
	if p == nil || p.authorities == nil {
		return AuthoritySet{}
	}
	return p.authorities
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	if !ok || principal == nil {
		return nil, false
	}
	return principal, true
}

// GetAdmin returns the admin resolved for this request.
func GetAdmin(c *fiber.Ctx) (*domain.Admin, error) {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return nil, ErrUnableToExtractUser
	}
	return principal.Admin, nil
}

// GetStudent returns the student resolved for this request.
func GetStudent(c *fiber.Ctx) (*domain.Student, error) {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.Student == nil {
		return nil, ErrUnableToExtractUser
	}
	return principal.Student, nil
}
