package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/projectfair/backend/internal/domain"
	apperrors "github.com/projectfair/backend/pkg/util/errorutil"
)

const (
	msgTokenNotProvided        = "jwt token not provided"
	msgInsufficientPermissions = "user does not have the necessary permissions"
)

// RequireAuthorities allows requests holding any of tags.
// With no tags it only requires an authenticated caller.
func RequireAuthorities(tags ...string) fiber.Handler {
	allowed := NewAuthoritySet(tags...)
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		if err := Authorize(principal.Authorities(), allowed); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireAuthenticated allows any admin or student.
func RequireAuthenticated() fiber.Handler {
	return RequireAuthorities()
}

// RequireAdmin allows admins of the listed tiers, or of any tier when none are listed.
func RequireAdmin(roles ...domain.AdminRole) fiber.Handler {
	if len(roles) == 0 {
		roles = domain.AllAdminRoles
	}
	tags := make([]string, 0, len(roles))
	for _, role := range roles {
		tags = append(tags, role.Authority())
	}
	return RequireAuthorities(tags...)
}

// RequireStudent allows students only.
func RequireStudent() fiber.Handler {
	return RequireAuthorities(domain.AuthorityStudent)
}

// Authorize applies the guard decision rule to a computed authority set.
func Authorize(granted, allowed AuthoritySet) error {
	if len(granted) == 0 {
		return apperrors.NewUnauthorized(msgTokenNotProvided)
	}
	if len(allowed) == 0 {
		return nil
	}
	for tag := range granted {
		if allowed.Has(tag) {
			return nil
		}
	}
	return apperrors.NewForbidden(msgInsufficientPermissions)
}
