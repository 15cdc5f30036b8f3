package domain

import (
	"fmt"
	"time"
)

// SubjectType differentiates admin vs student tokens.
type SubjectType string

const (
	SubjectTypeAdmin   SubjectType = "ADMIN"
	SubjectTypeStudent SubjectType = "STUDENT"
)

// Authority tags granted per request.
const (
	AuthorityAdminRoot        = "ROLE_ADMIN_ROOT"
	AuthorityAdminProfessor   = "ROLE_ADMIN_PROFESSOR"
	AuthorityAdminTutor       = "ROLE_ADMIN_TUTOR"
	AuthorityAdminCoordinator = "ROLE_ADMIN_COORDINATOR"
	AuthorityStudent          = "ROLE_STUDENT"
)

// AdminRole is the closed set of admin tiers stored in admins.admin_role_id.
type AdminRole int

const (
	AdminRoleRoot        AdminRole = 1
	AdminRoleProfessor   AdminRole = 2
	AdminRoleTutor       AdminRole = 3
	AdminRoleCoordinator AdminRole = 4
)

// AllAdminRoles lists every known tier.
var AllAdminRoles = []AdminRole{
	AdminRoleRoot,
	AdminRoleProfessor,
	AdminRoleTutor,
	AdminRoleCoordinator,
}

// ParseAdminRole maps a raw tier to a known role.
func ParseAdminRole(raw int) (AdminRole, error) {
	switch AdminRole(raw) {
	case AdminRoleRoot, AdminRoleProfessor, AdminRoleTutor, AdminRoleCoordinator:
		return AdminRole(raw), nil
	default:
		return 0, fmt.Errorf("unknown admin role %d", raw)
	}
}

// Authority returns the authority tag granted to the role.
func (r AdminRole) Authority() string {
	switch r {
	case AdminRoleRoot:
		return AuthorityAdminRoot
	case AdminRoleProfessor:
		return AuthorityAdminProfessor
	case AdminRoleTutor:
		return AuthorityAdminTutor
	case AdminRoleCoordinator:
		return AuthorityAdminCoordinator
	default:
		return ""
	}
}

func (r AdminRole) String() string {
	switch r {
	case AdminRoleRoot:
		return "ROOT"
	case AdminRoleProfessor:
		return "PROFESSOR"
	case AdminRoleTutor:
		return "TUTOR"
	case AdminRoleCoordinator:
		return "COORDINATOR"
	default:
		return fmt.Sprintf("AdminRole(%d)", int(r))
	}
}

// PasswordResetToken represents a stored single-use reset token.
type PasswordResetToken struct {
	ID          int64
	SubjectType SubjectType
	SubjectID   int64
	Token       string
	ExpiresAt   time.Time
	UsedAt      *time.Time
	CreatedAt   time.Time
}
