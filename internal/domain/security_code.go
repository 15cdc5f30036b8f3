package domain

import (
	"fmt"
	"time"
)

// StudentRole enumerates the role a student holds inside a group.
type StudentRole int

const (
	StudentRoleGroupLeader StudentRole = 1
	StudentRoleMember      StudentRole = 2
)

func (r StudentRole) String() string {
	switch r {
	case StudentRoleGroupLeader:
		return "Group Leader"
	case StudentRoleMember:
		return "Member"
	default:
		return "Unknown"
	}
}

// ParseStudentRole maps a raw id to a known student role.
func ParseStudentRole(raw int) (StudentRole, error) {
	switch StudentRole(raw) {
	case StudentRoleGroupLeader, StudentRoleMember:
		return StudentRole(raw), nil
	default:
		return 0, fmt.Errorf("unknown student role %d", raw)
	}
}

// SecurityCode grants a student role in a project until it expires.
type SecurityCode struct {
	ID          int64
	ProjectID   int64
	StudentRole StudentRole
	Code        string
	Expiration  time.Time
}

// Expired reports whether the code can no longer be used at t.
func (s SecurityCode) Expired(t time.Time) bool {
	return !s.Expiration.After(t)
}
