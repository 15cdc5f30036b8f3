package domain

import "time"

// Group is a team of students working on one project. Its creator leads it.
type Group struct {
	ID        int64
	ProjectID int64
	Name      string
	CreatedAt time.Time
}

// GroupMember places a student in a group with a role.
type GroupMember struct {
	ID        int64
	GroupID   int64
	StudentID int64
	Role      StudentRole
	JoinedAt  time.Time
}

// GroupMemberDetail is a member joined with the student's public fields.
type GroupMemberDetail struct {
	GroupMember
	FirstName string
	LastName  string
	Email     string
}

// GroupWithProject pairs a group with the project it belongs to.
type GroupWithProject struct {
	Group   Group
	Project Project
}

// GroupSummary is the admin view of a group inside a project.
type GroupSummary struct {
	Group       Group
	MemberCount int
	Leader      *GroupMemberDetail
}
