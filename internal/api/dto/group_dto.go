package dto

import "time"

// CreateGroupRequest opens a group with a security code.
type CreateGroupRequest struct {
	Name         string `json:"name"`
	SecurityCode string `json:"security_code"`
}

// CreateGroupResponse describes the new group and the creator's role in it.
type CreateGroupResponse struct {
	GroupID   int64  `json:"group_id"`
	Name      string `json:"name"`
	ProjectID int64  `json:"project_id"`
	Role      string `json:"role"`
}

// GroupResponse describes a stored group.
type GroupResponse struct {
	GroupID   int64     `json:"group_id"`
	ProjectID int64     `json:"project_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupWithProjectResponse pairs a student's group with its project.
type GroupWithProjectResponse struct {
	Group   GroupResponse   `json:"group"`
	Project ProjectResponse `json:"project"`
}

// StudentGroupsResponse lists a student's groups.
type StudentGroupsResponse struct {
	Groups []GroupWithProjectResponse `json:"groups"`
}

// CheckGroupNameRequest payload.
type CheckGroupNameRequest struct {
	ProjectID int64  `json:"project_id"`
	Name      string `json:"name"`
}

// CheckGroupNameResponse reports whether the name is taken.
type CheckGroupNameResponse struct {
	Exists bool `json:"exists"`
}

// AddGroupMemberRequest payload.
type AddGroupMemberRequest struct {
	Email string `json:"email"`
}

// RemoveGroupMemberRequest payload.
type RemoveGroupMemberRequest struct {
	StudentID int64 `json:"student_id"`
}

// GroupMemberResponse describes one member of a group.
type GroupMemberResponse struct {
	StudentID int64  `json:"student_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	RoleID    int    `json:"role_id"`
	RoleName  string `json:"role_name"`
}

// GroupMembersResponse lists the members of a group.
type GroupMembersResponse struct {
	GroupID   int64                 `json:"group_id"`
	GroupName string                `json:"group_name"`
	Members   []GroupMemberResponse `json:"members"`
}

// GroupLeaderInfo is the leader shown in the admin group overview.
type GroupLeaderInfo struct {
	StudentID int64  `json:"student_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// GroupSummaryResponse is one row of the admin group overview.
type GroupSummaryResponse struct {
	GroupID     int64            `json:"group_id"`
	Name        string           `json:"name"`
	MemberCount int              `json:"member_count"`
	GroupLeader *GroupLeaderInfo `json:"group_leader"`
}

// ProjectGroupsResponse lists the groups of a project.
type ProjectGroupsResponse struct {
	Groups []GroupSummaryResponse `json:"groups"`
}
