package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/projectfair/backend/internal/api/dto"
	"github.com/projectfair/backend/internal/auth"
	"github.com/projectfair/backend/internal/domain"
	"github.com/projectfair/backend/internal/service"
	apperrors "github.com/projectfair/backend/pkg/util/errorutil"
)

// GroupsHandler exposes group formation for students and the group overview for admins.
type GroupsHandler struct {
	groups *service.GroupService
}

// NewGroupsHandler constructs handler.
func NewGroupsHandler(groups *service.GroupService) *GroupsHandler {
	return &GroupsHandler{groups: groups}
}

// Create handles POST /v1/students/groups.
func (h *GroupsHandler) Create(c *fiber.Ctx) error {
	student, err := currentStudent(c)
	if err != nil {
		return err
	}
	var req dto.CreateGroupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	group, project, err := h.groups.CreateGroup(c.UserContext(), student, service.CreateGroupInput{
		Name:         req.Name,
		SecurityCode: req.SecurityCode,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.CreateGroupResponse{
		GroupID:   group.ID,
		Name:      group.Name,
		ProjectID: project.ID,
		Role:      domain.StudentRoleGroupLeader.String(),
	})
}

// List handles GET /v1/students/groups.
func (h *GroupsHandler) List(c *fiber.Ctx) error {
	student, err := currentStudent(c)
	if err != nil {
		return err
	}
	groups, err := h.groups.ListStudentGroups(c.UserContext(), student.ID)
	if err != nil {
		return err
	}
	out := dto.StudentGroupsResponse{Groups: make([]dto.GroupWithProjectResponse, 0, len(groups))}
	for i := range groups {
		out.Groups = append(out.Groups, dto.GroupWithProjectResponse{
			Group:   groupResponse(&groups[i].Group),
			Project: projectResponse(&groups[i].Project),
		})
	}
	return c.JSON(out)
}

// CheckName handles POST /v1/students/groups/check-name.
func (h *GroupsHandler) CheckName(c *fiber.Ctx) error {
	var req dto.CheckGroupNameRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	exists, err := h.groups.CheckName(c.UserContext(), req.ProjectID, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(dto.CheckGroupNameResponse{Exists: exists})
}

// Delete handles DELETE /v1/students/groups/:group_id.
func (h *GroupsHandler) Delete(c *fiber.Ctx) error {
	student, err := currentStudent(c)
	if err != nil {
		return err
	}
	groupID, err := parseID(c, "group_id")
	if err != nil {
		return err
	}
	if err := h.groups.DeleteGroup(c.UserContext(), student, groupID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Members handles GET /v1/students/groups/:group_id/members.
func (h *GroupsHandler) Members(c *fiber.Ctx) error {
	groupID, err := parseID(c, "group_id")
	if err != nil {
		return err
	}
	group, members, err := h.groups.ListMembers(c.UserContext(), groupID)
	if err != nil {
		return err
	}
	out := dto.GroupMembersResponse{
		GroupID:   group.ID,
		GroupName: group.Name,
		Members:   make([]dto.GroupMemberResponse, 0, len(members)),
	}
	for i := range members {
		out.Members = append(out.Members, groupMemberResponse(&members[i]))
	}
	return c.JSON(out)
}

// AddMember handles POST /v1/students/groups/:group_id/members.
func (h *GroupsHandler) AddMember(c *fiber.Ctx) error {
	student, err := currentStudent(c)
	if err != nil {
		return err
	}
	groupID, err := parseID(c, "group_id")
	if err != nil {
		return err
	}
	var req dto.AddGroupMemberRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required")
	}
	member, err := h.groups.AddMember(c.UserContext(), student, groupID, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(groupMemberResponse(member))
}

// RemoveMember handles DELETE /v1/students/groups/:group_id/members.
func (h *GroupsHandler) RemoveMember(c *fiber.Ctx) error {
	student, err := currentStudent(c)
	if err != nil {
		return err
	}
	groupID, err := parseID(c, "group_id")
	if err != nil {
		return err
	}
	var req dto.RemoveGroupMemberRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.StudentID < 1 {
		return apperrors.NewValidationError("student_id required")
	}
	if err := h.groups.RemoveMember(c.UserContext(), student, groupID, req.StudentID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ProjectGroups handles GET /v1/admins/groups/projects/:id.
func (h *GroupsHandler) ProjectGroups(c *fiber.Ctx) error {
	projectID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	summaries, err := h.groups.ListProjectGroups(c.UserContext(), projectID)
	if err != nil {
		return err
	}
	out := dto.ProjectGroupsResponse{Groups: make([]dto.GroupSummaryResponse, 0, len(summaries))}
	for i := range summaries {
		out.Groups = append(out.Groups, groupSummaryResponse(&summaries[i]))
	}
	return c.JSON(out)
}

func currentStudent(c *fiber.Ctx) (*domain.Student, error) {
	student, err := auth.GetStudent(c)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return student, nil
}
