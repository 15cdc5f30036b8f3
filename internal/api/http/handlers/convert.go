package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/projectfair/backend/internal/api/dto"
	"github.com/projectfair/backend/internal/domain"
	apperrors "github.com/projectfair/backend/pkg/util/errorutil"
)

func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.NewValidationError("invalid " + name)
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	return nil
}

func adminResponse(a *domain.Admin) dto.AdminResponse {
	return dto.AdminResponse{
		AdminID:     a.ID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Email:       a.Email,
		AdminRoleID: int(a.Role),
		Role:        a.Role.String(),
	}
}

func adminResponses(admins []domain.Admin) []dto.AdminResponse {
	out := make([]dto.AdminResponse, 0, len(admins))
	for i := range admins {
		out = append(out, adminResponse(&admins[i]))
	}
	return out
}

func studentResponse(s *domain.Student) dto.StudentResponse {
	return dto.StudentResponse{
		StudentID:    s.ID,
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		Email:        s.Email,
		UniversityID: s.UniversityID,
	}
}

func projectResponse(p *domain.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ProjectID:         p.ID,
		Name:              p.Name,
		Year:              p.Year,
		MaxStudentUploads: p.MaxStudentUploads,
		MaxGroupSize:      p.MaxGroupSize,
		Active:            p.Active,
	}
}

func projectResponses(projects []domain.Project) []dto.ProjectResponse {
	out := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, projectResponse(&projects[i]))
	}
	return out
}

func projectInfo(p *domain.Project) *dto.ProjectInfo {
	if p == nil {
		return nil
	}
	return &dto.ProjectInfo{ProjectID: p.ID, Name: p.Name, Year: p.Year}
}

func securityCodeResponse(s *domain.SecurityCode) dto.SecurityCodeResponse {
	return dto.SecurityCodeResponse{
		SecurityCodeID: s.ID,
		ProjectID:      s.ProjectID,
		UserRoleID:     int(s.StudentRole),
		Code:           s.Code,
		Expiration:     s.Expiration,
	}
}

func groupResponse(g *domain.Group) dto.GroupResponse {
	return dto.GroupResponse{
		GroupID:   g.ID,
		ProjectID: g.ProjectID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
	}
}

func groupMemberResponse(m *domain.GroupMemberDetail) dto.GroupMemberResponse {
	return dto.GroupMemberResponse{
		StudentID: m.StudentID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		RoleID:    int(m.Role),
		RoleName:  m.Role.String(),
	}
}

func groupSummaryResponse(s *domain.GroupSummary) dto.GroupSummaryResponse {
	out := dto.GroupSummaryResponse{
		GroupID:     s.Group.ID,
		Name:        s.Group.Name,
		MemberCount: s.MemberCount,
	}
	if s.Leader != nil {
		out.GroupLeader = &dto.GroupLeaderInfo{
			StudentID: s.Leader.StudentID,
			Name:      s.Leader.FirstName + " " + s.Leader.LastName,
			Email:     s.Leader.Email,
		}
	}
	return out
}
