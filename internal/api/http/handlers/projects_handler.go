package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/projectfair/backend/internal/api/dto"
	"github.com/projectfair/backend/internal/auth"
	"github.com/projectfair/backend/internal/service"
	apperrors "github.com/projectfair/backend/pkg/util/errorutil"
)

// ProjectsHandler exposes project endpoints.
type ProjectsHandler struct {
	projects *service.ProjectService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(projects *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{projects: projects}
}

// Create handles POST /v1/admins/projects.
func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProjectRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	project, err := h.projects.CreateProject(c.UserContext(), service.ProjectInput{
		Name:              req.Name,
		Year:              req.Year,
		MaxStudentUploads: req.MaxStudentUploads,
		MaxGroupSize:      req.MaxGroupSize,
		Active:            req.Active,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(projectResponse(project))
}

// List handles GET /v1/admins/projects.
func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	projects, err := h.projects.ListProjects(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(projectResponses(projects))
}

// Get handles GET /v1/admins/projects/:id.
func (h *ProjectsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	project, err := h.projects.GetProject(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(projectResponse(project))
}

// Update handles PATCH /v1/admins/projects/:id.
func (h *ProjectsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateProjectRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	project, err := h.projects.UpdateProject(c.UserContext(), id, service.ProjectPatch{
		Name:              req.Name,
		Year:              req.Year,
		MaxStudentUploads: req.MaxStudentUploads,
		MaxGroupSize:      req.MaxGroupSize,
		Active:            req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(projectResponse(project))
}

// Delete handles DELETE /v1/admins/projects/:id.
func (h *ProjectsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.projects.DeleteProject(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AssignCoordinator handles POST /v1/admins/projects/:id/coordinators.
func (h *ProjectsHandler) AssignCoordinator(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignCoordinatorRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.AdminID < 1 {
		return apperrors.NewValidationError("admin_id required")
	}
	if err := h.projects.AssignCoordinator(c.UserContext(), id, req.AdminID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListCoordinators handles GET /v1/admins/projects/:id/coordinators.
func (h *ProjectsHandler) ListCoordinators(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	admins, err := h.projects.ListCoordinators(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(adminResponses(admins))
}

// RemoveCoordinator handles DELETE /v1/admins/projects/:id/coordinators/:admin_id.
func (h *ProjectsHandler) RemoveCoordinator(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	adminID, err := parseID(c, "admin_id")
	if err != nil {
		return err
	}
	if err := h.projects.RemoveCoordinator(c.UserContext(), id, adminID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// StudentProjects handles GET /v1/students/projects.
func (h *ProjectsHandler) StudentProjects(c *fiber.Ctx) error {
	student, err := auth.GetStudent(c)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	projects, err := h.projects.ListStudentProjects(c.UserContext(), student.ID)
	if err != nil {
		return err
	}
	return c.JSON(projectResponses(projects))
}
