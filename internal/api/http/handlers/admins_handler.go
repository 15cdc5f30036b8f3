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

// AdminsHandler exposes admin account management.
type AdminsHandler struct {
	admins *service.AdminService
}

// NewAdminsHandler constructs handler.
func NewAdminsHandler(admins *service.AdminService) *AdminsHandler {
	return &AdminsHandler{admins: admins}
}

// List handles GET /v1/admins/users.
func (h *AdminsHandler) List(c *fiber.Ctx) error {
	filters := service.AdminListFilters{
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.QueryInt("role", 0); raw != 0 {
		role, err := domain.ParseAdminRole(raw)
		if err != nil {
			return apperrors.NewValidationError("invalid role")
		}
		filters.Role = &role
	}

	admins, err := h.admins.ListAdmins(c.UserContext(), filters)
	if err != nil {
		return err
	}
	return c.JSON(adminResponses(admins))
}

// Get handles GET /v1/admins/users/:id.
func (h *AdminsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	admin, err := h.admins.GetAdmin(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(adminResponse(admin))
}

// Create handles POST /v1/admins/users.
func (h *AdminsHandler) Create(c *fiber.Ctx) error {
	actor, err := auth.GetAdmin(c)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	var req dto.CreateAdminRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	admin, err := h.admins.CreateAdmin(c.UserContext(), actor, service.CreateAdminInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      domain.AdminRole(req.AdminRoleID),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(adminResponse(admin))
}

// Delete handles DELETE /v1/admins/users/:id.
func (h *AdminsHandler) Delete(c *fiber.Ctx) error {
	actor, err := auth.GetAdmin(c)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.admins.DeleteAdmin(c.UserContext(), actor, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
