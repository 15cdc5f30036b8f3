package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/projectfair/backend/internal/api/dto"
	"github.com/projectfair/backend/internal/service"
	apperrors "github.com/projectfair/backend/pkg/util/errorutil"
)

// SecurityCodesHandler exposes security code endpoints for admins and students.
type SecurityCodesHandler struct {
	codes *service.SecurityCodeService
}

// NewSecurityCodesHandler constructs handler.
func NewSecurityCodesHandler(codes *service.SecurityCodeService) *SecurityCodesHandler {
	return &SecurityCodesHandler{codes: codes}
}

// Create handles POST /v1/admins/security-codes.
func (h *SecurityCodesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSecurityCodeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	code, err := h.codes.CreateCode(c.UserContext(), service.CreateSecurityCodeInput{
		ProjectID:   req.ProjectID,
		StudentRole: req.UserRoleID,
		Expiration:  req.Expiration,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.CreateSecurityCodeResponse{Code: code.Code})
}

// List handles GET /v1/admins/security-codes.
func (h *SecurityCodesHandler) List(c *fiber.Ctx) error {
	var projectID *int64
	if raw := c.QueryInt("project_id", 0); raw > 0 {
		id := int64(raw)
		projectID = &id
	}
	codes, err := h.codes.ListCodes(c.UserContext(), projectID)
	if err != nil {
		return err
	}
	out := make([]dto.SecurityCodeResponse, 0, len(codes))
	for i := range codes {
		out = append(out, securityCodeResponse(&codes[i]))
	}
	return c.JSON(out)
}

// Delete handles DELETE /v1/admins/security-codes/:id.
func (h *SecurityCodesHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.codes.DeleteCode(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Validate handles POST /v1/students/security-codes/validate.
func (h *SecurityCodesHandler) Validate(c *fiber.Ctx) error {
	code, err := parseCode(c)
	if err != nil {
		return err
	}
	valid, project, err := h.codes.ValidateCode(c.UserContext(), code)
	if err != nil {
		return err
	}
	return c.JSON(dto.ValidateCodeResponse{IsValid: valid, Project: projectInfo(project)})
}

func parseCode(c *fiber.Ctx) (string, error) {
	var req dto.SecurityCodeRequest
	if err := parseBody(c, &req); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.SecurityCode) == "" {
		return "", apperrors.NewValidationError("security_code required")
	}
	return req.SecurityCode, nil
}
