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

const msgResetRequested = "if the account exists, password reset instructions have been sent"

// AccountsHandler exposes login, logout, profile and password reset endpoints.
type AccountsHandler struct {
	auth *service.AuthService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(authService *service.AuthService) *AccountsHandler {
	return &AccountsHandler{auth: authService}
}

// AdminLogin handles POST /v1/admins/auth/login.
func (h *AccountsHandler) AdminLogin(c *fiber.Ctx) error {
	req, err := parseLogin(c)
	if err != nil {
		return err
	}
	_, token, _, err := h.auth.LoginAdmin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{Token: token})
}

// StudentLogin handles POST /v1/students/auth/login.
func (h *AccountsHandler) StudentLogin(c *fiber.Ctx) error {
	req, err := parseLogin(c)
	if err != nil {
		return err
	}
	_, token, _, err := h.auth.LoginStudent(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{Token: token})
}

// Logout handles POST /v1/auth/logout.
func (h *AccountsHandler) Logout(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.auth.Logout(c.UserContext(), principal); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AdminMe handles GET /v1/admins/users/me.
func (h *AccountsHandler) AdminMe(c *fiber.Ctx) error {
	admin, err := auth.GetAdmin(c)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(adminResponse(admin))
}

// StudentMe handles GET /v1/students/users/me.
func (h *AccountsHandler) StudentMe(c *fiber.Ctx) error {
	student, err := auth.GetStudent(c)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(studentResponse(student))
}

// AdminForgotPassword handles POST /v1/admins/auth/forgot-password.
func (h *AccountsHandler) AdminForgotPassword(c *fiber.Ctx) error {
	return h.forgotPassword(c, domain.SubjectTypeAdmin)
}

// StudentForgotPassword handles POST /v1/students/auth/forgot-password.
func (h *AccountsHandler) StudentForgotPassword(c *fiber.Ctx) error {
	return h.forgotPassword(c, domain.SubjectTypeStudent)
}

// AdminResetPassword handles POST /v1/admins/auth/reset-password.
func (h *AccountsHandler) AdminResetPassword(c *fiber.Ctx) error {
	return h.resetPassword(c, domain.SubjectTypeAdmin)
}

// StudentResetPassword handles POST /v1/students/auth/reset-password.
func (h *AccountsHandler) StudentResetPassword(c *fiber.Ctx) error {
	return h.resetPassword(c, domain.SubjectTypeStudent)
}

func (h *AccountsHandler) forgotPassword(c *fiber.Ctx, subjectType domain.SubjectType) error {
	var req dto.ForgotPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required")
	}
	if _, err := h.auth.RequestPasswordReset(c.UserContext(), subjectType, req.Email); err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(dto.MessageResponse{Message: msgResetRequested})
}

func (h *AccountsHandler) resetPassword(c *fiber.Ctx, subjectType domain.SubjectType) error {
	var req dto.ResetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Token == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("token and new_password required")
	}
	if err := h.auth.ConfirmPasswordReset(c.UserContext(), subjectType, req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseLogin(c *fiber.Ctx) (*dto.LoginRequest, error) {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return nil, err
	}
	if req.Email == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("email and password required")
	}
	return &req, nil
}
