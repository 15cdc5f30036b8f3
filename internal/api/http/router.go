package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/projectfair/backend/internal/api/http/handlers"
	"github.com/projectfair/backend/internal/auth"
	"github.com/projectfair/backend/internal/domain"
	"github.com/projectfair/backend/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Admins         *handlers.AdminsHandler
	Projects       *handlers.ProjectsHandler
	SecurityCodes  *handlers.SecurityCodesHandler
	Groups         *handlers.GroupsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if registry := cfg.Metrics.Registry(); registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	var (
		anyAdmin       = auth.RequireAdmin()
		managers       = auth.RequireAdmin(domain.AdminRoleRoot, domain.AdminRoleProfessor)
		accountReaders = auth.RequireAdmin(domain.AdminRoleRoot, domain.AdminRoleProfessor, domain.AdminRoleTutor)
		projectStaff   = auth.RequireAdmin(domain.AdminRoleRoot, domain.AdminRoleProfessor, domain.AdminRoleCoordinator)
		student        = auth.RequireStudent()
	)

	v1 := app.Group("/v1", cfg.AuthMiddleware.Handle)
	v1.Post("/auth/logout", auth.RequireAuthenticated(), cfg.Accounts.Logout)

	admins := v1.Group("/admins")
	admins.Post("/auth/login", cfg.Accounts.AdminLogin)
	admins.Post("/auth/forgot-password", cfg.Accounts.AdminForgotPassword)
	admins.Post("/auth/reset-password", cfg.Accounts.AdminResetPassword)

	admins.Get("/users/me", anyAdmin, cfg.Accounts.AdminMe)
	admins.Get("/users", accountReaders, cfg.Admins.List)
	admins.Post("/users", managers, cfg.Admins.Create)
	admins.Get("/users/:id", accountReaders, cfg.Admins.Get)
	admins.Delete("/users/:id", managers, cfg.Admins.Delete)

	admins.Get("/projects", anyAdmin, cfg.Projects.List)
	admins.Post("/projects", managers, cfg.Projects.Create)
	admins.Get("/projects/:id", anyAdmin, cfg.Projects.Get)
	admins.Patch("/projects/:id", managers, cfg.Projects.Update)
	admins.Delete("/projects/:id", managers, cfg.Projects.Delete)
	admins.Get("/projects/:id/coordinators", managers, cfg.Projects.ListCoordinators)
	admins.Post("/projects/:id/coordinators", managers, cfg.Projects.AssignCoordinator)
	admins.Delete("/projects/:id/coordinators/:admin_id", managers, cfg.Projects.RemoveCoordinator)

	admins.Get("/security-codes", projectStaff, cfg.SecurityCodes.List)
	admins.Post("/security-codes", projectStaff, cfg.SecurityCodes.Create)
	admins.Delete("/security-codes/:id", projectStaff, cfg.SecurityCodes.Delete)
	admins.Get("/groups/projects/:id", projectStaff, cfg.Groups.ProjectGroups)

	students := v1.Group("/students")
	students.Post("/auth/login", cfg.Accounts.StudentLogin)
	students.Post("/auth/forgot-password", cfg.Accounts.StudentForgotPassword)
	students.Post("/auth/reset-password", cfg.Accounts.StudentResetPassword)

	students.Get("/users/me", student, cfg.Accounts.StudentMe)
	students.Get("/projects", student, cfg.Projects.StudentProjects)
	students.Post("/security-codes/validate", student, cfg.SecurityCodes.Validate)

	students.Post("/groups", student, cfg.Groups.Create)
	students.Get("/groups", student, cfg.Groups.List)
	students.Post("/groups/check-name", student, cfg.Groups.CheckName)
	students.Delete("/groups/:group_id", student, cfg.Groups.Delete)
	students.Get("/groups/:group_id/members", student, cfg.Groups.Members)
	students.Post("/groups/:group_id/members", student, cfg.Groups.AddMember)
	students.Delete("/groups/:group_id/members", student, cfg.Groups.RemoveMember)

	app.Use(observability.NotFound)
}
