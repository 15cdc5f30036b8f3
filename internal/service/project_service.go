package service

import (
	"context"
	"strings"
	"time"

	"github.com/projectfair/backend/internal/domain"
	"github.com/projectfair/backend/internal/repository"
	apperrors "github.com/projectfair/backend/pkg/util/errorutil"
)

// ProjectService manages projects and their coordinators.
type ProjectService struct {
	projects repository.ProjectRepository
	admins   repository.AdminRepository
	now      func() time.Time
}

// ProjectInput carries the fields of a new project.
type ProjectInput struct {
	Name              string
	Year              *int
	MaxStudentUploads int
	MaxGroupSize      int
	Active            *bool
}

// ProjectPatch holds optional project updates.
type ProjectPatch struct {
	Name              *string
	Year              *int
	MaxStudentUploads *int
	MaxGroupSize      *int
	Active            *bool
}

// NewProjectService constructs the service.
func NewProjectService(projects repository.ProjectRepository, admins repository.AdminRepository) *ProjectService {
	return &ProjectService{projects: projects, admins: admins, now: time.Now}
}

// CreateProject validates and stores a project. Year defaults to the current year.
func (s *ProjectService) CreateProject(ctx context.Context, input ProjectInput) (*domain.Project, error) {
	project := &domain.Project{
		Name:              strings.TrimSpace(input.Name),
		Year:              s.now().Year(),
		MaxStudentUploads: input.MaxStudentUploads,
		MaxGroupSize:      input.MaxGroupSize,
		Active:            true,
	}
	if input.Year != nil {
		project.Year = *input.Year
	}
	if input.Active != nil {
		project.Active = *input.Active
	}
	if err := validateProject(project); err != nil {
		return nil, err
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperrors.MapError(err)
	}
	return project, nil
}

// UpdateProject applies a partial update.
func (s *ProjectService) UpdateProject(ctx context.Context, id int64, patch ProjectPatch) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "project")
	}
	if patch.Name != nil {
		project.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Year != nil {
		project.Year = *patch.Year
	}
	if patch.MaxStudentUploads != nil {
		project.MaxStudentUploads = *patch.MaxStudentUploads
	}
	if patch.MaxGroupSize != nil {
		project.MaxGroupSize = *patch.MaxGroupSize
	}
	if patch.Active != nil {
		project.Active = *patch.Active
	}
	if err := validateProject(project); err != nil {
		return nil, err
	}
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, notFoundOr(err, "project")
	}
	return project, nil
}

// DeleteProject removes a project.
func (s *ProjectService) DeleteProject(ctx context.Context, id int64) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return notFoundOr(err, "project")
	}
	return nil
}

// GetProject fetches one project.
func (s *ProjectService) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "project")
	}
	return project, nil
}

// ListProjects returns all projects.
func (s *ProjectService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return projects, nil
}

// ListStudentProjects returns the projects a student has joined.
func (s *ProjectService) ListStudentProjects(ctx context.Context, studentID int64) ([]domain.Project, error) {
	projects, err := s.projects.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return projects, nil
}

// AssignCoordinator links a coordinator-tier admin to a project.
func (s *ProjectService) AssignCoordinator(ctx context.Context, projectID, adminID int64) error {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return notFoundOr(err, "project")
	}
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return notFoundOr(err, "admin")
	}
	if admin.Role != domain.AdminRoleCoordinator {
		return apperrors.NewValidationError("only coordinators can be assigned to a project")
	}
	if err := s.projects.AddCoordinator(ctx, projectID, adminID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListCoordinators returns the coordinators of a project.
func (s *ProjectService) ListCoordinators(ctx context.Context, projectID int64) ([]domain.Admin, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, notFoundOr(err, "project")
	}
	admins, err := s.projects.ListCoordinators(ctx, projectID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return admins, nil
}

// RemoveCoordinator unlinks a coordinator from a project.
func (s *ProjectService) RemoveCoordinator(ctx context.Context, projectID, adminID int64) error {
	if err := s.projects.RemoveCoordinator(ctx, projectID, adminID); err != nil {
		return notFoundOr(err, "coordinator assignment")
	}
	return nil
}

func validateProject(p *domain.Project) error {
	switch {
	case p.Name == "":
		return apperrors.NewValidationError("name is required")
	case p.Year < 1:
		return apperrors.NewValidationError("year must be positive")
	case p.MaxStudentUploads < 1:
		return apperrors.NewValidationError("max_student_uploads must be at least 1")
	case p.MaxGroupSize < 2:
		return apperrors.NewValidationError("max_group_size must be at least 2")
	}
	return nil
}
