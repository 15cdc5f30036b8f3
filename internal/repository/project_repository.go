package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/projectfair/backend/internal/domain"
)

// ProjectRepository persists projects and their coordinators.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	ListForStudent(ctx context.Context, studentID int64) ([]domain.Project, error)

	AddCoordinator(ctx context.Context, projectID, adminID int64) error
	ListCoordinators(ctx context.Context, projectID int64) ([]domain.Admin, error)
	RemoveCoordinator(ctx context.Context, projectID, adminID int64) error
}

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository constructs repository.
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepository{pool: pool}
}

const projectColumns = `project_id, name, year, max_student_uploads, max_group_size, active`

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	const query = `
        INSERT INTO projects (name, year, max_student_uploads, max_group_size, active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING project_id`
	return r.pool.QueryRow(ctx, query,
		project.Name,
		project.Year,
		project.MaxStudentUploads,
		project.MaxGroupSize,
		project.Active,
	).Scan(&project.ID)
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	const query = `
        UPDATE projects
        SET name=$1, year=$2, max_student_uploads=$3, max_group_size=$4, active=$5
        WHERE project_id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		project.Name,
		project.Year,
		project.MaxStudentUploads,
		project.MaxGroupSize,
		project.Active,
		project.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE project_id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE project_id=$1`
	return scanProject(r.pool.QueryRow(ctx, query, id))
}

func (r *projectRepository) List(ctx context.Context) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY year DESC, project_id`
	return r.queryProjects(ctx, query)
}

func (r *projectRepository) ListForStudent(ctx context.Context, studentID int64) ([]domain.Project, error) {
	const query = `
        SELECT DISTINCT p.project_id, p.name, p.year, p.max_student_uploads, p.max_group_size, p.active
        FROM projects p
        JOIN groups g ON g.project_id = p.project_id
        JOIN group_members gm ON gm.group_id = g.group_id
        WHERE gm.student_id=$1
        ORDER BY p.year DESC, p.project_id`
	return r.queryProjects(ctx, query, studentID)
}

func (r *projectRepository) queryProjects(ctx context.Context, query string, args ...any) ([]domain.Project, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *project)
	}
	return result, rows.Err()
}

func (r *projectRepository) AddCoordinator(ctx context.Context, projectID, adminID int64) error {
	const query = `
        INSERT INTO coordinator_projects (admin_id, project_id)
        VALUES ($1,$2)
        ON CONFLICT (admin_id, project_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, adminID, projectID)
	return err
}

func (r *projectRepository) ListCoordinators(ctx context.Context, projectID int64) ([]domain.Admin, error) {
	const query = `
        SELECT a.admin_id, a.first_name, a.last_name, a.email, a.password_hash, a.admin_role_id
        FROM admins a
        JOIN coordinator_projects cp ON cp.admin_id = a.admin_id
        WHERE cp.project_id=$1
        ORDER BY cp.assigned_at`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Admin
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *admin)
	}
	return result, rows.Err()
}

func (r *projectRepository) RemoveCoordinator(ctx context.Context, projectID, adminID int64) error {
	cmd, err := r.pool.Exec(ctx,
		`DELETE FROM coordinator_projects WHERE admin_id=$1 AND project_id=$2`,
		adminID, projectID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var project domain.Project
	if err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Year,
		&project.MaxStudentUploads,
		&project.MaxGroupSize,
		&project.Active,
	); err != nil {
		return nil, err
	}
	return &project, nil
}
