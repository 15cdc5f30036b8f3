package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/projectfair/backend/internal/domain"
)

// SecurityCodeRepository persists project security codes.
type SecurityCodeRepository interface {
	Create(ctx context.Context, code *domain.SecurityCode) error
	Delete(ctx context.Context, id int64) error
	GetByCode(ctx context.Context, code string) (*domain.SecurityCode, error)
	Exists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, projectID *int64) ([]domain.SecurityCode, error)
}

type securityCodeRepository struct {
	pool *pgxpool.Pool
}

// NewSecurityCodeRepository constructs repository.
func NewSecurityCodeRepository(pool *pgxpool.Pool) SecurityCodeRepository {
	return &securityCodeRepository{pool: pool}
}

func (r *securityCodeRepository) Create(ctx context.Context, code *domain.SecurityCode) error {
	const query = `
        INSERT INTO security_codes (project_id, student_role_id, code, expiration)
        VALUES ($1,$2,$3,$4)
        RETURNING security_code_id`
	return r.pool.QueryRow(ctx, query,
		code.ProjectID,
		int(code.StudentRole),
		code.Code,
		code.Expiration,
	).Scan(&code.ID)
}

func (r *securityCodeRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM security_codes WHERE security_code_id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *securityCodeRepository) GetByCode(ctx context.Context, code string) (*domain.SecurityCode, error) {
	const query = `
        SELECT security_code_id, project_id, student_role_id, code, expiration
        FROM security_codes WHERE code=$1`
	return scanSecurityCode(r.pool.QueryRow(ctx, query, code))
}

func (r *securityCodeRepository) Exists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM security_codes WHERE code=$1)`, code).Scan(&exists)
	return exists, err
}

func (r *securityCodeRepository) List(ctx context.Context, projectID *int64) ([]domain.SecurityCode, error) {
	query := `
        SELECT security_code_id, project_id, student_role_id, code, expiration
        FROM security_codes`
	args := []any{}
	if projectID != nil {
		query += " WHERE project_id=$1"
		args = append(args, *projectID)
	}
	query += " ORDER BY expiration DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SecurityCode
	for rows.Next() {
		code, err := scanSecurityCode(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *code)
	}
	return result, rows.Err()
}

func scanSecurityCode(row pgx.Row) (*domain.SecurityCode, error) {
	var (
		code   domain.SecurityCode
		roleID int
	)
	if err := row.Scan(
		&code.ID,
		&code.ProjectID,
		&roleID,
		&code.Code,
		&code.Expiration,
	); err != nil {
		return nil, err
	}
	code.StudentRole = domain.StudentRole(roleID)
	return &code, nil
}
