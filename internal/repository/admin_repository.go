package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/projectfair/backend/internal/domain"
)

// AdminRepository handles persistence for admin accounts.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	Update(ctx context.Context, admin *domain.Admin) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	List(ctx context.Context, filter AdminFilter) ([]domain.Admin, error)
}

// AdminFilter defines query params for admin listing.
type AdminFilter struct {
	Role   *domain.AdminRole
	Limit  int
	Offset int
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository instantiates the repository.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

const adminColumns = `admin_id, first_name, last_name, email, password_hash, admin_role_id`

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	const query = `
        INSERT INTO admins (first_name, last_name, email, password_hash, admin_role_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING admin_id`

	return r.pool.QueryRow(ctx, query,
		admin.FirstName,
		admin.LastName,
		admin.Email,
		admin.PasswordHash,
		int(admin.Role),
	).Scan(&admin.ID)
}

func (r *adminRepository) Update(ctx context.Context, admin *domain.Admin) error {
	const query = `
        UPDATE admins
        SET first_name=$1, last_name=$2, email=$3, password_hash=$4, admin_role_id=$5
        WHERE admin_id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		admin.FirstName,
		admin.LastName,
		admin.Email,
		admin.PasswordHash,
		int(admin.Role),
		admin.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM admins WHERE admin_id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminRepository) GetByID(ctx context.Context, id int64) (*domain.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE admin_id=$1`
	return scanAdmin(r.pool.QueryRow(ctx, query, id))
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE lower(email)=lower($1)`
	return scanAdmin(r.pool.QueryRow(ctx, query, email))
}

func (r *adminRepository) List(ctx context.Context, filter AdminFilter) ([]domain.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins`
	args := []any{}
	clauses := []string{}

	if filter.Role != nil {
		args = append(args, int(*filter.Role))
		clauses = append(clauses, fmt.Sprintf("admin_role_id=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY admin_id"
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
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

func scanAdmin(row pgx.Row) (*domain.Admin, error) {
	var (
		admin  domain.Admin
		roleID int
	)
	if err := row.Scan(
		&admin.ID,
		&admin.FirstName,
		&admin.LastName,
		&admin.Email,
		&admin.PasswordHash,
		&roleID,
	); err != nil {
		return nil, err
	}
	admin.Role = domain.AdminRole(roleID)
	return &admin, nil
}
