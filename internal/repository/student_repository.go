package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/projectfair/backend/internal/domain"
)

// StudentRepository defines persistence access for students.
type StudentRepository interface {
	Update(ctx context.Context, student *domain.Student) error
	GetByID(ctx context.Context, id int64) (*domain.Student, error)
	GetByEmail(ctx context.Context, email string) (*domain.Student, error)
}

type studentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository returns a Postgres-backed implementation.
func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{pool: pool}
}

func (r *studentRepository) Update(ctx context.Context, student *domain.Student) error {
	const query = `
        UPDATE students
        SET first_name=$1, last_name=$2, email=$3, university_id=$4, password_hash=$5, is_pending=$6
        WHERE student_id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		student.FirstName,
		student.LastName,
		student.Email,
		student.UniversityID,
		student.PasswordHash,
		student.IsPending,
		student.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *studentRepository) GetByID(ctx context.Context, id int64) (*domain.Student, error) {
	const query = `
        SELECT student_id, first_name, last_name, email, university_id, password_hash, is_pending
        FROM students WHERE student_id=$1`
	return scanStudent(r.pool.QueryRow(ctx, query, id))
}

func (r *studentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	const query = `
        SELECT student_id, first_name, last_name, email, university_id, password_hash, is_pending
        FROM students WHERE lower(email)=lower($1)`
	return scanStudent(r.pool.QueryRow(ctx, query, email))
}

func scanStudent(row pgx.Row) (*domain.Student, error) {
	var student domain.Student
	if err := row.Scan(
		&student.ID,
		&student.FirstName,
		&student.LastName,
		&student.Email,
		&student.UniversityID,
		&student.PasswordHash,
		&student.IsPending,
	); err != nil {
		return nil, err
	}
	return &student, nil
}
