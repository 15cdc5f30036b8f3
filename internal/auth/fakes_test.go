package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/projectfair/backend/internal/domain"
)

type fakeAdmins struct {
	rows map[int64]*domain.Admin
	err  error
}

func (f *fakeAdmins) GetByID(_ context.Context, id int64) (*domain.Admin, error) {
	if f.err != nil {
		return nil, f.err
	}
	admin, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *admin
	return &copied, nil
}

type fakeStudents struct {
	rows map[int64]*domain.Student
	err  error
}

func (f *fakeStudents) GetByID(_ context.Context, id int64) (*domain.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	student, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *student
	return &copied, nil
}

type fakeRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
}

func newFakeRevocations() *fakeRevocations {
	return &fakeRevocations{revoked: map[string]time.Time{}}
}

func (f *fakeRevocations) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.revoked[token] = expiresAt
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[token]
	return ok, nil
}

func testFixtures() (*fakeAdmins, *fakeStudents) {
	admins := &fakeAdmins{rows: map[int64]*domain.Admin{
		1: {ID: 1, FirstName: "Root", LastName: "User", Email: "root@example.com", Role: domain.AdminRoleRoot},
		2: {ID: 2, FirstName: "Paula", LastName: "Prof", Email: "prof@example.com", Role: domain.AdminRoleProfessor},
		4: {ID: 4, FirstName: "Carl", LastName: "Coord", Email: "coord@example.com", Role: domain.AdminRoleCoordinator},
	}}
	students := &fakeStudents{rows: map[int64]*domain.Student{}}
	for id := int64(100); id < 150; id++ {
		students.rows[id] = &domain.Student{
			ID:           id,
			FirstName:    "Student",
			LastName:     "Number",
			Email:        fmt.Sprintf("s%d@studenti.example.edu", id),
			UniversityID: 200000 + id,
		}
	}
	return admins, students
}
