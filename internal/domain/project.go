package domain

import "time"

// Project is a course project students join through security codes.
type Project struct {
	ID                int64
	Name              string
	Year              int
	MaxStudentUploads int
	MaxGroupSize      int
	Active            bool
}

// CoordinatorAssignment links a coordinator admin to a project.
type CoordinatorAssignment struct {
	AdminID    int64
	ProjectID  int64
	AssignedAt time.Time
}
