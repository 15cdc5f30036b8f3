package dto

// CreateProjectRequest payload. Year defaults to the current year.
type CreateProjectRequest struct {
	Name              string `json:"name"`
	Year              *int   `json:"year"`
	MaxStudentUploads int    `json:"max_student_uploads"`
	MaxGroupSize      int    `json:"max_group_size"`
	Active            *bool  `json:"active"`
}

// UpdateProjectRequest holds optional fields.
type UpdateProjectRequest struct {
	Name              *string `json:"name"`
	Year              *int    `json:"year"`
	MaxStudentUploads *int    `json:"max_student_uploads"`
	MaxGroupSize      *int    `json:"max_group_size"`
	Active            *bool   `json:"active"`
}

// ProjectResponse describes a project.
type ProjectResponse struct {
	ProjectID         int64  `json:"project_id"`
	Name              string `json:"name"`
	Year              int    `json:"year"`
	MaxStudentUploads int    `json:"max_student_uploads"`
	MaxGroupSize      int    `json:"max_group_size"`
	Active            bool   `json:"active"`
}

// ProjectInfo is the short project view shown to students.
type ProjectInfo struct {
	ProjectID int64  `json:"project_id"`
	Name      string `json:"name"`
	Year      int    `json:"year"`
}

// AssignCoordinatorRequest payload.
type AssignCoordinatorRequest struct {
	AdminID int64 `json:"admin_id"`
}
