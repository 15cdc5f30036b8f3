package dto

// CreateAdminRequest payload.
type CreateAdminRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	AdminRoleID int    `json:"admin_role_id"`
}

// AdminResponse describes an admin without credentials.
type AdminResponse struct {
	AdminID     int64  `json:"admin_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	AdminRoleID int    `json:"admin_role_id"`
	Role        string `json:"role"`
}

// StudentResponse describes a student without credentials.
type StudentResponse struct {
	StudentID    int64  `json:"student_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	UniversityID int64  `json:"university_id"`
}
