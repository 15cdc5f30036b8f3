package dto

import "time"

// CreateSecurityCodeRequest payload.
type CreateSecurityCodeRequest struct {
	ProjectID  int64     `json:"project_id"`
	UserRoleID int       `json:"user_role_id"`
	Expiration time.Time `json:"expiration"`
}

// CreateSecurityCodeResponse returns the generated code.
type CreateSecurityCodeResponse struct {
	Code string `json:"code"`
}

// SecurityCodeResponse describes a stored code.
type SecurityCodeResponse struct {
	SecurityCodeID int64     `json:"security_code_id"`
	ProjectID      int64     `json:"project_id"`
	UserRoleID     int       `json:"user_role_id"`
	Code           string    `json:"code"`
	Expiration     time.Time `json:"expiration"`
}

// SecurityCodeRequest carries a code typed by a student.
type SecurityCodeRequest struct {
	SecurityCode string `json:"security_code"`
}

// ValidateCodeResponse reports whether a code can still be used to create a group.
type ValidateCodeResponse struct {
	IsValid bool         `json:"is_valid"`
	Project *ProjectInfo `json:"project"`
}
