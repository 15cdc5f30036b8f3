package domain

// Admin models a professor, tutor, coordinator or root operator.
type Admin struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         AdminRole
}
