package domain

// Student is an account registered with a university email.
type Student struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	UniversityID int64
	PasswordHash string
	IsPending    bool
}
