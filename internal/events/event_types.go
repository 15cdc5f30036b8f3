package events

import (
	"time"

	"github.com/projectfair/backend/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventGroupCreated           EventType = "group_created"
	EventGroupMemberAdded       EventType = "group_member_added"
	EventPasswordResetRequested EventType = "password_reset_requested"
)

// Actor identifies who caused an event.
type Actor struct {
	Type      domain.SubjectType `json:"type"`
	AdminID   *int64             `json:"admin_id,omitempty"`
	StudentID *int64             `json:"student_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// GroupCreatedPayload describes a group formed with a security code.
type GroupCreatedPayload struct {
	GroupID   int64  `json:"group_id"`
	ProjectID int64  `json:"project_id"`
	CodeID    int64  `json:"code_id"`
	Name      string `json:"name"`
}

// GroupMemberAddedPayload payload.
type GroupMemberAddedPayload struct {
	GroupID   int64  `json:"group_id"`
	ProjectID int64  `json:"project_id"`
	StudentID int64  `json:"student_id"`
	Email     string `json:"email"`
}

// PasswordResetRequestedPayload carries what the mailer needs to reach the account owner.
type PasswordResetRequestedPayload struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// StudentActor builds the actor for a student-initiated event.
func StudentActor(id int64) Actor {
	return Actor{Type: domain.SubjectTypeStudent, StudentID: &id}
}

// SubjectActor builds the actor for either subject type.
func SubjectActor(subjectType domain.SubjectType, id int64) Actor {
	if subjectType == domain.SubjectTypeAdmin {
		return Actor{Type: subjectType, AdminID: &id}
	}
	return StudentActor(id)
}
