package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/projectfair/backend/internal/config"
	"github.com/projectfair/backend/internal/events"
)

// NotificationService reacts to domain events. Mail delivery is a logging stub.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventGroupCreated, n.handleGroupCreated)
	n.dispatcher.Subscribe(events.EventGroupMemberAdded, n.handleGroupMemberAdded)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
}

// outgoingMail is a message ready for delivery.
type outgoingMail struct {
	To      string
	Subject string
	Body    string
}

func (n *NotificationService) handleGroupCreated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.GroupCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.Int64("group_id", payload.GroupID),
		zap.Int64("project_id", payload.ProjectID),
		zap.Int64("code_id", payload.CodeID),
	}
	if event.Actor.StudentID != nil {
		fields = append(fields, zap.Int64("student_id", *event.Actor.StudentID))
	}
	n.logger.Info("GroupCreated", fields...)
	return nil
}

func (n *NotificationService) handleGroupMemberAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.GroupMemberAddedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("GroupMemberAdded",
		zap.String("event_id", event.ID),
		zap.Int64("group_id", payload.GroupID),
		zap.Int64("student_id", payload.StudentID))
	n.sendEmailNotificationStub(ctx, outgoingMail{
		To:      payload.Email,
		Subject: "You were added to a project group",
		Body:    fmt.Sprintf("You are now a member of group %d.", payload.GroupID),
	}, event)
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("PasswordResetRequested",
		zap.String("event_id", event.ID),
		zap.String("subject_type", string(event.Actor.Type)),
		zap.Time("expires_at", payload.ExpiresAt))
	n.sendEmailNotificationStub(ctx, n.passwordResetMail(payload), event)
	return nil
}

func (n *NotificationService) passwordResetMail(payload events.PasswordResetRequestedPayload) outgoingMail {
	link := strings.TrimRight(n.cfg.AppBaseURL, "/") + "/reset-password?token=" + payload.Token
	return outgoingMail{
		To:      payload.Email,
		Subject: "Reset your password",
		Body:    "Use this link to choose a new password: " + link,
	}
}

// sendEmailNotificationStub stands in for SMTP delivery. Bodies are never logged.
func (n *NotificationService) sendEmailNotificationStub(_ context.Context, mail outgoingMail, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", mail.To),
		zap.String("subject", mail.Subject),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}
