package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls []string
	d.Subscribe(EventGroupCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "first")
		return errors.New("mailer unavailable")
	})
	d.Subscribe(EventGroupCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventPasswordResetRequested, func(_ context.Context, e Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventGroupCreated})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mailer unavailable")
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventPasswordResetRequested}))
}

func TestSubjectActor(t *testing.T) {
	admin := SubjectActor("ADMIN", 3)
	require.NotNil(t, admin.AdminID)
	assert.Equal(t, int64(3), *admin.AdminID)
	assert.Nil(t, admin.StudentID)

	student := SubjectActor("STUDENT", 9)
	require.NotNil(t, student.StudentID)
	assert.Nil(t, student.AdminID)
}

func TestPublishRecoversHandlerPanics(t *testing.T) {
	d := NewInMemoryDispatcher()

	reached := false
	d.Subscribe(EventPasswordResetRequested, func(context.Context, Event) error {
		panic("nil mailer")
	})
	d.Subscribe(EventPasswordResetRequested, func(context.Context, Event) error {
		reached = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventPasswordResetRequested})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	assert.True(t, reached)
}
