package worker

import (
	"go.uber.org/zap"

	"github.com/projectfair/backend/internal/config"
	"github.com/projectfair/backend/internal/events"
	"github.com/projectfair/backend/internal/service"
)

// StartNotificationWorker subscribes notification handlers to dispatcher and
// returns the running service. A nil dispatcher disables notifications.
func StartNotificationWorker(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *service.NotificationService {
	if dispatcher == nil {
		return nil
	}
	notifications := service.NewNotificationService(dispatcher, logger.Named("notifications"), cfg)
	notifications.RegisterHandlers()
	return notifications
}
