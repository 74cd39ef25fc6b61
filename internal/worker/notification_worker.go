package worker

import (
	"github.com/spec-kit/claims-service/internal/events"
	"github.com/spec-kit/claims-service/internal/service"
)

// StartNotificationWorker wires the notification service into the dispatcher.
func StartNotificationWorker(notificationService *service.NotificationService, dispatcher events.Dispatcher) {
	if notificationService == nil || dispatcher == nil {
		return
	}
	notificationService.RegisterHandlers(dispatcher)
}
