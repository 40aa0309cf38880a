package worker

import (
	"github.com/spec-kit/lead-distribution/internal/service"
)

// StartNotificationWorker subscribes the notification handlers so contact
// events reach the log and the external feed.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
