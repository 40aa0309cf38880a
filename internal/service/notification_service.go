package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-distribution/internal/events"
	"github.com/spec-kit/lead-distribution/internal/observability"
)

// NotificationService logs contact events and forwards them to the external feed.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  events.Publisher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewNotificationService creates the service. A nil publisher only logs.
func NewNotificationService(dispatcher events.Dispatcher, publisher events.Publisher, metrics *observability.Metrics, logger *zap.Logger) *NotificationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventContactCreated, n.handleContactCreated)
	n.dispatcher.Subscribe(events.EventContactReassigned, n.handleContactReassigned)
	n.dispatcher.Subscribe(events.EventContactStatusChanged, n.handleContactStatusChanged)
}

func (n *NotificationService) handleContactCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("ContactCreated",
		zap.String("contact_id", event.ContactID),
		zap.Stringp("operator_id", event.Payload.OperatorID))
	n.forward(ctx, event)
	return nil
}

func (n *NotificationService) handleContactReassigned(ctx context.Context, event events.Event) error {
	n.logger.Info("ContactReassigned",
		zap.String("contact_id", event.ContactID),
		zap.Stringp("operator_id", event.Payload.OperatorID))
	n.forward(ctx, event)
	return nil
}

func (n *NotificationService) handleContactStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("ContactStatusChanged",
		zap.String("contact_id", event.ContactID),
		zap.String("old_status", string(event.Payload.OldStatus)),
		zap.String("new_status", string(event.Payload.Status)))
	n.forward(ctx, event)
	return nil
}

// forward never fails the caller; the feed is best-effort.
func (n *NotificationService) forward(ctx context.Context, event events.Event) {
	err := n.publisher.Publish(ctx, event)
	n.metrics.RecordPublish(string(event.Type), err)
	if err != nil {
		n.logger.Warn("forward event failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}
