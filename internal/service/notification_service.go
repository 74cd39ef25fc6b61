package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/claims-service/internal/config"
	"github.com/spec-kit/claims-service/internal/events"
)

// NotificationService reacts to claim events. Email and webhook delivery are
// stubbed to structured log lines; the summary cache is invalidated on any
// event that changes dashboard counts.
type NotificationService struct {
	cfg    config.NotificationConfig
	admin  *AdminService
	logger *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(cfg config.NotificationConfig, admin *AdminService, logger *zap.Logger) *NotificationService {
	return &NotificationService{cfg: cfg, admin: admin, logger: logger}
}

// RegisterHandlers subscribes the service to every claim event type.
func (s *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	for _, eventType := range []events.EventType{
		events.EventClaimCreated,
		events.EventClaimStatusChanged,
		events.EventSurveyorAssigned,
		events.EventClaimAssessed,
		events.EventPaymentUpdated,
		events.EventClaimDeleted,
	} {
		dispatcher.Subscribe(eventType, s.handle)
	}
}

func (s *NotificationService) handle(ctx context.Context, event events.Event) error {
	s.logger.Info("claim event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("claim_id", event.ClaimID),
		zap.String("actor_id", event.Actor.ID),
		zap.String("actor_role", string(event.Actor.Role)),
	)

	switch event.Type {
	case events.EventClaimCreated, events.EventClaimStatusChanged, events.EventClaimDeleted:
		if s.admin != nil {
			s.admin.InvalidateSummary(ctx)
		}
	}

	// Email and webhook delivery are not wired; the configured endpoints are
	// only surfaced in debug logs.
	if s.cfg.WebhookURL != "" {
		s.logger.Debug("webhook notification skipped, delivery not configured",
			zap.String("url", s.cfg.WebhookURL))
	}
	return nil
}
