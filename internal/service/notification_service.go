package service

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/helpdesk-kit/ticketing-service/internal/config"
	"github.com/helpdesk-kit/ticketing-service/internal/events"
	apperrors "github.com/helpdesk-kit/ticketing-service/pkg/util"
)

const activityFeedKey = "ticket_activity"

// ActivityFeed stores the recent ticket events shown on staff dashboards.
// The Redis wrapper implements it with a capped list.
type ActivityFeed interface {
	PushCapped(ctx context.Context, key string, value []byte, max int64) error
	ListRange(ctx context.Context, key string, n int64) ([]string, error)
}

// NotificationService reacts to domain events: it emits notification stubs
// and maintains the capped recent-activity feed.
type NotificationService struct {
	dispatcher events.Dispatcher
	feed       ActivityFeed
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, feed ActivityFeed, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		feed:       feed,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to every ticket event.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventStatusChanged,
		events.EventTicketCorrected,
		events.EventTicketAssigned,
		events.EventCommentAdded,
		events.EventTicketDeleted,
	} {
		n.dispatcher.Subscribe(eventType, n.handleEvent)
	}
}

func (n *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("ticket event",
		zap.String("type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor", event.Actor.SubjectID))

	n.recordActivity(ctx, event)

	switch event.Type {
	case events.EventTicketCreated, events.EventCommentAdded:
		n.sendEmailStub(event)
		n.sendWebhookStub(event)
	default:
		n.sendWebhookStub(event)
	}
	return nil
}

// recordActivity pushes the event onto the capped feed. Feed failures are
// logged, never surfaced: the mutation already committed.
func (n *NotificationService) recordActivity(ctx context.Context, event events.Event) {
	if n.feed == nil {
		return
	}
	raw, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("marshal activity event", zap.Error(err))
		return
	}
	max := n.cfg.ActivityFeedMax
	if max <= 0 {
		max = 100
	}
	if err := n.feed.PushCapped(ctx, activityFeedKey, raw, max); err != nil {
		n.logger.Warn("record activity", zap.Error(err))
	}
}

// RecentActivity returns the newest events, most recent first.
func (n *NotificationService) RecentActivity(ctx context.Context, limit int64) ([]events.Event, error) {
	if n.feed == nil {
		return []events.Event{}, nil
	}
	if limit <= 0 {
		limit = 20
	}
	raw, err := n.feed.ListRange(ctx, activityFeedKey, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	feed := make([]events.Event, 0, len(raw))
	for _, item := range raw {
		var event events.Event
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			continue
		}
		feed = append(feed, event)
	}
	return feed, nil
}

func (n *NotificationService) sendEmailStub(event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("email notification",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookStub(event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("webhook notification",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
