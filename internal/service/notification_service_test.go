package service

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/helpdesk-kit/ticketing-service/internal/config"
	"github.com/helpdesk-kit/ticketing-service/internal/domain"
	"github.com/helpdesk-kit/ticketing-service/internal/events"
)

// fakeActivityFeed mirrors the capped-list semantics of the Redis feed.
type fakeActivityFeed struct {
	lists map[string][]string
}

func newFakeActivityFeed() *fakeActivityFeed {
	return &fakeActivityFeed{lists: make(map[string][]string)}
}

func (f *fakeActivityFeed) PushCapped(_ context.Context, key string, value []byte, max int64) error {
	list := append([]string{string(value)}, f.lists[key]...)
	if int64(len(list)) > max {
		list = list[:max]
	}
	f.lists[key] = list
	return nil
}

func (f *fakeActivityFeed) ListRange(_ context.Context, key string, n int64) ([]string, error) {
	list := f.lists[key]
	if int64(len(list)) > n {
		list = list[:n]
	}
	return append([]string{}, list...), nil
}

func newFeedService(max int64) (*NotificationService, events.Dispatcher) {
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, newFakeActivityFeed(), zap.NewNop(), config.NotificationConfig{
		ActivityFeedMax: max,
	})
	svc.RegisterHandlers()
	return svc, dispatcher
}

func publishStatusEvents(dispatcher events.Dispatcher, count int) {
	ctx := context.Background()
	for i := 0; i < count; i++ {
		_ = dispatcher.Publish(ctx, events.Event{
			ID:       fmt.Sprintf("evt-%d", i),
			Type:     events.EventStatusChanged,
			TicketID: fmt.Sprintf("ticket-%d", i),
			Actor:    domain.Identity{SubjectID: "op-1", Role: domain.RoleOperator},
		})
	}
}

func TestActivityFeedRetainsNewestEvents(t *testing.T) {
	svc, dispatcher := newFeedService(3)
	publishStatusEvents(dispatcher, 5)

	recent, err := svc.RecentActivity(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent activity: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("feed length = %d, want the 3 newest", len(recent))
	}
	for i, wantID := range []string{"evt-4", "evt-3", "evt-2"} {
		if recent[i].ID != wantID {
			t.Errorf("feed[%d].ID = %s, want %s", i, recent[i].ID, wantID)
		}
	}
}

func TestRecentActivityHonorsLimit(t *testing.T) {
	svc, dispatcher := newFeedService(100)
	publishStatusEvents(dispatcher, 4)

	recent, err := svc.RecentActivity(context.Background(), 2)
	if err != nil {
		t.Fatalf("recent activity: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("feed length = %d, want 2", len(recent))
	}
	if recent[0].ID != "evt-3" || recent[1].ID != "evt-2" {
		t.Errorf("feed order = %s, %s; want evt-3, evt-2", recent[0].ID, recent[1].ID)
	}
}

func TestRecentActivityWithoutFeed(t *testing.T) {
	svc := NewNotificationService(events.NewInMemoryDispatcher(), nil, zap.NewNop(), config.NotificationConfig{})

	recent, err := svc.RecentActivity(context.Background(), 5)
	if err != nil {
		t.Fatalf("recent activity: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("feed length = %d, want 0", len(recent))
	}
}
