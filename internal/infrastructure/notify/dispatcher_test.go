package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matchbook-app/matchbook/internal/platform/logging"
	"github.com/matchbook-app/matchbook/internal/usecase"
)

type recordingSender struct {
	mu     sync.Mutex
	events []usecase.Event
	err    error
}

func (s *recordingSender) Send(_ context.Context, event usecase.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestDispatcher_DeliversAllEvents(t *testing.T) {
	sender := &recordingSender{}
	dispatcher, err := NewDispatcher(sender, 2, logging.NewNop())
	if err != nil {
		t.Fatalf("create dispatcher: %v", err)
	}

	for i := 0; i < 10; i++ {
		dispatcher.Publish(t.Context(), usecase.Event{
			Type:       usecase.EventBookingConfirmed,
			MatchID:    "match-senayan-friday",
			OccurredAt: time.Now().UTC(),
		})
	}
	dispatcher.Close()

	if got := sender.count(); got != 10 {
		t.Fatalf("expected 10 delivered events, got %d", got)
	}
}

func TestDispatcher_SenderFailureDoesNotBlockPublish(t *testing.T) {
	sender := &recordingSender{err: context.DeadlineExceeded}
	dispatcher, err := NewDispatcher(sender, 1, logging.NewNop())
	if err != nil {
		t.Fatalf("create dispatcher: %v", err)
	}

	dispatcher.Publish(t.Context(), usecase.Event{Type: usecase.EventMatchPublished, MatchID: "match-kemang-sunday"})
	dispatcher.Close()

	if got := sender.count(); got != 1 {
		t.Fatalf("expected 1 attempted delivery, got %d", got)
	}
}
