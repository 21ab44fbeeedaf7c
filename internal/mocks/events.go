package mocks

import (
	"context"
	"sync"

	"github.com/card-builder/internal/events"
)

// MockPublisher records published card events
type MockPublisher struct {
	mu           sync.Mutex
	Events       []events.CardEvent
	PublishError error
	Closed       bool
}

var _ events.Publisher = (*MockPublisher)(nil)

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, ev events.CardEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PublishError != nil {
		return m.PublishError
	}
	m.Events = append(m.Events, ev)
	return nil
}

func (m *MockPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Types returns the recorded event types in publish order
func (m *MockPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Events))
	for _, ev := range m.Events {
		out = append(out, ev.Type)
	}
	return out
}
