// Package events publishes domain events after their writes commit.
package events

import (
	"context"
	"sync"
	"time"
)

// Event types.
const (
	TypeRoleCreated      = "role.created"
	TypeCommunityCreated = "community.created"
	TypeMemberAdded      = "member.added"
)

// PublishTimeout bounds a single publish after commit.
const PublishTimeout = 250 * time.Millisecond

// Event is one committed change. Payload is JSON encoded on the wire.
type Event struct {
	Type       string
	Payload    any
	OccurredAt time.Time
}

// Publisher delivers events. Failures never undo the write that produced the event.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Noop discards every event. Used when Redis is not configured.
type Noop struct{}

// Publish discards the event.
func (Noop) Publish(context.Context, Event) error { return nil }

// Memory keeps published events in order. Safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	events []Event
	err    error
}

// NewMemory returns an empty in-memory publisher.
func NewMemory() *Memory {
	return &Memory{}
}

// FailWith makes subsequent Publish calls return err without recording.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Publish records the event.
func (m *Memory) Publish(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Types returns the recorded event types in publish order.
func (m *Memory) Types() []string {
	events := m.Events()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}
