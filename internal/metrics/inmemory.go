package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	RolesCreated         uint64
	CommunitiesCreated   uint64
	MembersAdded         uint64
	SlugConflicts        uint64
	StoreUnavailable     uint64
	StoreDurationCount   uint64
	StoreDurationTotalNs int64
	EventsPublished      uint64
	EventsDropped        uint64
}

// InMemoryRecorder keeps counters in process memory; /metrics renders them.
type InMemoryRecorder struct {
	rolesCreated         atomic.Uint64
	communitiesCreated   atomic.Uint64
	membersAdded         atomic.Uint64
	slugConflicts        atomic.Uint64
	storeUnavailable     atomic.Uint64
	storeDurationCount   atomic.Uint64
	storeDurationTotalNs atomic.Int64
	eventsPublished      atomic.Uint64
	eventsDropped        atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		RolesCreated:         m.rolesCreated.Load(),
		CommunitiesCreated:   m.communitiesCreated.Load(),
		MembersAdded:         m.membersAdded.Load(),
		SlugConflicts:        m.slugConflicts.Load(),
		StoreUnavailable:     m.storeUnavailable.Load(),
		StoreDurationCount:   m.storeDurationCount.Load(),
		StoreDurationTotalNs: m.storeDurationTotalNs.Load(),
		EventsPublished:      m.eventsPublished.Load(),
		EventsDropped:        m.eventsDropped.Load(),
	}
}

// IncRoleCreated increments the role created counter.
func (m *InMemoryRecorder) IncRoleCreated() {
	m.rolesCreated.Add(1)
}

// IncCommunityCreated increments the community created counter.
func (m *InMemoryRecorder) IncCommunityCreated() {
	m.communitiesCreated.Add(1)
}

// IncMemberAdded increments the member counter. Founding members count too.
func (m *InMemoryRecorder) IncMemberAdded() {
	m.membersAdded.Add(1)
}

// IncSlugConflict increments the rejected duplicate slug counter.
func (m *InMemoryRecorder) IncSlugConflict() {
	m.slugConflicts.Add(1)
}

// IncStoreUnavailable increments the transient store failure counter.
func (m *InMemoryRecorder) IncStoreUnavailable() {
	m.storeUnavailable.Add(1)
}

// ObserveStoreDuration records how long a service call spent in the store.
func (m *InMemoryRecorder) ObserveStoreDuration(duration time.Duration) {
	m.storeDurationCount.Add(1)
	m.storeDurationTotalNs.Add(duration.Nanoseconds())
}

// IncEventPublished increments the publish counter for status.
func (m *InMemoryRecorder) IncEventPublished(status string) {
	if status == StatusSuccess {
		m.eventsPublished.Add(1)
		return
	}
	m.eventsDropped.Add(1)
}
