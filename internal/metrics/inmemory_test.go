package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestInMemoryRecorder_Counters(t *testing.T) {
	m := NewInMemory()

	m.IncRoleCreated()
	m.IncCommunityCreated()
	m.IncMemberAdded()
	m.IncMemberAdded()
	m.IncSlugConflict()
	m.IncStoreUnavailable()
	m.ObserveStoreDuration(1500 * time.Millisecond)
	m.ObserveStoreDuration(500 * time.Millisecond)
	m.IncEventPublished(StatusSuccess)
	m.IncEventPublished(StatusDropped)
	m.IncEventPublished(StatusDropped)

	want := Snapshot{
		RolesCreated:         1,
		CommunitiesCreated:   1,
		MembersAdded:         2,
		SlugConflicts:        1,
		StoreUnavailable:     1,
		StoreDurationCount:   2,
		StoreDurationTotalNs: int64(2 * time.Second),
		EventsPublished:      1,
		EventsDropped:        2,
	}
	if got := m.Snapshot(); got != want {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}
}

func TestInMemoryRecorder_Concurrent(t *testing.T) {
	m := NewInMemory()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncCommunityCreated()
		}()
	}
	wg.Wait()

	if got := m.Snapshot().CommunitiesCreated; got != 50 {
		t.Errorf("CommunitiesCreated = %d, want 50", got)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoop()
	r.IncRoleCreated()
	r.ObserveStoreDuration(time.Second)
	r.IncEventPublished(StatusSuccess)
}
