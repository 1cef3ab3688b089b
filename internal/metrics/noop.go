package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncRoleCreated()                             {}
func (n *NoopRecorder) IncCommunityCreated()                        {}
func (n *NoopRecorder) IncMemberAdded()                             {}
func (n *NoopRecorder) IncSlugConflict()                            {}
func (n *NoopRecorder) IncStoreUnavailable()                        {}
func (n *NoopRecorder) ObserveStoreDuration(duration time.Duration) {}
func (n *NoopRecorder) IncEventPublished(status string)             {}
