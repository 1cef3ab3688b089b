package handler

import (
	"fmt"
	"net/http"

	"github.com/commons/commons/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "commons_roles_created_total %d\n", snap.RolesCreated)
	writeMetric(w, "commons_communities_created_total %d\n", snap.CommunitiesCreated)
	writeMetric(w, "commons_members_added_total %d\n", snap.MembersAdded)
	writeMetric(w, "commons_slug_conflicts_total %d\n", snap.SlugConflicts)

	writeMetric(w, "commons_store_unavailable_total %d\n", snap.StoreUnavailable)
	writeMetric(w, "commons_store_duration_seconds_count %d\n", snap.StoreDurationCount)
	writeMetric(w, "commons_store_duration_seconds_sum %.6f\n", float64(snap.StoreDurationTotalNs)/1e9)

	writeMetric(w, "commons_events_published_total{status=\"%s\"} %d\n", metrics.StatusSuccess, snap.EventsPublished)
	writeMetric(w, "commons_events_published_total{status=\"%s\"} %d\n", metrics.StatusDropped, snap.EventsDropped)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
