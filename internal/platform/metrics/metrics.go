package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments of the service. A nil *Metrics is
// valid and records nothing, which keeps tests free of registry setup.
type Metrics struct {
	workItemsCreated     *prometheus.CounterVec
	statusTransitions    *prometheus.CounterVec
	escalations          prometheus.Counter
	escalationsResolved  prometheus.Counter
	notificationFailures prometheus.Counter
	cacheHits            prometheus.Counter
	cacheMisses          prometheus.Counter
}

// New registers the service's instruments on the default registry.
func New() *Metrics {
	return &Metrics{
		workItemsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cos",
			Name:      "work_items_created_total",
			Help:      "Work items created, by type.",
		}, []string{"type"}),
		statusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cos",
			Name:      "work_item_transitions_total",
			Help:      "Work item status transitions, by target status.",
		}, []string{"to_status"}),
		escalations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "cos",
			Name:      "escalations_total",
			Help:      "Escalation episodes opened.",
		}),
		escalationsResolved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "cos",
			Name:      "escalations_resolved_total",
			Help:      "Escalation episodes resolved.",
		}),
		notificationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "cos",
			Name:      "notification_failures_total",
			Help:      "Notification dispatches that failed.",
		}),
		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "cos",
			Name:      "aggregate_cache_hits_total",
			Help:      "Aggregate snapshot cache hits.",
		}),
		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "cos",
			Name:      "aggregate_cache_misses_total",
			Help:      "Aggregate snapshot cache misses.",
		}),
	}
}

// IncWorkItemsCreated counts a created work item.
func (m *Metrics) IncWorkItemsCreated(itemType string) {
	if m == nil {
		return
	}
	m.workItemsCreated.WithLabelValues(itemType).Inc()
}

// IncStatusTransitions counts a status transition.
func (m *Metrics) IncStatusTransitions(toStatus string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(toStatus).Inc()
}

// IncEscalations counts an opened escalation episode.
func (m *Metrics) IncEscalations() {
	if m == nil {
		return
	}
	m.escalations.Inc()
}

// IncEscalationsResolved counts a resolved escalation episode.
func (m *Metrics) IncEscalationsResolved() {
	if m == nil {
		return
	}
	m.escalationsResolved.Inc()
}

// IncNotificationFailures counts a failed notification dispatch.
func (m *Metrics) IncNotificationFailures() {
	if m == nil {
		return
	}
	m.notificationFailures.Inc()
}

// IncCacheHit counts an aggregate cache hit.
func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// IncCacheMiss counts an aggregate cache miss.
func (m *Metrics) IncCacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}
