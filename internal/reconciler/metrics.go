package reconciler

import (
	"sync"
	"time"
)

// Metrics tracks reconciliation outcomes for monitoring.
//
// Counts are tracked per resource type so that a flaky provider surface
// (say, feature toggles on a host without the GUI CLI installed) can be
// spotted without digging through logs.
type Metrics struct {
	mu sync.RWMutex

	// Per-resource-type metrics
	resourceMetrics map[ResourceType]*resourceTypeMetrics

	// Global counters for summary metrics
	totalAttempts  int64
	totalSuccesses int64
	totalFailures  int64
}

// resourceTypeMetrics holds reconciliation metrics for a specific resource type.
type resourceTypeMetrics struct {
	ResourceType  ResourceType
	Attempts      int64
	Successes     int64
	Failures      int64
	LastAttemptAt time.Time
	LastSuccessAt time.Time
	LastFailureAt time.Time
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		resourceMetrics: make(map[ResourceType]*resourceTypeMetrics),
	}
}

// getOrCreateResourceMetrics returns existing metrics for a resource type or creates new ones.
func (m *Metrics) getOrCreateResourceMetrics(resourceType ResourceType) *resourceTypeMetrics {
	if metrics, exists := m.resourceMetrics[resourceType]; exists {
		return metrics
	}

	metrics := &resourceTypeMetrics{
		ResourceType: resourceType,
	}
	m.resourceMetrics[resourceType] = metrics
	return metrics
}

// RecordAttempt records a reconciliation attempt.
func (m *Metrics) RecordAttempt(resourceType ResourceType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	metrics := m.getOrCreateResourceMetrics(resourceType)
	metrics.Attempts++
	metrics.LastAttemptAt = time.Now()
	m.totalAttempts++
}

// RecordSuccess records a successful reconciliation.
func (m *Metrics) RecordSuccess(resourceType ResourceType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	metrics := m.getOrCreateResourceMetrics(resourceType)
	metrics.Successes++
	metrics.LastSuccessAt = time.Now()
	m.totalSuccesses++
}

// RecordFailure records a failed reconciliation attempt.
func (m *Metrics) RecordFailure(resourceType ResourceType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	metrics := m.getOrCreateResourceMetrics(resourceType)
	metrics.Failures++
	metrics.LastFailureAt = time.Now()
	m.totalFailures++
}

// MetricsSummary provides a summary of reconciliation metrics.
type MetricsSummary struct {
	TotalAttempts  int64                    `json:"total_attempts"`
	TotalSuccesses int64                    `json:"total_successes"`
	TotalFailures  int64                    `json:"total_failures"`
	FailureRate    float64                  `json:"failure_rate"`
	PerResource    []ResourceTypeMetricView `json:"per_resource_type"`
}

// ResourceTypeMetricView is a snapshot of metrics for one resource type.
type ResourceTypeMetricView struct {
	ResourceType  ResourceType `json:"resource_type"`
	Attempts      int64        `json:"attempts"`
	Successes     int64        `json:"successes"`
	Failures      int64        `json:"failures"`
	LastAttemptAt time.Time    `json:"last_attempt_at,omitempty"`
	LastSuccessAt time.Time    `json:"last_success_at,omitempty"`
	LastFailureAt time.Time    `json:"last_failure_at,omitempty"`
}

// Summary returns a point-in-time summary of all metrics.
func (m *Metrics) Summary() MetricsSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := MetricsSummary{
		TotalAttempts:  m.totalAttempts,
		TotalSuccesses: m.totalSuccesses,
		TotalFailures:  m.totalFailures,
	}

	if m.totalAttempts > 0 {
		summary.FailureRate = float64(m.totalFailures) / float64(m.totalAttempts)
	}

	for _, metrics := range m.resourceMetrics {
		summary.PerResource = append(summary.PerResource, ResourceTypeMetricView{
			ResourceType:  metrics.ResourceType,
			Attempts:      metrics.Attempts,
			Successes:     metrics.Successes,
			Failures:      metrics.Failures,
			LastAttemptAt: metrics.LastAttemptAt,
			LastSuccessAt: metrics.LastSuccessAt,
			LastFailureAt: metrics.LastFailureAt,
		})
	}

	return summary
}
