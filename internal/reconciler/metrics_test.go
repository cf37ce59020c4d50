package reconciler

import (
	"testing"
)

func TestMetrics_RecordsPerResourceType(t *testing.T) {
	m := NewMetrics()

	m.RecordAttempt(ResourceTypeSource)
	m.RecordSuccess(ResourceTypeSource)
	m.RecordAttempt(ResourceTypeFeature)
	m.RecordFailure(ResourceTypeFeature)

	summary := m.Summary()

	if summary.TotalAttempts != 2 {
		t.Errorf("expected 2 attempts, got %d", summary.TotalAttempts)
	}
	if summary.TotalSuccesses != 1 {
		t.Errorf("expected 1 success, got %d", summary.TotalSuccesses)
	}
	if summary.TotalFailures != 1 {
		t.Errorf("expected 1 failure, got %d", summary.TotalFailures)
	}
	if summary.FailureRate != 0.5 {
		t.Errorf("expected failure rate 0.5, got %f", summary.FailureRate)
	}

	if len(summary.PerResource) != 2 {
		t.Fatalf("expected metrics for 2 resource types, got %d", len(summary.PerResource))
	}

	byType := make(map[ResourceType]ResourceTypeMetricView)
	for _, view := range summary.PerResource {
		byType[view.ResourceType] = view
	}

	source := byType[ResourceTypeSource]
	if source.Attempts != 1 || source.Successes != 1 || source.Failures != 0 {
		t.Errorf("unexpected source metrics: %+v", source)
	}
	if source.LastSuccessAt.IsZero() {
		t.Error("expected LastSuccessAt to be set")
	}

	feature := byType[ResourceTypeFeature]
	if feature.Attempts != 1 || feature.Successes != 0 || feature.Failures != 1 {
		t.Errorf("unexpected feature metrics: %+v", feature)
	}
	if feature.LastFailureAt.IsZero() {
		t.Error("expected LastFailureAt to be set")
	}
}

func TestMetrics_EmptySummary(t *testing.T) {
	m := NewMetrics()

	summary := m.Summary()
	if summary.TotalAttempts != 0 || summary.FailureRate != 0 {
		t.Errorf("unexpected empty summary: %+v", summary)
	}
	if len(summary.PerResource) != 0 {
		t.Errorf("expected no per-resource metrics, got %d", len(summary.PerResource))
	}
}

func TestMetrics_ConcurrentRecording(t *testing.T) {
	m := NewMetrics()

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				m.RecordAttempt(ResourceTypeSource)
				m.RecordSuccess(ResourceTypeSource)
			}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}

	summary := m.Summary()
	if summary.TotalAttempts != 400 {
		t.Errorf("expected 400 attempts, got %d", summary.TotalAttempts)
	}
	if summary.TotalSuccesses != 400 {
		t.Errorf("expected 400 successes, got %d", summary.TotalSuccesses)
	}
}
