package events

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"wrangle/internal/api"
	"wrangle/pkg/logging"
)

// DefaultCapacity is the recorder's ring buffer size.
const DefaultCapacity = 256

// Recorder keeps the most recent events in a fixed-size ring buffer. It
// implements the reconciler's event sink and is safe for concurrent use.
type Recorder struct {
	mu sync.Mutex

	templates *MessageTemplateEngine
	buffer    []Event
	next      int
	full      bool

	// log, when set, additionally persists every recorded event.
	log *Log
}

// NewRecorder creates a recorder holding up to capacity events. A
// non-positive capacity falls back to DefaultCapacity.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{
		templates: NewMessageTemplateEngine(),
		buffer:    make([]Event, capacity),
	}
}

// WithLog additionally persists every recorded event to the given log.
func (r *Recorder) WithLog(log *Log) *Recorder {
	r.log = log
	return r
}

// Record renders and stores one event.
func (r *Recorder) Record(reason EventReason, data EventData) {
	event := Event{
		ID:        uuid.NewString(),
		Type:      getEventType(reason),
		Reason:    reason,
		Resource:  data.Kind + "/" + data.Name,
		Message:   r.templates.Render(reason, data),
		Timestamp: time.Now(),
	}

	logging.Debug("EventRecorder", "Recording event: reason=%s, message=%s", reason, event.Message)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffer[r.next] = event
	r.next = (r.next + 1) % len(r.buffer)
	if r.next == 0 {
		r.full = true
	}

	if r.log != nil {
		if err := r.log.Append(event); err != nil {
			logging.Warn("EventRecorder", "Failed to persist event: %v", err)
		}
	}
}

// ReconcileSucceeded records the event for a completed reconciliation pass
// that changed something. No-op and dry-run passes are not recorded.
func (r *Recorder) ReconcileSucceeded(result api.ReconcileResult) {
	if !result.Changed || result.DryRun {
		return
	}

	reason, ok := reasonForResult(result)
	if !ok {
		return
	}

	r.Record(reason, EventData{
		Name:   result.Resource,
		Kind:   string(result.Kind),
		Reason: reasonText(result),
	})
}

// ReconcileFailed records the event for a failed reconciliation pass.
func (r *Recorder) ReconcileFailed(kind api.ResourceKind, name string, err error) {
	reason := ReasonReconcileFailed
	if api.IsUnknownResource(err) {
		reason = ReasonUnknownResource
	}

	r.Record(reason, EventData{
		Name:  name,
		Kind:  string(kind),
		Error: err.Error(),
	})
}

// List returns the recorded events, oldest first.
func (r *Recorder) List() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		return append([]Event(nil), r.buffer[:r.next]...)
	}

	events := make([]Event, 0, len(r.buffer))
	events = append(events, r.buffer[r.next:]...)
	events = append(events, r.buffer[:r.next]...)
	return events
}

// SetTemplate allows customizing the message template for a specific event reason.
func (r *Recorder) SetTemplate(reason EventReason, template string) {
	r.templates.SetTemplate(reason, template)
}

// reasonForResult maps a reconcile result to its event reason.
func reasonForResult(result api.ReconcileResult) (EventReason, bool) {
	if result.Kind == api.ResourceFeature {
		switch result.Action {
		case api.ActionEnable:
			return ReasonFeatureEnabled, true
		case api.ActionDisable:
			return ReasonFeatureDisabled, true
		}
		return "", false
	}

	switch result.Action {
	case api.ActionCreate:
		return ReasonSourceCreated, true
	case api.ActionRemove:
		return ReasonSourceRemoved, true
	case api.ActionRecreate:
		return ReasonSourceRecreated, true
	case api.ActionEnable:
		return ReasonSourceEnabled, true
	case api.ActionDisable:
		return ReasonSourceDisabled, true
	}
	return "", false
}

// reasonText extracts the diff reason for recreate events; other actions
// are self-explanatory.
func reasonText(result api.ReconcileResult) string {
	if result.Action != api.ActionRecreate {
		return ""
	}
	return result.Description
}
