package events

import (
	"time"
)

// EventType represents the severity of an event.
type EventType string

const (
	// EventTypeNormal indicates normal, non-problematic events.
	EventTypeNormal EventType = "Normal"

	// EventTypeWarning indicates events that may require attention.
	EventTypeWarning EventType = "Warning"
)

// EventReason represents the reason code for an event.
type EventReason string

// Source event reasons
const (
	// ReasonSourceCreated indicates a declared source was added.
	ReasonSourceCreated EventReason = "SourceCreated"

	// ReasonSourceRemoved indicates an absent-declared source was removed.
	ReasonSourceRemoved EventReason = "SourceRemoved"

	// ReasonSourceRecreated indicates a source was removed and re-added to
	// correct fields with no in-place update.
	ReasonSourceRecreated EventReason = "SourceRecreated"

	// ReasonSourceEnabled indicates a source was switched on.
	ReasonSourceEnabled EventReason = "SourceEnabled"

	// ReasonSourceDisabled indicates a source was switched off.
	ReasonSourceDisabled EventReason = "SourceDisabled"
)

// Feature event reasons
const (
	// ReasonFeatureEnabled indicates a feature toggle was switched on.
	ReasonFeatureEnabled EventReason = "FeatureEnabled"

	// ReasonFeatureDisabled indicates a feature toggle was switched off.
	ReasonFeatureDisabled EventReason = "FeatureDisabled"
)

// Reconciliation event reasons
const (
	// ReasonReconcileFailed indicates a reconciliation pass failed.
	ReasonReconcileFailed EventReason = "ReconcileFailed"

	// ReasonUnknownResource indicates a declared feature is not defined by
	// the provider.
	ReasonUnknownResource EventReason = "UnknownResource"
)

// Declaration and sync event reasons
const (
	// ReasonDeclarationInvalid indicates a declaration file failed to load.
	ReasonDeclarationInvalid EventReason = "DeclarationInvalid"

	// ReasonDeclarationsSynced indicates the declaration repository was
	// pulled successfully.
	ReasonDeclarationsSynced EventReason = "DeclarationsSynced"

	// ReasonDeclarationSyncFailed indicates the declaration repository
	// pull failed.
	ReasonDeclarationSyncFailed EventReason = "DeclarationSyncFailed"
)

// EventData holds contextual information for event message templating.
type EventData struct {
	// Name is the name of the resource involved in the event.
	Name string

	// Kind is the resource kind ("source" or "feature").
	Kind string

	// Reason is the diff engine's change summary, when one exists.
	Reason string

	// Error contains error information for failure events.
	Error string
}

// Event is one recorded reconciliation event.
type Event struct {
	// ID uniquely identifies the event.
	ID string `json:"id"`

	// Type is the event severity.
	Type EventType `json:"type"`

	// Reason is the machine-readable reason code.
	Reason EventReason `json:"reason"`

	// Resource names the affected resource as kind/name.
	Resource string `json:"resource"`

	// Message is the rendered human-readable message.
	Message string `json:"message"`

	// Timestamp is when the event was recorded.
	Timestamp time.Time `json:"timestamp"`
}

// getEventType returns the appropriate EventType for a given EventReason.
func getEventType(reason EventReason) EventType {
	switch reason {
	case ReasonReconcileFailed,
		ReasonUnknownResource,
		ReasonDeclarationInvalid,
		ReasonDeclarationSyncFailed:
		return EventTypeWarning
	default:
		return EventTypeNormal
	}
}
