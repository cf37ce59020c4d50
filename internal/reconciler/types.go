package reconciler

import (
	"context"
	"time"
)

// ResourceType represents the type of resource being reconciled.
type ResourceType string

const (
	// ResourceTypeSource represents declared package sources.
	ResourceTypeSource ResourceType = "Source"

	// ResourceTypeFeature represents declared feature toggles, both the
	// standard and GUI variants.
	ResourceTypeFeature ResourceType = "Feature"
)

// ChangeEvent represents a detected change in a declaration.
type ChangeEvent struct {
	// Type is the type of resource that changed.
	Type ResourceType

	// Name is the name of the resource that changed.
	Name string

	// Operation describes what kind of change occurred.
	Operation ChangeOperation

	// Timestamp is when the change was detected.
	Timestamp time.Time

	// Source indicates where the change came from.
	Source ChangeSource

	// FilePath is the path to the declaration file that changed
	// (filesystem source only).
	FilePath string
}

// ChangeOperation represents the type of change detected.
type ChangeOperation string

const (
	// OperationCreate indicates a new declaration was created.
	OperationCreate ChangeOperation = "Create"

	// OperationUpdate indicates an existing declaration was modified.
	OperationUpdate ChangeOperation = "Update"

	// OperationDelete indicates a declaration was deleted.
	OperationDelete ChangeOperation = "Delete"
)

// ChangeSource indicates where a change originated.
type ChangeSource string

const (
	// SourceFilesystem indicates the change came from filesystem watching.
	SourceFilesystem ChangeSource = "Filesystem"

	// SourceGitSync indicates the change came from a declaration
	// repository sync.
	SourceGitSync ChangeSource = "GitSync"

	// SourceManual indicates the change was triggered manually.
	SourceManual ChangeSource = "Manual"
)

// Result represents the outcome of a reconciliation attempt as seen by the
// Manager. It is distinct from api.ReconcileResult, which is the
// caller-facing per-resource outcome; Result only carries what the
// scheduler needs for retry decisions.
type Result struct {
	// Requeue indicates whether the resource should be requeued for retry.
	Requeue bool

	// RequeueAfter specifies when to requeue (0 means use default backoff).
	RequeueAfter time.Duration

	// Error is any error that occurred during reconciliation.
	Error error
}

// ReconcileRequest represents a request to reconcile a specific resource.
type ReconcileRequest struct {
	// Type is the type of resource to reconcile.
	Type ResourceType

	// Name is the name of the resource.
	Name string

	// Attempt is the current retry attempt number (starts at 1).
	Attempt int

	// LastError is the error from the previous attempt, if any.
	LastError error
}

// Reconciler is the interface that resource-specific reconcilers implement
// to be driven by the Manager.
//
// Reconcile must be idempotent: the desired state is re-fetched and
// re-diffed on every call, so repeating a request converges to the same
// live state.
type Reconciler interface {
	// Reconcile processes a single reconciliation request.
	Reconcile(ctx context.Context, req ReconcileRequest) Result

	// GetResourceType returns the type of resource this reconciler handles.
	GetResourceType() ResourceType
}

// ChangeDetector is the interface for components that detect declaration
// changes.
type ChangeDetector interface {
	// Start begins watching for changes. The detector sends change events
	// to the provided channel until the context is cancelled or Stop is
	// called.
	Start(ctx context.Context, changes chan<- ChangeEvent) error

	// Stop gracefully stops the change detector.
	Stop() error

	// GetSource returns the source type this detector monitors.
	GetSource() ChangeSource

	// AddResourceType adds a resource type to watch.
	AddResourceType(resourceType ResourceType) error

	// RemoveResourceType removes a resource type from watching.
	RemoveResourceType(resourceType ResourceType) error
}

// ReconcileQueue represents a queue of resources awaiting reconciliation.
type ReconcileQueue interface {
	// Add adds a request to the queue. If the same resource is already
	// queued, the existing entry is updated.
	Add(req ReconcileRequest)

	// Get retrieves the next request from the queue. Blocks until a
	// request is available or the context is cancelled.
	Get(ctx context.Context) (ReconcileRequest, bool)

	// Done marks a request as processed.
	Done(req ReconcileRequest)

	// Len returns the current queue length.
	Len() int

	// Shutdown signals the queue to stop accepting new items.
	Shutdown()
}

// ManagerConfig holds configuration for the reconciliation Manager.
type ManagerConfig struct {
	// DeclarationPath is the base path of the declaration directory tree.
	DeclarationPath string

	// WorkerCount is the number of concurrent reconciliation workers.
	// Defaults to 2 if not specified.
	WorkerCount int

	// MaxRetries is the maximum number of retry attempts for failed
	// reconciliations. Defaults to 5 if not specified.
	MaxRetries int

	// InitialBackoff is the initial backoff duration for retries.
	// Defaults to 1 second if not specified.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration for retries.
	// Defaults to 5 minutes if not specified.
	MaxBackoff time.Duration

	// DebounceInterval is how long to wait for additional changes before
	// reconciling. Defaults to 500ms if not specified.
	DebounceInterval time.Duration

	// ReconcileTimeout bounds a single reconciliation pass so a hung
	// provider call cannot block a worker forever. Defaults to 30 seconds.
	ReconcileTimeout time.Duration

	// DisabledResourceTypes is a set of resource types that should not be
	// reconciled. Empty or nil means all registered types are enabled.
	DisabledResourceTypes map[ResourceType]bool

	// OnChange, when set, runs for every accepted change event before the
	// reconcile request is queued. Serve mode uses it to reload the
	// declaration store so workers see the new desired state.
	OnChange func(ChangeEvent)
}

// ReconcileStatus represents the current status of reconciliation for a
// resource.
type ReconcileStatus struct {
	// ResourceType is the type of the resource.
	ResourceType ResourceType

	// Name is the name of the resource.
	Name string

	// LastReconcileTime is when the resource was last successfully
	// reconciled.
	LastReconcileTime *time.Time

	// LastError is the most recent error, if any.
	LastError string

	// RetryCount is the number of retry attempts.
	RetryCount int

	// State describes the current reconciliation state.
	State ReconcileState
}

// ReconcileState represents the state of a resource's reconciliation.
type ReconcileState string

const (
	// StatePending means the resource is awaiting reconciliation.
	StatePending ReconcileState = "Pending"

	// StateReconciling means reconciliation is in progress.
	StateReconciling ReconcileState = "Reconciling"

	// StateSynced means the resource is successfully reconciled.
	StateSynced ReconcileState = "Synced"

	// StateError means reconciliation failed and may be retried.
	StateError ReconcileState = "Error"

	// StateFailed means reconciliation failed permanently (max retries
	// exceeded or a non-retryable error).
	StateFailed ReconcileState = "Failed"
)
