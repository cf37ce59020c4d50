package api

import (
	"errors"
	"fmt"
)

// UnknownResourceError reports a reconciliation target the provider has no
// entry for. Features are provider-defined and cannot be created by wrangle,
// so an unknown feature name is an error rather than a create trigger.
//
// The error is fatal for the affected resource's pass only; sibling passes
// are unaffected.
type UnknownResourceError struct {
	// Kind categorizes the resource (source, feature).
	Kind ResourceKind

	// Name is the resource that has no provider entry.
	Name string
}

// Error implements the error interface for UnknownResourceError.
func (e *UnknownResourceError) Error() string {
	return fmt.Sprintf("%s %q is not known to the provider", e.Kind, e.Name)
}

// IsUnknownResource checks if an error is or wraps an UnknownResourceError.
func IsUnknownResource(err error) bool {
	var unknownErr *UnknownResourceError
	return errors.As(err, &unknownErr)
}

// NewUnknownResourceError creates an UnknownResourceError for the given
// resource kind and name.
func NewUnknownResourceError(kind ResourceKind, name string) *UnknownResourceError {
	return &UnknownResourceError{Kind: kind, Name: name}
}

// ProviderFailureError reports a provider mutation that was issued but
// reported failure in its output.
//
// Disrupted marks the partial-failure case: a recreate removed the source
// but the subsequent add failed, leaving the host without the source. This
// condition must be surfaced prominently, never swallowed.
type ProviderFailureError struct {
	// Op is the provider operation that failed (e.g. "remove source").
	Op string

	// Resource is the affected resource name.
	Resource string

	// Output is the raw provider output that triggered failure detection.
	Output string

	// Disrupted is true when the resource was left in an intermediate state
	// (removed but not re-added).
	Disrupted bool
}

// Error implements the error interface for ProviderFailureError.
func (e *ProviderFailureError) Error() string {
	if e.Disrupted {
		return fmt.Sprintf("provider failed to %s %q and the resource is now DISRUPTED (removed but not re-added): %s",
			e.Op, e.Resource, e.Output)
	}
	return fmt.Sprintf("provider failed to %s %q: %s", e.Op, e.Resource, e.Output)
}

// IsProviderFailure checks if an error is or wraps a ProviderFailureError.
func IsProviderFailure(err error) bool {
	var failureErr *ProviderFailureError
	return errors.As(err, &failureErr)
}

// ProviderQueryError reports a failed snapshot fetch. No diff is computed
// and no mutation is attempted when the initial query fails.
type ProviderQueryError struct {
	// Op is the query that failed (e.g. "list sources").
	Op string

	// Err is the underlying error from the provider adapter.
	Err error
}

// Error implements the error interface for ProviderQueryError.
func (e *ProviderQueryError) Error() string {
	return fmt.Sprintf("provider query %q failed: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *ProviderQueryError) Unwrap() error {
	return e.Err
}

// IsProviderQuery checks if an error is or wraps a ProviderQueryError.
func IsProviderQuery(err error) bool {
	var queryErr *ProviderQueryError
	return errors.As(err, &queryErr)
}
