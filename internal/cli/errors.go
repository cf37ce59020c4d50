package cli

import "fmt"

// ChangesPendingError indicates a check run found declarations that do not
// match live state. The root command maps it to its own exit code so
// scripts can distinguish "drift found" from "check failed".
type ChangesPendingError struct {
	// Count is the number of resources with pending changes.
	Count int
}

// Error implements the error interface.
func (e *ChangesPendingError) Error() string {
	if e.Count == 1 {
		return "1 resource is not in its desired state"
	}
	return fmt.Sprintf("%d resources are not in their desired state", e.Count)
}
