// Package api defines the shared contract types for wrangle.
//
// It contains the desired-state descriptors declared by the operator
// (SourceDescriptor, FeatureDescriptor), the reconciliation outcome types
// (ReconcileAction, ReconcileResult), and the structured error types used
// across package boundaries.
//
// The package depends on no other wrangle package so that every component
// (provider adapters, the reconciler core, the CLI) can share these types
// without import cycles.
package api
