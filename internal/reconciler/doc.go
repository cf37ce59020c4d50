// Package reconciler contains wrangle's desired-state reconciliation core
// and the scheduler that drives it in agent mode.
//
// # Core
//
// The diff engine (diff.go) compares a desired descriptor against the
// provider's live snapshot and emits exactly one api.ReconcileAction per
// resource per pass. SourceReconciler and FeatureReconciler execute that
// action: fetch snapshot, diff, short-circuit under dry-run, run the
// provider mutation(s), and return an api.ReconcileResult. A recreate
// removes strictly before it adds and fails fast when the removal reports
// the provider failure marker.
//
// The core performs no retries: a provider failure terminates the pass for
// that resource. Retry policy lives one layer up, in the Manager.
//
// # Scheduler
//
// The Manager owns a work queue, a worker pool, per-resource status
// tracking, and retry with exponential backoff. Changes are fed to it by a
// ChangeDetector: the FilesystemDetector watches the declaration directory
// with fsnotify and debounces rapid successive writes. Resources are keyed
// by name; the queue deduplicates so at most one pass per resource is in
// flight at any time, which is what makes cross-resource parallelism safe.
package reconciler
