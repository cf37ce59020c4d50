// Package provider defines the boundary between the reconciler core and the
// external package manager.
//
// The Provider interface models the full command surface the reconciler
// needs: listing and mutating package sources, and listing and toggling
// features in either the standard or GUI variant namespace. Real adapters
// (see the choco subpackage) shell out to the package manager's CLI; the
// providertest subpackage ships a recording fake for tests.
//
// Two correctness-critical conventions live here and nowhere else:
//
//   - ParseBool is the single normalization point for every boolean-like
//     string the provider reports. Live listings encode flags as literal
//     text and naive truthiness checks silently invert the logic for
//     falsy-but-nonempty values, so adapters must route every flag through
//     ParseBool at ingestion and hand the core real bools.
//
//   - ReportsFailure is the single predicate for the failure marker the
//     package manager is known to print on failed mutations. The executor
//     calls the predicate; no caller re-implements the string match inline.
package provider
