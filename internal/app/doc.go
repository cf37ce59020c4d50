// Package app bootstraps the serve-mode agent: it loads the configuration,
// wires the provider, reconcilers, scheduler and optional git mirror, and
// runs them until the context is cancelled.
package app
