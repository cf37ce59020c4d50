// Package providertest provides a recording fake Provider for tests.
//
// The fake records every call in order, which lets tests assert both that
// dry-run passes issue zero mutations and that a recreate removes strictly
// before it adds.
package providertest

import (
	"context"
	"fmt"
	"sync"

	"wrangle/internal/api"
	"wrangle/internal/provider"
)

// Call is one recorded provider invocation.
type Call struct {
	// Method is the provider method name, e.g. "RemoveSource".
	Method string

	// Name is the resource argument, empty for list calls.
	Name string

	// Variant is set for feature calls.
	Variant api.FeatureVariant
}

// Fake is an in-memory provider.Provider that records calls and replays
// configured state and outputs. The zero value is usable.
type Fake struct {
	mu sync.Mutex

	// Sources and Features hold the snapshots the list calls return.
	Sources  map[string]provider.SourceSnapshot
	Features map[api.FeatureVariant]map[string]provider.FeatureSnapshot

	// Outputs maps a method name (e.g. "RemoveSource") to the text that
	// method returns. Unset methods return a generic success line.
	Outputs map[string]string

	// QueryErr, when set, is returned by every list call.
	QueryErr error

	// MutateErr maps a method name to a hard error for that mutation.
	MutateErr map[string]error

	calls []Call
}

var _ provider.Provider = (*Fake)(nil)

// SetSource registers or replaces a source snapshot.
func (f *Fake) SetSource(snap provider.SourceSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Sources == nil {
		f.Sources = make(map[string]provider.SourceSnapshot)
	}
	f.Sources[snap.Name] = snap
}

// SetFeature registers or replaces a feature snapshot within a variant.
func (f *Fake) SetFeature(variant api.FeatureVariant, snap provider.FeatureSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Features == nil {
		f.Features = make(map[api.FeatureVariant]map[string]provider.FeatureSnapshot)
	}
	if f.Features[variant] == nil {
		f.Features[variant] = make(map[string]provider.FeatureSnapshot)
	}
	f.Features[variant][snap.Name] = snap
}

// SetOutput scripts the output text of a provider method.
func (f *Fake) SetOutput(method, output string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Outputs == nil {
		f.Outputs = make(map[string]string)
	}
	f.Outputs[method] = output
}

// Calls returns a copy of the recorded call log.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// MutationCalls returns the recorded calls with the list queries filtered
// out. Dry-run tests assert this is empty.
func (f *Fake) MutationCalls() []Call {
	var mutations []Call
	for _, call := range f.Calls() {
		if call.Method == "ListSources" || call.Method == "ListFeatures" {
			continue
		}
		mutations = append(mutations, call)
	}
	return mutations
}

func (f *Fake) record(call Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *Fake) output(method, name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if out, ok := f.Outputs[method]; ok {
		return out
	}
	return fmt.Sprintf("%s %s ok", method, name)
}

func (f *Fake) mutateErr(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.MutateErr[method]
}

// ListSources implements provider.Provider.
func (f *Fake) ListSources(ctx context.Context) (map[string]provider.SourceSnapshot, error) {
	f.record(Call{Method: "ListSources"})
	if f.QueryErr != nil {
		return nil, f.QueryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]provider.SourceSnapshot, len(f.Sources))
	for name, snap := range f.Sources {
		out[name] = snap
	}
	return out, nil
}

// AddSource implements provider.Provider.
func (f *Fake) AddSource(ctx context.Context, desired api.SourceDescriptor) (string, error) {
	f.record(Call{Method: "AddSource", Name: desired.Name})
	return f.output("AddSource", desired.Name), f.mutateErr("AddSource")
}

// RemoveSource implements provider.Provider.
func (f *Fake) RemoveSource(ctx context.Context, name string) (string, error) {
	f.record(Call{Method: "RemoveSource", Name: name})
	return f.output("RemoveSource", name), f.mutateErr("RemoveSource")
}

// EnableSource implements provider.Provider.
func (f *Fake) EnableSource(ctx context.Context, name string) (string, error) {
	f.record(Call{Method: "EnableSource", Name: name})
	return f.output("EnableSource", name), f.mutateErr("EnableSource")
}

// DisableSource implements provider.Provider.
func (f *Fake) DisableSource(ctx context.Context, name string) (string, error) {
	f.record(Call{Method: "DisableSource", Name: name})
	return f.output("DisableSource", name), f.mutateErr("DisableSource")
}

// ListFeatures implements provider.Provider.
func (f *Fake) ListFeatures(ctx context.Context, variant api.FeatureVariant) (map[string]provider.FeatureSnapshot, error) {
	f.record(Call{Method: "ListFeatures", Variant: variant})
	if f.QueryErr != nil {
		return nil, f.QueryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]provider.FeatureSnapshot, len(f.Features[variant]))
	for name, snap := range f.Features[variant] {
		out[name] = snap
	}
	return out, nil
}

// EnableFeature implements provider.Provider.
func (f *Fake) EnableFeature(ctx context.Context, name string, variant api.FeatureVariant) (string, error) {
	f.record(Call{Method: "EnableFeature", Name: name, Variant: variant})
	return f.output("EnableFeature", name), f.mutateErr("EnableFeature")
}

// DisableFeature implements provider.Provider.
func (f *Fake) DisableFeature(ctx context.Context, name string, variant api.FeatureVariant) (string, error) {
	f.record(Call{Method: "DisableFeature", Name: name, Variant: variant})
	return f.output("DisableFeature", name), f.mutateErr("DisableFeature")
}
