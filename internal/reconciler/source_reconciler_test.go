package reconciler

import (
	"context"
	"errors"
	"testing"

	"wrangle/internal/api"
	"wrangle/internal/provider"
	"wrangle/internal/provider/providertest"
)

func TestSourceReconciler_NoOp(t *testing.T) {
	fake := &providertest.Fake{}
	fake.SetSource(provider.SourceSnapshot{
		Name:     "internal",
		Location: "https://nuget.example.com/api/v2",
		Enabled:  true,
	})

	r := NewSourceReconciler(fake)
	result, err := r.ReconcileSource(context.Background(), api.SourceDescriptor{
		Name:     "internal",
		Location: "https://nuget.example.com/api/v2",
		Enabled:  true,
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Changed {
		t.Error("expected no change for matching state")
	}
	if result.Action != api.ActionNone {
		t.Errorf("expected action none, got %s", result.Action)
	}
	if result.Description != "Already in desired state." {
		t.Errorf("unexpected description: %q", result.Description)
	}
	if calls := fake.MutationCalls(); len(calls) != 0 {
		t.Errorf("expected zero mutations, got %v", calls)
	}
}

func TestSourceReconciler_Create(t *testing.T) {
	fake := &providertest.Fake{}

	r := NewSourceReconciler(fake)
	result, err := r.ReconcileSource(context.Background(), api.SourceDescriptor{
		Name:     "internal",
		Location: "https://nuget.example.com/api/v2",
		Enabled:  true,
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Changed {
		t.Error("expected a change")
	}
	if result.Action != api.ActionCreate {
		t.Errorf("expected create, got %s", result.Action)
	}

	calls := fake.MutationCalls()
	if len(calls) != 1 || calls[0].Method != "AddSource" {
		t.Errorf("expected a single AddSource call, got %v", calls)
	}
}

func TestSourceReconciler_DryRunIssuesNoMutations(t *testing.T) {
	fake := &providertest.Fake{}
	fake.SetSource(provider.SourceSnapshot{
		Name:     "internal",
		Location: "https://old.example.com/api/v2",
		Enabled:  true,
	})

	r := NewSourceReconciler(fake)
	result, err := r.ReconcileSource(context.Background(), api.SourceDescriptor{
		Name:     "internal",
		Location: "https://new.example.com/api/v2",
		Enabled:  true,
	}, Options{DryRun: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Changed {
		t.Error("dry-run should still report the pending change")
	}
	if !result.DryRun {
		t.Error("result should be marked dry-run")
	}
	if result.Action != api.ActionRecreate {
		t.Errorf("expected recreate, got %s", result.Action)
	}
	if calls := fake.MutationCalls(); len(calls) != 0 {
		t.Errorf("dry-run must not mutate, got %v", calls)
	}
}

func TestSourceReconciler_RecreateRemovesBeforeAdd(t *testing.T) {
	fake := &providertest.Fake{}
	fake.SetSource(provider.SourceSnapshot{
		Name:     "internal",
		Location: "https://old.example.com/api/v2",
		Enabled:  true,
	})

	r := NewSourceReconciler(fake)
	_, err := r.ReconcileSource(context.Background(), api.SourceDescriptor{
		Name:     "internal",
		Location: "https://new.example.com/api/v2",
		Enabled:  true,
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := fake.MutationCalls()
	if len(calls) != 2 {
		t.Fatalf("expected exactly two mutations, got %v", calls)
	}
	if calls[0].Method != "RemoveSource" || calls[1].Method != "AddSource" {
		t.Errorf("recreate must remove before add, got %v", calls)
	}
}

func TestSourceReconciler_RecreateAbortsWhenRemoveFails(t *testing.T) {
	fake := &providertest.Fake{}
	fake.SetSource(provider.SourceSnapshot{
		Name:     "internal",
		Location: "https://old.example.com/api/v2",
		Enabled:  true,
	})
	fake.SetOutput("RemoveSource", "Running chocolatey failed: access denied")

	r := NewSourceReconciler(fake)
	_, err := r.ReconcileSource(context.Background(), api.SourceDescriptor{
		Name:     "internal",
		Location: "https://new.example.com/api/v2",
		Enabled:  true,
	}, Options{})
	if !api.IsProviderFailure(err) {
		t.Fatalf("expected provider failure, got %v", err)
	}

	var pf *api.ProviderFailureError
	errors.As(err, &pf)
	if pf.Disrupted {
		t.Error("remove failure must not be marked disrupted: nothing was removed")
	}

	for _, call := range fake.MutationCalls() {
		if call.Method == "AddSource" {
			t.Error("add must not run after a failed remove")
		}
	}
}

func TestSourceReconciler_RecreateAddFailureIsDisrupted(t *testing.T) {
	fake := &providertest.Fake{}
	fake.SetSource(provider.SourceSnapshot{
		Name:     "internal",
		Location: "https://old.example.com/api/v2",
		Enabled:  true,
	})
	fake.SetOutput("AddSource", "Running chocolatey failed: invalid url")

	r := NewSourceReconciler(fake)
	_, err := r.ReconcileSource(context.Background(), api.SourceDescriptor{
		Name:     "internal",
		Location: "https://new.example.com/api/v2",
		Enabled:  true,
	}, Options{})
	if !api.IsProviderFailure(err) {
		t.Fatalf("expected provider failure, got %v", err)
	}

	var pf *api.ProviderFailureError
	errors.As(err, &pf)
	if !pf.Disrupted {
		t.Error("add failure after remove must be marked disrupted")
	}
}

func TestSourceReconciler_EnsureAbsent(t *testing.T) {
	fake := &providertest.Fake{}
	fake.SetSource(provider.SourceSnapshot{
		Name:     "legacy",
		Location: "https://legacy.example.com",
		Enabled:  false,
	})

	r := NewSourceReconciler(fake)
	result, err := r.ReconcileSource(context.Background(), api.SourceDescriptor{
		Name:   "legacy",
		Ensure: api.EnsureAbsent,
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Action != api.ActionRemove {
		t.Errorf("expected remove, got %s", result.Action)
	}

	calls := fake.MutationCalls()
	if len(calls) != 1 || calls[0].Method != "RemoveSource" {
		t.Errorf("expected a single RemoveSource call, got %v", calls)
	}
}

func TestSourceReconciler_EnsureAbsentAlreadyGone(t *testing.T) {
	fake := &providertest.Fake{}

	r := NewSourceReconciler(fake)
	result, err := r.ReconcileSource(context.Background(), api.SourceDescriptor{
		Name:   "legacy",
		Ensure: api.EnsureAbsent,
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Changed {
		t.Error("absent source already gone should be a no-op")
	}
	if calls := fake.MutationCalls(); len(calls) != 0 {
		t.Errorf("expected zero mutations, got %v", calls)
	}
}

func TestSourceReconciler_QueryErrorWrapped(t *testing.T) {
	fake := &providertest.Fake{QueryErr: errors.New("choco not on PATH")}

	r := NewSourceReconciler(fake)
	_, err := r.ReconcileSource(context.Background(), api.SourceDescriptor{
		Name:     "internal",
		Location: "https://nuget.example.com",
		Enabled:  true,
	}, Options{})
	if !api.IsProviderQuery(err) {
		t.Fatalf("expected provider query error, got %v", err)
	}
}

// staticSourceStore serves fixed descriptors for manager-mode tests.
type staticSourceStore struct {
	sources map[string]api.SourceDescriptor
}

func (s *staticSourceStore) GetSource(name string) (api.SourceDescriptor, bool) {
	d, ok := s.sources[name]
	return d, ok
}

func TestSourceReconciler_ManagerRequestMissingDeclaration(t *testing.T) {
	fake := &providertest.Fake{}
	fake.SetSource(provider.SourceSnapshot{Name: "internal", Location: "x", Enabled: true})

	r := NewSourceReconciler(fake).WithStore(&staticSourceStore{})
	result := r.Reconcile(context.Background(), ReconcileRequest{
		Type: ResourceTypeSource,
		Name: "internal",
	})
	if result.Error != nil {
		t.Fatalf("missing declaration must not error: %v", result.Error)
	}
	if calls := fake.MutationCalls(); len(calls) != 0 {
		t.Errorf("missing declaration must leave live state untouched, got %v", calls)
	}
}

func TestSourceReconciler_ManagerRequestRequeuesOnFailure(t *testing.T) {
	fake := &providertest.Fake{}
	fake.SetOutput("AddSource", "Running chocolatey failed")

	store := &staticSourceStore{sources: map[string]api.SourceDescriptor{
		"internal": {Name: "internal", Location: "https://nuget.example.com", Enabled: true},
	}}

	r := NewSourceReconciler(fake).WithStore(store)
	result := r.Reconcile(context.Background(), ReconcileRequest{
		Type:    ResourceTypeSource,
		Name:    "internal",
		Attempt: 1,
	})
	if result.Error == nil {
		t.Fatal("expected an error")
	}
	if !result.Requeue {
		t.Error("provider failures should be retried")
	}
}
