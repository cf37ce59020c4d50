package reconciler

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"wrangle/internal/api"
	"wrangle/internal/provider"
	"wrangle/pkg/logging"
)

// Options control a single reconciliation pass.
type Options struct {
	// DryRun reports the prospective action without invoking any provider
	// mutation.
	DryRun bool
}

// EventSink receives reconciliation outcomes for recording. Implementations
// must be safe for concurrent use; a nil sink disables recording.
type EventSink interface {
	ReconcileSucceeded(result api.ReconcileResult)
	ReconcileFailed(kind api.ResourceKind, name string, err error)
}

// SourceStore resolves a declared source descriptor by name. The Manager's
// reconcile requests carry only names; the store supplies the desired state
// fresh for each pass.
type SourceStore interface {
	GetSource(name string) (api.SourceDescriptor, bool)
}

// SourceReconciler reconciles package sources.
//
// One pass is strictly sequential: snapshot fetch, diff, then at most the
// mutations for one action. For a recreate the remove must succeed before
// the add is attempted; a removal that reports the provider failure marker
// aborts the pass so the host is never left with a duplicate source.
type SourceReconciler struct {
	provider provider.Provider

	// store supplies descriptors in manager mode; unused for direct calls.
	store SourceStore

	// sink records outcomes; may be nil.
	sink EventSink
}

// NewSourceReconciler creates a source reconciler over the given provider.
func NewSourceReconciler(p provider.Provider) *SourceReconciler {
	return &SourceReconciler{provider: p}
}

// WithStore sets the declaration store used when driven by the Manager.
func (r *SourceReconciler) WithStore(store SourceStore) *SourceReconciler {
	r.store = store
	return r
}

// WithEventSink sets the outcome recorder.
func (r *SourceReconciler) WithEventSink(sink EventSink) *SourceReconciler {
	r.sink = sink
	return r
}

// GetResourceType returns the resource type this reconciler handles.
func (r *SourceReconciler) GetResourceType() ResourceType {
	return ResourceTypeSource
}

// ReconcileSource runs one pass for one declared source and returns its
// result. Errors are returned in place of a result and abort only this
// resource's pass.
func (r *SourceReconciler) ReconcileSource(ctx context.Context, desired api.SourceDescriptor, opts Options) (api.ReconcileResult, error) {
	runID := uuid.NewString()
	logging.Debug("SourceReconciler", "Reconciling source %s (run %s, dryRun=%t)", desired.Name, runID, opts.DryRun)

	snapshots, err := r.provider.ListSources(ctx)
	if err != nil {
		return api.ReconcileResult{}, &api.ProviderQueryError{Op: "list sources", Err: err}
	}

	var snap *provider.SourceSnapshot
	if s, ok := snapshots[desired.Name]; ok {
		snap = &s
	}

	action := DiffSource(desired, snap)

	result := api.ReconcileResult{
		RunID:       runID,
		Resource:    desired.Name,
		Kind:        api.ResourceSource,
		Action:      action.Kind,
		Changed:     action.Changes(),
		DryRun:      opts.DryRun,
		Description: describeAction(action, opts.DryRun),
	}

	if !action.Changes() {
		return result, nil
	}

	if opts.DryRun {
		logging.Debug("SourceReconciler", "Dry-run: %s would be applied to %s", action.Kind, desired.Name)
		return result, nil
	}

	output, err := r.execute(ctx, action)
	result.ProviderOutput = output
	if err != nil {
		if r.sink != nil {
			r.sink.ReconcileFailed(api.ResourceSource, desired.Name, err)
		}
		return api.ReconcileResult{}, err
	}

	logging.Info("SourceReconciler", "Source %s: %s", desired.Name, result.Description)
	if r.sink != nil {
		r.sink.ReconcileSucceeded(result)
	}
	return result, nil
}

// execute runs the provider mutation(s) for one action and returns the
// combined provider output.
func (r *SourceReconciler) execute(ctx context.Context, action api.ReconcileAction) (string, error) {
	switch action.Kind {
	case api.ActionCreate:
		out, err := r.provider.AddSource(ctx, *action.Source)
		return out, checkMutation("add source", action.Name, out, err, false)

	case api.ActionRemove:
		out, err := r.provider.RemoveSource(ctx, action.Name)
		return out, checkMutation("remove source", action.Name, out, err, false)

	case api.ActionRecreate:
		removeOut, err := r.provider.RemoveSource(ctx, action.Name)
		if mutErr := checkMutation("remove source", action.Name, removeOut, err, false); mutErr != nil {
			// Fail fast: adding on top of a failed removal risks a
			// duplicate or inconsistent source.
			return removeOut, mutErr
		}

		addOut, err := r.provider.AddSource(ctx, *action.Source)
		combined := strings.TrimSpace(removeOut + "\n" + addOut)
		if mutErr := checkMutation("add source", action.Name, addOut, err, true); mutErr != nil {
			return combined, mutErr
		}
		return combined, nil

	case api.ActionEnable:
		out, err := r.provider.EnableSource(ctx, action.Name)
		return out, checkMutation("enable source", action.Name, out, err, false)

	case api.ActionDisable:
		out, err := r.provider.DisableSource(ctx, action.Name)
		return out, checkMutation("disable source", action.Name, out, err, false)

	default:
		return "", fmt.Errorf("unexpected action %q for source %s", action.Kind, action.Name)
	}
}

// Reconcile processes a manager-driven reconciliation request. The desired
// state is looked up fresh from the declaration store; a missing
// declaration leaves the live resource untouched.
func (r *SourceReconciler) Reconcile(ctx context.Context, req ReconcileRequest) Result {
	if r.store == nil {
		return Result{Error: fmt.Errorf("source reconciler has no declaration store")}
	}

	desired, ok := r.store.GetSource(req.Name)
	if !ok {
		logging.Debug("SourceReconciler", "Declaration for source %s is gone, leaving live state untouched", req.Name)
		return Result{}
	}

	_, err := r.ReconcileSource(ctx, desired, Options{})
	if err != nil {
		return Result{Error: err, Requeue: retryable(err)}
	}
	return Result{}
}

// checkMutation turns a provider call outcome into a ProviderFailureError
// when either the call itself errored or its output matches the known
// failure marker. Failure detection goes through the provider predicate;
// the string match is never inlined here.
func checkMutation(op, name, output string, err error, disrupted bool) error {
	if err != nil {
		text := strings.TrimSpace(output)
		if text == "" {
			text = err.Error()
		} else {
			text = text + ": " + err.Error()
		}
		return &api.ProviderFailureError{Op: op, Resource: name, Output: text, Disrupted: disrupted}
	}
	if provider.ReportsFailure(output) {
		return &api.ProviderFailureError{Op: op, Resource: name, Output: strings.TrimSpace(output), Disrupted: disrupted}
	}
	return nil
}

// retryable reports whether the manager should requeue after err. Unknown
// resources stay unknown until the operator fixes the declaration, so
// retrying them only burns provider calls.
func retryable(err error) bool {
	return !api.IsUnknownResource(err)
}

// describeAction renders the human-readable change summary for a result.
func describeAction(action api.ReconcileAction, dryRun bool) string {
	var base string
	switch action.Kind {
	case api.ActionNone:
		return "Already in desired state."
	case api.ActionCreate:
		base = "added"
	case api.ActionRemove:
		base = "removed"
	case api.ActionRecreate:
		base = "re-created with correct params"
	case api.ActionEnable:
		base = "enabled"
	case api.ActionDisable:
		base = "disabled"
	default:
		base = string(action.Kind)
	}

	var sentence string
	if dryRun {
		sentence = fmt.Sprintf("Will be %s.", base)
	} else {
		sentence = strings.ToUpper(base[:1]) + base[1:] + "."
	}
	if action.Reason != "" {
		sentence = fmt.Sprintf("%s (%s)", strings.TrimSuffix(sentence, "."), action.Reason)
	}
	return sentence
}
