package reconciler

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"wrangle/internal/api"
	"wrangle/internal/provider"
	"wrangle/pkg/logging"
)

// FeatureStore resolves a declared feature descriptor by name.
type FeatureStore interface {
	GetFeature(name string) (api.FeatureDescriptor, bool)
}

// FeatureReconciler reconciles feature toggles. The standard and GUI
// variants share this implementation: the descriptor's variant selects
// which provider entry points are used, nothing else differs.
type FeatureReconciler struct {
	provider provider.Provider

	// store supplies descriptors in manager mode; unused for direct calls.
	store FeatureStore

	// sink records outcomes; may be nil.
	sink EventSink
}

// NewFeatureReconciler creates a feature reconciler over the given provider.
func NewFeatureReconciler(p provider.Provider) *FeatureReconciler {
	return &FeatureReconciler{provider: p}
}

// WithStore sets the declaration store used when driven by the Manager.
func (r *FeatureReconciler) WithStore(store FeatureStore) *FeatureReconciler {
	r.store = store
	return r
}

// WithEventSink sets the outcome recorder.
func (r *FeatureReconciler) WithEventSink(sink EventSink) *FeatureReconciler {
	r.sink = sink
	return r
}

// GetResourceType returns the resource type this reconciler handles.
func (r *FeatureReconciler) GetResourceType() ResourceType {
	return ResourceTypeFeature
}

// ReconcileFeature runs one pass for one declared feature toggle.
//
// A name absent from the provider's feature set fails the pass with
// UnknownResourceError before any mutation is attempted: features are
// provider-defined and cannot be created here.
func (r *FeatureReconciler) ReconcileFeature(ctx context.Context, desired api.FeatureDescriptor, opts Options) (api.ReconcileResult, error) {
	runID := uuid.NewString()
	variant := desired.EffectiveVariant()
	logging.Debug("FeatureReconciler", "Reconciling feature %s (variant %s, run %s, dryRun=%t)",
		desired.Name, variant, runID, opts.DryRun)

	snapshots, err := r.provider.ListFeatures(ctx, variant)
	if err != nil {
		return api.ReconcileResult{}, &api.ProviderQueryError{Op: fmt.Sprintf("list features (%s)", variant), Err: err}
	}

	var snap *provider.FeatureSnapshot
	if s, ok := snapshots[desired.Name]; ok {
		snap = &s
	}

	action, err := DiffFeature(desired, snap)
	if err != nil {
		if r.sink != nil {
			r.sink.ReconcileFailed(api.ResourceFeature, desired.Name, err)
		}
		return api.ReconcileResult{}, err
	}

	result := api.ReconcileResult{
		RunID:       runID,
		Resource:    desired.Name,
		Kind:        api.ResourceFeature,
		Action:      action.Kind,
		Changed:     action.Changes(),
		DryRun:      opts.DryRun,
		Description: describeAction(action, opts.DryRun),
	}

	if !action.Changes() || opts.DryRun {
		return result, nil
	}

	var output string
	switch action.Kind {
	case api.ActionEnable:
		output, err = r.provider.EnableFeature(ctx, desired.Name, variant)
		err = checkMutation("enable feature", desired.Name, output, err, false)
	case api.ActionDisable:
		output, err = r.provider.DisableFeature(ctx, desired.Name, variant)
		err = checkMutation("disable feature", desired.Name, output, err, false)
	default:
		err = fmt.Errorf("unexpected action %q for feature %s", action.Kind, desired.Name)
	}

	result.ProviderOutput = output
	if err != nil {
		if r.sink != nil {
			r.sink.ReconcileFailed(api.ResourceFeature, desired.Name, err)
		}
		return api.ReconcileResult{}, err
	}

	logging.Info("FeatureReconciler", "Feature %s (%s): %s", desired.Name, variant, result.Description)
	if r.sink != nil {
		r.sink.ReconcileSucceeded(result)
	}
	return result, nil
}

// Reconcile processes a manager-driven reconciliation request.
func (r *FeatureReconciler) Reconcile(ctx context.Context, req ReconcileRequest) Result {
	if r.store == nil {
		return Result{Error: fmt.Errorf("feature reconciler has no declaration store")}
	}

	desired, ok := r.store.GetFeature(req.Name)
	if !ok {
		logging.Debug("FeatureReconciler", "Declaration for feature %s is gone, leaving live state untouched", req.Name)
		return Result{}
	}

	_, err := r.ReconcileFeature(ctx, desired, Options{})
	if err != nil {
		return Result{Error: err, Requeue: retryable(err)}
	}
	return Result{}
}
