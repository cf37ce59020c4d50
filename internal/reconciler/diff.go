package reconciler

import (
	"fmt"
	"strings"

	"wrangle/internal/api"
	"wrangle/internal/provider"
)

// DiffSource compares a desired source descriptor against the provider's
// snapshot for the same name (nil when the provider does not know the
// source) and returns the single corrective action for this pass.
//
// The comparison covers four fields: enabled, self-service, admin-only, and
// location. Self-service, admin-only, and location have no in-place update
// primitive, so any mismatch there forces a recreate; the recreate carries
// the full desired descriptor, enabled state included, so it never needs a
// companion toggle. Only when the enabled flag is the sole mismatch does
// the cheaper enable/disable tier apply.
func DiffSource(desired api.SourceDescriptor, snap *provider.SourceSnapshot) api.ReconcileAction {
	if desired.Absent() {
		if snap == nil {
			return api.ReconcileAction{Kind: api.ActionNone, Name: desired.Name, Reason: "already absent"}
		}
		return api.ReconcileAction{Kind: api.ActionRemove, Name: desired.Name, Reason: "declared absent"}
	}

	if snap == nil {
		d := desired
		return api.ReconcileAction{
			Kind:   api.ActionCreate,
			Name:   desired.Name,
			Source: &d,
			Reason: "not registered with the provider",
		}
	}

	var recreateReasons []string
	if snap.Location != desired.Location {
		recreateReasons = append(recreateReasons,
			fmt.Sprintf("location differs (have %q, want %q)", snap.Location, desired.Location))
	}
	if snap.AllowSelfService != desired.AllowSelfService {
		recreateReasons = append(recreateReasons,
			fmt.Sprintf("self-service differs (have %t, want %t)", snap.AllowSelfService, desired.AllowSelfService))
	}
	if snap.AdminOnly != desired.AdminOnly {
		recreateReasons = append(recreateReasons,
			fmt.Sprintf("admin-only differs (have %t, want %t)", snap.AdminOnly, desired.AdminOnly))
	}

	// Recreate wins outright over a toggle: the re-add already applies the
	// corrected enabled state.
	if len(recreateReasons) > 0 {
		d := desired
		return api.ReconcileAction{
			Kind:   api.ActionRecreate,
			Name:   desired.Name,
			Source: &d,
			Reason: strings.Join(recreateReasons, "; "),
		}
	}

	if snap.Enabled != desired.Enabled {
		kind := api.ActionEnable
		if !desired.Enabled {
			kind = api.ActionDisable
		}
		return api.ReconcileAction{
			Kind:   kind,
			Name:   desired.Name,
			Reason: fmt.Sprintf("enabled differs (have %t, want %t)", snap.Enabled, desired.Enabled),
		}
	}

	return api.ReconcileAction{Kind: api.ActionNone, Name: desired.Name, Reason: "in sync"}
}

// DiffFeature compares a desired feature toggle against the provider's
// snapshot for the same name within the descriptor's variant.
//
// Features are provider-defined: a name the provider does not list cannot
// be created, so a nil snapshot is an UnknownResourceError rather than a
// create trigger.
func DiffFeature(desired api.FeatureDescriptor, snap *provider.FeatureSnapshot) (api.ReconcileAction, error) {
	if snap == nil {
		return api.ReconcileAction{}, api.NewUnknownResourceError(api.ResourceFeature, desired.Name)
	}

	if snap.Enabled == desired.Enabled {
		return api.ReconcileAction{Kind: api.ActionNone, Name: desired.Name, Reason: "in sync"}, nil
	}

	kind := api.ActionEnable
	if !desired.Enabled {
		kind = api.ActionDisable
	}
	return api.ReconcileAction{
		Kind:   kind,
		Name:   desired.Name,
		Reason: fmt.Sprintf("enabled differs (have %t, want %t)", snap.Enabled, desired.Enabled),
	}, nil
}
