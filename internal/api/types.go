package api

// Ensure declares whether a resource should exist on the host.
type Ensure string

const (
	// EnsurePresent means the resource must exist and match the descriptor.
	EnsurePresent Ensure = "present"

	// EnsureAbsent means the resource must be removed if it exists.
	EnsureAbsent Ensure = "absent"
)

// FeatureVariant selects which feature namespace of the package manager a
// FeatureDescriptor targets. The standard and GUI variants expose the same
// toggle semantics through distinct provider entry points.
type FeatureVariant string

const (
	// VariantStandard targets the package manager's own feature set.
	VariantStandard FeatureVariant = "standard"

	// VariantGUI targets the GUI companion's feature set.
	VariantGUI FeatureVariant = "gui"
)

// Credentials holds optional authentication for a package source.
type Credentials struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// SourceDescriptor is the desired configuration of a package source.
//
// Name is the sole identity key: the diff engine matches desired state
// against live state by name only, and a live source whose name appears in
// no descriptor is never touched.
type SourceDescriptor struct {
	// Name uniquely identifies the source on the host.
	Name string `json:"name" yaml:"name"`

	// Location is the repository endpoint URL.
	Location string `json:"location" yaml:"location"`

	// Enabled is the desired enabled state of the source.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Credentials are optional and only passed through to the provider on
	// add; the provider does not report them back, so they never participate
	// in diffing.
	Credentials *Credentials `json:"credentials,omitempty" yaml:"credentials,omitempty"`

	// AllowSelfService marks the source as usable by non-admin self-service
	// installs. The provider has no in-place update for this field.
	AllowSelfService bool `json:"allowSelfService" yaml:"allowSelfService"`

	// AdminOnly restricts source visibility to administrators. The provider
	// has no in-place update for this field.
	AdminOnly bool `json:"adminOnly" yaml:"adminOnly"`

	// Ensure defaults to present when empty.
	Ensure Ensure `json:"ensure,omitempty" yaml:"ensure,omitempty"`
}

// Absent reports whether the descriptor requests removal.
func (d SourceDescriptor) Absent() bool {
	return d.Ensure == EnsureAbsent
}

// FeatureDescriptor is the desired state of a package-manager feature
// toggle. Features are defined by the provider; wrangle can only flip them,
// never create them.
type FeatureDescriptor struct {
	// Name uniquely identifies the feature within its variant.
	Name string `json:"name" yaml:"name"`

	// Variant selects the standard or GUI feature namespace. Defaults to
	// standard when empty.
	Variant FeatureVariant `json:"variant,omitempty" yaml:"variant,omitempty"`

	// Enabled is the desired toggle state.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// EffectiveVariant returns the descriptor's variant, defaulting to standard.
func (d FeatureDescriptor) EffectiveVariant() FeatureVariant {
	if d.Variant == "" {
		return VariantStandard
	}
	return d.Variant
}

// ActionKind enumerates the corrective actions the diff engine can emit.
type ActionKind string

const (
	// ActionNone means desired and live state already match.
	ActionNone ActionKind = "none"

	// ActionCreate adds a source that the provider does not know yet.
	ActionCreate ActionKind = "create"

	// ActionRemove deletes a source declared with ensure: absent.
	ActionRemove ActionKind = "remove"

	// ActionRecreate removes and re-adds a source because a field with no
	// in-place update primitive differs.
	ActionRecreate ActionKind = "recreate"

	// ActionEnable flips a source or feature on.
	ActionEnable ActionKind = "enable"

	// ActionDisable flips a source or feature off.
	ActionDisable ActionKind = "disable"
)

// ReconcileAction is the single corrective action computed for one resource
// in one reconciliation pass.
//
// Exactly one action is produced per resource per pass: a recreate already
// carries the corrected enabled state in its Source payload, so an action is
// never paired with a separate toggle.
type ReconcileAction struct {
	// Kind is the action to take.
	Kind ActionKind `json:"kind"`

	// Name is the resource the action applies to.
	Name string `json:"name"`

	// Source carries the full desired descriptor for create and recreate.
	Source *SourceDescriptor `json:"source,omitempty"`

	// Reason is a human-readable summary of why the action is needed,
	// e.g. "location differs (have https://b, want https://a)".
	Reason string `json:"reason,omitempty"`
}

// Changes reports whether the action mutates provider state.
func (a ReconcileAction) Changes() bool {
	return a.Kind != ActionNone
}

// ResourceKind names the kind of resource a result refers to.
type ResourceKind string

const (
	// ResourceSource is a package source.
	ResourceSource ResourceKind = "source"

	// ResourceFeature is a feature toggle (either variant).
	ResourceFeature ResourceKind = "feature"
)

// ReconcileResult is the outcome of one reconciliation pass for one
// resource. It is emitted exactly once per pass and owned by the caller.
type ReconcileResult struct {
	// RunID identifies the reconciliation pass that produced this result.
	RunID string `json:"runId"`

	// Resource is the name of the reconciled resource.
	Resource string `json:"resource"`

	// Kind is the resource kind (source or feature).
	Kind ResourceKind `json:"kind"`

	// Action is the action that was executed (or would be, under dry-run).
	Action ActionKind `json:"action"`

	// Changed reports whether provider state was (or would be) mutated.
	Changed bool `json:"changed"`

	// DryRun marks a prospective result: no mutation was performed.
	DryRun bool `json:"dryRun"`

	// Description is the human-readable change summary.
	Description string `json:"description"`

	// ProviderOutput is the raw text the provider emitted for the executed
	// mutation(s), when any. Kept verbatim so operators can diagnose
	// failures without re-running at higher verbosity.
	ProviderOutput string `json:"providerOutput,omitempty"`
}
