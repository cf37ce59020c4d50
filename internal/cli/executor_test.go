package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wrangle/internal/api"
	"wrangle/internal/config"
	"wrangle/internal/provider"
	"wrangle/internal/provider/providertest"
)

func testDeclarations() *config.Declarations {
	return &config.Declarations{
		Sources: map[string]api.SourceDescriptor{
			"internal": {Name: "internal", Location: "https://nuget.example.com/api/v2", Enabled: true},
		},
		Features: map[string]api.FeatureDescriptor{
			"allowGlobalConfirmation": {Name: "allowGlobalConfirmation", Enabled: true},
		},
	}
}

func TestValidateOutputFormat(t *testing.T) {
	assert.NoError(t, ValidateOutputFormat("table"))
	assert.NoError(t, ValidateOutputFormat("json"))
	assert.NoError(t, ValidateOutputFormat("yaml"))
	assert.Error(t, ValidateOutputFormat("wide"))
	assert.Error(t, ValidateOutputFormat(""))
}

func TestExecutor_RunConverges(t *testing.T) {
	fake := &providertest.Fake{}
	fake.SetFeature(api.VariantStandard, provider.FeatureSnapshot{
		Name:    "allowGlobalConfirmation",
		Enabled: false,
	})

	executor := NewExecutor(fake, Options{Quiet: true})
	results, err := executor.Run(context.Background(), testDeclarations())
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Stable order: features before sources (kind sorts first).
	assert.Equal(t, api.ResourceFeature, results[0].Kind)
	assert.Equal(t, "allowGlobalConfirmation", results[0].Resource)
	assert.Equal(t, api.ActionEnable, results[0].Action)

	assert.Equal(t, api.ResourceSource, results[1].Kind)
	assert.Equal(t, api.ActionCreate, results[1].Action)
}

func TestExecutor_DryRunNeverMutates(t *testing.T) {
	fake := &providertest.Fake{}
	fake.SetFeature(api.VariantStandard, provider.FeatureSnapshot{
		Name:    "allowGlobalConfirmation",
		Enabled: false,
	})

	executor := NewExecutor(fake, Options{Quiet: true, DryRun: true})
	results, err := executor.Run(context.Background(), testDeclarations())
	require.NoError(t, err)

	for _, result := range results {
		assert.True(t, result.DryRun)
	}
	assert.Empty(t, fake.MutationCalls())
}

func TestExecutor_FailuresDoNotStopSiblings(t *testing.T) {
	fake := &providertest.Fake{}
	// The feature is missing from the provider set, so its pass fails;
	// the source pass must still complete.
	executor := NewExecutor(fake, Options{Quiet: true})

	results, err := executor.Run(context.Background(), testDeclarations())
	require.Error(t, err)
	assert.True(t, api.IsUnknownResource(err))

	require.Len(t, results, 1)
	assert.Equal(t, api.ResourceSource, results[0].Kind)
	assert.Equal(t, api.ActionCreate, results[0].Action)
}

func TestExecutor_CheckReportsPendingChanges(t *testing.T) {
	fake := &providertest.Fake{}
	fake.SetFeature(api.VariantStandard, provider.FeatureSnapshot{
		Name:    "allowGlobalConfirmation",
		Enabled: false,
	})

	executor := NewExecutor(fake, Options{Quiet: true})
	results, err := executor.Check(context.Background(), testDeclarations())

	var pending *ChangesPendingError
	require.True(t, errors.As(err, &pending))
	assert.Equal(t, 2, pending.Count)
	assert.Len(t, results, 2)
	assert.Empty(t, fake.MutationCalls())
}

func TestExecutor_CheckCleanWhenConverged(t *testing.T) {
	fake := &providertest.Fake{}
	fake.SetSource(provider.SourceSnapshot{
		Name:     "internal",
		Location: "https://nuget.example.com/api/v2",
		Enabled:  true,
	})
	fake.SetFeature(api.VariantStandard, provider.FeatureSnapshot{
		Name:    "allowGlobalConfirmation",
		Enabled: true,
	})

	executor := NewExecutor(fake, Options{Quiet: true})
	results, err := executor.Check(context.Background(), testDeclarations())
	require.NoError(t, err)

	for _, result := range results {
		assert.False(t, result.Changed)
	}
}

func TestChangesPendingError_Message(t *testing.T) {
	assert.Equal(t, "1 resource is not in its desired state", (&ChangesPendingError{Count: 1}).Error())
	assert.Equal(t, "3 resources are not in their desired state", (&ChangesPendingError{Count: 3}).Error())
}
