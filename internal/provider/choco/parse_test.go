package choco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSourceList(t *testing.T) {
	output := "chocolatey|https://community.chocolatey.org/api/v2/|False|||5|False|False|False\r\n" +
		"internal|https://nuget.example.com/repo|True|svc||0|False|True|True\n" +
		"\n"

	sources := parseSourceList(output)
	require.Len(t, sources, 2)

	community := sources["chocolatey"]
	assert.Equal(t, "chocolatey", community.Name)
	assert.Equal(t, "https://community.chocolatey.org/api/v2/", community.Location)
	assert.True(t, community.Enabled, "Disabled=False means enabled")
	assert.False(t, community.AllowSelfService)
	assert.False(t, community.AdminOnly)

	internal := sources["internal"]
	assert.False(t, internal.Enabled, "Disabled=True means disabled")
	assert.True(t, internal.AllowSelfService)
	assert.True(t, internal.AdminOnly)
}

func TestParseSourceListShortRows(t *testing.T) {
	// Older chocolatey versions emit no C4B columns.
	sources := parseSourceList("legacy|https://legacy.example.com|False\n")
	require.Contains(t, sources, "legacy")
	assert.True(t, sources["legacy"].Enabled)
	assert.False(t, sources["legacy"].AllowSelfService)
	assert.False(t, sources["legacy"].AdminOnly)
}

func TestParseSourceListIgnoresGarbage(t *testing.T) {
	sources := parseSourceList("not a data row\n|missing-name|False\n")
	assert.Empty(t, sources)
}

func TestParseFeatureList(t *testing.T) {
	output := "useNuGet|Enabled|Use NuGet behind the scenes\r\n" +
		"allowGlobalConfirmation|Disabled|Prompt confirmation\n" +
		"checksumFiles|Enabled|\n"

	features := parseFeatureList(output)
	require.Len(t, features, 3)

	assert.True(t, features["useNuGet"].Enabled)
	assert.False(t, features["allowGlobalConfirmation"].Enabled)
	assert.True(t, features["checksumFiles"].Enabled)
	assert.Equal(t, "useNuGet", features["useNuGet"].Name)
}

func TestParseFeatureListIgnoresMalformedRows(t *testing.T) {
	features := parseFeatureList("justonefield\n|Enabled|desc\n\n")
	assert.Empty(t, features)
}
