package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wrangle/internal/api"
)

// writeDeclaration drops a declaration file into the right subdirectory.
func writeDeclaration(t *testing.T, configPath, category, filename, content string) {
	t.Helper()
	dir := filepath.Join(configPath, category)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644))
}

func TestLoadConfig_DefaultsWhenMissing(t *testing.T) {
	configPath := t.TempDir()

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "choco", cfg.Provider.Command)
	assert.Equal(t, "chocolateyguicli", cfg.Provider.GUICommand)
	assert.Equal(t, 2, cfg.Agent.Workers)
	assert.Equal(t, 5, cfg.Agent.MaxRetries)
	assert.False(t, cfg.GitSync.Enabled)
}

func TestLoadConfig_OverlaysFile(t *testing.T) {
	configPath := t.TempDir()
	content := `
provider:
  command: choco.exe
  timeout: 90s
agent:
  workers: 4
gitSync:
  enabled: true
  url: https://git.example.com/ops/choco-declarations.git
  branch: main
  interval: 10m
`
	require.NoError(t, os.WriteFile(filepath.Join(configPath, "config.yaml"), []byte(content), 0644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "choco.exe", cfg.Provider.Command)
	assert.Equal(t, 90*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 4, cfg.Agent.Workers)
	// Untouched fields keep their defaults.
	assert.Equal(t, "chocolateyguicli", cfg.Provider.GUICommand)
	assert.Equal(t, 5, cfg.Agent.MaxRetries)

	assert.True(t, cfg.GitSync.Enabled)
	assert.Equal(t, "https://git.example.com/ops/choco-declarations.git", cfg.GitSync.URL)
	assert.Equal(t, 10*time.Minute, cfg.GitSync.Interval)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	configPath := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configPath, "config.yaml"), []byte("provider: [broken"), 0644))

	_, err := LoadConfig(configPath)
	assert.Error(t, err)
}

func TestLoadDeclarations_Sources(t *testing.T) {
	configPath := t.TempDir()
	writeDeclaration(t, configPath, "sources", "internal.yaml", `
name: internal
location: https://nuget.example.com/api/v2
username: svc-choco
password: hunter2
allowSelfService: true
`)
	writeDeclaration(t, configPath, "sources", "legacy.yaml", `
name: legacy
ensure: absent
`)

	decls, errs := LoadDeclarations(configPath)
	require.False(t, errs.HasErrors(), errs.Error())

	internal, ok := decls.GetSource("internal")
	require.True(t, ok)
	assert.Equal(t, "https://nuget.example.com/api/v2", internal.Location)
	assert.True(t, internal.Enabled, "enabled should default to true")
	assert.True(t, internal.AllowSelfService)
	require.NotNil(t, internal.Credentials)
	assert.Equal(t, "svc-choco", internal.Credentials.Username)

	legacy, ok := decls.GetSource("legacy")
	require.True(t, ok)
	assert.True(t, legacy.Absent())

	assert.Equal(t, []string{"internal", "legacy"}, decls.SourceNames())
}

func TestLoadDeclarations_Features(t *testing.T) {
	configPath := t.TempDir()
	writeDeclaration(t, configPath, "features", "allowGlobalConfirmation.yaml", `
name: allowGlobalConfirmation
enabled: true
`)
	writeDeclaration(t, configPath, "features", "showConsoleOutput.yaml", `
name: ShowConsoleOutput
variant: gui
enabled: false
`)

	decls, errs := LoadDeclarations(configPath)
	require.False(t, errs.HasErrors(), errs.Error())

	standard, ok := decls.GetFeature("allowGlobalConfirmation")
	require.True(t, ok)
	assert.Equal(t, api.VariantStandard, standard.EffectiveVariant())
	assert.True(t, standard.Enabled)

	gui, ok := decls.GetFeature("ShowConsoleOutput")
	require.True(t, ok)
	assert.Equal(t, api.VariantGUI, gui.Variant)
	assert.False(t, gui.Enabled)
}

func TestLoadDeclarations_InvalidFilesAreSkipped(t *testing.T) {
	configPath := t.TempDir()
	writeDeclaration(t, configPath, "sources", "good.yaml", `
name: good
location: https://nuget.example.com/api/v2
`)
	// Missing name.
	writeDeclaration(t, configPath, "sources", "anonymous.yaml", `
location: https://nuget.example.com/api/v2
`)
	// Present source without a location.
	writeDeclaration(t, configPath, "sources", "nowhere.yaml", `
name: nowhere
`)
	// Not YAML at all.
	writeDeclaration(t, configPath, "features", "broken.yaml", `{{{`)
	// Bad variant.
	writeDeclaration(t, configPath, "features", "odd.yaml", `
name: odd
variant: desktop
enabled: true
`)

	decls, errs := LoadDeclarations(configPath)

	assert.Len(t, decls.Sources, 1)
	assert.Empty(t, decls.Features)
	require.True(t, errs.HasErrors())
	assert.Len(t, errs.Errors, 4)

	types := make(map[string]int)
	for _, ce := range errs.Errors {
		types[ce.ErrorType]++
	}
	assert.Equal(t, 3, types["validation"])
	assert.Equal(t, 1, types["parse"])
}

func TestLoadDeclarations_IgnoresNonYAML(t *testing.T) {
	configPath := t.TempDir()
	writeDeclaration(t, configPath, "sources", "notes.txt", "not a declaration")
	writeDeclaration(t, configPath, "sources", "internal.yml", `
name: internal
location: https://nuget.example.com/api/v2
`)

	decls, errs := LoadDeclarations(configPath)
	assert.False(t, errs.HasErrors())
	assert.Len(t, decls.Sources, 1)
}

func TestLoadDeclarations_MissingDirectories(t *testing.T) {
	decls, errs := LoadDeclarations(t.TempDir())

	assert.False(t, errs.HasErrors())
	assert.Empty(t, decls.Sources)
	assert.Empty(t, decls.Features)
}

func TestStore_Reload(t *testing.T) {
	configPath := t.TempDir()
	writeDeclaration(t, configPath, "sources", "internal.yaml", `
name: internal
location: https://nuget.example.com/api/v2
`)

	store := NewStore(configPath)

	_, ok := store.GetSource("internal")
	assert.True(t, ok)
	_, ok = store.GetSource("mirror")
	assert.False(t, ok)

	writeDeclaration(t, configPath, "sources", "mirror.yaml", `
name: mirror
location: https://mirror.example.com/api/v2
enabled: false
`)
	errs := store.Reload()
	require.False(t, errs.HasErrors())

	mirror, ok := store.GetSource("mirror")
	require.True(t, ok)
	assert.False(t, mirror.Enabled)
}
