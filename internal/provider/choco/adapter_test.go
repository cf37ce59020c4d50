package choco

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wrangle/internal/api"
)

// scriptedRunner records every invocation and replays canned responses
// keyed by the joined command line.
type scriptedRunner struct {
	calls     [][]string
	responses map[string]string
	errors    map[string]error
}

func newScriptedRunner() *scriptedRunner {
	return &scriptedRunner{
		responses: make(map[string]string),
		errors:    make(map[string]error),
	}
}

func (r *scriptedRunner) Run(ctx context.Context, cmd string, args ...string) (string, error) {
	call := append([]string{cmd}, args...)
	r.calls = append(r.calls, call)
	key := strings.Join(call, " ")
	return r.responses[key], r.errors[key]
}

func (r *scriptedRunner) commandLines() []string {
	lines := make([]string, 0, len(r.calls))
	for _, call := range r.calls {
		lines = append(lines, strings.Join(call, " "))
	}
	return lines
}

func TestListSources(t *testing.T) {
	runner := newScriptedRunner()
	runner.responses["choco source list --limit-output"] =
		"repo1|https://a|False|||5|False|False|False\n"

	adapter := New(Config{Runner: runner})
	sources, err := adapter.ListSources(context.Background())

	require.NoError(t, err)
	require.Contains(t, sources, "repo1")
	assert.True(t, sources["repo1"].Enabled)
	assert.Equal(t, []string{"choco source list --limit-output"}, runner.commandLines())
}

func TestListSourcesCommandError(t *testing.T) {
	runner := newScriptedRunner()
	runner.errors["choco source list --limit-output"] = errors.New("exit status 1")

	adapter := New(Config{Runner: runner})
	_, err := adapter.ListSources(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "choco source list")
}

func TestAddSourceArgv(t *testing.T) {
	runner := newScriptedRunner()
	adapter := New(Config{Runner: runner})

	_, err := adapter.AddSource(context.Background(), api.SourceDescriptor{
		Name:             "repo1",
		Location:         "https://a",
		Enabled:          true,
		Credentials:      &api.Credentials{Username: "svc", Password: "hunter2"},
		AllowSelfService: true,
		AdminOnly:        true,
	})

	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{
		"choco", "source", "add",
		"--name", "repo1",
		"--source", "https://a",
		"--user", "svc", "--password", "hunter2",
		"--allow-self-service",
		"--admin-only",
	}, runner.calls[0])
}

func TestAddSourceDisabledFollowsUpWithDisable(t *testing.T) {
	runner := newScriptedRunner()
	adapter := New(Config{Runner: runner})

	_, err := adapter.AddSource(context.Background(), api.SourceDescriptor{
		Name:     "repo1",
		Location: "https://a",
		Enabled:  false,
	})

	require.NoError(t, err)
	require.Len(t, runner.calls, 2)
	assert.Equal(t, []string{"choco", "source", "add", "--name", "repo1", "--source", "https://a"}, runner.calls[0])
	assert.Equal(t, []string{"choco", "source", "disable", "--name", "repo1"}, runner.calls[1])
}

func TestAddSourceDoesNotDisableAfterReportedFailure(t *testing.T) {
	runner := newScriptedRunner()
	runner.responses["choco source add --name repo1 --source https://a"] = "Running chocolatey failed"
	adapter := New(Config{Runner: runner})

	out, err := adapter.AddSource(context.Background(), api.SourceDescriptor{
		Name:     "repo1",
		Location: "https://a",
		Enabled:  false,
	})

	require.NoError(t, err, "failure detection belongs to the caller")
	assert.Contains(t, out, "Running chocolatey failed")
	assert.Len(t, runner.calls, 1, "no disable after a failed add")
}

func TestSourceMutationArgv(t *testing.T) {
	runner := newScriptedRunner()
	adapter := New(Config{Runner: runner})
	ctx := context.Background()

	_, err := adapter.RemoveSource(ctx, "repo1")
	require.NoError(t, err)
	_, err = adapter.EnableSource(ctx, "repo1")
	require.NoError(t, err)
	_, err = adapter.DisableSource(ctx, "repo1")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"choco source remove --name repo1",
		"choco source enable --name repo1",
		"choco source disable --name repo1",
	}, runner.commandLines())
}

func TestFeatureVariantRouting(t *testing.T) {
	runner := newScriptedRunner()
	runner.responses["choco feature list --limit-output"] = "useNuGet|Enabled|\n"
	runner.responses["chocolateyguicli feature list --limit-output"] = "DarkMode|Disabled|\n"

	adapter := New(Config{Runner: runner})
	ctx := context.Background()

	std, err := adapter.ListFeatures(ctx, api.VariantStandard)
	require.NoError(t, err)
	gui, err := adapter.ListFeatures(ctx, api.VariantGUI)
	require.NoError(t, err)

	assert.Contains(t, std, "useNuGet")
	assert.Contains(t, gui, "DarkMode")

	_, err = adapter.EnableFeature(ctx, "useNuGet", api.VariantStandard)
	require.NoError(t, err)
	_, err = adapter.DisableFeature(ctx, "DarkMode", api.VariantGUI)
	require.NoError(t, err)

	lines := runner.commandLines()
	assert.Contains(t, lines, "choco feature enable --name useNuGet")
	assert.Contains(t, lines, "chocolateyguicli feature disable --name DarkMode")
}

func TestCustomCommands(t *testing.T) {
	runner := newScriptedRunner()
	runner.responses["/opt/choco/choco.exe source list --limit-output"] = ""

	adapter := New(Config{Command: "/opt/choco/choco.exe", Runner: runner})
	_, err := adapter.ListSources(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/choco/choco.exe source list --limit-output"}, runner.commandLines())
}

// hangingRunner blocks until the invocation context expires.
type hangingRunner struct{}

func (hangingRunner) Run(ctx context.Context, cmd string, args ...string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestInvocationTimeout(t *testing.T) {
	adapter := New(Config{Timeout: 10 * time.Millisecond, Runner: hangingRunner{}})

	start := time.Now()
	_, err := adapter.ListSources(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestInvocationTimeoutAppliesToMutations(t *testing.T) {
	adapter := New(Config{Timeout: 10 * time.Millisecond, Runner: hangingRunner{}})

	_, err := adapter.RemoveSource(context.Background(), "repo1")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
