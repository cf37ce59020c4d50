package choco

import (
	"context"
	"os/exec"
)

// Runner executes a package-manager command and returns its combined output.
//
// The adapter is written against this interface so tests can substitute a
// scripted runner; production code uses ExecRunner.
type Runner interface {
	Run(ctx context.Context, cmd string, args ...string) (string, error)
}

// ExecRunner runs commands on the local host through os/exec.
type ExecRunner struct{}

// Run executes cmd with args, honoring ctx cancellation, and returns the
// combined stdout/stderr text. The output is returned even when the command
// exits non-zero: chocolatey writes its diagnostics to the same stream and
// callers need them for failure reporting.
func (ExecRunner) Run(ctx context.Context, cmd string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, cmd, args...).CombinedOutput()
	return string(out), err
}
