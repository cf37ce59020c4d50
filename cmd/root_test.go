package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"wrangle/internal/cli"
)

func TestSetVersion(t *testing.T) {
	testVersion := "1.2.3-test"
	originalVersion := rootCmd.Version
	defer func() { rootCmd.Version = originalVersion }()

	SetVersion(testVersion)

	if rootCmd.Version != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, rootCmd.Version)
	}
	if GetVersion() != testVersion {
		t.Errorf("Expected GetVersion to return %s, got %s", testVersion, GetVersion())
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "wrangle" {
		t.Errorf("Expected Use to be 'wrangle', got %s", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}

	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	expected := []string{"apply", "check", "get", "events", "serve", "version", "self-update"}

	for _, name := range expected {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected root command to have subcommand %q", name)
		}
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "generic error",
			err:  errors.New("boom"),
			want: ExitCodeError,
		},
		{
			name: "changes pending",
			err:  &cli.ChangesPendingError{Count: 2},
			want: ExitCodeChangesPending,
		},
		{
			name: "wrapped changes pending",
			err:  fmt.Errorf("check: %w", &cli.ChangesPendingError{Count: 1}),
			want: ExitCodeChangesPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getExitCode(tt.err); got != tt.want {
				t.Errorf("getExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestVersionCommandExecution(t *testing.T) {
	testVersion := "1.2.3-test"
	originalVersion := rootCmd.Version
	defer func() { rootCmd.Version = originalVersion }()
	rootCmd.Version = testVersion

	versionCmd := newVersionCmd()

	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, []string{})

	expected := "wrangle version " + testVersion + "\n"
	if buf.String() != expected {
		t.Errorf("Expected output %q, got %q", expected, buf.String())
	}
}

func TestSelfUpdateRejectsDevVersion(t *testing.T) {
	originalVersion := rootCmd.Version
	defer func() { rootCmd.Version = originalVersion }()
	rootCmd.Version = "dev"

	cmd := newSelfUpdateCmd()
	if err := runSelfUpdate(cmd, nil); err == nil {
		t.Error("Expected self-update of a development version to fail")
	}
}
