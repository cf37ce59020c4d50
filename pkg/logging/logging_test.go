package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(999), "UNKNOWN"},
	}

	for _, test := range tests {
		result := test.level.String()
		if result != test.expected {
			t.Errorf("LogLevel(%d).String() = %s, expected %s", test.level, result, test.expected)
		}
	}
}

func TestLogLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{LogLevel(999), slog.LevelInfo}, // Default for unknown
	}

	for _, test := range tests {
		result := test.level.SlogLevel()
		if result != test.expected {
			t.Errorf("LogLevel(%d).SlogLevel() = %v, expected %v", test.level, result, test.expected)
		}
	}
}

func TestInitForCLI(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelInfo, &buf)

	Info("Test", "hello %s", "world")
	if !strings.Contains(buf.String(), "hello world") {
		t.Errorf("expected message in output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "subsystem=Test") {
		t.Errorf("expected subsystem attribute in output, got %q", buf.String())
	}
}

func TestInitForCLI_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelWarn, &buf)

	Debug("Test", "debug message")
	Info("Test", "info message")
	Warn("Test", "warn message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below filter level leaked into output: %q", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Errorf("expected warn message in output, got %q", out)
	}
}

func TestInitForAgent_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	InitForAgent(LevelInfo, &buf)

	Error("Provider", errors.New("boom"), "listing failed for %s", "repo1")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("agent output is not JSON: %v (output: %q)", err, buf.String())
	}
	if entry["subsystem"] != "Provider" {
		t.Errorf("expected subsystem=Provider, got %v", entry["subsystem"])
	}
	if entry["error"] != "boom" {
		t.Errorf("expected error attribute, got %v", entry["error"])
	}
	if entry["msg"] != "listing failed for repo1" {
		t.Errorf("unexpected message: %v", entry["msg"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}

	for _, test := range tests {
		if got := ParseLevel(test.in); got != test.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", test.in, got, test.expected)
		}
	}
}
