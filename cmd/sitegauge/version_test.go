package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestResolveVersion(t *testing.T) {
	t.Parallel()

	// Every fallback path ends at a non-empty value.
	if v := resolveVersion(); v == "" {
		t.Error("resolveVersion() returned empty string")
	}
}

func TestResolveCommit(t *testing.T) {
	t.Parallel()

	c := resolveCommit()
	if c == "" {
		t.Error("resolveCommit() returned empty string")
	}
	if len(c) > 7 && c != "unknown" && commit == "" {
		t.Errorf("resolveCommit() = %q, want hash truncated to 7 chars", c)
	}
}

func TestResolveDate(t *testing.T) {
	t.Parallel()

	if d := resolveDate(); d == "" {
		t.Error("resolveDate() returned empty string")
	}
}

func TestNewVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCmd()

	t.Run("command has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "version" {
			t.Errorf("expected Use to be 'version', got %q", cmd.Use)
		}
	})

	t.Run("command has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected Short to be non-empty")
		}
	})

	t.Run("command outputs version info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewVersionCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{})

		err := cmd.Execute()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "sitegauge version") {
			t.Errorf("expected output to contain 'sitegauge version', got %q", output)
		}
		if !strings.Contains(output, "commit:") {
			t.Errorf("expected output to contain 'commit:', got %q", output)
		}
		if !strings.Contains(output, "built:") {
			t.Errorf("expected output to contain 'built:', got %q", output)
		}
	})
}
