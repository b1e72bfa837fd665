package main

import (
	"strings"
	"testing"
)

// TestNewTrendCmd tests the trend command creation.
func TestNewTrendCmd(t *testing.T) {
	t.Parallel()

	cmd := NewTrendCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "trend [url]" {
			t.Errorf("expected use 'trend [url]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has period flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("period")
		if flag == nil {
			t.Fatal("expected period flag")
		}
		if flag.Shorthand != "p" {
			t.Errorf("expected shorthand 'p', got %q", flag.Shorthand)
		}
		if flag.DefValue != "30d" {
			t.Errorf("expected default '30d', got %q", flag.DefValue)
		}
	})

	t.Run("has all flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("all")
		if flag == nil {
			t.Fatal("expected all flag")
		}
		if flag.Shorthand != "a" {
			t.Errorf("expected shorthand 'a', got %q", flag.Shorthand)
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("json")
		if flag == nil {
			t.Fatal("expected json flag")
		}
	})

	t.Run("has markdown flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("markdown")
		if flag == nil {
			t.Fatal("expected markdown flag")
		}
	})
}

// TestRunTrendCmdInvalidPeriod tests the trend command with an unsupported period.
func TestRunTrendCmdInvalidPeriod(t *testing.T) {
	t.Parallel()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"trend", "--period", "14d", "https://example.com"})

	err := rootCmd.Execute()
	if err == nil {
		t.Error("expected error for unsupported period")
	}
	if !strings.Contains(err.Error(), "invalid period") {
		t.Errorf("expected 'invalid period' error, got: %v", err)
	}
}

// TestRunTrendCmdInvalidURL tests the trend command with an invalid URL.
func TestRunTrendCmdInvalidURL(t *testing.T) {
	t.Parallel()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"trend", "://not-a-url"})

	err := rootCmd.Execute()
	if err == nil {
		t.Error("expected error for invalid URL")
	}
}

// TestRunTrendCmdConflictingFormats tests the trend command with both
// --json and --markdown.
func TestRunTrendCmdConflictingFormats(t *testing.T) {
	t.Parallel()

	cmd := NewTrendCmd()
	_ = cmd.Flags().Set("json", "true")
	_ = cmd.Flags().Set("markdown", "true")

	_, _, err := trendWriter(cmd)
	if err == nil {
		t.Error("expected error for conflicting output formats")
	}
	if !strings.Contains(err.Error(), "mutually exclusive") {
		t.Errorf("expected 'mutually exclusive' error, got: %v", err)
	}
}
