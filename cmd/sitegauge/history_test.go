package main

import (
	"strings"
	"testing"
)

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history [url]" {
			t.Errorf("expected use 'history [url]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has since flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("since")
		if flag == nil {
			t.Fatal("expected since flag")
		}
		if flag.Shorthand != "s" {
			t.Errorf("expected shorthand 's', got %q", flag.Shorthand)
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("json")
		if flag == nil {
			t.Fatal("expected json flag")
		}
		if flag.Shorthand != "j" {
			t.Errorf("expected shorthand 'j', got %q", flag.Shorthand)
		}
	})
}

// TestRunHistoryCmdInvalidDate tests the history command with a malformed
// --since date.
func TestRunHistoryCmdInvalidDate(t *testing.T) {
	t.Parallel()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"history", "--since", "late August", "https://example.com"})

	err := rootCmd.Execute()
	if err == nil {
		t.Error("expected error for malformed date")
	}
	if !strings.Contains(err.Error(), "invalid date format") {
		t.Errorf("expected 'invalid date format' error, got: %v", err)
	}
}

// TestFormatScore tests optional score formatting.
func TestFormatScore(t *testing.T) {
	t.Parallel()

	t.Run("formats populated score", func(t *testing.T) {
		t.Parallel()
		score := 82.345
		if got := formatScore(&score); got != "82.3" {
			t.Errorf("expected '82.3', got %q", got)
		}
	})

	t.Run("formats missing score as dash", func(t *testing.T) {
		t.Parallel()
		if got := formatScore(nil); got != "-" {
			t.Errorf("expected '-', got %q", got)
		}
	})
}

// TestFormatOverallChange tests delta formatting with sign.
func TestFormatOverallChange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		changes map[string]float64
		want    string
	}{
		{
			name:    "positive delta",
			changes: map[string]float64{"Overall": 4.25},
			want:    "+4.2",
		},
		{
			name:    "negative delta",
			changes: map[string]float64{"Overall": -3.5},
			want:    "-3.5",
		},
		{
			name:    "zero delta",
			changes: map[string]float64{"Overall": 0},
			want:    "+0.0",
		},
		{
			name:    "no previous record",
			changes: nil,
			want:    "-",
		},
		{
			name:    "overall missing",
			changes: map[string]float64{"SEO": 2},
			want:    "-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatOverallChange(tt.changes); got != tt.want {
				t.Errorf("formatOverallChange() = %q, want %q", got, tt.want)
			}
		})
	}
}
