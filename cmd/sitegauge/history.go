package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sitegauge/sitegauge/internal/config"
	"github.com/sitegauge/sitegauge/internal/model"
	"github.com/sitegauge/sitegauge/internal/repository"
	"github.com/sitegauge/sitegauge/internal/safeurl"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
// This command lists the recorded audit history for a tracked URL.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "Show recorded audit history for a URL",
		Long: `History lists every recorded audit of a URL with its category scores
and the per-category change against the preceding audit.

Examples:
  # Full score history for a URL
  sitegauge history https://example.com

  # Only audits from the last 30 days
  sitegauge history --since "2026-08-01" https://example.com

  # Output JSON
  sitegauge history --json https://example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("since", "s", "",
		"Only show audits at or after this date (format: YYYY-MM-DD)")
	cmd.Flags().BoolP("json", "j", false,
		"Output history in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	canonical, err := safeurl.Normalize(args[0])
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	since := time.Time{}
	sinceFlag, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}
	if sinceFlag != "" {
		since, err = time.Parse("2006-01-02", sinceFlag)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Use XDG data directory for database
	db, err := repository.Open(config.XDGDataDir(), repository.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck // Read-only command, close errors are not actionable

	ctx := context.Background()

	tracking, err := db.GetTracking(ctx, canonical)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("no audit history found for %s (use 'sitegauge audit' first)", canonical)
		}
		return fmt.Errorf("failed to look up tracking: %w", err)
	}

	records, err := db.HistorySince(ctx, tracking.ID, since)
	if err != nil {
		return fmt.Errorf("failed to get audit history: %w", err)
	}

	if jsonOutput {
		return outputHistoryJSON(tracking, records)
	}
	return outputHistoryText(tracking, records)
}

// historyListing is the JSON shape of the history command output.
type historyListing struct {
	// Tracking is the URL's tracking record.
	Tracking *model.HistoricalTracking `json:"tracking"`

	// Records is the score history, oldest first.
	Records []*model.PerformanceHistoryRecord `json:"records"`
}

// outputHistoryJSON outputs the history in JSON format.
func outputHistoryJSON(tracking *model.HistoricalTracking, records []*model.PerformanceHistoryRecord) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(historyListing{Tracking: tracking, Records: records})
}

// outputHistoryText outputs the history in human-readable text format.
func outputHistoryText(tracking *model.HistoricalTracking, records []*model.PerformanceHistoryRecord) error {
	fmt.Printf("Audit history for %s\n", tracking.CanonicalURL)
	fmt.Println(strings.Repeat("=", 78))
	fmt.Printf("Tracked since: %s  Total audits: %d  Active: %t\n\n",
		tracking.TrackingStartDate.Format("2006-01-02"),
		tracking.TotalAudits,
		tracking.IsActive,
	)

	if len(records) == 0 {
		fmt.Println("No audit records in the selected range.")
		fmt.Println("\nUse 'sitegauge audit' to audit this URL.")
		return nil
	}

	fmt.Printf("  %-20s  %7s  %7s  %7s  %7s  %7s  %s\n",
		"Date", "Overall", "SEO", "A11y", "Mobile", "Perf", "Change")
	fmt.Println("  " + strings.Repeat("-", 74))

	for _, record := range records {
		fmt.Printf("  %-20s  %7.1f  %7s  %7s  %7s  %7s  %s\n",
			record.RecordedAt.Format("2006-01-02 15:04:05"),
			record.OverallScore,
			formatScore(record.SEOScore),
			formatScore(record.AccessibilityScore),
			formatScore(record.MobileScore),
			formatScore(record.PerformanceScore),
			formatOverallChange(record.ScoreChanges),
		)
	}

	fmt.Println("\nUse 'sitegauge trend' to analyze score movement over time.")

	return nil
}

// formatScore formats an optional category score for table display.
func formatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *score)
}

// formatOverallChange formats the overall-score delta with sign for display.
func formatOverallChange(changes map[string]float64) string {
	delta, ok := changes["Overall"]
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%+.1f", delta)
}
