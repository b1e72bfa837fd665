package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sitegauge/sitegauge/internal/config"
	sglog "github.com/sitegauge/sitegauge/internal/log"
	"github.com/sitegauge/sitegauge/internal/model"
	"github.com/sitegauge/sitegauge/internal/report"
	"github.com/sitegauge/sitegauge/internal/repository"
	"github.com/sitegauge/sitegauge/internal/safeurl"
	"github.com/sitegauge/sitegauge/internal/trend"
	"github.com/spf13/cobra"
)

// NewTrendCmd creates the trend command.
// This command analyzes score movement across the audit history stored
// in the database.
func NewTrendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trend [url]",
		Short: "Analyze score trends from audit history",
		Long: `Trend analyzes how a URL's audit scores have moved over a look-back
window, reporting direction, strength, statistical confidence,
significant per-category changes, and derived insights.

A trend needs accumulated history: audit the same URL repeatedly with
'sitegauge audit' before asking for its trend. Short windows need
fewer data points but yield lower confidence.

Examples:
  # 30-day trend for a tracked URL
  sitegauge trend https://example.com

  # 7-day trend
  sitegauge trend --period 7d https://example.com

  # Trends for every look-back window
  sitegauge trend --all https://example.com

  # Output JSON
  sitegauge trend --json https://example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runTrendCmd,
	}

	// Analysis window flags
	cmd.Flags().StringP("period", "p", string(model.Period30d),
		"Look-back window: 7d, 30d, 90d, or 1y")
	cmd.Flags().BoolP("all", "a", false,
		"Analyze every look-back window")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output trend analysis in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output trend analysis in Markdown format")
	cmd.Flags().StringP("output", "o", "",
		"Write analysis to specified file path")

	return cmd
}

// runTrendCmd executes the trend command.
func runTrendCmd(cmd *cobra.Command, args []string) error {
	canonical, err := safeurl.Normalize(args[0])
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	allPeriods, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}

	periods := model.AllPeriods
	if !allPeriods {
		periodFlag, err := cmd.Flags().GetString("period")
		if err != nil {
			return err
		}
		period := model.TimePeriod(periodFlag)
		if !period.Valid() {
			return fmt.Errorf("invalid period %q (valid: 7d, 30d, 90d, 1y)", periodFlag)
		}
		periods = []model.TimePeriod{period}
	}

	logger := sglog.NewSecureLogger(os.Stderr, getVerboseFlag(cmd))

	// Use XDG data directory for database
	db, err := repository.Open(config.XDGDataDir(), repository.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck // Read-mostly command, close errors are not actionable

	ctx := context.Background()

	tracking, err := db.GetTracking(ctx, canonical)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("no audit history found for %s (use 'sitegauge audit' first)", canonical)
		}
		return fmt.Errorf("failed to look up tracking: %w", err)
	}

	writer, closeWriter, err := trendWriter(cmd)
	if err != nil {
		return err
	}
	defer closeWriter()

	engine := trend.NewEngine(db, trend.WithLogger(logger))

	for _, period := range periods {
		analysis, err := engine.Generate(ctx, tracking.ID, period)
		if err != nil {
			return fmt.Errorf("failed to analyze %s trend: %w", period, err)
		}

		// Persist so later runs and reports see the freshest analysis.
		if err := db.SaveTrendAnalysis(ctx, analysis); err != nil {
			logger.Error("failed to save trend analysis", "period", period, "error", err)
		}

		if _, err := writer.WriteTrend(analysis); err != nil {
			return err
		}
	}

	return nil
}

// trendWriter resolves the output writer for the trend command from its
// format and output flags.
func trendWriter(cmd *cobra.Command) (report.Writer, func(), error) {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return nil, nil, err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, nil, err
	}
	if jsonOutput && markdownOutput {
		return nil, nil, errors.New("--json and --markdown are mutually exclusive")
	}

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return nil, nil, err
	}

	output, closeOutput, err := openReportOutput(outputPath)
	if err != nil {
		return nil, nil, err
	}

	switch {
	case jsonOutput:
		return report.NewJSONWriter(output, report.WithPrettyPrint()), closeOutput, nil
	case markdownOutput:
		return report.NewMarkdownWriter(output), closeOutput, nil
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(getVerboseFlag(cmd))), closeOutput, nil
	}
}
