package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sitegauge/sitegauge/internal/audit"
	"github.com/sitegauge/sitegauge/internal/config"
	"github.com/sitegauge/sitegauge/internal/fetch"
	"github.com/sitegauge/sitegauge/internal/linkcheck"
	sglog "github.com/sitegauge/sitegauge/internal/log"
	"github.com/sitegauge/sitegauge/internal/model"
	"github.com/sitegauge/sitegauge/internal/report"
	"github.com/sitegauge/sitegauge/internal/repository"
	"github.com/sitegauge/sitegauge/internal/safeurl"
	"github.com/sitegauge/sitegauge/internal/trend"
	"github.com/spf13/cobra"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [url...]",
		Short: "Audit a web page for SEO, accessibility, and mobile issues",
		Long: `Audit fetches a web page and analyzes it for:
- SEO quality (meta tags, headings, images, links, content)
- Accessibility compliance (WCAG 2.1 checks)
- Mobile-friendliness (viewport, tap targets, responsive hints)
- Performance (load time, page weight, resource count)

Each audit produces weighted category scores, an overall score, and
actionable recommendations. Results are recorded so repeated audits of
the same URL accumulate a score history for trend analysis.

Examples:
  # Audit a single page
  sitegauge audit https://example.com

  # Audit multiple pages concurrently
  sitegauge audit https://example.com https://example.org

  # Output JSON report
  sitegauge audit --json https://example.com

  # Write a Markdown report to a file
  sitegauge audit --markdown -o report.md https://example.com

  # Skip link-integrity probing
  sitegauge audit --no-links https://example.com`,
		Args: cobra.ArbitraryArgs,
		RunE: runAuditCmd,
	}

	// Fetch behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultFetchTimeout,
		"Timeout for each page retrieval")
	cmd.Flags().IntP("max-probes", "p", config.DefaultMaxLinkProbes,
		"Maximum number of link-integrity probes per audit")
	cmd.Flags().Bool("no-links", false,
		"Skip link-integrity probing (broken-link detection)")

	// Batch auditing flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent audits")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitegauge.yaml in current or XDG config directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	checkLinks, err := cmd.Flags().GetBool("no-links")
	if err != nil {
		return err
	}
	checkLinks = !checkLinks

	// Set up structured logging with credential sanitization
	logger := sglog.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runAudit(ctx, cfg, checkLinks, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	configFlag, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load overrides from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently skip when no file is found.
	configPath := config.FindConfigFile(configFlag)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if configFlag != "" {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", configFlag)
	}

	// Flags set explicitly on the command line win over file values.
	if cmd.Flags().Changed("timeout") {
		if cfg.FetchTimeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("max-probes") {
		if cfg.MaxLinkProbes, err = cmd.Flags().GetInt("max-probes"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("batch") {
		if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
			return nil, err
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Get positional arguments (URLs to audit)
	cfg.Targets = args

	return cfg, nil
}

// runAudit executes the audit.
func runAudit(ctx context.Context, cfg *config.Config, checkLinks bool, logger *slog.Logger) error {
	logger.Info("starting audit",
		"targets", cfg.Targets,
		"batchSize", cfg.BatchSize,
		"checkLinks", checkLinks,
		"dbDir", cfg.DBDir,
	)

	// Only show the banner when stdout is not carrying a machine-readable
	// report.
	if (!cfg.JSONReport && !cfg.MarkdownReport) || cfg.ReportFile != "" {
		printBanner()
	}

	repo, closeRepo, err := openRepository(cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	engine, worker := buildEngine(cfg, repo, checkLinks, logger)
	worker.Start(ctx)
	defer worker.Stop()

	// Use batch processor for parallel auditing if multiple targets
	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchAudit(ctx, cfg, engine, logger)
	}

	// Single target or sequential auditing
	return runSequentialAudit(ctx, cfg, engine, logger)
}

// openRepository opens the durable store, falling back to an in-memory
// repository when no database directory is configured.
func openRepository(cfg *config.Config, logger *slog.Logger) (repository.Repository, func(), error) {
	if cfg.DBDir == "" {
		logger.Info("no database directory configured, results will not be persisted")
		return repository.NewMemory(), func() {}, nil
	}

	db, err := repository.Open(cfg.DBDir, repository.DefaultOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Info("database opened", "dir", cfg.DBDir)

	return db, func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}, nil
}

// buildEngine wires the audit engine and its trend worker from the
// configuration.
func buildEngine(cfg *config.Config, repo repository.Repository, checkLinks bool, logger *slog.Logger) (*audit.Engine, *trend.Worker) {
	gate := safeurl.NewGate(safeurl.WithLogger(logger))

	fetcher := fetch.NewFetcher(gate,
		fetch.WithTimeout(cfg.FetchTimeout),
		fetch.WithMaxRedirects(cfg.MaxRedirects),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	)

	checker := linkcheck.NewChecker(gate,
		linkcheck.WithMaxProbes(cfg.MaxLinkProbes),
		linkcheck.WithUserAgent(cfg.UserAgent),
		linkcheck.WithLogger(logger),
	)

	trendEngine := trend.NewEngine(repo, trend.WithLogger(logger))
	worker := trend.NewWorker(trendEngine, repo, trend.WithWorkerLogger(logger))

	engine := audit.NewEngine(fetcher, checker, repo,
		audit.WithLogger(logger),
		audit.WithTrendWorker(worker),
		audit.WithLinkChecking(checkLinks),
	)

	return engine, worker
}

// runSequentialAudit audits targets one at a time.
func runSequentialAudit(ctx context.Context, cfg *config.Config, engine *audit.Engine, logger *slog.Logger) error {
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Printf("Auditing %s...\n", target)
		startTime := time.Now()

		auditReport, err := engine.Audit(ctx, target)
		if err != nil {
			logger.Error("audit failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Audit error for %s: %v\n", target, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Audit completed in %s\n\n", elapsed.Round(time.Millisecond))

		// Generate and output report
		if err := outputReport(cfg, auditReport); err != nil {
			logger.Error("report failed", "target", target, "error", err)
		}
	}

	return nil
}

// runBatchAudit audits multiple targets concurrently using BatchProcessor.
func runBatchAudit(ctx context.Context, cfg *config.Config, engine *audit.Engine, logger *slog.Logger) error {
	fmt.Printf("Starting batch audit of %d targets (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)

	startTime := time.Now()

	bp := audit.NewBatchProcessor(engine,
		audit.WithConcurrency(cfg.BatchSize),
		audit.WithBatchLogger(logger),
	)

	results, err := bp.ProcessBatch(ctx, cfg.Targets)
	if err != nil {
		return err
	}

	for i, result := range results {
		if result.Err != nil {
			fmt.Fprintf(os.Stderr, "[%d/%d] Audit error for %s: %v\n",
				i+1, len(results), result.URL, result.Err)
			continue
		}

		fmt.Printf("[%d/%d] Audit completed: %s\n", i+1, len(results), result.URL)

		if err := outputReport(cfg, result.Report); err != nil {
			logger.Error("report failed", "target", result.URL, "error", err)
		}
	}

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch audit completed in %s\n", elapsed.Round(time.Millisecond))

	return nil
}

// outputReport outputs the audit report in the requested format.
func outputReport(cfg *config.Config, auditReport *model.AuditReport) error {
	output, closeOutput, err := openReportOutput(cfg.ReportFile)
	if err != nil {
		return err
	}
	defer closeOutput()

	// JSON output (full report with all data)
	if cfg.JSONReport {
		writer := report.NewFullJSONWriter(output, resolveVersion(), report.WithPrettyPrint())
		_, err := writer.Write(auditReport)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(auditReport)
		return err
	}

	// Human-readable report (default)
	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err = writer.Write(auditReport)
	return err
}

// openReportOutput resolves the report destination: the given file path,
// or stdout when the path is empty. The returned closer is a no-op for
// stdout.
func openReportOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	// Create directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Create/overwrite the output file with owner-only permissions;
	// audit reports can reveal internal URLs and site structure.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return f, func() { _ = f.Close() }, nil //nolint:errcheck // Best effort close
}
