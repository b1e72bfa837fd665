package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/sitegauge/sitegauge/internal/model"
	"github.com/sitegauge/sitegauge/internal/safeurl"
)

// SQLite is the durable Repository backed by a single SQLite file.
//
// Design decision: Reports and trend analyses are stored as JSON blobs
// with a few indexed columns extracted, rather than fully normalized
// tables, because:
//  1. Reports are immutable documents read back whole
//  2. Schema churn in the nested scoring structs stays invisible to SQL
//  3. The history table, which IS queried by column, stays normalized
type SQLite struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures the SQLite store.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent reads.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the store at dbDir/sitegauge.db.
func Open(dbDir string, opts Options) (*SQLite, error) {
	dbPath := filepath.Join(dbDir, "sitegauge.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := dbPath + "?mode=rwc"
	if !opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer; the pool reflects that.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLite{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := store.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// createTables creates the schema if it doesn't exist.
func (s *SQLite) createTables() error {
	schema := `
	-- Audit reports are immutable JSON documents
	CREATE TABLE IF NOT EXISTS audit_reports (
		id TEXT PRIMARY KEY,
		canonical_url TEXT NOT NULL,
		analysis_date TEXT NOT NULL,
		overall_score REAL NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_url ON audit_reports(canonical_url);
	CREATE INDEX IF NOT EXISTS idx_reports_date ON audit_reports(analysis_date);

	-- One tracking record per canonical URL, never deleted
	CREATE TABLE IF NOT EXISTS tracking (
		id TEXT PRIMARY KEY,
		canonical_url TEXT NOT NULL UNIQUE,
		domain TEXT NOT NULL,
		tracking_start_date TEXT NOT NULL,
		last_audit_date TEXT NOT NULL,
		total_audits INTEGER NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		retention_days INTEGER NOT NULL
	);

	-- Append-only score time series, one row per audit
	CREATE TABLE IF NOT EXISTS performance_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tracking_id TEXT NOT NULL,
		audit_report_id TEXT NOT NULL,
		recorded_at TEXT NOT NULL,
		overall_score REAL NOT NULL,
		seo_score REAL,
		accessibility_score REAL,
		mobile_score REAL,
		performance_score REAL,
		score_changes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_history_tracking ON performance_history(tracking_id, recorded_at);

	-- Current trend analysis per (tracking, period); replaced on refresh
	CREATE TABLE IF NOT EXISTS trend_analyses (
		tracking_id TEXT NOT NULL,
		time_period TEXT NOT NULL,
		analysis_date TEXT NOT NULL,
		analysis_json TEXT NOT NULL,
		PRIMARY KEY (tracking_id, time_period)
	);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// SaveAuditReport stores the report as a JSON document.
func (s *SQLite) SaveAuditReport(ctx context.Context, report *model.AuditReport) error {
	canonical, err := safeurl.Canonicalize(report.URL)
	if err != nil {
		return err
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO audit_reports (id, canonical_url, analysis_date, overall_score, report_json)
	VALUES (?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		report.ID,
		canonical,
		report.AnalysisDate.UTC().Format(time.RFC3339Nano),
		report.OverallScore,
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save audit report: %w", err)
	}
	return nil
}

// GetAuditReport retrieves a report by ID.
func (s *SQLite) GetAuditReport(ctx context.Context, id string) (*model.AuditReport, error) {
	var reportJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT report_json FROM audit_reports WHERE id = ?`, id,
	).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit report: %w", err)
	}

	var report model.AuditReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// ListAuditReports returns the canonical URL's reports, newest first.
func (s *SQLite) ListAuditReports(ctx context.Context, canonicalURL string, limit int) ([]*model.AuditReport, error) {
	query := `
	SELECT report_json FROM audit_reports
	WHERE canonical_url = ?
	ORDER BY analysis_date DESC
	`
	args := []any{canonicalURL}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit reports: %w", err)
	}
	defer rows.Close()

	var reports []*model.AuditReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		var report model.AuditReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			continue // Skip malformed reports
		}
		reports = append(reports, &report)
	}
	return reports, rows.Err()
}

// RecordAudit bumps tracking state and appends the history record inside
// a single transaction, so the counter can never drift out of sync with
// the number of history rows.
func (s *SQLite) RecordAudit(ctx context.Context, report *model.AuditReport) (*model.HistoricalTracking, error) {
	canonical, err := safeurl.Canonicalize(report.URL)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	tracking, err := s.trackingForUpdate(ctx, tx, canonical, report.AnalysisDate)
	if err != nil {
		return nil, err
	}

	tracking.TotalAudits++
	tracking.LastAuditDate = report.AnalysisDate

	_, err = tx.ExecContext(ctx,
		`UPDATE tracking SET total_audits = ?, last_audit_date = ? WHERE id = ?`,
		tracking.TotalAudits,
		tracking.LastAuditDate.UTC().Format(time.RFC3339Nano),
		tracking.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update tracking: %w", err)
	}

	record := model.NewHistoryRecord(tracking.ID, report)
	previous, err := s.latestHistory(ctx, tx, tracking.ID)
	if err != nil {
		return nil, err
	}
	record.ScoreChanges = scoreChanges(record, previous)

	var changesJSON []byte
	if record.ScoreChanges != nil {
		changesJSON, _ = json.Marshal(record.ScoreChanges) //nolint:errcheck,errchkjson // simple map, cannot fail
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO performance_history
		(tracking_id, audit_report_id, recorded_at, overall_score,
		 seo_score, accessibility_score, mobile_score, performance_score, score_changes)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.TrackingID,
		record.AuditReportID,
		record.RecordedAt.UTC().Format(time.RFC3339Nano),
		record.OverallScore,
		record.SEOScore,
		record.AccessibilityScore,
		record.MobileScore,
		record.PerformanceScore,
		nullableString(changesJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append history record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit audit record: %w", err)
	}
	return tracking, nil
}

// trackingForUpdate loads the tracking row inside the transaction,
// creating it lazily on the first audit of a URL.
func (s *SQLite) trackingForUpdate(ctx context.Context, tx *sql.Tx, canonical string, now time.Time) (*model.HistoricalTracking, error) {
	tracking, err := scanTracking(tx.QueryRowContext(ctx,
		`SELECT id, canonical_url, domain, tracking_start_date, last_audit_date,
		        total_audits, is_active, retention_days
		 FROM tracking WHERE canonical_url = ?`, canonical))
	if err == nil {
		return tracking, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to load tracking: %w", err)
	}

	tracking = model.NewHistoricalTracking(canonical, safeurl.Domain(canonical), now)
	_, err = tx.ExecContext(ctx, `
	INSERT INTO tracking
		(id, canonical_url, domain, tracking_start_date, last_audit_date,
		 total_audits, is_active, retention_days)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tracking.ID,
		tracking.CanonicalURL,
		tracking.Domain,
		tracking.TrackingStartDate.UTC().Format(time.RFC3339Nano),
		tracking.LastAuditDate.UTC().Format(time.RFC3339Nano),
		tracking.TotalAudits,
		boolToInt(tracking.IsActive),
		tracking.RetentionDays,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracking: %w", err)
	}
	return tracking, nil
}

// latestHistory returns the most recent history record for score-change
// computation, or nil when none exists.
func (s *SQLite) latestHistory(ctx context.Context, tx *sql.Tx, trackingID string) (*model.PerformanceHistoryRecord, error) {
	row := tx.QueryRowContext(ctx, `
	SELECT tracking_id, audit_report_id, recorded_at, overall_score,
	       seo_score, accessibility_score, mobile_score, performance_score
	FROM performance_history
	WHERE tracking_id = ?
	ORDER BY recorded_at DESC, id DESC
	LIMIT 1`, trackingID)

	record, err := scanHistory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest history record: %w", err)
	}
	return record, nil
}

// GetTracking retrieves a tracking record by canonical URL.
func (s *SQLite) GetTracking(ctx context.Context, canonicalURL string) (*model.HistoricalTracking, error) {
	tracking, err := scanTracking(s.db.QueryRowContext(ctx,
		`SELECT id, canonical_url, domain, tracking_start_date, last_audit_date,
		        total_audits, is_active, retention_days
		 FROM tracking WHERE canonical_url = ?`, canonicalURL))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tracking: %w", err)
	}
	return tracking, nil
}

// GetTrackingByID retrieves a tracking record by ID.
func (s *SQLite) GetTrackingByID(ctx context.Context, trackingID string) (*model.HistoricalTracking, error) {
	tracking, err := scanTracking(s.db.QueryRowContext(ctx,
		`SELECT id, canonical_url, domain, tracking_start_date, last_audit_date,
		        total_audits, is_active, retention_days
		 FROM tracking WHERE id = ?`, trackingID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tracking: %w", err)
	}
	return tracking, nil
}

// DeactivateTracking marks the tracking inactive.
func (s *SQLite) DeactivateTracking(ctx context.Context, trackingID string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE tracking SET is_active = 0 WHERE id = ?`, trackingID)
	if err != nil {
		return fmt.Errorf("failed to deactivate tracking: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deactivation: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// HistorySince returns the tracking's records at or after since,
// ordered ascending.
func (s *SQLite) HistorySince(ctx context.Context, trackingID string, since time.Time) ([]*model.PerformanceHistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT tracking_id, audit_report_id, recorded_at, overall_score,
	       seo_score, accessibility_score, mobile_score, performance_score
	FROM performance_history
	WHERE tracking_id = ? AND recorded_at >= ?
	ORDER BY recorded_at ASC, id ASC`,
		trackingID, since.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []*model.PerformanceHistoryRecord
	for rows.Next() {
		record, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// SaveTrendAnalysis replaces the current analysis for the pair via UPSERT.
func (s *SQLite) SaveTrendAnalysis(ctx context.Context, analysis *model.TrendAnalysis) error {
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to serialize trend analysis: %w", err)
	}

	query := `
	INSERT INTO trend_analyses (tracking_id, time_period, analysis_date, analysis_json)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(tracking_id, time_period) DO UPDATE SET
		analysis_date = excluded.analysis_date,
		analysis_json = excluded.analysis_json
	`

	_, err = s.db.ExecContext(ctx, query,
		analysis.TrackingID,
		string(analysis.TimePeriod),
		analysis.AnalysisDate.UTC().Format(time.RFC3339Nano),
		string(analysisJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save trend analysis: %w", err)
	}
	return nil
}

// GetTrendAnalysis retrieves the current analysis for the pair.
func (s *SQLite) GetTrendAnalysis(ctx context.Context, trackingID string, period model.TimePeriod) (*model.TrendAnalysis, error) {
	var analysisJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT analysis_json FROM trend_analyses WHERE tracking_id = ? AND time_period = ?`,
		trackingID, string(period),
	).Scan(&analysisJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trend analysis: %w", err)
	}

	var analysis model.TrendAnalysis
	if err := json.Unmarshal([]byte(analysisJSON), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse trend analysis: %w", err)
	}
	return &analysis, nil
}

// scanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

// scanTracking reads one tracking row.
func scanTracking(row scanner) (*model.HistoricalTracking, error) {
	var tracking model.HistoricalTracking
	var startDate, lastDate string
	var isActive int

	err := row.Scan(
		&tracking.ID,
		&tracking.CanonicalURL,
		&tracking.Domain,
		&startDate,
		&lastDate,
		&tracking.TotalAudits,
		&isActive,
		&tracking.RetentionDays,
	)
	if err != nil {
		return nil, err
	}

	tracking.TrackingStartDate = parseTimestamp(startDate)
	tracking.LastAuditDate = parseTimestamp(lastDate)
	tracking.IsActive = isActive != 0
	return &tracking, nil
}

// scanHistory reads one performance-history row.
func scanHistory(row scanner) (*model.PerformanceHistoryRecord, error) {
	var record model.PerformanceHistoryRecord
	var recordedAt string
	var seo, accessibility, mobile, performance sql.NullFloat64

	err := row.Scan(
		&record.TrackingID,
		&record.AuditReportID,
		&recordedAt,
		&record.OverallScore,
		&seo,
		&accessibility,
		&mobile,
		&performance,
	)
	if err != nil {
		return nil, err
	}

	record.RecordedAt = parseTimestamp(recordedAt)
	record.SEOScore = nullableFloat(seo)
	record.AccessibilityScore = nullableFloat(accessibility)
	record.MobileScore = nullableFloat(mobile)
	record.PerformanceScore = nullableFloat(performance)
	return &record, nil
}

// nullableFloat converts a NullFloat64 to an optional pointer.
func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	value := v.Float64
	return &value
}

// nullableString converts a possibly-empty byte slice to a NULL-able value.
func nullableString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

// boolToInt converts a bool to SQLite's integer representation.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// timestampFormats contains the timestamp formats SQLite may hand back.
// More specific formats come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp tries each known format, returning zero time when none
// matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
