package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/kirillkom/docsorter/internal/core/domain"
)

// AuditRepository persists runs and per-document outcomes in a local sqlite
// database, keeping the raw model responses for audit.
type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	// sqlite serializes writers; a single connection avoids SQLITE_BUSY
	// under concurrent workers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *AuditRepository) EnsureSchema(ctx context.Context) error {
	const query = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TIMESTAMP NOT NULL,
	finished_at TIMESTAMP,
	moved_count INTEGER NOT NULL DEFAULT 0,
	failed_count INTEGER NOT NULL DEFAULT 0,
	fallback_count INTEGER NOT NULL DEFAULT 0,
	aborted INTEGER NOT NULL DEFAULT 0,
	abort_cause TEXT
);

CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL REFERENCES runs(id),
	source_path TEXT NOT NULL,
	final_path TEXT,
	status TEXT NOT NULL,
	category TEXT,
	subcategory TEXT,
	confidence TEXT,
	raw_response TEXT,
	fail_reason TEXT,
	error_message TEXT,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	recorded_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_run ON documents(run_id);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_source ON documents(source_path);
`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}
	return nil
}

func (r *AuditRepository) StartRun(ctx context.Context, runID string, startedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at) VALUES (?, ?)`,
		runID, startedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (r *AuditRepository) RecordOutcome(ctx context.Context, runID string, outcome domain.Outcome) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents
	(id, run_id, source_path, final_path, status, category, subcategory, confidence, raw_response, fail_reason, error_message, duration_ms, recorded_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		runID,
		outcome.SourcePath,
		outcome.FinalPath,
		string(outcome.Status),
		outcome.Category,
		outcome.Subcategory,
		string(outcome.Confidence),
		outcome.RawResponse,
		outcome.FailReason,
		outcome.Error,
		outcome.Duration.Milliseconds(),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert document outcome: %w", err)
	}
	return nil
}

func (r *AuditRepository) FinishRun(ctx context.Context, report *domain.BatchReport) error {
	aborted := 0
	if report.Aborted {
		aborted = 1
	}
	_, err := r.db.ExecContext(ctx, `
UPDATE runs
SET finished_at = ?, moved_count = ?, failed_count = ?, fallback_count = ?, aborted = ?, abort_cause = ?
WHERE id = ?`,
		report.FinishedAt.UTC(),
		report.CountByStatus(domain.StatusMoved),
		report.CountByStatus(domain.StatusFailed),
		report.CountByConfidence(domain.ConfidenceFallback),
		aborted,
		report.AbortCause,
		report.RunID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// MovedSourcePaths returns every source path some earlier run moved
// successfully, keyed by absolute path.
func (r *AuditRepository) MovedSourcePaths(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT source_path FROM documents WHERE status = ?`, string(domain.StatusMoved))
	if err != nil {
		return nil, fmt.Errorf("query moved documents: %w", err)
	}
	defer rows.Close()

	moved := make(map[string]struct{})
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan moved document: %w", err)
		}
		if abs, absErr := filepath.Abs(path); absErr == nil {
			path = abs
		}
		moved[path] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moved documents: %w", err)
	}
	return moved, nil
}
