package ports

import (
	"context"
	"time"

	"github.com/kirillkom/docsorter/internal/core/domain"
)

// TextExtractor produces bounded plain text from a source document.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// DocumentClassifier maps extracted text onto a taxonomy slot. It is total
// over model output: any response resolves to a valid slot, with the
// confidence tag recording how. It fails only when the backend itself is
// unreachable.
type DocumentClassifier interface {
	Classify(ctx context.Context, text string) (domain.ClassificationResult, error)
}

// FileOrganizer moves a source file into the category tree and returns the
// final path. On failure the source file is left untouched.
type FileOrganizer interface {
	Place(ctx context.Context, sourcePath, category, subcategory string) (string, error)
}

// AuditStore persists runs and per-document outcomes.
type AuditStore interface {
	EnsureSchema(ctx context.Context) error
	StartRun(ctx context.Context, runID string, startedAt time.Time) error
	RecordOutcome(ctx context.Context, runID string, outcome domain.Outcome) error
	FinishRun(ctx context.Context, report *domain.BatchReport) error
	// MovedSourcePaths returns source paths moved by earlier runs, keyed by
	// absolute path. Used to skip already-classified files.
	MovedSourcePaths(ctx context.Context) (map[string]struct{}, error)
}

// ReportExporter renders a finished batch report.
type ReportExporter interface {
	Export(report *domain.BatchReport) error
}

// RunMetrics observes document processing for monitoring.
type RunMetrics interface {
	DocStarted()
	DocFinished(status domain.DocumentStatus, confidence domain.Confidence, seconds float64)
}
