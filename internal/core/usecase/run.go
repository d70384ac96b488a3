package usecase

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/docsorter/internal/core/domain"
	"github.com/kirillkom/docsorter/internal/core/ports"
)

// BatchOptions tune one orchestrator run.
type BatchOptions struct {
	// Concurrency is the worker count; values below 1 mean sequential.
	Concurrency int
	// Recursive enables scanning subdirectories of the input directory.
	Recursive bool
	// AbortAfterBackendFailures stops dispatching new documents once this
	// many documents in a row failed with a backend error. Zero disables
	// early abort.
	AbortAfterBackendFailures int
}

// BatchUseCase enumerates the input directory and drives the per-document
// pipeline, producing one outcome per enumerated file.
type BatchUseCase struct {
	process *ProcessDocumentUseCase
	audit   ports.AuditStore
	metrics ports.RunMetrics
	opts    BatchOptions
	logger  *slog.Logger
}

func NewBatchUseCase(
	process *ProcessDocumentUseCase,
	audit ports.AuditStore,
	metrics ports.RunMetrics,
	opts BatchOptions,
	logger *slog.Logger,
) *BatchUseCase {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchUseCase{
		process: process,
		audit:   audit,
		metrics: metrics,
		opts:    opts,
		logger:  logger,
	}
}

// Run processes every PDF in inputDir and reports the aggregate outcome.
// Individual document failures never fail the run; only an early abort
// (backend down) marks the report aborted.
func (b *BatchUseCase) Run(ctx context.Context, inputDir, outputDir string) (*domain.BatchReport, error) {
	runID := uuid.NewString()
	report := &domain.BatchReport{
		RunID:     runID,
		StartedAt: time.Now(),
	}

	docs, err := b.enumerate(ctx, inputDir, outputDir)
	if err != nil {
		return nil, fmt.Errorf("enumerate input: %w", err)
	}
	b.logger.Info("batch_started", "run_id", runID, "input", inputDir, "output", outputDir, "documents", len(docs))

	if b.audit != nil {
		if err := b.audit.StartRun(ctx, runID, report.StartedAt); err != nil {
			return nil, fmt.Errorf("record run start: %w", err)
		}
	}

	tracker := &abortTracker{limit: b.opts.AbortAfterBackendFailures}
	outcomes := make([]domain.Outcome, len(docs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(b.opts.Concurrency)

	for i, doc := range docs {
		if err := groupCtx.Err(); err != nil {
			outcomes[i] = cancelledOutcome(doc, err)
			continue
		}
		if tracker.tripped() {
			outcomes[i] = skippedOutcome(doc, "batch aborted before dispatch")
			continue
		}
		group.Go(func() error {
			if b.metrics != nil {
				b.metrics.DocStarted()
			}
			outcome := b.process.Process(groupCtx, doc)
			tracker.observe(outcome)
			outcomes[i] = outcome
			if b.metrics != nil {
				b.metrics.DocFinished(outcome.Status, outcome.Confidence, outcome.Duration.Seconds())
			}
			if b.audit != nil {
				if err := b.audit.RecordOutcome(ctx, runID, outcome); err != nil {
					b.logger.Warn("audit_record_failed", "file", outcome.SourcePath, "error", err)
				}
			}
			return nil
		})
	}
	_ = group.Wait()

	report.Outcomes = outcomes
	report.FinishedAt = time.Now()
	if tracker.tripped() {
		report.Aborted = true
		report.AbortCause = fmt.Sprintf("%d consecutive backend failures", tracker.limit)
	}

	if b.audit != nil {
		if err := b.audit.FinishRun(ctx, report); err != nil {
			b.logger.Warn("audit_finish_failed", "run_id", runID, "error", err)
		}
	}

	b.logger.Info("batch_finished",
		"run_id", runID,
		"moved", report.CountByStatus(domain.StatusMoved),
		"failed", report.CountByStatus(domain.StatusFailed),
		"fallback", report.CountByConfidence(domain.ConfidenceFallback),
		"aborted", report.Aborted,
	)
	return report, nil
}

// enumerate lists candidate PDFs in deterministic order, skipping anything
// already inside the output tree and anything a previous run already moved.
func (b *BatchUseCase) enumerate(ctx context.Context, inputDir, outputDir string) ([]*domain.Document, error) {
	absOutput, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, err
	}

	var moved map[string]struct{}
	if b.audit != nil {
		moved, err = b.audit.MovedSourcePaths(ctx)
		if err != nil {
			return nil, fmt.Errorf("load prior placements: %w", err)
		}
	}

	var paths []string
	add := func(path string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		if insideTree(abs, absOutput) {
			return nil
		}
		if _, done := moved[abs]; done {
			b.logger.Debug("skip_already_classified", "file", abs)
			return nil
		}
		paths = append(paths, abs)
		return nil
	}

	if b.opts.Recursive {
		err = filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				abs, absErr := filepath.Abs(path)
				if absErr == nil && insideTree(abs, absOutput) {
					return filepath.SkipDir
				}
				return nil
			}
			if !isPDF(d.Name()) {
				return nil
			}
			return add(path)
		})
	} else {
		var entries []os.DirEntry
		entries, err = os.ReadDir(inputDir)
		if err == nil {
			for _, entry := range entries {
				if entry.IsDir() || !isPDF(entry.Name()) {
					continue
				}
				if addErr := add(filepath.Join(inputDir, entry.Name())); addErr != nil {
					err = addErr
					break
				}
			}
		}
	}
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	docs := make([]*domain.Document, 0, len(paths))
	for _, path := range paths {
		doc := &domain.Document{
			ID:         uuid.NewString(),
			SourcePath: path,
			Filename:   filepath.Base(path),
			Status:     domain.StatusPending,
		}
		if info, statErr := os.Stat(path); statErr == nil {
			doc.SizeBytes = info.Size()
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

func insideTree(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

func skippedOutcome(doc *domain.Document, msg string) domain.Outcome {
	return domain.Outcome{
		SourcePath: doc.SourcePath,
		Status:     domain.StatusFailed,
		FailReason: domain.ReasonBackendUnavailable,
		Error:      msg,
	}
}

func cancelledOutcome(doc *domain.Document, err error) domain.Outcome {
	return domain.Outcome{
		SourcePath: doc.SourcePath,
		Status:     domain.StatusFailed,
		FailReason: domain.ReasonCancelled,
		Error:      err.Error(),
	}
}

// abortTracker counts consecutive backend failures across workers.
type abortTracker struct {
	limit int

	mu          sync.Mutex
	consecutive int
	aborted     bool
}

func (t *abortTracker) observe(outcome domain.Outcome) {
	if t.limit <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if outcome.Status == domain.StatusFailed && outcome.FailReason == domain.ReasonBackendUnavailable {
		t.consecutive++
		if t.consecutive >= t.limit {
			t.aborted = true
		}
		return
	}
	t.consecutive = 0
}

func (t *abortTracker) tripped() bool {
	if t.limit <= 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.aborted
}
