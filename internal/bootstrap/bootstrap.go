package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kirillkom/docsorter/internal/config"
	"github.com/kirillkom/docsorter/internal/core/ports"
	"github.com/kirillkom/docsorter/internal/core/usecase"
	"github.com/kirillkom/docsorter/internal/infrastructure/extractor/pdftext"
	"github.com/kirillkom/docsorter/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/docsorter/internal/infrastructure/organizer/localfs"
	"github.com/kirillkom/docsorter/internal/infrastructure/repository/sqlite"
	"github.com/kirillkom/docsorter/internal/infrastructure/resilience"
	"github.com/kirillkom/docsorter/internal/observability/metrics"
	"github.com/kirillkom/docsorter/internal/report"
	"github.com/kirillkom/docsorter/internal/taxonomy"
)

// App wires the batch pipeline from configuration.
type App struct {
	Config  config.Config
	Batch   ports.BatchRunner
	Metrics *metrics.BatchMetrics

	Exporters []ports.ReportExporter

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	registry, err := taxonomy.Load(cfg.TaxonomyPath, taxonomy.Options{
		SimilarityThreshold: cfg.SimilarityThreshold,
		DefaultCategory:     cfg.DefaultCategory,
		DefaultSubcategory:  cfg.DefaultSubcategory,
	})
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}

	db, err := sqlite.OpenDB(cfg.AuditDBPath)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	audit := sqlite.NewAuditRepository(db)
	if err := audit.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure audit schema: %w", err)
	}

	organizer, err := localfs.New(cfg.OutputPath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init organizer: %w", err)
	}

	policy := resilience.DefaultPolicy()
	policy.MaxAttempts = cfg.MaxRetries
	executor := resilience.NewExecutor(policy, logger)
	client := ollama.New(ollama.Config{
		BaseURL:           cfg.OllamaURL,
		Model:             cfg.OllamaModel,
		RequestTimeout:    time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		MaxConcurrent:     int64(cfg.BackendConcurrency),
		RequestsPerSecond: cfg.BackendRequestsPerSec,
	}, executor)
	classifier := ollama.NewClassifier(client, registry, cfg.MaxTextChars)

	extractor := pdftext.New(pdftext.Config{
		MaxChars:    cfg.MaxTextChars,
		MaxPages:    cfg.MaxPages,
		MinFileSize: cfg.MinFileSize,
		MaxFileSize: cfg.MaxFileSize,
	})

	batchMetrics := metrics.NewBatchMetrics("docsorter")
	process := usecase.NewProcessDocumentUseCase(extractor, classifier, organizer, logger)
	batch := usecase.NewBatchUseCase(process, audit, batchMetrics, usecase.BatchOptions{
		Concurrency:               cfg.Concurrency,
		Recursive:                 cfg.Recursive,
		AbortAfterBackendFailures: cfg.AbortAfterBackendFailures,
	}, logger)

	exporters := []ports.ReportExporter{report.NewPrinter(os.Stdout)}
	if cfg.ReportXLSXPath != "" {
		exporters = append(exporters, report.NewXLSXExporter(cfg.ReportXLSXPath))
	}

	return &App{
		Config:    cfg,
		Batch:     batch,
		Metrics:   batchMetrics,
		Exporters: exporters,
		closeFn: func() {
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
