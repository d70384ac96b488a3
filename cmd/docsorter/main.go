package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/kirillkom/docsorter/internal/bootstrap"
	"github.com/kirillkom/docsorter/internal/config"
	"github.com/kirillkom/docsorter/internal/observability/logging"
)

func main() {
	os.Exit(run())
}

// run carries the exit code back to main so deferred cleanup (audit db
// handle, signal handler) executes before the process exits.
func run() int {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.NewLogger("docsorter", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		return 1
	}
	defer app.Close()

	if cfg.MetricsPort != "" {
		go func() {
			if err := app.Metrics.Serve(ctx, cfg.MetricsPort); err != nil {
				logger.Warn("metrics_server_error", "error", err)
			}
		}()
	}

	batchReport, err := app.Batch.Run(ctx, cfg.DocumentsPath, cfg.OutputPath)
	if err != nil {
		logger.Error("batch_failed", "error", err)
		return 1
	}

	for _, exporter := range app.Exporters {
		if exportErr := exporter.Export(batchReport); exportErr != nil {
			logger.Warn("report_export_failed", "error", exportErr)
		}
	}

	// Per-document failures are reported, not fatal; only an early abort
	// (backend unreachable for the whole run) fails the process.
	if batchReport.Aborted {
		return 1
	}
	return 0
}
