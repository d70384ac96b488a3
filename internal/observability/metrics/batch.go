package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kirillkom/docsorter/internal/core/domain"
)

// BatchMetrics exposes per-document pipeline counters for a running batch.
type BatchMetrics struct {
	registry *prometheus.Registry

	processedTotal  *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

func NewBatchMetrics(service string) *BatchMetrics {
	registry := prometheus.NewRegistry()

	processedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsorter",
			Subsystem: "batch",
			Name:      "documents_total",
			Help:      "Processed documents by final status and parse confidence.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"status", "confidence"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docsorter",
			Subsystem: "batch",
			Name:      "document_duration_seconds",
			Help:      "Per-document pipeline duration in seconds by final status.",
			Buckets:   []float64{0.05, 0.25, 1, 2.5, 5, 10, 30, 60, 120},
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"status"},
	)
	inFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docsorter",
			Subsystem: "batch",
			Name:      "documents_in_flight",
			Help:      "Number of documents currently in the pipeline.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(processedTotal, processDuration, inFlight)
	return &BatchMetrics{
		registry:        registry,
		processedTotal:  processedTotal,
		processDuration: processDuration,
		inFlight:        inFlight,
	}
}

func (m *BatchMetrics) DocStarted() {
	m.inFlight.Inc()
}

func (m *BatchMetrics) DocFinished(status domain.DocumentStatus, confidence domain.Confidence, seconds float64) {
	m.inFlight.Dec()
	m.processedTotal.WithLabelValues(string(status), string(confidence)).Inc()
	m.processDuration.WithLabelValues(string(status)).Observe(seconds)
}

// Serve exposes /metrics until ctx is cancelled. It returns once the server
// has shut down.
func (m *BatchMetrics) Serve(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	server := &http.Server{Addr: ":" + port, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
