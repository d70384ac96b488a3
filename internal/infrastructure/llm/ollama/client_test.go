package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kirillkom/docsorter/internal/core/domain"
	"github.com/kirillkom/docsorter/internal/infrastructure/resilience"
)

func fastExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Policy{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		Multiplier:     2,
		BreakerEnabled: false,
	}, nil)
}

func newTestClient(url string) *Client {
	return New(Config{
		BaseURL:        url,
		Model:          "mistral",
		RequestTimeout: 5 * time.Second,
		MaxConcurrent:  2,
	}, fastExecutor())
}

func TestClassifySendsPromptAndParsesResponse(t *testing.T) {
	var capturedPrompt string
	var capturedModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		capturedPrompt, _ = payload["prompt"].(string)
		capturedModel, _ = payload["model"].(string)
		if stream, ok := payload["stream"].(bool); !ok || stream {
			t.Errorf("expected stream=false, got %v", payload["stream"])
		}
		_, _ = w.Write([]byte(`{"response":"Category: Work-Related / Subcategory: Employment Contracts"}`))
	}))
	defer server.Close()

	classifier := NewClassifier(newTestClient(server.URL), testRegistry(t), 1000)
	result, err := classifier.Classify(context.Background(), "this employment agreement is made between...")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if result.Category != "Work-Related" || result.Subcategory != "Employment Contracts" {
		t.Fatalf("unexpected slot: %q / %q", result.Category, result.Subcategory)
	}
	if result.Confidence != domain.ConfidenceExact {
		t.Fatalf("expected exact confidence, got %q", result.Confidence)
	}
	if capturedModel != "mistral" {
		t.Fatalf("expected configured model, got %q", capturedModel)
	}
	if !strings.Contains(capturedPrompt, "employment agreement") {
		t.Fatalf("prompt missing document text: %s", capturedPrompt)
	}
	if !strings.Contains(capturedPrompt, "Work-Related") {
		t.Fatalf("prompt missing taxonomy: %s", capturedPrompt)
	}
}

func TestClassifyRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "model loading", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"response":"Category: Travel / Subcategory: Visas"}`))
	}))
	defer server.Close()

	classifier := NewClassifier(newTestClient(server.URL), testRegistry(t), 1000)
	result, err := classifier.Classify(context.Background(), "boarding pass and visa application")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
	if result.Category != "Travel" {
		t.Fatalf("unexpected category %q", result.Category)
	}
}

func TestClassifyRetriesEmptyResponseThenFails(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"response":"   "}`))
	}))
	defer server.Close()

	classifier := NewClassifier(newTestClient(server.URL), testRegistry(t), 1000)
	_, err := classifier.Classify(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error after exhausting retries on empty responses")
	}
	if !domain.IsKind(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected backend-unavailable kind, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestClassifyRetriesUndecodableResponseThenFails(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`this is not json`))
	}))
	defer server.Close()

	classifier := NewClassifier(newTestClient(server.URL), testRegistry(t), 1000)
	_, err := classifier.Classify(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error after exhausting retries on undecodable responses")
	}
	if !domain.IsKind(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected backend-unavailable kind, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestClassifyDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	classifier := NewClassifier(newTestClient(server.URL), testRegistry(t), 1000)
	_, err := classifier.Classify(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected single attempt for client error, got %d", calls.Load())
	}
	if !strings.Contains(err.Error(), "model not found") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestClassifyUnreachableBackend(t *testing.T) {
	classifier := NewClassifier(newTestClient("http://127.0.0.1:1"), testRegistry(t), 1000)
	_, err := classifier.Classify(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error for unreachable backend")
	}
	if !domain.IsKind(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected backend-unavailable kind, got %v", err)
	}
}
