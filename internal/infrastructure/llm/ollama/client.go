package ollama

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/kirillkom/docsorter/internal/core/domain"
	"github.com/kirillkom/docsorter/internal/infrastructure/resilience"
	"github.com/kirillkom/docsorter/internal/taxonomy"
)

var (
	errEmptyResponse     = errors.New("empty model response")
	errMalformedResponse = errors.New("malformed model response")
)

// Config tunes the backend connection independently of the batch worker
// count.
type Config struct {
	BaseURL string
	Model   string
	// RequestTimeout bounds a single completion call.
	RequestTimeout time.Duration
	// MaxConcurrent caps in-flight backend requests across all workers.
	MaxConcurrent int64
	// RequestsPerSecond optionally rate-limits backend calls. Zero means
	// unlimited.
	RequestsPerSecond float64
}

// Client is a stateless text-completion client for a local Ollama server.
// No session or conversation state is kept between calls.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	sem        *semaphore.Weighted
	limiter    *rate.Limiter
	exec       *resilience.Executor
}

func New(cfg Config, exec *resilience.Executor) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
		sem:        semaphore.NewWeighted(maxConcurrent),
		limiter:    limiter,
		exec:       exec,
	}
}

// Complete sends one prompt through /api/generate under the retry policy and
// returns the raw response text. Empty responses are treated as transient
// backend failures.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	var raw string
	err := c.exec.Execute(ctx, "generate", func(callCtx context.Context) error {
		var callErr error
		raw, callErr = c.generate(callCtx, prompt)
		return callErr
	}, classifyBackendError)
	if err != nil {
		return "", err
	}
	return raw, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.sem.Release(1)

	reqBody := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": 0.1,
		},
	}
	var response struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/api/generate", reqBody, &response, "generate"); err != nil {
		return "", err
	}
	raw := strings.TrimSpace(response.Response)
	if raw == "" {
		return "", errEmptyResponse
	}
	return raw, nil
}

// Classifier turns extracted document text into a validated taxonomy slot:
// prompt build, resilient completion call, then total-function parsing.
type Classifier struct {
	client   *Client
	registry *taxonomy.Registry
	maxChars int
}

func NewClassifier(client *Client, registry *taxonomy.Registry, maxPromptChars int) *Classifier {
	return &Classifier{
		client:   client,
		registry: registry,
		maxChars: maxPromptChars,
	}
}

func (c *Classifier) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	prompt := BuildPrompt(c.registry, text, c.maxChars)
	raw, err := c.client.Complete(ctx, prompt)
	if err != nil {
		return domain.ClassificationResult{}, domain.WrapError(domain.ErrBackendUnavailable, "classify", err)
	}
	return ParseResponse(raw, c.registry), nil
}
