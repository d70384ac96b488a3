package config

import (
	"os"
	"strconv"
)

type Config struct {
	LogLevel string

	DocumentsPath string
	OutputPath    string

	OllamaURL             string
	OllamaModel           string
	RequestTimeoutSeconds int
	MaxRetries            int
	BackendConcurrency    int
	BackendRequestsPerSec float64

	MaxTextChars int
	MaxPages     int
	MinFileSize  int64
	MaxFileSize  int64

	TaxonomyPath        string
	SimilarityThreshold float64
	DefaultCategory     string
	DefaultSubcategory  string

	Concurrency               int
	Recursive                 bool
	AbortAfterBackendFailures int

	AuditDBPath    string
	ReportXLSXPath string
	MetricsPort    string
}

func Load() Config {
	return Config{
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		DocumentsPath: mustEnv("DOCUMENTS_PATH", "./documents"),
		OutputPath:    mustEnv("OUTPUT_PATH", "./classified_documents"),

		OllamaURL:             mustEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:           mustEnv("OLLAMA_MODEL", "mistral"),
		RequestTimeoutSeconds: mustEnvInt("REQUEST_TIMEOUT_SECONDS", 60),
		MaxRetries:            mustEnvInt("MAX_RETRIES", 3),
		BackendConcurrency:    mustEnvInt("BACKEND_CONCURRENCY", 2),
		BackendRequestsPerSec: mustEnvFloat("BACKEND_RPS", 0),

		MaxTextChars: mustEnvInt("MAX_TEXT_CHARS", 1000),
		MaxPages:     mustEnvInt("MAX_PAGES", 10),
		MinFileSize:  int64(mustEnvInt("MIN_FILE_SIZE", 100)),
		MaxFileSize:  int64(mustEnvInt("MAX_FILE_SIZE", 50*1024*1024)),

		TaxonomyPath:        mustEnv("TAXONOMY_PATH", ""),
		SimilarityThreshold: mustEnvFloat("SIMILARITY_THRESHOLD", 0.75),
		DefaultCategory:     mustEnv("DEFAULT_CATEGORY", "Uncategorized"),
		DefaultSubcategory:  mustEnv("DEFAULT_SUBCATEGORY", "Unsorted"),

		Concurrency:               mustEnvInt("CONCURRENCY", 4),
		Recursive:                 mustEnvBool("RECURSIVE", false),
		AbortAfterBackendFailures: mustEnvInt("ABORT_AFTER_BACKEND_FAILURES", 3),

		AuditDBPath:    mustEnv("AUDIT_DB_PATH", "./docsorter.db"),
		ReportXLSXPath: mustEnv("REPORT_XLSX_PATH", ""),
		MetricsPort:    mustEnv("METRICS_PORT", ""),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
