package domain

import "time"

type DocumentStatus string

const (
	StatusPending    DocumentStatus = "pending"
	StatusExtracted  DocumentStatus = "extracted"
	StatusClassified DocumentStatus = "classified"
	StatusMoved      DocumentStatus = "moved"
	StatusFailed     DocumentStatus = "failed"
)

// Failure reasons recorded on documents that never reach StatusMoved.
const (
	ReasonNoExtractableText  = "no_extractable_text"
	ReasonExtractionError    = "extraction_error"
	ReasonBackendUnavailable = "backend_unavailable"
	ReasonMoveError          = "move_error"
	ReasonCancelled          = "cancelled"
)

// Document is one input file moving through the pipeline. It is owned by the
// orchestrator for the duration of a run.
type Document struct {
	ID         string
	SourcePath string
	Filename   string
	SizeBytes  int64
	Text       string
	Status     DocumentStatus
	FailReason string
	Error      string
	FinalPath  string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Confidence tags how a model response was mapped onto the taxonomy.
type Confidence string

const (
	ConfidenceExact    Confidence = "exact_match"
	ConfidenceFuzzy    Confidence = "fuzzy_match"
	ConfidenceFallback Confidence = "fallback_default"
)

// ClassificationResult is a resolved taxonomy slot plus the raw model text
// that produced it, kept for audit.
type ClassificationResult struct {
	Category    string
	Subcategory string
	Confidence  Confidence
	RawResponse string
}
