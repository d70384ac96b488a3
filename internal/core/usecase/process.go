package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/kirillkom/docsorter/internal/core/domain"
	"github.com/kirillkom/docsorter/internal/core/ports"
)

// ProcessDocumentUseCase runs a single document through
// extract -> classify -> place, folding every component error into the
// document's final state.
type ProcessDocumentUseCase struct {
	extractor  ports.TextExtractor
	classifier ports.DocumentClassifier
	organizer  ports.FileOrganizer
	logger     *slog.Logger
}

func NewProcessDocumentUseCase(
	extractor ports.TextExtractor,
	classifier ports.DocumentClassifier,
	organizer ports.FileOrganizer,
	logger *slog.Logger,
) *ProcessDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessDocumentUseCase{
		extractor:  extractor,
		classifier: classifier,
		organizer:  organizer,
		logger:     logger,
	}
}

// Process mutates doc through the pipeline states and returns the outcome
// record. It never returns an error: failures are terminal document states,
// not control flow.
func (uc *ProcessDocumentUseCase) Process(ctx context.Context, doc *domain.Document) domain.Outcome {
	doc.StartedAt = time.Now()
	doc.Status = domain.StatusPending

	result, ok := uc.classifyStage(ctx, doc)
	if ok {
		uc.placeStage(ctx, doc, result)
	}

	doc.FinishedAt = time.Now()
	return outcomeOf(doc, result)
}

func (uc *ProcessDocumentUseCase) classifyStage(ctx context.Context, doc *domain.Document) (domain.ClassificationResult, bool) {
	text, err := uc.extractor.Extract(ctx, doc.SourcePath)
	if err != nil {
		reason := domain.ReasonExtractionError
		if domain.IsKind(err, domain.ErrNoExtractableText) {
			reason = domain.ReasonNoExtractableText
		}
		uc.fail(doc, reason, err)
		return domain.ClassificationResult{}, false
	}
	doc.Text = text
	doc.Status = domain.StatusExtracted

	result, err := uc.classifier.Classify(ctx, text)
	if err != nil {
		uc.fail(doc, domain.ReasonBackendUnavailable, err)
		return domain.ClassificationResult{}, false
	}
	doc.Status = domain.StatusClassified
	uc.logger.Debug("document_classified",
		"file", doc.Filename,
		"category", result.Category,
		"subcategory", result.Subcategory,
		"confidence", string(result.Confidence),
	)
	return result, true
}

func (uc *ProcessDocumentUseCase) placeStage(ctx context.Context, doc *domain.Document, result domain.ClassificationResult) {
	finalPath, err := uc.organizer.Place(ctx, doc.SourcePath, result.Category, result.Subcategory)
	if err != nil {
		uc.fail(doc, domain.ReasonMoveError, err)
		return
	}
	doc.FinalPath = finalPath
	doc.Status = domain.StatusMoved
	uc.logger.Info("document_moved",
		"file", doc.Filename,
		"destination", finalPath,
		"category", result.Category,
		"subcategory", result.Subcategory,
	)
}

func (uc *ProcessDocumentUseCase) fail(doc *domain.Document, reason string, err error) {
	doc.Status = domain.StatusFailed
	doc.FailReason = reason
	doc.Error = err.Error()
	uc.logger.Warn("document_failed", "file", doc.Filename, "reason", reason, "error", err)
}

func outcomeOf(doc *domain.Document, result domain.ClassificationResult) domain.Outcome {
	return domain.Outcome{
		SourcePath:  doc.SourcePath,
		FinalPath:   doc.FinalPath,
		Status:      doc.Status,
		Category:    result.Category,
		Subcategory: result.Subcategory,
		Confidence:  result.Confidence,
		RawResponse: result.RawResponse,
		FailReason:  doc.FailReason,
		Error:       doc.Error,
		Duration:    doc.FinishedAt.Sub(doc.StartedAt),
	}
}
