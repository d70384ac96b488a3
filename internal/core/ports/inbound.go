package ports

import (
	"context"

	"github.com/kirillkom/docsorter/internal/core/domain"
)

// BatchRunner drives one classification run over an input directory.
type BatchRunner interface {
	Run(ctx context.Context, inputDir, outputDir string) (*domain.BatchReport, error)
}
