package report

import (
	"fmt"
	"io"

	"github.com/kirillkom/docsorter/internal/core/domain"
)

// Printer renders a batch report as plain text, one line per document plus a
// summary block.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Export(report *domain.BatchReport) error {
	for _, outcome := range report.Outcomes {
		switch outcome.Status {
		case domain.StatusMoved:
			fmt.Fprintf(p.w, "%s -> %s / %s (%s)\n",
				outcome.SourcePath, outcome.Category, outcome.Subcategory, outcome.Confidence)
			fmt.Fprintf(p.w, "  moved to: %s\n", outcome.FinalPath)
		default:
			fmt.Fprintf(p.w, "%s -> FAILED (%s): %s\n",
				outcome.SourcePath, outcome.FailReason, outcome.Error)
		}
	}

	fmt.Fprintf(p.w, "---\n")
	fmt.Fprintf(p.w, "run %s: %d moved (%d exact, %d fuzzy, %d fallback), %d failed\n",
		report.RunID,
		report.CountByStatus(domain.StatusMoved),
		report.CountByConfidence(domain.ConfidenceExact),
		report.CountByConfidence(domain.ConfidenceFuzzy),
		report.CountByConfidence(domain.ConfidenceFallback),
		report.CountByStatus(domain.StatusFailed),
	)
	if report.Aborted {
		fmt.Fprintf(p.w, "run aborted early: %s\n", report.AbortCause)
	}
	return nil
}
