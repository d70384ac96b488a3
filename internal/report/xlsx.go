package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/docsorter/internal/core/domain"
)

const sheetName = "Sheet1"

// XLSXExporter writes the batch report to a spreadsheet, one row per
// document.
type XLSXExporter struct {
	path string
}

func NewXLSXExporter(path string) *XLSXExporter {
	return &XLSXExporter{path: path}
}

func (e *XLSXExporter) Export(report *domain.BatchReport) error {
	f := excelize.NewFile()
	defer f.Close()

	header := []any{
		"Source", "Status", "Category", "Subcategory", "Confidence",
		"Final Path", "Fail Reason", "Error", "Duration (ms)", "Raw Response",
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	for i, outcome := range report.Outcomes {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row coordinates: %w", err)
		}
		row := []any{
			outcome.SourcePath,
			string(outcome.Status),
			outcome.Category,
			outcome.Subcategory,
			string(outcome.Confidence),
			outcome.FinalPath,
			outcome.FailReason,
			outcome.Error,
			outcome.Duration.Milliseconds(),
			outcome.RawResponse,
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	summary, err := excelize.CoordinatesToCellName(1, len(report.Outcomes)+3)
	if err != nil {
		return fmt.Errorf("summary coordinates: %w", err)
	}
	summaryRow := []any{
		fmt.Sprintf("run %s", report.RunID),
		fmt.Sprintf("moved=%d", report.CountByStatus(domain.StatusMoved)),
		fmt.Sprintf("failed=%d", report.CountByStatus(domain.StatusFailed)),
		fmt.Sprintf("fallback=%d", report.CountByConfidence(domain.ConfidenceFallback)),
		fmt.Sprintf("aborted=%t", report.Aborted),
	}
	if err := f.SetSheetRow(sheetName, summary, &summaryRow); err != nil {
		return fmt.Errorf("write summary row: %w", err)
	}

	if err := f.SaveAs(e.path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}
