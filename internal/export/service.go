package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/common"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/repository"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/rules"
)

// Service is a tiny façade over repositories that produces XLSX bytes for
// compliance report exports.
type Service struct {
	documents repository.DocumentRepository
	results   repository.ResultRepository
	logger    *slog.Logger
}

func NewService(documents repository.DocumentRepository, results repository.ResultRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{documents: documents, results: results, logger: logger}
}

// ExportComplianceXLSX returns an XLSX workbook (as bytes) covering the most
// recently processed documents, one row per document. limit <= 0 exports up
// to 500 documents.
func (s *Service) ExportComplianceXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()
	if limit <= 0 {
		limit = 500
	}

	docs, err := s.documents.List(ctx, constants.DocStatusCompleted, limit, 0)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Compliance"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"Processed At",
		"Document",
		"Drug Name",
		"Batch Number",
		"Expiry Date",
		"Manufacturer",
		"Controlled",
		"Checks Passed",
		"Checks Failed",
		"Warnings",
		"Detections",
		"Compliance Score",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, doc := range docs {
		result, err := s.results.GetByDocument(ctx, doc.ID)
		if err != nil {
			// A completed document without a stored result is stale; skip it.
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("query result for %s: %w", doc.ID, err)
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		var passed, failed, warned int
		for _, c := range result.Checks {
			switch c.Status {
			case constants.CheckPassed:
				passed++
			case constants.CheckFailed:
				failed++
			case constants.CheckWarning:
				warned++
			}
		}

		write(1, result.ProcessedAt.Format(time.RFC3339))
		write(2, doc.Filename)
		write(3, fieldText(result.Fields, constants.FieldDrugName))
		write(4, fieldText(result.Fields, constants.FieldBatchNumber))
		write(5, fieldText(result.Fields, constants.FieldExpiryDate))
		write(6, fieldText(result.Fields, constants.FieldManufacturer))
		write(7, result.ControlledSubstance)
		write(8, passed)
		write(9, failed)
		write(10, warned)
		write(11, len(result.Detections))
		write(12, fmt.Sprintf("%.2f", rules.Score(result.Checks)))

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 22) // timestamp
	_ = f.SetColWidth(sheet, "B", "B", 32) // filename
	_ = f.SetColWidth(sheet, "C", "F", 24) // fields
	_ = f.SetColWidth(sheet, "G", "L", 14) // counters

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func fieldText(fields entity.ExtractedFields, name constants.FieldName) string {
	fv := fields.Get(name)
	if !fv.Found() {
		return "-"
	}
	return fv.Text()
}
