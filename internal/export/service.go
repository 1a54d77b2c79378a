// Package export produces the contract register workbook.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/helpdesk-core/renewals-tracker/internal/repository"
)

// Service is a tiny façade over the contract repository that produces XLSX
// bytes for exports.
type Service struct {
	contracts repository.ContractRepository
	logger    *slog.Logger
}

func NewService(contracts repository.ContractRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{contracts: contracts, logger: logger}
}

// ExportContractsXLSX returns the full contract register as an XLSX
// workbook, one row per contract, newest first.
func (s *Service) ExportContractsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	recs, err := s.contracts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query contracts: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Contracts"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Vendor",
		"PO Number",
		"Description",
		"Value",
		"Start Date",
		"End Date",
		"Status",
		"Acknowledged",
		"Extraction Strategy",
		"Confidence",
		"Source File",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, c := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, c.VendorName)
		write(2, deref(c.PONumber))
		write(3, truncate(c.Description, 140))
		if c.Value != nil {
			write(4, *c.Value)
		}
		write(5, formatDate(c.StartDate))
		write(6, formatDate(c.EndDate))
		write(7, string(c.Status))
		write(8, c.IsAcknowledged)
		write(9, c.ExtractionStrategy)
		write(10, c.ExtractionConfidence)
		write(11, c.Filename)

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 28)
	_ = f.SetColWidth(sheet, "B", "B", 16)
	_ = f.SetColWidth(sheet, "C", "C", 48)
	_ = f.SetColWidth(sheet, "D", "D", 14)
	_ = f.SetColWidth(sheet, "E", "F", 14)
	_ = f.SetColWidth(sheet, "G", "G", 16)
	_ = f.SetColWidth(sheet, "I", "I", 20)
	_ = f.SetColWidth(sheet, "K", "K", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// truncate limits s to n runes, never splitting a multi-byte rune.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
