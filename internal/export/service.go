package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/receipt-extractor/internal/entity"
	"github.com/joseph-ayodele/receipt-extractor/internal/repository"
)

// Service is a tiny façade over the receipt repository that produces
// XLSX bytes for exports.
type Service struct {
	receipts repository.ReceiptRepository
	logger   *slog.Logger
}

func NewService(repo repository.ReceiptRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{receipts: repo, logger: logger}
}

// ExportReceiptsXLSX returns an XLSX workbook (as bytes) for the given
// filter. An empty filter exports every stored receipt.
func (s *Service) ExportReceiptsXLSX(ctx context.Context, filter repository.ListFilter) ([]byte, error) {
	start := time.Now()

	recs, err := s.receipts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Receipts"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Transaction Date",
		"Merchant",
		"Category",
		"Subtotal",
		"Tax",
		"Total",
		"Items",
		"Confidence",
		"Needs Review",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.TxDate)
		write(2, r.Merchant)
		write(3, r.Category)
		write(4, r.Subtotal)
		write(5, r.Tax)
		write(6, r.Total)
		write(7, truncate(itemSummary(r.Items), 140))
		write(8, fmt.Sprintf("%.2f", r.Confidence))
		if r.NeedsReview {
			write(9, "yes")
		} else {
			write(9, "")
		}

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 14) // date
	_ = f.SetColWidth(sheet, "B", "B", 28) // merchant
	_ = f.SetColWidth(sheet, "C", "C", 22) // category
	_ = f.SetColWidth(sheet, "D", "F", 12) // amounts
	_ = f.SetColWidth(sheet, "G", "G", 48) // items
	_ = f.SetColWidth(sheet, "H", "I", 12) // confidence, review

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

func itemSummary(items []entity.LineItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if item.Quantity > 1 {
			parts = append(parts, fmt.Sprintf("%dx %s (%s)", item.Quantity, item.Name, item.LineTotal))
		} else {
			parts = append(parts, fmt.Sprintf("%s (%s)", item.Name, item.Price))
		}
	}
	return strings.Join(parts, "; ")
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
