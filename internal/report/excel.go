package report

import (
	"fmt"
	"time"

	"github.com/codingislub/chat/internal/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExcelWriter exports the invoice collection and its summary statistics
// to an .xlsx workbook.
type ExcelWriter struct {
	logger *zap.Logger
}

// NewExcelWriter creates a new Excel report writer.
func NewExcelWriter(logger *zap.Logger) *ExcelWriter {
	return &ExcelWriter{logger: logger}
}

// Write creates a workbook with a Summary sheet and an Invoices sheet at
// outputPath. today is the reference date used for the overdue column.
func (w *ExcelWriter) Write(outputPath string, stats *models.SummaryStats, invoices []models.Invoice, today time.Time) error {
	w.logger.Info("Writing Excel report",
		zap.String("path", outputPath),
		zap.Int("invoices", len(invoices)))

	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}

	w.setCell(f, summarySheet, "A1", "Invoice Summary")
	w.setCell(f, summarySheet, "A2", "Generated")
	w.setCell(f, summarySheet, "B2", time.Now().Format("2006-01-02 15:04:05"))
	w.setCell(f, summarySheet, "A4", "Invoices")
	w.setCell(f, summarySheet, "B4", stats.Count)
	w.setCell(f, summarySheet, "A5", "Total value")
	w.setCell(f, summarySheet, "B5", stats.Total)
	w.setCell(f, summarySheet, "A6", "Average value")
	w.setCell(f, summarySheet, "B6", stats.Average)
	w.setCell(f, summarySheet, "A7", "Distinct vendors")
	w.setCell(f, summarySheet, "B7", stats.DistinctVendors)
	w.setCell(f, summarySheet, "A8", "Overdue")
	w.setCell(f, summarySheet, "B8", stats.OverdueCount)

	const invoiceSheet = "Invoices"
	if _, err := f.NewSheet(invoiceSheet); err != nil {
		return fmt.Errorf("failed to create invoices sheet: %w", err)
	}

	headers := []string{"Vendor", "Invoice Number", "Amount", "Customer", "Issue Date", "Due Date", "Status", "Overdue"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		w.setCell(f, invoiceSheet, cell, h)
	}

	today = models.Day(today)
	for row, inv := range invoices {
		values := []interface{}{
			inv.Vendor,
			inv.InvoiceNumber,
			inv.Amount,
			inv.Customer,
			formatDate(inv.IssueDate),
			formatDate(inv.DueDate),
			inv.Status,
			inv.IsOverdue(today),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			w.setCell(f, invoiceSheet, cell, v)
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	w.logger.Info("Excel report written", zap.String("path", outputPath))
	return nil
}

func (w *ExcelWriter) setCell(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		w.logger.Warn("Failed to set cell",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(models.DateLayout)
}
