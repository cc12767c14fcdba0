package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/factuurdesk/factuur-api/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ExportService renders the dashboard metrics into downloadable documents
type ExportService struct {
	metricsSvc *MetricsService
}

// NewExportService creates a new export service
func NewExportService(metricsSvc *MetricsService) *ExportService {
	return &ExportService{metricsSvc: metricsSvc}
}

// Export renders the tenant's current metrics in the requested format.
// Supported formats: csv, xlsx, pdf.
func (s *ExportService) Export(ctx context.Context, tenantID, format string) ([]byte, string, string, error) {
	summary, err := s.metricsSvc.DashboardMetrics(ctx, tenantID)
	if err != nil {
		return nil, "", "", err
	}
	score, err := s.metricsSvc.HealthScore(ctx, tenantID)
	if err != nil {
		return nil, "", "", err
	}

	switch format {
	case "csv":
		data, name, err := s.exportCSV(summary, score)
		return data, name, "text/csv", err
	case "xlsx":
		data, name, err := s.exportXLSX(summary, score)
		return data, name, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	case "pdf":
		data, name, err := s.exportPDF(summary, score)
		return data, name, "application/pdf", err
	default:
		return nil, "", "", fmt.Errorf("%w: unsupported format %q", ErrValidation, format)
	}
}

func metricsRows(summary *models.DashboardMetrics, score *models.HealthScore) [][2]string {
	return [][2]string{
		{"Ready to invoice", fmt.Sprintf("%.2f", summary.Factureerbaar)},
		{"Clients ready to invoice", fmt.Sprintf("%d", summary.FactureerbaarCount)},
		{"Total unbilled", fmt.Sprintf("%.2f", summary.TotaleRegistratie)},
		{"Overdue amount", fmt.Sprintf("%.2f", summary.Achterstallig)},
		{"Overdue invoices", fmt.Sprintf("%d", summary.AchterstalligCount)},
		{"DSO (days)", fmt.Sprintf("%.1f", summary.ActualDSO)},
		{"DIO (days)", fmt.Sprintf("%.1f", summary.ActualDIO)},
		{"Average payment terms (days)", fmt.Sprintf("%.0f", summary.AveragePaymentTerms)},
		{"Days ready to invoice", fmt.Sprintf("%.1f", summary.AverageDRI)},
		{"Rolling 30-day revenue", fmt.Sprintf("%.2f", summary.Rolling30DaysRevenue.Current)},
		{"Previous 30-day revenue", fmt.Sprintf("%.2f", summary.Rolling30DaysRevenue.Previous)},
		{"Health score", fmt.Sprintf("%d/100 (%s)", score.Total, score.Status)},
	}
}

func (s *ExportService) exportCSV(summary *models.DashboardMetrics, score *models.HealthScore) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Financial Metrics Report", summary.PeriodInfo.CurrentDate})
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Metric", "Value"})
	for _, row := range metricsRows(summary, score) {
		_ = writer.Write([]string{row[0], row[1]})
	}
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Previous month", summary.PeriodInfo.PreviousMonth})
	_ = writer.Write([]string{"Previous week", summary.PeriodInfo.PreviousWeek})

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("metrics_report_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) exportXLSX(summary *models.DashboardMetrics, score *models.HealthScore) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Metrics"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Financial Metrics Report")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)
	_ = f.SetCellValue(sheet, "B1", summary.PeriodInfo.CurrentDate)

	_ = f.SetCellValue(sheet, "A3", "Metric")
	_ = f.SetCellValue(sheet, "B3", "Value")
	for i, row := range metricsRows(summary, score) {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", i+4), row[0])
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", i+4), row[1])
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("metrics_report_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) exportPDF(summary *models.DashboardMetrics, score *models.HealthScore) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Financial Metrics Report")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(40, 8, fmt.Sprintf("Generated %s", summary.PeriodInfo.CurrentDate))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 8, "Metric", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, "Value", "1", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, row := range metricsRows(summary, score) {
		pdf.CellFormat(90, 7, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, row[1], "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("metrics_report_%s.pdf", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
