package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/factuurdesk/factuur-api/internal/metrics"
	"github.com/factuurdesk/factuur-api/internal/models"
	"github.com/factuurdesk/factuur-api/internal/repository"
)

// TaxService produces quarterly VAT/ICP summaries from issued invoices
type TaxService struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
}

// NewTaxService creates a new tax service
func NewTaxService(invoiceRepo repository.InvoiceRepository, clientRepo repository.ClientRepository) *TaxService {
	return &TaxService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
	}
}

// ParseQuarter validates year/quarter query parameters
func ParseQuarter(yearStr, quarterStr string) (int, int, error) {
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, fmt.Errorf("%w: year must be a four-digit integer", ErrValidation)
	}
	quarter, err := strconv.Atoi(quarterStr)
	if err != nil || quarter < 1 || quarter > 4 {
		return 0, 0, fmt.Errorf("%w: quarter must be 1-4", ErrValidation)
	}
	return year, quarter, nil
}

// QuarterlyReport summarizes VAT over one calendar quarter. Drafts and
// cancelled invoices never count; reverse-charged invoices carry no VAT due
// here and feed the ICP listing instead.
func (s *TaxService) QuarterlyReport(ctx context.Context, tenantID string, year, quarter int) (*models.VATReport, error) {
	from := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 3, -1)

	invoices, err := s.invoiceRepo.FindByPeriod(ctx, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: loading invoices: %v", ErrDataUnavailable, err)
	}

	report := &models.VATReport{Year: year, Quarter: quarter}
	for i := range invoices {
		inv := &invoices[i]
		if inv.Status == models.InvoiceStatusDraft || inv.Status == models.InvoiceStatusCancelled {
			continue
		}
		report.InvoiceCount++
		report.Revenue += inv.TotalAmount - inv.VATAmount
		if inv.ReverseCharge {
			report.ReverseCharged += inv.TotalAmount
			report.ICPInvoiceCount++
		} else {
			report.VATDue += inv.VATAmount
		}
	}

	report.Revenue = metrics.Round2(report.Revenue)
	report.VATDue = metrics.Round2(report.VATDue)
	report.ReverseCharged = metrics.Round2(report.ReverseCharged)
	return report, nil
}
