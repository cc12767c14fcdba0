package services

import (
	"context"
	"testing"
	"time"

	"github.com/factuurdesk/factuur-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuarter(t *testing.T) {
	year, quarter, err := ParseQuarter("2024", "2")
	require.NoError(t, err)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 2, quarter)

	cases := []struct{ year, quarter string }{
		{"abc", "1"},
		{"2024", "0"},
		{"2024", "5"},
		{"2024", "x"},
		{"24", "1"},
		{"", ""},
	}
	for _, tc := range cases {
		_, _, err := ParseQuarter(tc.year, tc.quarter)
		assert.ErrorIs(t, err, ErrValidation, "year=%q quarter=%q", tc.year, tc.quarter)
	}
}

func TestQuarterlyReport(t *testing.T) {
	ctx := context.Background()

	invoices := &mockInvoiceRepository{
		mockFindByPeriod: func(ctx context.Context, tenantID string, from, to time.Time) ([]models.Invoice, error) {
			assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), from)
			assert.Equal(t, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), to)
			return []models.Invoice{
				{Status: models.InvoiceStatusPaid, TotalAmount: 1210, VATAmount: 210},
				{Status: models.InvoiceStatusSent, TotalAmount: 605, VATAmount: 105},
				{Status: models.InvoiceStatusPaid, TotalAmount: 800, VATAmount: 0, ReverseCharge: true},
				{Status: models.InvoiceStatusDraft, TotalAmount: 999, VATAmount: 99},
				{Status: models.InvoiceStatusCancelled, TotalAmount: 999, VATAmount: 99},
			}, nil
		},
	}
	svc := NewTaxService(invoices, &mockClientRepository{})

	report, err := svc.QuarterlyReport(ctx, "tenant-1", 2024, 2)
	require.NoError(t, err)

	assert.Equal(t, 2024, report.Year)
	assert.Equal(t, 2, report.Quarter)
	assert.Equal(t, 3, report.InvoiceCount)
	assert.Equal(t, 2300.0, report.Revenue)
	assert.Equal(t, 315.0, report.VATDue)
	assert.Equal(t, 800.0, report.ReverseCharged)
	assert.Equal(t, 1, report.ICPInvoiceCount)
}
