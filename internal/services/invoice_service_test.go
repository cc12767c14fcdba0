package services

import (
	"context"
	"testing"
	"time"

	"github.com/factuurdesk/factuur-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoiceService(invoices *mockInvoiceRepository, entries *mockTimeEntryRepository, clients *mockClientRepository) *InvoiceService {
	metricsSvc := newTestMetricsService(&mockClientRepository{}, &mockTimeEntryRepository{}, &mockInvoiceRepository{}, newMockCache())
	svc := NewInvoiceService(invoices, entries, clients, metricsSvc)
	svc.now = fixedClock(time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC))
	return svc
}

func TestSendInvoice(t *testing.T) {
	ctx := context.Background()

	var updated *models.Invoice
	invoices := &mockInvoiceRepository{
		mockFindByID: func(ctx context.Context, tenantID, id string) (*models.Invoice, error) {
			return &models.Invoice{ID: id, TenantID: tenantID, Status: models.InvoiceStatusDraft}, nil
		},
		mockUpdate: func(ctx context.Context, invoice *models.Invoice) error {
			updated = invoice
			return nil
		},
	}
	svc := newTestInvoiceService(invoices, &mockTimeEntryRepository{}, &mockClientRepository{})

	got, err := svc.Send(ctx, "tenant-1", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusSent, got.Status)
	require.NotNil(t, updated)
	require.NotNil(t, updated.SentAt)
	assert.Equal(t, 2024, updated.SentAt.Year())
}

func TestSendInvoiceInvalidState(t *testing.T) {
	ctx := context.Background()

	invoices := &mockInvoiceRepository{
		mockFindByID: func(ctx context.Context, tenantID, id string) (*models.Invoice, error) {
			return &models.Invoice{ID: id, Status: models.InvoiceStatusPaid}, nil
		},
	}
	svc := newTestInvoiceService(invoices, &mockTimeEntryRepository{}, &mockClientRepository{})

	_, err := svc.Send(ctx, "tenant-1", "inv-1")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestGetInvoiceNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestInvoiceService(&mockInvoiceRepository{}, &mockTimeEntryRepository{}, &mockClientRepository{})

	_, err := svc.GetByID(ctx, "tenant-1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordPaymentMovesStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("full payment marks paid", func(t *testing.T) {
		var statusUpdate string
		invoices := &mockInvoiceRepository{
			mockFindByID: func(ctx context.Context, tenantID, id string) (*models.Invoice, error) {
				return &models.Invoice{ID: id, TenantID: tenantID, Status: models.InvoiceStatusSent, TotalAmount: 500}, nil
			},
			mockUpdateStatus: func(ctx context.Context, tenantID, id, status string) error {
				statusUpdate = status
				return nil
			},
		}
		svc := newTestInvoiceService(invoices, &mockTimeEntryRepository{}, &mockClientRepository{})

		got, err := svc.RecordPayment(ctx, "tenant-1", "inv-1", &RecordPaymentInput{
			Amount:      500,
			PaymentDate: "2024-01-14",
		})
		require.NoError(t, err)
		assert.Equal(t, models.InvoiceStatusPaid, got.Status)
		assert.Equal(t, models.InvoiceStatusPaid, statusUpdate)
	})

	t.Run("partial payment marks partial", func(t *testing.T) {
		invoices := &mockInvoiceRepository{
			mockFindByID: func(ctx context.Context, tenantID, id string) (*models.Invoice, error) {
				return &models.Invoice{ID: id, TenantID: tenantID, Status: models.InvoiceStatusSent, TotalAmount: 500}, nil
			},
		}
		svc := newTestInvoiceService(invoices, &mockTimeEntryRepository{}, &mockClientRepository{})

		got, err := svc.RecordPayment(ctx, "tenant-1", "inv-1", &RecordPaymentInput{
			Amount:      200,
			PaymentDate: "2024-01-14",
		})
		require.NoError(t, err)
		assert.Equal(t, models.InvoiceStatusPartial, got.Status)
	})

	t.Run("rejects drafts", func(t *testing.T) {
		invoices := &mockInvoiceRepository{
			mockFindByID: func(ctx context.Context, tenantID, id string) (*models.Invoice, error) {
				return &models.Invoice{ID: id, Status: models.InvoiceStatusDraft, TotalAmount: 500}, nil
			},
		}
		svc := newTestInvoiceService(invoices, &mockTimeEntryRepository{}, &mockClientRepository{})

		_, err := svc.RecordPayment(ctx, "tenant-1", "inv-1", &RecordPaymentInput{
			Amount:      200,
			PaymentDate: "2024-01-14",
		})
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		invoices := &mockInvoiceRepository{
			mockFindByID: func(ctx context.Context, tenantID, id string) (*models.Invoice, error) {
				return &models.Invoice{ID: id, Status: models.InvoiceStatusSent, TotalAmount: 500}, nil
			},
		}
		svc := newTestInvoiceService(invoices, &mockTimeEntryRepository{}, &mockClientRepository{})

		_, err := svc.RecordPayment(ctx, "tenant-1", "inv-1", &RecordPaymentInput{
			Amount:      200,
			PaymentDate: "14-01-2024",
		})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestSweepOverdue(t *testing.T) {
	ctx := context.Background()

	statusUpdates := map[string]string{}
	invoices := &mockInvoiceRepository{
		mockFindSentPastDue: func(ctx context.Context, asOf time.Time) ([]models.Invoice, error) {
			return []models.Invoice{
				{ID: "inv-1", TenantID: "tenant-1", Status: models.InvoiceStatusSent},
				{ID: "inv-2", TenantID: "tenant-2", Status: models.InvoiceStatusSent},
			}, nil
		},
		mockUpdateStatus: func(ctx context.Context, tenantID, id, status string) error {
			statusUpdates[id] = status
			return nil
		},
	}
	svc := newTestInvoiceService(invoices, &mockTimeEntryRepository{}, &mockClientRepository{})

	swept, err := svc.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, swept)
	assert.Equal(t, models.InvoiceStatusOverdue, statusUpdates["inv-1"])
	assert.Equal(t, models.InvoiceStatusOverdue, statusUpdates["inv-2"])
}
