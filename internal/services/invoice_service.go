package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/factuurdesk/factuur-api/internal/models"
	"github.com/factuurdesk/factuur-api/internal/repository"
	"github.com/factuurdesk/factuur-api/internal/statemachine"
	"github.com/factuurdesk/factuur-api/pkg/logger"
	"gorm.io/gorm"
)

// InvoiceService handles invoice lifecycle operations
type InvoiceService struct {
	invoiceRepo   repository.InvoiceRepository
	timeEntryRepo repository.TimeEntryRepository
	clientRepo    repository.ClientRepository
	metricsSvc    *MetricsService
	now           func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	timeEntryRepo repository.TimeEntryRepository,
	clientRepo repository.ClientRepository,
	metricsSvc *MetricsService,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:   invoiceRepo,
		timeEntryRepo: timeEntryRepo,
		clientRepo:    clientRepo,
		metricsSvc:    metricsSvc,
		now:           time.Now,
	}
}

// CreateInvoiceInput captures the fields needed to draft an invoice
type CreateInvoiceInput struct {
	ClientID      string   `json:"client_id" binding:"required"`
	TotalAmount   float64  `json:"total_amount" binding:"required,gt=0"`
	VATAmount     float64  `json:"vat_amount"`
	ReverseCharge bool     `json:"reverse_charge"`
	InvoiceDate   string   `json:"invoice_date" binding:"required"`
	DueDate       string   `json:"due_date"`
	TimeEntryIDs  []string `json:"time_entry_ids"`
}

// List returns a page of the tenant's invoices
func (s *InvoiceService) List(ctx context.Context, tenantID string, query *repository.InvoiceQuery) ([]models.Invoice, int64, error) {
	invoices, total, err := s.invoiceRepo.List(ctx, tenantID, query)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: listing invoices: %v", ErrDataUnavailable, err)
	}
	return invoices, total, nil
}

// GetByID returns one invoice with its payments
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, id string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: loading invoice: %v", ErrDataUnavailable, err)
	}
	return invoice, nil
}

// Create drafts a new invoice and marks the billed time entries as invoiced.
func (s *InvoiceService) Create(ctx context.Context, tenantID string, input *CreateInvoiceInput) (*models.Invoice, error) {
	client, err := s.clientRepo.FindByID(ctx, tenantID, input.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown client", ErrValidation)
		}
		return nil, fmt.Errorf("%w: loading client: %v", ErrDataUnavailable, err)
	}

	invoiceDate, err := time.Parse("2006-01-02", input.InvoiceDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invoice_date must be YYYY-MM-DD", ErrValidation)
	}

	dueDate := invoiceDate.AddDate(0, 0, defaultTermsDays(client))
	if input.DueDate != "" {
		dueDate, err = time.Parse("2006-01-02", input.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: due_date must be YYYY-MM-DD", ErrValidation)
		}
		if dueDate.Before(invoiceDate) {
			return nil, fmt.Errorf("%w: due_date precedes invoice_date", ErrValidation)
		}
	}

	number, err := s.invoiceRepo.NextInvoiceNumber(ctx, tenantID, invoiceDate.Year())
	if err != nil {
		return nil, fmt.Errorf("%w: generating invoice number: %v", ErrDataUnavailable, err)
	}

	invoice := &models.Invoice{
		TenantID:      tenantID,
		ClientID:      client.ID,
		InvoiceNumber: number,
		TotalAmount:   input.TotalAmount,
		VATAmount:     input.VATAmount,
		ReverseCharge: input.ReverseCharge,
		Status:        models.InvoiceStatusDraft,
		InvoiceDate:   invoiceDate,
		DueDate:       dueDate,
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("%w: creating invoice: %v", ErrDataUnavailable, err)
	}

	if len(input.TimeEntryIDs) > 0 {
		if err := s.timeEntryRepo.MarkInvoiced(ctx, tenantID, input.TimeEntryIDs, invoice.ID); err != nil {
			return nil, fmt.Errorf("%w: marking entries invoiced: %v", ErrDataUnavailable, err)
		}
	}

	s.metricsSvc.InvalidateCache(ctx, tenantID)
	return invoice, nil
}

// Send transitions a draft invoice to sent
func (s *InvoiceService) Send(ctx context.Context, tenantID, id string) (*models.Invoice, error) {
	invoice, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := statemachine.NewInvoiceFSM(invoice).Send(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	sentAt := s.now()
	invoice.SentAt = &sentAt

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("%w: updating invoice: %v", ErrDataUnavailable, err)
	}

	s.metricsSvc.InvalidateCache(ctx, tenantID)
	return invoice, nil
}

// Cancel transitions an invoice to cancelled and releases its time entries
// back into the unbilled pool.
func (s *InvoiceService) Cancel(ctx context.Context, tenantID, id string) (*models.Invoice, error) {
	invoice, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := statemachine.NewInvoiceFSM(invoice).Cancel(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("%w: updating invoice: %v", ErrDataUnavailable, err)
	}

	s.metricsSvc.InvalidateCache(ctx, tenantID)
	return invoice, nil
}

// RecordPaymentInput captures a received payment
type RecordPaymentInput struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	PaymentDate string  `json:"payment_date" binding:"required"`
	Reference   *string `json:"reference"`
}

// RecordPayment registers a payment against an invoice and moves the stored
// status to paid or partial depending on coverage.
func (s *InvoiceService) RecordPayment(ctx context.Context, tenantID, invoiceID string, input *RecordPaymentInput) (*models.Invoice, error) {
	invoice, err := s.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == models.InvoiceStatusDraft || invoice.Status == models.InvoiceStatusCancelled {
		return nil, fmt.Errorf("%w: cannot record payment on a %s invoice", ErrInvalidState, invoice.Status)
	}

	paymentDate, err := time.Parse("2006-01-02", input.PaymentDate)
	if err != nil {
		return nil, fmt.Errorf("%w: payment_date must be YYYY-MM-DD", ErrValidation)
	}

	payment := &models.Payment{
		InvoiceID:   invoice.ID,
		Amount:      input.Amount,
		PaymentDate: paymentDate,
		Reference:   input.Reference,
	}
	if err := s.invoiceRepo.AddPayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("%w: recording payment: %v", ErrDataUnavailable, err)
	}
	invoice.Payments = append(invoice.Payments, *payment)

	// Move the stored status along with the derived one.
	derived := invoice.PaymentStatus()
	if derived != invoice.Status {
		m := statemachine.NewInvoiceFSM(invoice)
		switch derived {
		case models.InvoiceStatusPaid:
			err = m.MarkPaid(ctx)
		case models.InvoiceStatusPartial:
			err = m.MarkPartial(ctx)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
		}
		if err := s.invoiceRepo.UpdateStatus(ctx, tenantID, invoice.ID, invoice.Status); err != nil {
			return nil, fmt.Errorf("%w: updating invoice status: %v", ErrDataUnavailable, err)
		}
	}

	s.metricsSvc.InvalidateCache(ctx, tenantID)
	return invoice, nil
}

// SweepOverdue marks sent invoices past their due date as overdue. The sweep
// is the only place overdue status is derived from dates; everything reading
// metrics trusts the stored status verbatim.
func (s *InvoiceService) SweepOverdue(ctx context.Context) (int, error) {
	candidates, err := s.invoiceRepo.FindSentPastDue(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("%w: loading overdue candidates: %v", ErrDataUnavailable, err)
	}

	var swept int
	for i := range candidates {
		invoice := &candidates[i]
		if err := statemachine.NewInvoiceFSM(invoice).MarkOverdue(ctx); err != nil {
			logger.Warn("Skipping invoice in overdue sweep", "invoice_id", invoice.ID, "error", err)
			continue
		}
		if err := s.invoiceRepo.UpdateStatus(ctx, invoice.TenantID, invoice.ID, invoice.Status); err != nil {
			logger.Error("Failed to mark invoice overdue", "invoice_id", invoice.ID, "error", err)
			continue
		}
		s.metricsSvc.InvalidateCache(ctx, invoice.TenantID)
		swept++
	}
	return swept, nil
}

func defaultTermsDays(client *models.Client) int {
	if client.DefaultPaymentTerms != nil && *client.DefaultPaymentTerms > 0 {
		return *client.DefaultPaymentTerms
	}
	return 30
}
