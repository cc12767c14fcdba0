package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/factuurdesk/factuur-api/internal/models"
	"gorm.io/gorm"
)

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*models.Invoice, error)
	FindAllByTenant(ctx context.Context, tenantID string) ([]models.Invoice, error)
	FindByPeriod(ctx context.Context, tenantID string, from, to time.Time) ([]models.Invoice, error)
	FindSentPastDue(ctx context.Context, asOf time.Time) ([]models.Invoice, error)
	List(ctx context.Context, tenantID string, query *InvoiceQuery) ([]models.Invoice, int64, error)
	Create(ctx context.Context, invoice *models.Invoice) error
	Update(ctx context.Context, invoice *models.Invoice) error
	UpdateStatus(ctx context.Context, tenantID, id, status string) error
	AddPayment(ctx context.Context, payment *models.Payment) error
	NextInvoiceNumber(ctx context.Context, tenantID string, year int) (string, error)
}

// InvoiceQuery extends ListQuery with invoice-specific filters
type InvoiceQuery struct {
	*ListQuery
	Status   string
	ClientID string
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) FindByID(ctx context.Context, tenantID, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Preload("Payments").
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// FindAllByTenant loads every invoice with its payments. The aggregator needs
// payments in memory to derive payment status and outstanding amounts.
func (r *invoiceRepository) FindAllByTenant(ctx context.Context, tenantID string) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Preload("Payments").
		Order("invoice_date ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) FindByPeriod(ctx context.Context, tenantID string, from, to time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND invoice_date >= ? AND invoice_date <= ?", tenantID, from, to).
		Preload("Payments").
		Order("invoice_date ASC").
		Find(&invoices).Error
	return invoices, err
}

// FindSentPastDue returns sent invoices past their due date across all
// tenants, the candidates for the overdue status sweep.
func (r *invoiceRepository) FindSentPastDue(ctx context.Context, asOf time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", models.InvoiceStatusSent, asOf).
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) List(ctx context.Context, tenantID string, query *InvoiceQuery) ([]models.Invoice, int64, error) {
	var invoices []models.Invoice
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Invoice{}).Where("tenant_id = ?", tenantID)

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.ClientID != "" {
		db = db.Where("client_id = ?", query.ClientID)
	}
	if query.ListQuery != nil && query.Search != "" {
		term := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(invoice_number) LIKE ?", term)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.ListQuery != nil && query.PerPage > 0 {
		offset := (query.Page - 1) * query.PerPage
		if offset < 0 {
			offset = 0
		}
		db = db.Offset(offset).Limit(query.PerPage)
	}

	err := db.Preload("Payments").Order("invoice_date DESC").Find(&invoices).Error
	return invoices, total, err
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, tenantID, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("status", status).Error
}

func (r *invoiceRepository) AddPayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// NextInvoiceNumber produces the next sequential number for the tenant and
// year, formatted as YYYY-NNNN.
func (r *invoiceRepository) NextInvoiceNumber(ctx context.Context, tenantID string, year int) (string, error) {
	var count int64
	prefix := fmt.Sprintf("%d-", year)
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("tenant_id = ? AND invoice_number LIKE ?", tenantID, prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}
