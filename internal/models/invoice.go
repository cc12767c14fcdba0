package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice represents an issued invoice with its recorded payments
type Invoice struct {
	ID            string     `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID      string     `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ClientID      string     `gorm:"type:uuid;not null;index" json:"client_id"`
	InvoiceNumber string     `gorm:"not null" json:"invoice_number"`
	TotalAmount   float64    `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	VATAmount     float64    `gorm:"type:decimal(12,2);default:0" json:"vat_amount"`
	ReverseCharge bool       `gorm:"default:false" json:"reverse_charge"`
	Status        string     `gorm:"default:draft;not null;index" json:"status"`
	InvoiceDate   time.Time  `gorm:"type:date;not null;index" json:"invoice_date"`
	DueDate       time.Time  `gorm:"type:date;not null;index" json:"due_date"`
	SentAt        *time.Time `json:"sent_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	Client   Client    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Payments []Payment `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

// TableName specifies the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// BeforeCreate assigns a UUID primary key
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Invoice status constants
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusPartial   = "partial"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// MaySend reports whether the invoice can transition to sent
func (i *Invoice) MaySend() bool {
	return i.Status == InvoiceStatusDraft
}

// MayCancel reports whether the invoice can transition to cancelled
func (i *Invoice) MayCancel() bool {
	return i.Status == InvoiceStatusDraft || i.Status == InvoiceStatusSent
}

// MayMarkOverdue reports whether the invoice can transition to overdue
func (i *Invoice) MayMarkOverdue() bool {
	return i.Status == InvoiceStatusSent || i.Status == InvoiceStatusPartial
}

// MayMarkPaid reports whether the invoice can transition to paid
func (i *Invoice) MayMarkPaid() bool {
	return i.Status == InvoiceStatusSent || i.Status == InvoiceStatusPartial || i.Status == InvoiceStatusOverdue
}

// MayMarkPartial reports whether the invoice can transition to partially paid
func (i *Invoice) MayMarkPartial() bool {
	return i.Status == InvoiceStatusSent || i.Status == InvoiceStatusOverdue
}

// TotalPayments returns the sum of all recorded payments
func (i *Invoice) TotalPayments() float64 {
	var sum float64
	for _, p := range i.Payments {
		sum += p.Amount
	}
	return sum
}

// PaymentStatus derives the effective status from recorded payments: paid when
// payments cover the total, partial when something but not everything was
// paid. Otherwise the stored status is returned as-is; in particular a stored
// "overdue" is never recomputed from amounts.
func (i *Invoice) PaymentStatus() string {
	total := i.TotalPayments()
	if total >= i.TotalAmount && i.TotalAmount > 0 {
		return InvoiceStatusPaid
	}
	if total > 0 {
		return InvoiceStatusPartial
	}
	return i.Status
}

// OutstandingAmount returns the unpaid remainder, never negative
func (i *Invoice) OutstandingAmount() float64 {
	out := i.TotalAmount - i.TotalPayments()
	if out < 0 {
		return 0
	}
	return out
}

// LastPaymentDate returns the most recent payment date, or nil when no
// payments exist
func (i *Invoice) LastPaymentDate() *time.Time {
	var last *time.Time
	for idx := range i.Payments {
		d := i.Payments[idx].PaymentDate
		if last == nil || d.After(*last) {
			last = &i.Payments[idx].PaymentDate
		}
	}
	return last
}

// Payment represents a payment received against an invoice
type Payment struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID   string    `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Amount      float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentDate time.Time `gorm:"type:date;not null" json:"payment_date"`
	Reference   *string   `json:"reference"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "invoice_payments"
}

// BeforeCreate assigns a UUID primary key
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
