package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeEntry represents a tracked unit of work for a client
type TimeEntry struct {
	ID                  string     `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID            string     `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ClientID            string     `gorm:"type:uuid;not null;index" json:"client_id"`
	EntryDate           time.Time  `gorm:"type:date;not null;index" json:"entry_date"`
	Hours               float64    `gorm:"type:decimal(6,2);not null" json:"hours"`
	HourlyRate          *float64   `gorm:"type:decimal(10,2)" json:"hourly_rate"`
	EffectiveHourlyRate *float64   `gorm:"type:decimal(10,2)" json:"effective_hourly_rate"`
	Billable            bool       `gorm:"default:true;not null" json:"billable"`
	Invoiced            bool       `gorm:"default:false;not null;index" json:"invoiced"`
	InvoiceID           *string    `gorm:"type:uuid;index" json:"invoice_id"`
	Description         *string    `json:"description"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	// Associations
	Client Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// TableName specifies the table name for TimeEntry
func (TimeEntry) TableName() string {
	return "time_entries"
}

// BeforeCreate assigns a UUID primary key
func (t *TimeEntry) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Rate returns the rate used for valuation. The effective rate overrides the
// base rate when present; a missing rate counts as zero.
func (t *TimeEntry) Rate() float64 {
	if t.EffectiveHourlyRate != nil {
		return *t.EffectiveHourlyRate
	}
	if t.HourlyRate != nil {
		return *t.HourlyRate
	}
	return 0
}

// Value returns hours multiplied by the applicable rate
func (t *TimeEntry) Value() float64 {
	return t.Hours * t.Rate()
}
