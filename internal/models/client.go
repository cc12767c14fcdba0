package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client represents a customer of the current tenant
type Client struct {
	ID                  string    `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID            string    `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name                string    `gorm:"not null" json:"name"`
	CountryCode         string    `gorm:"size:2;default:NL" json:"country_code"`
	InvoicingFrequency  string    `gorm:"default:on_demand;not null" json:"invoicing_frequency"`
	DefaultPaymentTerms *int      `json:"default_payment_terms"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TableName specifies the table name for Client
func (Client) TableName() string {
	return "clients"
}

// BeforeCreate assigns a UUID primary key
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Invoicing frequency constants. Readiness rules match on these exact values;
// anything else classifies as never ready.
const (
	FrequencyWeekly   = "weekly"
	FrequencyMonthly  = "monthly"
	FrequencyOnDemand = "on_demand"
)
