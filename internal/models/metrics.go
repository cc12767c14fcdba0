package models

import (
	"encoding/json"
	"time"
)

// MetricsCache represents a cached metrics payload for a tenant
type MetricsCache struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CacheKey  string          `gorm:"not null;index:idx_metrics_cache_key_tenant" json:"cache_key"`
	TenantID  string          `gorm:"type:uuid;not null;index:idx_metrics_cache_key_tenant" json:"tenant_id"`
	Data      json.RawMessage `gorm:"type:jsonb;not null" json:"data"`
	ExpiresAt time.Time       `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName specifies the table name for MetricsCache
func (MetricsCache) TableName() string {
	return "metrics_cache"
}

// RollingRevenue holds invoiced totals for the current and previous rolling
// 30-day windows
type RollingRevenue struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
}

// PeriodInfo echoes the period boundaries a metrics payload was computed for
type PeriodInfo struct {
	CurrentDate   string `json:"current_date"`
	PreviousMonth string `json:"previous_month"`
	PreviousWeek  string `json:"previous_week"`
}

// DashboardMetrics is the invoice-readiness summary consumed by the dashboard.
// The field names are a compatibility contract with the frontend and must not
// change.
type DashboardMetrics struct {
	Factureerbaar       float64        `json:"factureerbaar"`
	FactureerbaarCount  int            `json:"factureerbaar_count"`
	TotaleRegistratie   float64        `json:"totale_registratie"`
	Achterstallig       float64        `json:"achterstallig"`
	AchterstalligCount  int            `json:"achterstallig_count"`
	ActualDSO           float64        `json:"actual_dso"`
	ActualDIO           float64        `json:"actual_dio"`
	AveragePaymentTerms float64        `json:"average_payment_terms"`
	AverageDRI          float64        `json:"average_dri"`
	Rolling30DaysRevenue RollingRevenue `json:"rolling30DaysRevenue"`
	PeriodInfo          PeriodInfo     `json:"period_info"`
}

// RollingWindowStats aggregates time entries inside one rolling 30-day window
type RollingWindowStats struct {
	BillableRevenue     float64 `json:"billableRevenue"`
	DistinctWorkingDays int     `json:"distinctWorkingDays"`
	TotalHours          float64 `json:"totalHours"`
	DailyHours          float64 `json:"dailyHours"`
	BillableHours       float64 `json:"billableHours"`
	NonBillableHours    float64 `json:"nonBillableHours"`
	UnbilledHours       float64 `json:"unbilledHours"`
	UnbilledValue       float64 `json:"unbilledValue"`
}

// RollingWindows pairs the current and previous rolling 30-day windows
type RollingWindows struct {
	Current  RollingWindowStats `json:"current"`
	Previous RollingWindowStats `json:"previous"`
}

// WeekStats summarizes the current week against the previous one
type WeekStats struct {
	Hours         float64 `json:"hours"`
	BillableHours float64 `json:"billableHours"`
	Difference    float64 `json:"difference"`
	Trend         string  `json:"trend"`
}

// MonthStats summarizes the current calendar month
type MonthStats struct {
	Hours               float64 `json:"hours"`
	Revenue             float64 `json:"revenue"`
	BillableHours       float64 `json:"billableHours"`
	NonBillableHours    float64 `json:"nonBillableHours"`
	DistinctWorkingDays int     `json:"distinctWorkingDays"`
}

// HoursRevenue is an hours/revenue pair
type HoursRevenue struct {
	Hours   float64 `json:"hours"`
	Revenue float64 `json:"revenue"`
}

// TimeStats is the time-tracking statistics payload
type TimeStats struct {
	ThisWeek      WeekStats      `json:"thisWeek"`
	ThisMonth     MonthStats     `json:"thisMonth"`
	Unbilled      HoursRevenue   `json:"unbilled"`
	Factureerbaar HoursRevenue   `json:"factureerbaar"`
	Rolling30Days RollingWindows `json:"rolling30Days"`
}

// InvoiceStats is the invoice statistics payload
type InvoiceStats struct {
	CurrentMonth struct {
		Revenue          float64 `json:"revenue"`
		VAT              float64 `json:"vat"`
		GrowthPercentage float64 `json:"growthPercentage"`
	} `json:"currentMonth"`
	Outstanding struct {
		Amount float64 `json:"amount"`
		Count  int     `json:"count"`
	} `json:"outstanding"`
	Overdue struct {
		Amount float64 `json:"amount"`
		Count  int     `json:"count"`
	} `json:"overdue"`
	Drafts struct {
		Count int `json:"count"`
	} `json:"drafts"`
}

// HealthScore is the composite business health result: four pillars of 0-25
// points each and an integer total of 0-100
type HealthScore struct {
	Profit     int    `json:"profit"`
	Cashflow   int    `json:"cashflow"`
	Efficiency int    `json:"efficiency"`
	Risk       int    `json:"risk"`
	Total      int    `json:"total"`
	Status     string `json:"status"`
}

// VATReport is the quarterly VAT/ICP summary
type VATReport struct {
	Year            int     `json:"year"`
	Quarter         int     `json:"quarter"`
	InvoiceCount    int     `json:"invoice_count"`
	Revenue         float64 `json:"revenue"`
	VATDue          float64 `json:"vat_due"`
	ReverseCharged  float64 `json:"reverse_charged"`
	ICPInvoiceCount int     `json:"icp_invoice_count"`
}
