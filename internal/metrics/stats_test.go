package metrics

import (
	"testing"
	"time"

	"github.com/factuurdesk/factuur-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestComputeRollingWindows(t *testing.T) {
	periods := NewPeriodBoundaries(date(2024, time.January, 31))

	nonBillable := entry("client-a", date(2024, time.January, 20), 2, 0)
	nonBillable.Billable = false

	invoiced := entry("client-a", date(2024, time.January, 21), 4, 100)
	invoiced.Invoiced = true

	entries := []models.TimeEntry{
		entry("client-a", date(2024, time.January, 20), 6, 100), // current, unbilled
		nonBillable,                                             // current, same day
		invoiced,                                                // current, already invoiced
		entry("client-a", date(2023, time.December, 20), 8, 100), // previous window
		entry("client-a", date(2023, time.October, 1), 8, 100),   // outside both
	}

	got := ComputeRollingWindows(entries, periods)

	assert.Equal(t, 12.0, got.Current.TotalHours)
	assert.Equal(t, 10.0, got.Current.BillableHours)
	assert.Equal(t, 2.0, got.Current.NonBillableHours)
	assert.Equal(t, 1000.0, got.Current.BillableRevenue)
	assert.Equal(t, 6.0, got.Current.UnbilledHours)
	assert.Equal(t, 600.0, got.Current.UnbilledValue)
	assert.Equal(t, 2, got.Current.DistinctWorkingDays)
	assert.Equal(t, 6.0, got.Current.DailyHours)

	assert.Equal(t, 8.0, got.Previous.TotalHours)
	assert.Equal(t, 800.0, got.Previous.BillableRevenue)
	assert.Equal(t, 1, got.Previous.DistinctWorkingDays)
}

func TestComputeRollingWindowsEmpty(t *testing.T) {
	periods := NewPeriodBoundaries(date(2024, time.January, 31))
	got := ComputeRollingWindows(nil, periods)

	assert.Equal(t, 0.0, got.Current.DailyHours)
	assert.Equal(t, 0, got.Current.DistinctWorkingDays)
	assert.Equal(t, models.RollingWindowStats{}, got.Previous)
}

func TestComputeTimeStats(t *testing.T) {
	// Monday 2024-01-15: current week Sun Jan 14 - Sat Jan 20.
	periods := NewPeriodBoundaries(date(2024, time.January, 15))

	entries := []models.TimeEntry{
		entry("client-a", date(2024, time.January, 15), 6, 100), // this week + this month
		entry("client-a", date(2024, time.January, 10), 4, 100), // prev week + this month
		entry("client-b", date(2023, time.December, 20), 8, 80), // prev month
	}
	classified := Classify(entries, testClients(), periods)

	got := ComputeTimeStats(entries, classified, periods)

	assert.Equal(t, 6.0, got.ThisWeek.Hours)
	assert.Equal(t, 6.0, got.ThisWeek.BillableHours)
	assert.Equal(t, 2.0, got.ThisWeek.Difference)
	assert.Equal(t, "up", got.ThisWeek.Trend)

	assert.Equal(t, 10.0, got.ThisMonth.Hours)
	assert.Equal(t, 1000.0, got.ThisMonth.Revenue)
	assert.Equal(t, 2, got.ThisMonth.DistinctWorkingDays)

	// All three entries are unbilled. Ready: the Jan 10 weekly entry (its
	// week completed) and the December monthly entry; the Jan 15 entry sits
	// in the current week.
	assert.Equal(t, 18.0, got.Unbilled.Hours)
	assert.Equal(t, 12.0, got.Factureerbaar.Hours)
	assert.Equal(t, 1040.0, got.Factureerbaar.Revenue)
}

func TestComputeTimeStatsTrendDown(t *testing.T) {
	periods := NewPeriodBoundaries(date(2024, time.January, 15))

	entries := []models.TimeEntry{
		entry("client-a", date(2024, time.January, 10), 9, 100), // prev week
		entry("client-a", date(2024, time.January, 15), 3, 100), // this week
	}

	got := ComputeTimeStats(entries, Classify(entries, testClients(), periods), periods)
	assert.Equal(t, -6.0, got.ThisWeek.Difference)
	assert.Equal(t, "down", got.ThisWeek.Trend)
}

func TestComputeInvoiceStats(t *testing.T) {
	periods := NewPeriodBoundaries(date(2024, time.January, 20))

	invoices := []models.Invoice{
		invoice("client-a", models.InvoiceStatusSent, 1210,
			date(2024, time.January, 5), date(2024, time.February, 4)),
		invoice("client-a", models.InvoiceStatusSent, 500,
			date(2024, time.January, 2), date(2024, time.January, 16)), // past due
		invoice("client-b", models.InvoiceStatusPaid, 1000,
			date(2023, time.December, 10), date(2024, time.January, 9),
			models.Payment{Amount: 1000, PaymentDate: date(2024, time.January, 5)}),
		invoice("client-b", models.InvoiceStatusDraft, 750,
			date(2024, time.January, 18), date(2024, time.February, 17)),
	}
	invoices[0].VATAmount = 210

	got := ComputeInvoiceStats(invoices, periods)

	// Drafts never count toward revenue.
	assert.Equal(t, 1710.0, got.CurrentMonth.Revenue)
	assert.Equal(t, 210.0, got.CurrentMonth.VAT)
	assert.Equal(t, 71.0, got.CurrentMonth.GrowthPercentage)

	assert.Equal(t, 1710.0, got.Outstanding.Amount)
	assert.Equal(t, 2, got.Outstanding.Count)

	// Unlike the dashboard backlog, a sent invoice past its due date counts
	// as overdue here.
	assert.Equal(t, 500.0, got.Overdue.Amount)
	assert.Equal(t, 1, got.Overdue.Count)

	assert.Equal(t, 1, got.Drafts.Count)
}

func TestGrowthPercentage(t *testing.T) {
	assert.Equal(t, 50.0, growthPercentage(150, 100))
	assert.Equal(t, -25.0, growthPercentage(75, 100))
	assert.Equal(t, 100.0, growthPercentage(10, 0))
	assert.Equal(t, 0.0, growthPercentage(0, 0))
}
