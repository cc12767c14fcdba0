package metrics

import (
	"github.com/factuurdesk/factuur-api/internal/models"
)

// ComputeRollingWindows splits all time entries over the two rolling 30-day
// windows and aggregates each window independently. Unlike the unbilled
// classification this looks at every entry, billable or not, invoiced or not:
// the windows measure working rhythm, not open revenue.
func ComputeRollingWindows(entries []models.TimeEntry, periods PeriodBoundaries) models.RollingWindows {
	var current, previous rollingAccumulator
	for i := range entries {
		e := &entries[i]
		switch {
		case periods.InCurrentRolling30(e.EntryDate):
			current.add(e)
		case periods.InPreviousRolling30(e.EntryDate):
			previous.add(e)
		}
	}
	return models.RollingWindows{
		Current:  current.stats(),
		Previous: previous.stats(),
	}
}

type rollingAccumulator struct {
	billableRevenue  float64
	totalHours       float64
	billableHours    float64
	nonBillableHours float64
	unbilledHours    float64
	unbilledValue    float64
	workingDays      map[string]struct{}
}

func (a *rollingAccumulator) add(e *models.TimeEntry) {
	if a.workingDays == nil {
		a.workingDays = make(map[string]struct{})
	}
	a.totalHours += e.Hours
	a.workingDays[truncateToDay(e.EntryDate).Format(dateLayout)] = struct{}{}
	if e.Billable {
		a.billableHours += e.Hours
		a.billableRevenue += e.Value()
		if !e.Invoiced {
			a.unbilledHours += e.Hours
			a.unbilledValue += e.Value()
		}
	} else {
		a.nonBillableHours += e.Hours
	}
}

func (a *rollingAccumulator) stats() models.RollingWindowStats {
	days := len(a.workingDays)
	var daily float64
	if days > 0 {
		daily = Round1(a.totalHours / float64(days))
	}
	return models.RollingWindowStats{
		BillableRevenue:     Round2(a.billableRevenue),
		DistinctWorkingDays: days,
		TotalHours:          Round1(a.totalHours),
		DailyHours:          daily,
		BillableHours:       Round1(a.billableHours),
		NonBillableHours:    Round1(a.nonBillableHours),
		UnbilledHours:       Round1(a.unbilledHours),
		UnbilledValue:       Round2(a.unbilledValue),
	}
}

// ComputeTimeStats builds the time-tracking statistics payload from all of a
// tenant's time entries plus the classifier output for the unbilled subset.
func ComputeTimeStats(entries []models.TimeEntry, classified []ClassifiedEntry, periods PeriodBoundaries) models.TimeStats {
	var stats models.TimeStats

	var thisWeekHours, thisWeekBillable, lastWeekHours float64
	var monthHours, monthRevenue, monthBillable, monthNonBillable float64
	monthDays := make(map[string]struct{})

	for i := range entries {
		e := &entries[i]
		d := truncateToDay(e.EntryDate)

		if !d.Before(periods.CurrentWeekStart) && !d.After(periods.CurrentWeekEnd) {
			thisWeekHours += e.Hours
			if e.Billable {
				thisWeekBillable += e.Hours
			}
		}
		if !d.Before(periods.PrevWeekStart) && !d.After(periods.PrevWeekEnd) {
			lastWeekHours += e.Hours
		}
		if !d.Before(periods.CurrentMonthStart) && !d.After(periods.CurrentMonthEnd) {
			monthHours += e.Hours
			monthDays[d.Format(dateLayout)] = struct{}{}
			if e.Billable {
				monthBillable += e.Hours
				monthRevenue += e.Value()
			} else {
				monthNonBillable += e.Hours
			}
		}
	}

	stats.ThisWeek = models.WeekStats{
		Hours:         Round1(thisWeekHours),
		BillableHours: Round1(thisWeekBillable),
		Difference:    Round1(thisWeekHours - lastWeekHours),
		Trend:         trendLabel(thisWeekHours, lastWeekHours),
	}
	stats.ThisMonth = models.MonthStats{
		Hours:               Round1(monthHours),
		Revenue:             Round2(monthRevenue),
		BillableHours:       Round1(monthBillable),
		NonBillableHours:    Round1(monthNonBillable),
		DistinctWorkingDays: len(monthDays),
	}

	var unbilledHours, unbilledValue, readyHours, readyValue float64
	for _, ce := range classified {
		if !ce.Countable() {
			continue
		}
		unbilledHours += ce.Entry.Hours
		unbilledValue += ce.Entry.Value()
		if ce.IsReady() {
			readyHours += ce.Entry.Hours
			readyValue += ce.Entry.Value()
		}
	}
	stats.Unbilled = models.HoursRevenue{Hours: Round1(unbilledHours), Revenue: Round2(unbilledValue)}
	stats.Factureerbaar = models.HoursRevenue{Hours: Round1(readyHours), Revenue: Round2(readyValue)}

	stats.Rolling30Days = ComputeRollingWindows(entries, periods)
	return stats
}

func trendLabel(current, previous float64) string {
	switch {
	case current > previous:
		return "up"
	case current < previous:
		return "down"
	default:
		return "flat"
	}
}

// ComputeInvoiceStats builds the invoice statistics payload. The overdue
// bucket here intentionally differs from the dashboard backlog: it flags sent
// invoices already past their due date even before the status sweep has
// caught up with them.
func ComputeInvoiceStats(invoices []models.Invoice, periods PeriodBoundaries) models.InvoiceStats {
	var stats models.InvoiceStats

	var currentRevenue, currentVAT, previousRevenue float64
	for i := range invoices {
		inv := &invoices[i]
		d := truncateToDay(inv.InvoiceDate)

		if inv.Status != models.InvoiceStatusDraft && inv.Status != models.InvoiceStatusCancelled {
			if !d.Before(periods.CurrentMonthStart) && !d.After(periods.CurrentMonthEnd) {
				currentRevenue += inv.TotalAmount
				currentVAT += inv.VATAmount
			}
			if !d.Before(periods.PrevMonthStart) && !d.After(periods.PrevMonthEnd) {
				previousRevenue += inv.TotalAmount
			}
		}

		switch inv.Status {
		case models.InvoiceStatusSent, models.InvoiceStatusPartial, models.InvoiceStatusOverdue:
			stats.Outstanding.Amount += inv.OutstandingAmount()
			stats.Outstanding.Count++
			if truncateToDay(inv.DueDate).Before(periods.Today) {
				stats.Overdue.Amount += inv.OutstandingAmount()
				stats.Overdue.Count++
			}
		case models.InvoiceStatusDraft:
			stats.Drafts.Count++
		}
	}

	stats.CurrentMonth.Revenue = Round2(currentRevenue)
	stats.CurrentMonth.VAT = Round2(currentVAT)
	stats.CurrentMonth.GrowthPercentage = growthPercentage(currentRevenue, previousRevenue)
	stats.Outstanding.Amount = Round2(stats.Outstanding.Amount)
	stats.Overdue.Amount = Round2(stats.Overdue.Amount)
	return stats
}

// growthPercentage returns the percentage change from previous to current,
// rounded to 1 decimal. A zero previous yields 100 when there is current
// activity and 0 otherwise, never infinity.
func growthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return Round1((current - previous) / previous * 100)
}
