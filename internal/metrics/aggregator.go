package metrics

import (
	"math"
	"time"

	"github.com/factuurdesk/factuur-api/internal/models"
)

// Aggregate reduces classified time entries and invoices into the dashboard
// metrics summary. All inputs are in-memory snapshots; the function performs a
// single pass over each collection and never mutates its arguments.
//
// Monetary totals are rounded up to 2 decimals once, at the end. Every mean is
// guarded against an empty divisor and yields 0 instead of NaN.
func Aggregate(classified []ClassifiedEntry, invoices []models.Invoice, clients map[string]models.Client, periods PeriodBoundaries) models.DashboardMetrics {
	// Payments already received this cycle, grouped per client. Only
	// invoices that are (derived) paid or partial contribute.
	paidByClient := make(map[string]float64)
	for i := range invoices {
		inv := &invoices[i]
		switch inv.PaymentStatus() {
		case models.InvoiceStatusPaid, models.InvoiceStatusPartial:
			paidByClient[inv.ClientID] += inv.TotalPayments()
		}
	}

	// Ready and total unbilled value per client. Unclassifiable entries
	// (unknown client or frequency) are excluded from both.
	readyByClient := make(map[string]float64)
	unbilledByClient := make(map[string]float64)
	var oldestReady *time.Time
	for _, ce := range classified {
		if !ce.Countable() {
			continue
		}
		unbilledByClient[ce.Entry.ClientID] += ce.Entry.Value()
		if ce.IsReady() {
			readyByClient[ce.Entry.ClientID] += ce.Entry.Value()
			rd := ce.ReadyDate
			if oldestReady == nil || rd.Before(*oldestReady) {
				oldestReady = &rd
			}
		}
	}

	// Paid amounts reduce each client's open totals, floored at zero per
	// client so one client's overpayment can never eat into another's.
	var factureerbaar float64
	var factureerbaarCount int
	for clientID, ready := range readyByClient {
		net := ready - paidByClient[clientID]
		if net > 0 {
			factureerbaar += net
			factureerbaarCount++
		}
	}

	var totaleRegistratie float64
	for clientID, total := range unbilledByClient {
		net := total - paidByClient[clientID]
		if net > 0 {
			totaleRegistratie += net
		}
	}

	// Overdue backlog: only invoices whose stored status is exactly
	// "overdue" count. A sent invoice past its due date does not; deriving
	// overdue from dates is the status sweep's job, not the aggregator's.
	var achterstallig float64
	var achterstalligCount int
	var oldestOverdueDue *time.Time
	for i := range invoices {
		inv := &invoices[i]
		if inv.Status != models.InvoiceStatusOverdue {
			continue
		}
		achterstallig += inv.OutstandingAmount()
		achterstalligCount++
		due := truncateToDay(inv.DueDate)
		if oldestOverdueDue == nil || due.Before(*oldestOverdueDue) {
			oldestOverdueDue = &due
		}
	}

	actualDSO := computeDSO(invoices, periods.Today)
	avgTerms := computeAveragePaymentTerms(invoices, clients)

	var actualDIO float64
	if oldestOverdueDue != nil {
		actualDIO = Round1(daysBetween(*oldestOverdueDue, periods.Today))
	}

	var averageDRI float64
	if oldestReady != nil {
		averageDRI = Round1(daysBetween(*oldestReady, periods.Today))
	}

	var rollingCurrent, rollingPrevious float64
	for i := range invoices {
		inv := &invoices[i]
		if periods.InCurrentRolling30(inv.InvoiceDate) {
			rollingCurrent += inv.TotalAmount
		} else if periods.InPreviousRolling30(inv.InvoiceDate) {
			rollingPrevious += inv.TotalAmount
		}
	}

	return models.DashboardMetrics{
		Factureerbaar:       CeilMoney(factureerbaar),
		FactureerbaarCount:  factureerbaarCount,
		TotaleRegistratie:   CeilMoney(totaleRegistratie),
		Achterstallig:       CeilMoney(achterstallig),
		AchterstalligCount:  achterstalligCount,
		ActualDSO:           actualDSO,
		ActualDIO:           actualDIO,
		AveragePaymentTerms: avgTerms,
		AverageDRI:          averageDRI,
		Rolling30DaysRevenue: models.RollingRevenue{
			Current:  CeilMoney(rollingCurrent),
			Previous: CeilMoney(rollingPrevious),
		},
		PeriodInfo: models.PeriodInfo{
			CurrentDate:   periods.Today.Format(dateLayout),
			PreviousMonth: periods.PreviousMonthLabel(),
			PreviousWeek:  periods.PreviousWeekLabel(),
		},
	}
}

// computeDSO averages the outstanding day-count per invoice: paid invoices
// contribute the days between invoicing and their last payment, open invoices
// (sent, overdue or partially paid) contribute the days outstanding so far.
// Drafts and cancelled invoices carry no meaningful day-count and are skipped.
func computeDSO(invoices []models.Invoice, today time.Time) float64 {
	var sum float64
	var n int
	for i := range invoices {
		inv := &invoices[i]
		if inv.Status == models.InvoiceStatusDraft || inv.Status == models.InvoiceStatusCancelled {
			continue
		}
		switch inv.PaymentStatus() {
		case models.InvoiceStatusPaid:
			if last := inv.LastPaymentDate(); last != nil {
				sum += daysBetween(inv.InvoiceDate, *last)
				n++
			}
		case models.InvoiceStatusPartial, models.InvoiceStatusSent, models.InvoiceStatusOverdue:
			sum += daysBetween(inv.InvoiceDate, today)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return Round1(sum / float64(n))
}

// computeAveragePaymentTerms returns the tenant's effective payment terms: the
// mean of due_date minus invoice_date over all invoices with positive terms,
// floored by a baseline of at least 30 days that also respects the most
// lenient default terms any client has on file.
func computeAveragePaymentTerms(invoices []models.Invoice, clients map[string]models.Client) float64 {
	baseline := 30.0
	for _, c := range clients {
		if c.DefaultPaymentTerms != nil && float64(*c.DefaultPaymentTerms) > baseline {
			baseline = float64(*c.DefaultPaymentTerms)
		}
	}

	var sum float64
	var n int
	for i := range invoices {
		terms := daysBetween(invoices[i].InvoiceDate, invoices[i].DueDate)
		if terms > 0 {
			sum += terms
			n++
		}
	}
	if n == 0 {
		return baseline
	}

	mean := math.Round(sum / float64(n))
	if mean < baseline {
		return baseline
	}
	return mean
}
