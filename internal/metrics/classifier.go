package metrics

import (
	"time"

	"github.com/factuurdesk/factuur-api/internal/models"
)

// Readiness is the outcome of classifying a single time entry.
type Readiness int

const (
	// ReadinessNotReady means the entry belongs to a known client but its
	// invoicing cycle has not closed yet.
	ReadinessNotReady Readiness = iota
	// ReadinessReady means the entry can be invoiced now.
	ReadinessReady
	// ReadinessUnclassifiable means the entry cannot be placed in a cycle
	// at all: its client is unknown or the client carries an unknown
	// invoicing frequency. Such entries are dropped from every total, by
	// policy and without error.
	ReadinessUnclassifiable
)

// ClassifiedEntry carries a time entry together with its readiness decision.
// ReadyDate is only meaningful when Readiness is ReadinessReady.
type ClassifiedEntry struct {
	Entry     models.TimeEntry
	Readiness Readiness
	ReadyDate time.Time
}

// IsReady reports whether the entry is ready to invoice
func (c ClassifiedEntry) IsReady() bool {
	return c.Readiness == ReadinessReady
}

// Countable reports whether the entry participates in unbilled totals at all
func (c ClassifiedEntry) Countable() bool {
	return c.Readiness != ReadinessUnclassifiable
}

// Classify determines, for each unbilled time entry, whether it is ready to
// invoice under its client's invoicing frequency and when it became ready.
//
// Rules per frequency (exact, case-sensitive match):
//
//   - monthly: ready once the entry's own calendar month has closed, i.e.
//     entry_date <= last day of the previous month. ReadyDate is the last day
//     of the month containing the entry. The rule deliberately does not clamp
//     for stale entries: work from many months back is just as ready, and its
//     ReadyDate stays in the past, which can produce large days-ready values.
//   - weekly: ready once the entry's week (Sunday through Saturday) has
//     completed, i.e. entry_date <= the previous week's Saturday. ReadyDate
//     is the Saturday closing the entry's own week.
//   - on_demand: always ready, ReadyDate is the entry date itself.
//
// Entries whose client id does not resolve, or whose client carries an
// unrecognized frequency, classify as unclassifiable and vanish from all
// downstream totals.
func Classify(entries []models.TimeEntry, clients map[string]models.Client, periods PeriodBoundaries) []ClassifiedEntry {
	classified := make([]ClassifiedEntry, 0, len(entries))

	for _, entry := range entries {
		client, ok := clients[entry.ClientID]
		if !ok {
			classified = append(classified, ClassifiedEntry{Entry: entry, Readiness: ReadinessUnclassifiable})
			continue
		}
		classified = append(classified, classifyOne(entry, client, periods))
	}

	return classified
}

func classifyOne(entry models.TimeEntry, client models.Client, periods PeriodBoundaries) ClassifiedEntry {
	entryDate := truncateToDay(entry.EntryDate)

	switch client.InvoicingFrequency {
	case models.FrequencyMonthly:
		if !entryDate.After(periods.PrevMonthEnd) {
			return ClassifiedEntry{Entry: entry, Readiness: ReadinessReady, ReadyDate: endOfMonth(entryDate)}
		}
		return ClassifiedEntry{Entry: entry, Readiness: ReadinessNotReady}

	case models.FrequencyWeekly:
		if !entryDate.After(periods.PrevWeekEnd) {
			return ClassifiedEntry{Entry: entry, Readiness: ReadinessReady, ReadyDate: endOfWeek(entryDate)}
		}
		return ClassifiedEntry{Entry: entry, Readiness: ReadinessNotReady}

	case models.FrequencyOnDemand:
		return ClassifiedEntry{Entry: entry, Readiness: ReadinessReady, ReadyDate: entryDate}

	default:
		// Unknown frequency: never ready, never an error.
		return ClassifiedEntry{Entry: entry, Readiness: ReadinessUnclassifiable}
	}
}
