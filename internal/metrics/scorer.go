package metrics

import (
	"math"

	"github.com/factuurdesk/factuur-api/internal/models"
)

// pillarMax is the point ceiling of each health pillar; four pillars make a
// 0-100 composite.
const pillarMax = 25

// Banding maps a score, expressed as a fraction of its maximum, to a ranked
// status label. The thresholds are user-facing configuration, not arithmetic:
// the same table classifies individual pillars and the composite total.
type Banding struct {
	Excellent float64
	Good      float64
	Warning   float64
}

// DefaultBanding is the banding shown on the dashboard.
var DefaultBanding = Banding{Excellent: 0.85, Good: 0.70, Warning: 0.50}

// Label classifies score against max under the banding thresholds.
func (b Banding) Label(score, max int) string {
	if max <= 0 {
		return "critical"
	}
	f := float64(score) / float64(max)
	switch {
	case f >= b.Excellent:
		return "excellent"
	case f >= b.Good:
		return "good"
	case f >= b.Warning:
		return "warning"
	default:
		return "critical"
	}
}

// Scorer computes the composite business health score from the dashboard
// summary and the rolling time-entry windows. It is stateless apart from its
// banding table.
type Scorer struct {
	Banding Banding
}

// NewScorer returns a scorer with the default banding.
func NewScorer() *Scorer {
	return &Scorer{Banding: DefaultBanding}
}

// Score derives the four health pillars. Each pillar is a pure function of
// already-computed metrics: no pillar reaches back into raw entries or
// invoices, so scoring the same summary twice always gives the same result.
func (s *Scorer) Score(summary models.DashboardMetrics, rolling models.RollingWindows) models.HealthScore {
	profit := pillarPoints(s.profitFraction(summary, rolling))
	cashflow := pillarPoints(s.cashflowFraction(summary))
	efficiency := pillarPoints(s.efficiencyFraction(rolling))
	risk := pillarPoints(s.riskFraction(summary))

	total := profit + cashflow + efficiency + risk
	return models.HealthScore{
		Profit:     profit,
		Cashflow:   cashflow,
		Efficiency: efficiency,
		Risk:       risk,
		Total:      total,
		Status:     s.Banding.Label(total, 4*pillarMax),
	}
}

// profitFraction scores revenue momentum: invoiced revenue plus billable time
// value, current rolling window against the previous one. Growth of +25%
// saturates the pillar, -25% empties it, flat sits in the middle. A tenant
// with no revenue in either window scores zero.
func (s *Scorer) profitFraction(summary models.DashboardMetrics, rolling models.RollingWindows) float64 {
	current := summary.Rolling30DaysRevenue.Current + rolling.Current.BillableRevenue
	previous := summary.Rolling30DaysRevenue.Previous + rolling.Previous.BillableRevenue
	if current == 0 && previous == 0 {
		return 0
	}
	if previous == 0 {
		return 1
	}
	growth := (current - previous) / previous
	return clamp01(0.5 + growth*2)
}

// cashflowFraction scores collection speed: actual DSO against the effective
// payment terms. Collecting in half the agreed terms saturates the pillar,
// running 50% past terms empties it. With no invoice history the pillar is
// neutral.
func (s *Scorer) cashflowFraction(summary models.DashboardMetrics) float64 {
	if summary.ActualDSO == 0 {
		return 0.5
	}
	terms := summary.AveragePaymentTerms
	if terms <= 0 {
		terms = 30
	}
	ratio := summary.ActualDSO / terms
	return clamp01(1.5 - ratio)
}

// efficiencyFraction scores working rhythm: the billable share of hours in the
// current window, adjusted by the trend in daily hours against the previous
// window. No hours at all means no efficiency to score.
func (s *Scorer) efficiencyFraction(rolling models.RollingWindows) float64 {
	cur := rolling.Current
	if cur.TotalHours == 0 {
		return 0
	}
	billableShare := cur.BillableHours / cur.TotalHours

	trend := 0.5
	if prev := rolling.Previous; prev.DailyHours > 0 {
		growth := (cur.DailyHours - prev.DailyHours) / prev.DailyHours
		trend = clamp01(0.5 + growth*2)
	}
	return clamp01(0.7*billableShare + 0.3*trend)
}

// riskFraction starts from a clean slate and deducts for the overdue backlog,
// how long the oldest overdue invoice has been outstanding, and how long
// invoice-ready work has been sitting unbilled.
func (s *Scorer) riskFraction(summary models.DashboardMetrics) float64 {
	penalty := 0.08 * float64(summary.AchterstalligCount)
	if penalty > 0.4 {
		penalty = 0.4
	}
	penalty += math.Min(summary.ActualDIO/100, 0.3)
	penalty += math.Min(summary.AverageDRI/60, 0.3)
	return clamp01(1 - penalty)
}

func pillarPoints(fraction float64) int {
	return int(math.Round(clamp01(fraction) * pillarMax))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
