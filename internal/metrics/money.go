package metrics

import "github.com/shopspring/decimal"

// CeilMoney rounds a monetary amount up to 2 decimals. Summaries are rounded
// once at the end of an aggregation, never on intermediate terms, so rounding
// error cannot compound.
func CeilMoney(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).RoundCeil(2).Float64()
	return f
}

// Round2 rounds half away from zero to 2 decimals
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Round1 rounds half away from zero to 1 decimal, used for day counts and
// hour totals
func Round1(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}
