package analytics

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// toDecimal treats non-finite and negative amounts as zero, the same as
// Amount decoding does.
func toDecimal(a Amount) decimal.Decimal {
	f := float64(a)
	if !finite(f) || f < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// SafeAverage is total/count, or 0 when there is nothing to average.
func SafeAverage(total float64, count int) float64 {
	if count <= 0 || !finite(total) {
		return 0
	}
	return decimal.NewFromFloat(total).
		Div(decimal.NewFromInt(int64(count))).
		Round(2).
		InexactFloat64()
}

// GrowthPct is the percentage change from previous to current. A zero
// previous period reads as 0% when nothing happened in either period and
// 100% when revenue appeared from nothing.
func GrowthPct(current, previous float64) float64 {
	if !finite(current) || !finite(previous) {
		return 0
	}
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	cur := decimal.NewFromFloat(current)
	prev := decimal.NewFromFloat(previous)
	return cur.Sub(prev).Div(prev).Mul(hundred).Round(2).InexactFloat64()
}

func percentage(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(part)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(whole))).
		Round(2).
		InexactFloat64()
}

// tally accumulates revenue and count for one bucket or group.
type tally struct {
	revenue decimal.Decimal
	count   int
}

func (t *tally) add(a Amount) {
	t.revenue = t.revenue.Add(toDecimal(a))
	t.count++
}

func (t tally) Revenue() float64 {
	return t.revenue.InexactFloat64()
}

func (t tally) Average() float64 {
	if t.count == 0 {
		return 0
	}
	return t.revenue.Div(decimal.NewFromInt(int64(t.count))).Round(2).InexactFloat64()
}
