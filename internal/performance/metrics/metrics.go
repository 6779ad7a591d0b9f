// Package metrics holds the pure calculation rules for performance numbers.
// Every ratio defined here returns 0 when its denominator is 0; callers never
// see NaN or Inf.
package metrics

import "math"

// ConversionRate is conversions over leads as a percentage, rounded to two
// decimals.
func ConversionRate(conversions, leads int) float64 {
	if leads == 0 {
		return 0
	}
	return round2(float64(conversions) / float64(leads) * 100)
}

// TargetAchievement is conversions over the target as a percentage, rounded
// to two decimals. A zero target reads as 0, not infinity.
func TargetAchievement(conversions, target int) float64 {
	if target == 0 {
		return 0
	}
	return round2(float64(conversions) / float64(target) * 100)
}

// GrowthPercent is the relative change from previous to current as a
// percentage. With no previous baseline the growth reads as 0.
func GrowthPercent(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return round2((current - previous) / previous * 100)
}

// MeanRate is the simple arithmetic mean of per-member rates. Team rates are
// averaged per member rather than pooled, so a member with few leads weighs
// the same as a busy one.
func MeanRate(rates []float64) float64 {
	if len(rates) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rates {
		sum += r
	}
	return round2(sum / float64(len(rates)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
