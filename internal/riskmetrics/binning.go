package riskmetrics

import (
	"math"

	"creditlens/pkg/contracts/domain"
)

// Thresholds used by the derived categories.
const (
	BadDelinquencyDays         = 180
	LossRatioThreshold         = 0.2
	ContractToRevenueThreshold = 0.25
	CreditScoreThreshold       = 400.0
)

// Bin places v into [0, threshold] -> 0 or (threshold, +Inf] -> 1.
// NaN and negative values fall outside both buckets and stay undefined.
func Bin(v, threshold float64) domain.Category {
	switch {
	case math.IsNaN(v), v < 0:
		return domain.CategoryUndefined
	case v <= threshold:
		return domain.CategoryLow
	default:
		return domain.CategoryHigh
	}
}

// ratio divides num by den, returning NaN when den is zero or either operand is missing.
func ratio(num, den float64) domain.Number {
	if den == 0 || math.IsNaN(num) || math.IsNaN(den) {
		return domain.Number(math.NaN())
	}
	return domain.Number(num / den)
}
