package riskmetrics

import (
	"math"

	apperrors "creditlens/internal/errors"
	"creditlens/pkg/contracts/domain"
)

// UndefinedPolicy decides what DeriveFeatures does with undefined results.
type UndefinedPolicy string

const (
	// ZeroFill replaces undefined ratios and buckets with 0, matching the
	// original analysis output.
	ZeroFill UndefinedPolicy = "zero"
	// Exclude keeps the NaN / undefined sentinels so downstream statistics skip them.
	Exclude UndefinedPolicy = "exclude"
)

// Valid reports whether p is a known policy
func (p UndefinedPolicy) Valid() bool {
	return p == ZeroFill || p == Exclude
}

// GlobalMetrics returns the unweighted mean contract value and the
// contract-value-weighted mean rate and term. Missing values are skipped.
func GlobalMetrics(t *domain.Table) (domain.GlobalMetrics, error) {
	if t.Len() == 0 {
		return domain.GlobalMetrics{}, apperrors.NewEmptyInputError("global_metrics", domain.ColumnContractValue)
	}

	var (
		valueSum, valueCount       float64
		rateWeighted, termWeighted float64
	)
	for i := range t.Records {
		c := &t.Records[i]
		if math.IsNaN(c.ContractValue) {
			continue
		}
		valueSum += c.ContractValue
		valueCount++
		if !math.IsNaN(c.InterestRate) {
			rateWeighted += c.InterestRate * c.ContractValue
		}
		if !math.IsNaN(c.Term) {
			termWeighted += c.Term * c.ContractValue
		}
	}

	if valueCount == 0 {
		return domain.GlobalMetrics{}, apperrors.NewEmptyInputError("global_metrics", domain.ColumnContractValue)
	}
	if valueSum == 0 {
		return domain.GlobalMetrics{}, apperrors.NewEmptyInputError("weighted_average", domain.ColumnContractValue).
			WithContext("reason", "total contract value is zero")
	}

	return domain.GlobalMetrics{
		Rows:            t.Len(),
		AverageTicket:   valueSum / valueCount,
		WeightedAvgRate: rateWeighted / valueSum,
		WeightedAvgTerm: termWeighted / valueSum,
	}, nil
}

// LabelBad sets bad_label to 1 when current delinquency exceeds 180 days.
func LabelBad(t *domain.Table) *domain.Table {
	for i := range t.Records {
		c := &t.Records[i]
		if c.DelinquencyDays > BadDelinquencyDays {
			c.Derived.Bad = domain.CategoryHigh
		} else {
			c.Derived.Bad = domain.CategoryLow
		}
	}
	t.MarkDerived(domain.ColumnBad)
	return t
}

// PartitionByBad labels t if needed and returns live views of the bad and good rows.
func PartitionByBad(t *domain.Table) (bad, good domain.View) {
	if !t.HasColumn(domain.ColumnBad) {
		LabelBad(t)
	}
	bad = t.Filter(func(c *domain.Contract) bool { return c.Derived.Bad == domain.CategoryHigh })
	good = t.Filter(func(c *domain.Contract) bool { return c.Derived.Bad == domain.CategoryLow })
	return bad, good
}

// LabelLoss sets loss_ratio = outstanding / value with interest and its category.
// A zero denominator leaves the ratio NaN and the category undefined.
func LabelLoss(t *domain.Table) *domain.Table {
	for i := range t.Records {
		c := &t.Records[i]
		c.Derived.LossRatio = ratio(c.OutstandingValue, c.ContractValueWithInterest)
		c.Derived.LossCategory = Bin(c.Derived.LossRatio.Float(), LossRatioThreshold)
	}
	t.MarkDerived(domain.ColumnLossRatio, domain.ColumnLossCategory)
	return t
}

// DeriveFeatures adds the three credit ratios, the contract/revenue bucket and
// the score bucket. Under ZeroFill every undefined result is replaced by 0 after
// binning; that can pull ratio means towards zero.
func DeriveFeatures(t *domain.Table, policy UndefinedPolicy) *domain.Table {
	for i := range t.Records {
		c := &t.Records[i]
		d := &c.Derived

		d.RatioContractToRevenue = ratio(c.ContractValueWithInterest, c.DeclaredRevenue)
		d.RatioContractToRevenueCategory = Bin(d.RatioContractToRevenue.Float(), ContractToRevenueThreshold)
		d.RatioOutstandingToTerm = ratio(c.OutstandingValue, c.Term)
		d.RatioDelinquencyToTerm = ratio(float64(c.DelinquencyDays), c.Term)
		d.ScoreCategory = Bin(c.CreditScore, CreditScoreThreshold)

		if policy == ZeroFill {
			zeroNumber(&d.RatioContractToRevenue)
			zeroNumber(&d.RatioOutstandingToTerm)
			zeroNumber(&d.RatioDelinquencyToTerm)
			zeroCategory(&d.RatioContractToRevenueCategory)
			zeroCategory(&d.ScoreCategory)
		}
	}
	t.MarkDerived(
		domain.ColumnRatioContractToRevenue,
		domain.ColumnRatioContractToRevenueCategory,
		domain.ColumnRatioOutstandingToTerm,
		domain.ColumnRatioDelinquencyToTerm,
		domain.ColumnScoreCategory,
	)
	return t
}

func zeroNumber(n *domain.Number) {
	if n.Undefined() {
		*n = 0
	}
}

func zeroCategory(c *domain.Category) {
	if !c.Defined() {
		*c = domain.CategoryLow
	}
}
