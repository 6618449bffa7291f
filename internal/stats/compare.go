package stats

import (
	"math"

	"creditlens/pkg/contracts/domain"
)

// CompareMeans describes each column on the good and bad views and reports
// (mean_good - mean_bad) / mean_bad * 100 over the means rounded to 2 decimals,
// as the comparison table displays them. A zero bad mean gives an infinite
// difference, which is reported as 0.
func CompareMeans(good, bad domain.View, columns []string) ([]domain.MeanComparison, error) {
	out := make([]domain.MeanComparison, 0, len(columns))
	for _, col := range columns {
		gv, err := good.Values(col)
		if err != nil {
			return nil, err
		}
		bv, err := bad.Values(col)
		if err != nil {
			return nil, err
		}

		cmp := domain.MeanComparison{
			Column: col,
			Good:   Describe(gv),
			Bad:    Describe(bv),
		}
		goodMean, badMean := round2(cmp.Good.Mean.Float()), round2(cmp.Bad.Mean.Float())
		diff := (goodMean - badMean) / badMean * 100
		if math.IsInf(diff, 0) {
			diff = 0
		}
		cmp.PercentDiff = domain.Number(diff)
		out = append(out, cmp)
	}
	return out, nil
}
