package stats

import (
	"sort"

	"creditlens/pkg/contracts/domain"
)

// WhiskerFactor is the IQR multiple for Tukey whiskers.
const WhiskerFactor = 1.5

// Boxplot returns per-class box statistics of column split by by. Whiskers
// reach the furthest data point within WhiskerFactor*IQR of the box; points
// beyond them are outliers.
func Boxplot(t *domain.Table, column, by string) (domain.Boxplot, error) {
	groups, err := splitByClass(t, column, by)
	if err != nil {
		return domain.Boxplot{}, err
	}

	b := domain.Boxplot{Column: column, By: by, Boxes: make([]domain.BoxStats, 0, len(groups))}
	for _, g := range groups {
		b.Boxes = append(b.Boxes, boxStats(g.class, g.values))
	}
	return b, nil
}

func boxStats(class string, values []float64) domain.BoxStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q1 := quantileSorted(sorted, 0.25)
	q3 := quantileSorted(sorted, 0.75)
	iqr := q3 - q1
	lowFence := q1 - WhiskerFactor*iqr
	highFence := q3 + WhiskerFactor*iqr

	box := domain.BoxStats{
		Class:        class,
		Count:        len(sorted),
		Q1:           q1,
		Median:       quantileSorted(sorted, 0.5),
		Q3:           q3,
		LowerWhisker: q1,
		UpperWhisker: q3,
		Outliers:     []float64{},
	}
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			box.Outliers = append(box.Outliers, v)
			continue
		}
		if v < box.LowerWhisker {
			box.LowerWhisker = v
		}
		if v > box.UpperWhisker {
			box.UpperWhisker = v
		}
	}
	return box
}
