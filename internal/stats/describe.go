package stats

import (
	"math"
	"sort"

	"creditlens/pkg/contracts/domain"
)

// Describe summarises values the way pandas describe() does: sample standard
// deviation and linearly interpolated quartiles. NaN values are skipped.
func Describe(values []float64) domain.Summary {
	clean := finite(values)
	nan := domain.Number(math.NaN())
	s := domain.Summary{
		Count: len(clean),
		Mean:  nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan,
	}
	if len(clean) == 0 {
		return s
	}
	sort.Float64s(clean)

	mean := Mean(clean)
	s.Mean = domain.Number(mean)
	if len(clean) > 1 {
		s.Std = domain.Number(math.Sqrt(variance(clean, mean)))
	}
	s.Min = domain.Number(clean[0])
	s.Max = domain.Number(clean[len(clean)-1])
	s.Q25 = domain.Number(quantileSorted(clean, 0.25))
	s.Q50 = domain.Number(quantileSorted(clean, 0.50))
	s.Q75 = domain.Number(quantileSorted(clean, 0.75))
	return s
}

// Mean returns the arithmetic mean, or NaN for no values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Quantile returns the q-th quantile (0..1) with linear interpolation.
func Quantile(values []float64, q float64) float64 {
	clean := finite(values)
	if len(clean) == 0 {
		return math.NaN()
	}
	sort.Float64s(clean)
	return quantileSorted(clean, q)
}

func quantileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// variance is the sample variance (n-1 denominator)
func variance(values []float64, mean float64) float64 {
	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return ss / float64(len(values)-1)
}

// finite copies values without NaN entries.
func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
