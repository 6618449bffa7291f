package stats

import (
	"fmt"
	"math"
	"sort"

	"creditlens/pkg/contracts/domain"
)

// MaxBins caps the number of histogram bins a caller may request.
const MaxBins = 200

// Histogram bins column split by the classes of by. Every class shares the
// same edges. Values are rounded to two decimals before binning. bins == 0
// picks the bin count with Sturges' rule over all values.
//
// Density is normalised per class (each class integrates to 1), so classes of
// very different sizes stay comparable. KDE carries the class's Gaussian
// kernel density at every bin centre, on the same scale as Density.
func Histogram(t *domain.Table, column, by string, bins int) (domain.Histogram, error) {
	if bins < 0 || bins > MaxBins {
		return domain.Histogram{}, fmt.Errorf("bins must be between 0 and %d, got %d", MaxBins, bins)
	}
	groups, err := splitByClass(t, column, by)
	if err != nil {
		return domain.Histogram{}, err
	}

	h := domain.Histogram{Column: column, By: by, Edges: []float64{}, Series: []domain.HistogramSeries{}}

	var all []float64
	for gi := range groups {
		for i, v := range groups[gi].values {
			groups[gi].values[i] = round2(v)
		}
		all = append(all, groups[gi].values...)
	}
	if len(all) == 0 {
		return h, nil
	}
	sort.Float64s(all)

	if bins == 0 {
		bins = sturges(len(all))
	}
	h.Edges = edges(all[0], all[len(all)-1], bins)
	width := h.Edges[1] - h.Edges[0]

	for _, g := range groups {
		counts := make([]int, bins)
		for _, v := range g.values {
			counts[binIndex(v, h.Edges)]++
		}
		density := make([]float64, bins)
		for i, c := range counts {
			density[i] = float64(c) / (float64(len(g.values)) * width)
		}
		h.Series = append(h.Series, domain.HistogramSeries{
			Class:   g.class,
			Counts:  counts,
			Density: density,
			KDE:     kde(g.values, centres(h.Edges)),
		})
	}
	return h, nil
}

func sturges(n int) int {
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// edges spans [lo, hi] with n equal-width bins. A constant column gets a unit
// wide range centred on the value.
func edges(lo, hi float64, n int) []float64 {
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	out := make([]float64, n+1)
	step := (hi - lo) / float64(n)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	out[n] = hi
	return out
}

// binIndex uses half-open bins except the last, which is closed.
func binIndex(v float64, edges []float64) int {
	n := len(edges) - 1
	i := sort.SearchFloat64s(edges, v)
	// SearchFloat64s returns the first edge >= v
	if i < len(edges) && edges[i] == v {
		if i == n {
			return n - 1
		}
		return i
	}
	i--
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func centres(edges []float64) []float64 {
	out := make([]float64, len(edges)-1)
	for i := range out {
		out[i] = (edges[i] + edges[i+1]) / 2
	}
	return out
}

// kde evaluates a Gaussian kernel density estimate of values at points. The
// bandwidth follows Scott's rule, sample std * n^(-1/5). A sample with fewer
// than two values or no spread has no estimate and yields nil.
func kde(values, points []float64) []float64 {
	n := len(values)
	if n < 2 {
		return nil
	}
	std := math.Sqrt(variance(values, Mean(values)))
	bw := std * math.Pow(float64(n), -0.2)
	if bw == 0 || math.IsNaN(bw) {
		return nil
	}
	norm := 1 / (float64(n) * bw * math.Sqrt(2*math.Pi))
	out := make([]float64, len(points))
	for i, x := range points {
		sum := 0.0
		for _, v := range values {
			z := (x - v) / bw
			sum += math.Exp(-z * z / 2)
		}
		out[i] = sum * norm
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
