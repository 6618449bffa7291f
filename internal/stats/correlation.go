package stats

import (
	"math"

	"creditlens/pkg/contracts/domain"
)

// Correlation computes the Pearson correlation matrix of the given numeric
// columns over pairwise-complete rows. Columns with zero variance give NaN.
func Correlation(t *domain.Table, columns []string) (domain.CorrelationMatrix, error) {
	accessors := make([]domain.NumericAccessor, len(columns))
	for i, col := range columns {
		get, err := t.Numeric(col)
		if err != nil {
			return domain.CorrelationMatrix{}, err
		}
		accessors[i] = get
	}

	n := len(columns)
	data := make([][]float64, n)
	for i, get := range accessors {
		data[i] = make([]float64, t.Len())
		for r := range t.Records {
			data[i][r] = get(&t.Records[r])
		}
	}

	m := domain.CorrelationMatrix{
		Columns: append([]string(nil), columns...),
		Values:  make([][]domain.Number, n),
	}
	for i := range m.Values {
		m.Values[i] = make([]domain.Number, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := domain.Number(pearson(data[i], data[j]))
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}

// pearson ignores rows where either side is NaN.
func pearson(x, y []float64) float64 {
	var xs, ys []float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}

	mx, my := Mean(xs), Mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}
	return sxy / math.Sqrt(sxx*syy)
}
