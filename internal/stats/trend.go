package stats

import (
	"math"

	"creditlens/pkg/contracts/domain"
)

// Trend pairs x and y over rows where both are defined and fits an ordinary
// least-squares line. With fewer than two points or a constant x the slope,
// intercept and r are NaN.
func Trend(t *domain.Table, x, y string) (domain.Trend, error) {
	getX, err := t.Numeric(x)
	if err != nil {
		return domain.Trend{}, err
	}
	getY, err := t.Numeric(y)
	if err != nil {
		return domain.Trend{}, err
	}

	tr := domain.Trend{X: x, Y: y, Points: []domain.Point{}}
	xs := make([]float64, 0, t.Len())
	ys := make([]float64, 0, t.Len())
	for i := range t.Records {
		c := &t.Records[i]
		xv, yv := getX(c), getY(c)
		if math.IsNaN(xv) || math.IsNaN(yv) {
			continue
		}
		xs = append(xs, xv)
		ys = append(ys, yv)
		tr.Points = append(tr.Points, domain.Point{X: xv, Y: yv})
	}

	slope, intercept := leastSquares(xs, ys)
	tr.Slope = domain.Number(slope)
	tr.Intercept = domain.Number(intercept)
	tr.R = domain.Number(pearson(xs, ys))
	return tr, nil
}

func leastSquares(xs, ys []float64) (slope, intercept float64) {
	if len(xs) < 2 {
		return math.NaN(), math.NaN()
	}
	mx, my := Mean(xs), Mean(ys)
	var sxy, sxx float64
	for i := range xs {
		dx := xs[i] - mx
		sxy += dx * (ys[i] - my)
		sxx += dx * dx
	}
	if sxx == 0 {
		return math.NaN(), math.NaN()
	}
	slope = sxy / sxx
	return slope, my - slope*mx
}
