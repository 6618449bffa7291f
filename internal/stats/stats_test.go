package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditlens/internal/riskmetrics"
	"creditlens/pkg/contracts/domain"
)

// labelled builds a bad-labelled table; bad rows get 200 days of delinquency.
func labelled(good, bad []float64) *domain.Table {
	var rows []domain.Contract
	for _, v := range good {
		rows = append(rows, domain.Contract{ContractValue: v})
	}
	for _, v := range bad {
		rows = append(rows, domain.Contract{ContractValue: v, DelinquencyDays: 200})
	}
	return riskmetrics.LabelBad(domain.NewTable("test", rows))
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{4, 1, math.NaN(), 3, 2})

	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean.Float(), 1e-9)
	assert.InDelta(t, math.Sqrt(5.0/3.0), s.Std.Float(), 1e-9)
	assert.Equal(t, 1.0, s.Min.Float())
	assert.InDelta(t, 1.75, s.Q25.Float(), 1e-9)
	assert.InDelta(t, 2.5, s.Q50.Float(), 1e-9)
	assert.InDelta(t, 3.25, s.Q75.Float(), 1e-9)
	assert.Equal(t, 4.0, s.Max.Float())
}

func TestDescribeDegenerate(t *testing.T) {
	empty := Describe(nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, empty.Mean.Undefined())

	single := Describe([]float64{7})
	assert.Equal(t, 7.0, single.Mean.Float())
	assert.True(t, single.Std.Undefined())
	assert.Equal(t, 7.0, single.Q75.Float())
}

func TestQuantile(t *testing.T) {
	assert.InDelta(t, 5.0, Quantile([]float64{10, 0}, 0.5), 1e-9)
	assert.True(t, math.IsNaN(Quantile([]float64{math.NaN()}, 0.5)))
}

func TestCompareMeans(t *testing.T) {
	table := labelled([]float64{200, 200}, []float64{100})
	bad, good := riskmetrics.PartitionByBad(table)

	out, err := CompareMeans(good, bad, []string{domain.ColumnContractValue})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].Good.Count)
	assert.Equal(t, 1, out[0].Bad.Count)
	assert.InDelta(t, 100.0, out[0].PercentDiff.Float(), 1e-9)
}

func TestCompareMeansUsesRoundedMeans(t *testing.T) {
	table := labelled([]float64{1.004, 1.004}, []float64{0.996, 1.0049})
	bad, good := riskmetrics.PartitionByBad(table)

	out, err := CompareMeans(good, bad, []string{domain.ColumnContractValue})
	require.NoError(t, err)
	assert.InDelta(t, 1.004, out[0].Good.Mean.Float(), 1e-9)
	assert.Equal(t, 0.0, out[0].PercentDiff.Float())
}

func TestCompareMeansZeroBadMean(t *testing.T) {
	table := labelled([]float64{50}, []float64{0})
	bad, good := riskmetrics.PartitionByBad(table)

	out, err := CompareMeans(good, bad, []string{domain.ColumnContractValue})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out[0].PercentDiff.Float())
}

func TestCompareMeansUnknownColumn(t *testing.T) {
	table := labelled([]float64{1}, []float64{2})
	bad, good := riskmetrics.PartitionByBad(table)

	_, err := CompareMeans(good, bad, []string{"nope"})
	assert.ErrorIs(t, err, domain.ErrUnknownColumn)
}

func TestCorrelation(t *testing.T) {
	table := domain.NewTable("test", []domain.Contract{
		{ContractValue: 1, OutstandingValue: 2, Term: 5},
		{ContractValue: 2, OutstandingValue: 4, Term: 5},
		{ContractValue: 3, OutstandingValue: 6, Term: 5},
		{ContractValue: 4, OutstandingValue: math.NaN(), Term: 5},
	})
	cols := []string{domain.ColumnContractValue, domain.ColumnOutstandingValue, domain.ColumnTerm}

	m, err := Correlation(table, cols)
	require.NoError(t, err)
	assert.Equal(t, cols, m.Columns)
	assert.InDelta(t, 1.0, m.Values[0][1].Float(), 1e-9)
	assert.Equal(t, m.Values[0][1], m.Values[1][0])
	assert.InDelta(t, 1.0, m.Values[0][0].Float(), 1e-9)
	assert.True(t, m.Values[0][2].Undefined(), "constant column has no correlation")
	assert.True(t, m.Values[2][2].Undefined())
}

func TestHistogram(t *testing.T) {
	table := labelled([]float64{0, 1, 2, 3}, []float64{3})

	h, err := Histogram(table, domain.ColumnContractValue, domain.ColumnBad, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3}, h.Edges)
	require.Len(t, h.Series, 2)

	assert.Equal(t, "0", h.Series[0].Class)
	assert.Equal(t, []int{1, 1, 2}, h.Series[0].Counts)
	assert.InDeltaSlice(t, []float64{0.25, 0.25, 0.5}, h.Series[0].Density, 1e-9)

	assert.Equal(t, "1", h.Series[1].Class)
	assert.Equal(t, []int{0, 0, 1}, h.Series[1].Counts)
	assert.InDeltaSlice(t, []float64{0, 0, 1}, h.Series[1].Density, 1e-9)

	kde := h.Series[0].KDE
	require.Len(t, kde, 3)
	assert.InDelta(t, kde[0], kde[2], 1e-12, "symmetric sample gives a symmetric estimate")
	assert.Greater(t, kde[1], kde[0])
	assert.Nil(t, h.Series[1].KDE, "a single value has no estimate")
}

func TestHistogramKDE(t *testing.T) {
	table := labelled([]float64{0, 2}, nil)

	h, err := Histogram(table, domain.ColumnContractValue, domain.ColumnBad, 2)
	require.NoError(t, err)
	require.Len(t, h.Series, 1)

	// Scott's rule: sample std sqrt(2) times n^(-1/5)
	bw := math.Sqrt2 * math.Pow(2, -0.2)
	at := func(x float64) float64 {
		sum := math.Exp(-math.Pow(x/bw, 2)/2) + math.Exp(-math.Pow((x-2)/bw, 2)/2)
		return sum / (2 * bw * math.Sqrt(2*math.Pi))
	}
	assert.InDeltaSlice(t, []float64{at(0.5), at(1.5)}, h.Series[0].KDE, 1e-12)
}

func TestHistogramSturgesAndRounding(t *testing.T) {
	table := labelled([]float64{1.234, 2, 3, 4}, []float64{5.009})

	h, err := Histogram(table, domain.ColumnContractValue, domain.ColumnBad, 0)
	require.NoError(t, err)
	assert.Len(t, h.Edges, 5, "sturges gives 4 bins for 5 values")
	assert.Equal(t, 1.23, h.Edges[0])
	assert.Equal(t, 5.01, h.Edges[4])

	total := 0
	for _, s := range h.Series {
		for _, c := range s.Counts {
			total += c
		}
	}
	assert.Equal(t, 5, total)
}

func TestHistogramConstantColumn(t *testing.T) {
	table := labelled([]float64{2, 2}, nil)

	h, err := Histogram(table, domain.ColumnContractValue, domain.ColumnBad, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2, 2.5}, h.Edges)
	assert.Equal(t, []int{0, 2}, h.Series[0].Counts)
	assert.Nil(t, h.Series[0].KDE)
}

func TestHistogramErrors(t *testing.T) {
	table := labelled([]float64{1}, []float64{2})

	_, err := Histogram(table, domain.ColumnContractValue, domain.ColumnBad, -1)
	assert.Error(t, err)
	_, err = Histogram(table, domain.ColumnContractValue, domain.ColumnBad, MaxBins+1)
	assert.Error(t, err)
	_, err = Histogram(table, domain.ColumnLossRatio, domain.ColumnBad, 2)
	assert.ErrorIs(t, err, domain.ErrColumnNotDerived)

	empty, err := Histogram(domain.NewTable("t", nil), domain.ColumnContractValue, domain.ColumnState, 2)
	require.NoError(t, err)
	assert.Empty(t, empty.Series)
}

func TestBoxplot(t *testing.T) {
	table := labelled([]float64{1, 2, 3, 4, 5, 6, 7, 8, 100}, []float64{10})

	b, err := Boxplot(table, domain.ColumnContractValue, domain.ColumnBad)
	require.NoError(t, err)
	require.Len(t, b.Boxes, 2)

	good := b.Boxes[0]
	assert.Equal(t, "0", good.Class)
	assert.Equal(t, 9, good.Count)
	assert.InDelta(t, 3.0, good.Q1, 1e-9)
	assert.InDelta(t, 5.0, good.Median, 1e-9)
	assert.InDelta(t, 7.0, good.Q3, 1e-9)
	assert.Equal(t, 1.0, good.LowerWhisker)
	assert.Equal(t, 8.0, good.UpperWhisker)
	assert.Equal(t, []float64{100}, good.Outliers)

	bad := b.Boxes[1]
	assert.Equal(t, 10.0, bad.Median)
	assert.Empty(t, bad.Outliers)
}

func TestTrend(t *testing.T) {
	table := domain.NewTable("test", []domain.Contract{
		{ContractValue: 1, OutstandingValue: 3},
		{ContractValue: 2, OutstandingValue: 5},
		{ContractValue: 3, OutstandingValue: 7},
		{ContractValue: 4, OutstandingValue: math.NaN()},
	})

	tr, err := Trend(table, domain.ColumnContractValue, domain.ColumnOutstandingValue)
	require.NoError(t, err)
	assert.Len(t, tr.Points, 3)
	assert.InDelta(t, 2.0, tr.Slope.Float(), 1e-9)
	assert.InDelta(t, 1.0, tr.Intercept.Float(), 1e-9)
	assert.InDelta(t, 1.0, tr.R.Float(), 1e-9)
}

func TestTrendConstantX(t *testing.T) {
	table := domain.NewTable("test", []domain.Contract{
		{ContractValue: 1, OutstandingValue: 3},
		{ContractValue: 1, OutstandingValue: 5},
	})

	tr, err := Trend(table, domain.ColumnContractValue, domain.ColumnOutstandingValue)
	require.NoError(t, err)
	assert.True(t, tr.Slope.Undefined())
	assert.True(t, tr.Intercept.Undefined())
	assert.True(t, tr.R.Undefined())
}
