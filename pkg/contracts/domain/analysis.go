package domain

// GlobalMetrics are the portfolio-wide averages shown on the first dashboard page.
type GlobalMetrics struct {
	Rows            int     `json:"rows"`
	AverageTicket   float64 `json:"average_ticket"`
	WeightedAvgRate float64 `json:"weighted_average_rate"`
	WeightedAvgTerm float64 `json:"weighted_average_term"`
}

// ClassTotals are the global counts and percentages of a binary label.
type ClassTotals struct {
	Label     string  `json:"label"`
	Count0    int     `json:"count_0"`
	Count1    int     `json:"count_1"`
	Percent0  float64 `json:"percent_0"`
	Percent1  float64 `json:"percent_1"`
	Undefined int     `json:"undefined"`
}

// Total returns the number of labelled rows
func (c ClassTotals) Total() int {
	return c.Count0 + c.Count1
}

// CategoryRow is one line of a categorical profile summary.
type CategoryRow struct {
	Value     string  `json:"value"`
	Missing   bool    `json:"missing,omitempty"`
	Total0    int     `json:"total_0"`
	Total1    int     `json:"total_1"`
	Internal0 float64 `json:"internal_pct_0"`
	Internal1 float64 `json:"internal_pct_1"`
	Global0   float64 `json:"global_pct_0"`
	Global1   float64 `json:"global_pct_1"`
}

// Rows returns the number of labelled rows in the category
func (r CategoryRow) Rows() int {
	return r.Total0 + r.Total1
}

// AttributeProfile summarises one categorical attribute against the label.
type AttributeProfile struct {
	Attribute            string        `json:"attribute"`
	Rows                 []CategoryRow `json:"rows"`
	RiskThreshold        float64       `json:"risk_threshold"`
	PerformanceThreshold float64       `json:"performance_threshold"`
	HighRisk             []CategoryRow `json:"high_risk"`
	HighPerformance      []CategoryRow `json:"high_performance"`
}

// ProfileReport is the profiler output for one label column.
type ProfileReport struct {
	Label      string             `json:"label"`
	Multiplier float64            `json:"threshold_multiplier"`
	Totals     ClassTotals        `json:"totals"`
	Attributes []AttributeProfile `json:"attributes"`
}

// Summary is the pandas-style describe() of one numeric column.
type Summary struct {
	Count int    `json:"count"`
	Mean  Number `json:"mean"`
	Std   Number `json:"std"`
	Min   Number `json:"min"`
	Q25   Number `json:"q25"`
	Q50   Number `json:"q50"`
	Q75   Number `json:"q75"`
	Max   Number `json:"max"`
}

// MeanComparison compares one column between the good and bad partitions.
type MeanComparison struct {
	Column      string  `json:"column"`
	Good        Summary `json:"good"`
	Bad         Summary `json:"bad"`
	PercentDiff Number  `json:"percent_diff"`
}

// CorrelationMatrix holds Pearson coefficients in Columns order.
type CorrelationMatrix struct {
	Columns []string   `json:"columns"`
	Values  [][]Number `json:"values"`
}

// HistogramSeries is the distribution of one class over shared bin edges.
type HistogramSeries struct {
	Class   string    `json:"class"`
	Counts  []int     `json:"counts"`
	Density []float64 `json:"density"`
	// KDE is the Gaussian kernel density estimate at each bin centre. It is
	// empty when the class has fewer than two distinct values.
	KDE []float64 `json:"kde,omitempty"`
}

// Histogram is a column's distribution split by a class column.
type Histogram struct {
	Column string            `json:"column"`
	By     string            `json:"by"`
	Edges  []float64         `json:"edges"`
	Series []HistogramSeries `json:"series"`
}

// BoxStats is a five-number summary with Tukey whiskers.
type BoxStats struct {
	Class        string    `json:"class"`
	Count        int       `json:"count"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers"`
}

// Boxplot is a column's box statistics split by a class column.
type Boxplot struct {
	Column string     `json:"column"`
	By     string     `json:"by"`
	Boxes  []BoxStats `json:"boxes"`
}

// Point is one scatter point
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Trend is a scatter of y against x with its least-squares line.
type Trend struct {
	X         string  `json:"x"`
	Y         string  `json:"y"`
	Points    []Point `json:"points"`
	Slope     Number  `json:"slope"`
	Intercept Number  `json:"intercept"`
	R         Number  `json:"r"`
}
