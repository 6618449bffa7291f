// Package stats produces the descriptive statistics behind the dashboard
// charts: describe() summaries, good-vs-bad mean comparison, correlation
// matrix, class-split histograms and boxplots, and scatter trend lines.
//
// All results are plain data from pkg/contracts/domain; nothing here renders.
// NaN inputs are skipped, and statistics that are undefined come back as NaN
// domain.Number values, which encode as JSON null.
package stats
