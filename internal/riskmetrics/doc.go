// Package riskmetrics computes the portfolio averages and the per-contract
// derived columns used by the risk analysis.
//
// Every derivation is a pure function of one row's own fields and enriches the
// table in place. Undefined per-row results (a zero denominator, a missing
// operand) are never errors: they become the NaN / CategoryUndefined sentinels,
// or zero when the table is derived under ZeroFill.
//
//	table = riskmetrics.LabelBad(table)
//	table = riskmetrics.LabelLoss(table)
//	table = riskmetrics.DeriveFeatures(table, riskmetrics.ZeroFill)
//	bad, good := riskmetrics.PartitionByBad(table)
package riskmetrics
