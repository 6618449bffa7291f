package exporter

import (
	"fmt"
	"io"

	"creditlens/pkg/contracts/domain"
)

// ProfileHeaders are the columns of a profile CSV.
var ProfileHeaders = []string{
	"atributo", "valor", "total_0", "total_1",
	"pct_interno_0", "pct_interno_1", "pct_global_0", "pct_global_1",
	"alto_risco", "alta_performance",
}

// ProfileRecords flattens a report into CSV rows, one per attribute value.
// The missing-value bucket is written as "(vazio)".
func ProfileRecords(report *domain.ProfileReport) [][]string {
	var records [][]string
	for _, attr := range report.Attributes {
		risky := valueSet(attr.HighRisk)
		strong := valueSet(attr.HighPerformance)
		for _, row := range attr.Rows {
			value := row.Value
			if row.Missing {
				value = "(vazio)"
			}
			records = append(records, []string{
				attr.Attribute,
				value,
				formatInt(row.Total0),
				formatInt(row.Total1),
				formatFloat(row.Internal0),
				formatFloat(row.Internal1),
				formatFloat(row.Global0),
				formatFloat(row.Global1),
				formatBool(risky[rowKey(row)]),
				formatBool(strong[rowKey(row)]),
			})
		}
	}
	return records
}

// WriteProfileCSV writes one profile report as CSV to out.
func WriteProfileCSV(out io.Writer, report *domain.ProfileReport) error {
	return WriteTo(out, WriteOptions{
		Headers:   ProfileHeaders,
		Records:   ProfileRecords(report),
		BOMPrefix: true,
	})
}

// ExportProfile writes report to perfil_<label>.csv in the reports directory.
func (w *CSVWriter) ExportProfile(report *domain.ProfileReport) (string, error) {
	return w.WriteSimpleCSV(ProfileFileName(report.Label), ProfileHeaders, ProfileRecords(report))
}

// ProfileFileName names the CSV for a label.
func ProfileFileName(label string) string {
	return fmt.Sprintf("perfil_%s.csv", label)
}

func rowKey(r domain.CategoryRow) string {
	if r.Missing {
		return "\x00missing"
	}
	return r.Value
}

func valueSet(rows []domain.CategoryRow) map[string]bool {
	set := make(map[string]bool, len(rows))
	for _, r := range rows {
		set[rowKey(r)] = true
	}
	return set
}
