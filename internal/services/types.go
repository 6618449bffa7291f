package services

import (
	"time"

	"creditlens/pkg/contracts/domain"
)

// SourceInfo describes the table currently served by the session.
type SourceInfo struct {
	Source   string    `json:"source"`
	Sheet    string    `json:"sheet"`
	Rows     int       `json:"rows"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Overview is the first dashboard page: table shape, a preview and the global metrics.
type Overview struct {
	SourceInfo
	Columns []string              `json:"columns"`
	Preview []domain.Contract     `json:"preview"`
	Metrics *domain.GlobalMetrics `json:"metrics"`
	// MetricsError is set when the metrics could not be computed, e.g. an empty table.
	MetricsError string `json:"metrics_error,omitempty"`
}

// BadLabelSummary is the bad label's class totals and partition sizes.
type BadLabelSummary struct {
	Threshold int                `json:"delinquency_threshold_days"`
	Totals    domain.ClassTotals `json:"totals"`
	BadRows   int                `json:"bad_rows"`
	GoodRows  int                `json:"good_rows"`
}

// FeatureColumn summarises one derived column.
type FeatureColumn struct {
	Column    string         `json:"column"`
	Summary   domain.Summary `json:"summary"`
	Undefined int            `json:"undefined"`
}

// FeatureSummary describes every derived feature on the session table.
type FeatureSummary struct {
	Policy     string               `json:"undefined_policy"`
	Ratios     []FeatureColumn      `json:"ratios"`
	Categories []domain.ClassTotals `json:"categories"`
}

// ProfileRequest selects a label, the attributes to break it down by and the
// threshold multiplier. Zero values take the configured defaults.
type ProfileRequest struct {
	Label      string   `json:"label" validate:"omitempty,oneof=bad_label loss_category ratio_contract_to_revenue_category score_category"`
	Attributes []string `json:"attributes" validate:"omitempty,dive,required"`
	Multiplier float64  `json:"multiplier" validate:"omitempty,gt=0"`
}

// ExportKind names a downloadable export.
type ExportKind string

const (
	ExportContracts ExportKind = "contracts"
	ExportProfile   ExportKind = "profile"
	ExportWorkbook  ExportKind = "workbook"
)

// ContentType returns the MIME type of the export.
func (k ExportKind) ContentType() string {
	if k == ExportWorkbook {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName returns the download name of the export.
func (k ExportKind) FileName() string {
	switch k {
	case ExportContracts:
		return "contratos.csv"
	case ExportProfile:
		return "perfil.csv"
	default:
		return "relatorio.xlsx"
	}
}

// Valid reports whether k is a known export
func (k ExportKind) Valid() bool {
	return k == ExportContracts || k == ExportProfile || k == ExportWorkbook
}

// LabelColumns are the binary labels a profile can be built for.
var LabelColumns = []string{
	domain.ColumnBad,
	domain.ColumnLossCategory,
	domain.ColumnRatioContractToRevenueCategory,
	domain.ColumnScoreCategory,
}

var ratioColumns = []string{
	domain.ColumnLossRatio,
	domain.ColumnRatioContractToRevenue,
	domain.ColumnRatioOutstandingToTerm,
	domain.ColumnRatioDelinquencyToTerm,
}
