package domain

import "math"

// Source column names. These are the spreadsheet headers the loader requires.
const (
	ColumnID                        = "id"
	ColumnContractValue             = "valor_contrato"
	ColumnInterestRate              = "taxa"
	ColumnTerm                      = "prazo"
	ColumnDelinquencyDays           = "atraso_corrente"
	ColumnOutstandingValue          = "valor_em_aberto"
	ColumnContractValueWithInterest = "valor_contrato_mais_juros"
	ColumnDeclaredRevenue           = "faturamento_informado"
	ColumnCreditScore               = "score"
	ColumnState                     = "estado"
	ColumnSector                    = "setor"
)

// Derived column names.
const (
	ColumnRegion                         = "regiao"
	ColumnBad                            = "bad_label"
	ColumnLossRatio                      = "loss_ratio"
	ColumnLossCategory                   = "loss_category"
	ColumnRatioContractToRevenue         = "ratio_contract_to_revenue"
	ColumnRatioContractToRevenueCategory = "ratio_contract_to_revenue_category"
	ColumnRatioOutstandingToTerm         = "ratio_outstanding_to_term"
	ColumnRatioDelinquencyToTerm         = "ratio_delinquency_to_term"
	ColumnScoreCategory                  = "score_category"
)

// RequiredColumns lists the headers every source sheet must carry, in sheet order.
var RequiredColumns = []string{
	ColumnID,
	ColumnContractValue,
	ColumnInterestRate,
	ColumnTerm,
	ColumnDelinquencyDays,
	ColumnOutstandingValue,
	ColumnContractValueWithInterest,
	ColumnDeclaredRevenue,
	ColumnCreditScore,
	ColumnState,
	ColumnSector,
}

// Contract is one credit contract row. The identifier column is dropped at load
// time, so it has no field here.
type Contract struct {
	ContractValue             float64 `json:"valor_contrato"`
	InterestRate              float64 `json:"taxa"`
	Term                      float64 `json:"prazo"`
	DelinquencyDays           int     `json:"atraso_corrente"`
	OutstandingValue          float64 `json:"valor_em_aberto"`
	ContractValueWithInterest float64 `json:"valor_contrato_mais_juros"`
	DeclaredRevenue           float64 `json:"faturamento_informado"`
	CreditScore               float64 `json:"score"`
	State                     string  `json:"estado"`
	Sector                    string  `json:"setor"`

	Derived Derived `json:"derived"`
}

// Derived holds the columns computed from a contract's own fields. Nothing here is
// written back to the source.
type Derived struct {
	Region                         string   `json:"regiao,omitempty"`
	Bad                            Category `json:"bad_label"`
	LossRatio                      Number   `json:"loss_ratio"`
	LossCategory                   Category `json:"loss_category"`
	RatioContractToRevenue         Number   `json:"ratio_contract_to_revenue"`
	RatioContractToRevenueCategory Category `json:"ratio_contract_to_revenue_category"`
	RatioOutstandingToTerm         Number   `json:"ratio_outstanding_to_term"`
	RatioDelinquencyToTerm         Number   `json:"ratio_delinquency_to_term"`
	ScoreCategory                  Category `json:"score_category"`
}

// UndefinedDerived returns a Derived value with every column unset.
func UndefinedDerived() Derived {
	nan := Number(math.NaN())
	return Derived{
		Bad:                            CategoryUndefined,
		LossRatio:                      nan,
		LossCategory:                   CategoryUndefined,
		RatioContractToRevenue:         nan,
		RatioContractToRevenueCategory: CategoryUndefined,
		RatioOutstandingToTerm:         nan,
		RatioDelinquencyToTerm:         nan,
		ScoreCategory:                  CategoryUndefined,
	}
}
