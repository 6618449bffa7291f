package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"creditlens/pkg/contracts/domain"
)

// csvNumber writes NaN as an empty cell.
type csvNumber float64

// MarshalCSV implements gocsv.TypeMarshaller
func (n csvNumber) MarshalCSV() (string, error) {
	return formatNumber(float64(n)), nil
}

// csvCategory writes an undefined bucket as an empty cell.
type csvCategory domain.Category

// MarshalCSV implements gocsv.TypeMarshaller
func (c csvCategory) MarshalCSV() (string, error) {
	return domain.Category(c).String(), nil
}

// ContractRow is one line of the enriched contract CSV.
type ContractRow struct {
	ContractValue                  csvNumber   `csv:"valor_contrato"`
	InterestRate                   csvNumber   `csv:"taxa"`
	Term                           csvNumber   `csv:"prazo"`
	DelinquencyDays                int         `csv:"atraso_corrente"`
	OutstandingValue               csvNumber   `csv:"valor_em_aberto"`
	ContractValueWithInterest      csvNumber   `csv:"valor_contrato_mais_juros"`
	DeclaredRevenue                csvNumber   `csv:"faturamento_informado"`
	CreditScore                    csvNumber   `csv:"score"`
	State                          string      `csv:"estado"`
	Sector                         string      `csv:"setor"`
	Region                         string      `csv:"regiao"`
	Bad                            csvCategory `csv:"bad_label"`
	LossRatio                      csvNumber   `csv:"loss_ratio"`
	LossCategory                   csvCategory `csv:"loss_category"`
	RatioContractToRevenue         csvNumber   `csv:"ratio_contract_to_revenue"`
	RatioContractToRevenueCategory csvCategory `csv:"ratio_contract_to_revenue_category"`
	RatioOutstandingToTerm         csvNumber   `csv:"ratio_outstanding_to_term"`
	RatioDelinquencyToTerm         csvNumber   `csv:"ratio_delinquency_to_term"`
	ScoreCategory                  csvCategory `csv:"score_category"`
}

// ContractRows converts the table to CSV rows.
func ContractRows(t *domain.Table) []*ContractRow {
	rows := make([]*ContractRow, 0, t.Len())
	for i := range t.Records {
		c := &t.Records[i]
		d := c.Derived
		rows = append(rows, &ContractRow{
			ContractValue:                  csvNumber(c.ContractValue),
			InterestRate:                   csvNumber(c.InterestRate),
			Term:                           csvNumber(c.Term),
			DelinquencyDays:                c.DelinquencyDays,
			OutstandingValue:               csvNumber(c.OutstandingValue),
			ContractValueWithInterest:      csvNumber(c.ContractValueWithInterest),
			DeclaredRevenue:                csvNumber(c.DeclaredRevenue),
			CreditScore:                    csvNumber(c.CreditScore),
			State:                          c.State,
			Sector:                         c.Sector,
			Region:                         d.Region,
			Bad:                            csvCategory(d.Bad),
			LossRatio:                      csvNumber(d.LossRatio),
			LossCategory:                   csvCategory(d.LossCategory),
			RatioContractToRevenue:         csvNumber(d.RatioContractToRevenue),
			RatioContractToRevenueCategory: csvCategory(d.RatioContractToRevenueCategory),
			RatioOutstandingToTerm:         csvNumber(d.RatioOutstandingToTerm),
			RatioDelinquencyToTerm:         csvNumber(d.RatioDelinquencyToTerm),
			ScoreCategory:                  csvCategory(d.ScoreCategory),
		})
	}
	return rows
}

// ExportContracts writes the enriched table as ';'-separated CSV with CRLF
// line endings and a UTF-8 BOM, the layout Excel expects for pt-BR locales.
func ExportContracts(out io.Writer, t *domain.Table) error {
	if _, err := out.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}
	csvWriter := csv.NewWriter(out)
	csvWriter.Comma = ';'
	csvWriter.UseCRLF = true

	if err := gocsv.MarshalCSV(ContractRows(t), csvWriter); err != nil {
		return fmt.Errorf("failed to marshal contracts: %w", err)
	}
	return nil
}

// ExportContractsFile writes the enriched table to path.
func ExportContractsFile(path string, t *domain.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file(%s): %w", path, err)
	}
	defer f.Close()

	if err := ExportContracts(f, t); err != nil {
		return err
	}
	return f.Close()
}

// contractCells is the workbook form of a row; undefined values become nil.
func contractCells(c *domain.Contract) []interface{} {
	num := func(f float64) interface{} {
		if f != f {
			return nil
		}
		return f
	}
	cat := func(v domain.Category) interface{} {
		if !v.Defined() {
			return nil
		}
		return int(v)
	}
	d := c.Derived
	return []interface{}{
		num(c.ContractValue), num(c.InterestRate), num(c.Term), c.DelinquencyDays,
		num(c.OutstandingValue), num(c.ContractValueWithInterest), num(c.DeclaredRevenue),
		num(c.CreditScore), c.State, c.Sector, d.Region,
		cat(d.Bad), num(d.LossRatio.Float()), cat(d.LossCategory),
		num(d.RatioContractToRevenue.Float()), cat(d.RatioContractToRevenueCategory),
		num(d.RatioOutstandingToTerm.Float()), num(d.RatioDelinquencyToTerm.Float()),
		cat(d.ScoreCategory),
	}
}

// contractHeaders mirrors the csv tags of ContractRow.
func contractHeaders() []interface{} {
	cols := []string{
		domain.ColumnContractValue, domain.ColumnInterestRate, domain.ColumnTerm,
		domain.ColumnDelinquencyDays, domain.ColumnOutstandingValue,
		domain.ColumnContractValueWithInterest, domain.ColumnDeclaredRevenue,
		domain.ColumnCreditScore, domain.ColumnState, domain.ColumnSector, domain.ColumnRegion,
		domain.ColumnBad, domain.ColumnLossRatio, domain.ColumnLossCategory,
		domain.ColumnRatioContractToRevenue, domain.ColumnRatioContractToRevenueCategory,
		domain.ColumnRatioOutstandingToTerm, domain.ColumnRatioDelinquencyToTerm,
		domain.ColumnScoreCategory,
	}
	out := make([]interface{}, len(cols))
	for i, c := range cols {
		out[i] = c
	}
	return out
}
