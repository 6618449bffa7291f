package dataprocessing

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "creditlens/internal/errors"
	"creditlens/pkg/contracts/domain"
)

var header = []interface{}{
	"id", "valor_contrato", "taxa", "prazo", "atraso_corrente", "valor_em_aberto",
	"valor_contrato_mais_juros", "faturamento_informado", "score", "estado", "setor",
}

// writeWorkbook saves rows (header first) into sheet of a fresh workbook.
func writeWorkbook(t *testing.T, sheet string, rows ...[]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	path := filepath.Join(t.TempDir(), "contracts.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadContracts(t *testing.T) {
	path := writeWorkbook(t, "Base",
		header,
		[]interface{}{1, 1000.5, 2.5, 3, 200, 400, 1200, 5000, 350, "SP", "Varejo"},
		[]interface{}{2, 2000, 1.5, 2, 0, 0, 2400, 8000, 700, "BA", "Industria"},
	)

	table, err := LoadContracts(path, "Base")
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, path, table.Source)

	c := table.Records[0]
	assert.Equal(t, 1000.5, c.ContractValue)
	assert.Equal(t, 2.5, c.InterestRate)
	assert.Equal(t, 3.0, c.Term)
	assert.Equal(t, 200, c.DelinquencyDays)
	assert.Equal(t, 400.0, c.OutstandingValue)
	assert.Equal(t, 1200.0, c.ContractValueWithInterest)
	assert.Equal(t, 5000.0, c.DeclaredRevenue)
	assert.Equal(t, 350.0, c.CreditScore)
	assert.Equal(t, "SP", c.State)
	assert.Equal(t, "Varejo", c.Sector)
	assert.True(t, c.Derived.LossRatio.Undefined(), "derived columns start unset")

	assert.Equal(t, "BA", table.Records[1].State)
}

func TestLoadContractsHeaderVariants(t *testing.T) {
	path := writeWorkbook(t, "Base",
		[]interface{}{
			"ID", "Valor Contrato", "Taxa", "Prazo", "Atraso  Corrente", "Valor em Aberto",
			"valor_contrato_mais_juros", "Faturamento Informado", "Score", "Estado", "Setor", "extra",
		},
		[]interface{}{1, 10, 1, 1, 0, 0, 10, 10, 10, "RJ", "S", "ignored"},
	)

	table, err := LoadContracts(path, "")
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, "RJ", table.Records[0].State)
}

func TestLoadContractsEmptyCells(t *testing.T) {
	path := writeWorkbook(t, "Base",
		header,
		[]interface{}{1, 100, nil, 2, nil, 10, 100, 100, 500, nil, "S"},
		[]interface{}{},
		[]interface{}{2, 50, 1, 1, 5, 0, 60, 60, 60, "MG", "S"},
	)

	table, err := LoadContracts(path, "Base")
	require.NoError(t, err)
	require.Equal(t, 2, table.Len(), "blank rows are skipped")
	assert.True(t, math.IsNaN(table.Records[0].InterestRate))
	assert.Equal(t, 0, table.Records[0].DelinquencyDays)
	assert.Equal(t, "", table.Records[0].State)
}

func TestLoadContractsErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		want string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.xlsx") },
			want: "failed to open workbook",
		},
		{
			name: "missing sheet",
			path: func(t *testing.T) string { return writeWorkbook(t, "Other", header) },
			want: `sheet "Base" not found`,
		},
		{
			name: "missing column",
			path: func(t *testing.T) string {
				return writeWorkbook(t, "Base", []interface{}{"id", "valor_contrato"})
			},
			want: "missing required columns",
		},
		{
			name: "bad number",
			path: func(t *testing.T) string {
				return writeWorkbook(t, "Base", header,
					[]interface{}{1, "abc", 1, 1, 0, 0, 1, 1, 1, "SP", "S"})
			},
			want: "row 2: column valor_contrato",
		},
		{
			name: "fractional delinquency",
			path: func(t *testing.T) string {
				return writeWorkbook(t, "Base", header,
					[]interface{}{1, 1, 1, 1, 2.5, 0, 1, 1, 1, "SP", "S"})
			},
			want: "not a whole number of days",
		},
		{
			name: "negative delinquency",
			path: func(t *testing.T) string {
				return writeWorkbook(t, "Base", header,
					[]interface{}{1, 1, 1, 1, -5, 0, 1, 1, 1, "SP", "S"})
			},
			want: "row 2: column atraso_corrente: -5 days is out of range",
		},
		{
			name: "overflowing delinquency",
			path: func(t *testing.T) string {
				return writeWorkbook(t, "Base", header,
					[]interface{}{1, 1, 1, 1, 1e20, 0, 1, 1, 1, "SP", "S"})
			},
			want: "days is out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadContracts(tt.path(t), "Base")
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrDataLoad))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(nil).Load(ctx, "whatever.xlsx", "Base")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeHeader(t *testing.T) {
	tests := map[string]string{
		"valor_contrato":    "valor_contrato",
		" Valor Contrato ":  "valor_contrato",
		"Região":            "regiao",
		"ATRASO   CORRENTE": "atraso_corrente",
		"":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeHeader(in), in)
	}
}

func TestLoadedTableRegistry(t *testing.T) {
	path := writeWorkbook(t, "Base", header,
		[]interface{}{1, 10, 1, 1, 0, 0, 10, 10, 10, "SP", "S"})

	table, err := LoadContracts(path, "Base")
	require.NoError(t, err)
	assert.True(t, table.HasColumn(domain.ColumnContractValue))
	assert.False(t, table.HasColumn(domain.ColumnID))
	assert.False(t, table.HasColumn(domain.ColumnBad))
}
