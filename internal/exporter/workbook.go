package exporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"creditlens/pkg/contracts/domain"
)

const (
	SummarySheet   = "Resumo"
	ContractsSheet = "Contratos"

	maxSheetName = 31
)

var profileSheetNames = map[string]string{
	domain.ColumnBad:                            "Perfil bad",
	domain.ColumnLossCategory:                   "Perfil loss",
	domain.ColumnRatioContractToRevenueCategory: "Perfil contrato_faturamento",
	domain.ColumnScoreCategory:                  "Perfil score",
}

// ProfileSheetName returns the sheet name for a label, within Excel's 31 character limit.
func ProfileSheetName(label string) string {
	if name, ok := profileSheetNames[label]; ok {
		return name
	}
	name := "Perfil " + label
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}

// WorkbookInput is everything the workbook shows.
type WorkbookInput struct {
	Table    *domain.Table
	Metrics  domain.GlobalMetrics
	Totals   []domain.ClassTotals
	Profiles []*domain.ProfileReport
}

// WorkbookExporter builds an XLSX workbook from analysis results.
type WorkbookExporter struct{}

// NewWorkbookExporter creates a workbook exporter
func NewWorkbookExporter() *WorkbookExporter {
	return &WorkbookExporter{}
}

// Build assembles the workbook. The caller must Close it.
func (e *WorkbookExporter) Build(in WorkbookInput) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename default sheet: %w", err)
	}

	if err := writeSummary(f, in); err != nil {
		f.Close()
		return nil, err
	}
	for _, report := range in.Profiles {
		if err := writeProfile(f, report); err != nil {
			f.Close()
			return nil, err
		}
	}
	if in.Table != nil {
		if err := writeContracts(f, in.Table); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// Write builds the workbook and streams it to out.
func (e *WorkbookExporter) Write(out io.Writer, in WorkbookInput) error {
	f, err := e.Build(in)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveAs builds the workbook and saves it to path.
func (e *WorkbookExporter) SaveAs(path string, in WorkbookInput) error {
	f, err := e.Build(in)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeSummary(f *excelize.File, in WorkbookInput) error {
	rows := [][]interface{}{
		{"metrica", "valor"},
		{"contratos", in.Metrics.Rows},
		{"ticket_medio", in.Metrics.AverageTicket},
		{"taxa_media_ponderada", in.Metrics.WeightedAvgRate},
		{"prazo_medio_ponderado", in.Metrics.WeightedAvgTerm},
		{},
		{"rotulo", "total_0", "total_1", "pct_0", "pct_1", "indefinidos"},
	}
	for _, t := range in.Totals {
		rows = append(rows, []interface{}{t.Label, t.Count0, t.Count1, t.Percent0, t.Percent1, t.Undefined})
	}
	return setRows(f, SummarySheet, rows)
}

func writeProfile(f *excelize.File, report *domain.ProfileReport) error {
	sheet := ProfileSheetName(report.Label)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	header := make([]interface{}, len(ProfileHeaders))
	for i, h := range ProfileHeaders {
		header[i] = h
	}
	rows := [][]interface{}{header}
	for _, record := range ProfileRecords(report) {
		row := make([]interface{}, len(record))
		for i, v := range record {
			row[i] = v
		}
		rows = append(rows, row)
	}
	return setRows(f, sheet, rows)
}

func writeContracts(f *excelize.File, t *domain.Table) error {
	if _, err := f.NewSheet(ContractsSheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", ContractsSheet, err)
	}
	sw, err := f.NewStreamWriter(ContractsSheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}
	if err := sw.SetRow("A1", contractHeaders()); err != nil {
		return fmt.Errorf("failed to write contract header: %w", err)
	}
	for i := range t.Records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, contractCells(&t.Records[i])); err != nil {
			return fmt.Errorf("failed to write contract row %d: %w", i+1, err)
		}
	}
	return sw.Flush()
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", strings.ToLower(sheet), i+1, err)
		}
	}
	return nil
}
