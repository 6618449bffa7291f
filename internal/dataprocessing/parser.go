package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	apperrors "creditlens/internal/errors"
	"creditlens/pkg/contracts/domain"
)

// DefaultSheet is the sheet holding one row per contract.
const DefaultSheet = "Base"

// Loader reads contract workbooks.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader that logs through logger.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "loader"))}
}

// LoadContracts is a convenience wrapper around a default Loader.
func LoadContracts(path, sheet string) (*domain.Table, error) {
	return NewLoader(nil).Load(context.Background(), path, sheet)
}

// Load opens path, reads sheet (DefaultSheet when empty) and returns the
// contract table with the identifier column removed. Missing files, sheets or
// required columns and unparseable numeric cells fail with a DataLoad error.
func (l *Loader) Load(ctx context.Context, path, sheet string) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sheet == "" {
		sheet = DefaultSheet
	}
	start := time.Now()

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewDataLoadError(path, "failed to open workbook", err)
	}
	defer f.Close()

	if !hasSheet(f, sheet) {
		return nil, apperrors.NewDataLoadError(path, fmt.Sprintf("sheet %q not found", sheet), nil).
			WithContext("sheets", f.GetSheetList())
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewDataLoadError(path, fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewDataLoadError(path, fmt.Sprintf("sheet %q is empty", sheet), nil)
	}

	columns, err := mapHeader(rows[0])
	if err != nil {
		return nil, apperrors.NewDataLoadError(path, err.Error(), nil)
	}

	records := make([]domain.Contract, 0, len(rows)-1)
	missingDelinquency := 0
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rowNum := i + 2 // 1-based, after the header
		c, missing, err := parseRow(row, columns)
		if err != nil {
			return nil, apperrors.NewDataLoadError(path, fmt.Sprintf("row %d: %v", rowNum, err), nil).
				WithContext("row", rowNum)
		}
		if missing {
			missingDelinquency++
		}
		records = append(records, c)
	}

	if missingDelinquency > 0 {
		l.logger.WarnContext(ctx, "Empty delinquency cells read as zero days",
			slog.Int("rows", missingDelinquency))
	}
	l.logger.InfoContext(ctx, "Contracts loaded",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("rows", len(records)),
		slog.Duration("duration", time.Since(start)))

	return domain.NewTable(path, records), nil
}

func hasSheet(f *excelize.File, sheet string) bool {
	for _, name := range f.GetSheetList() {
		if name == sheet {
			return true
		}
	}
	return false
}

// NormalizeHeader lower-cases a header, strips accents and turns runs of
// spaces into underscores, so "Valor Contrato" and "valor_contrato" match.
func NormalizeHeader(h string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, h)
	if err != nil {
		out = h
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), "_")
}

// mapHeader returns the cell index of every required column.
func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, h := range header {
		name := NormalizeHeader(h)
		if name == "" {
			continue
		}
		if _, dup := columns[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		columns[name] = i
	}

	var missing []string
	for _, req := range domain.RequiredColumns {
		if _, ok := columns[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, columns map[string]int, name string) string {
	idx := columns[name]
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow converts one sheet row. missing reports an empty delinquency cell.
func parseRow(row []string, columns map[string]int) (c domain.Contract, missing bool, err error) {
	num := func(name string) float64 {
		if err != nil {
			return math.NaN()
		}
		var v float64
		v, err = parseNumber(cell(row, columns, name))
		if err != nil {
			err = fmt.Errorf("column %s: %w", name, err)
		}
		return v
	}

	c.ContractValue = num(domain.ColumnContractValue)
	c.InterestRate = num(domain.ColumnInterestRate)
	c.Term = num(domain.ColumnTerm)
	c.OutstandingValue = num(domain.ColumnOutstandingValue)
	c.ContractValueWithInterest = num(domain.ColumnContractValueWithInterest)
	c.DeclaredRevenue = num(domain.ColumnDeclaredRevenue)
	c.CreditScore = num(domain.ColumnCreditScore)
	days := num(domain.ColumnDelinquencyDays)
	if err != nil {
		return c, false, err
	}

	switch {
	case math.IsNaN(days):
		missing = true
	case days != math.Trunc(days):
		return c, false, fmt.Errorf("column %s: %v is not a whole number of days", domain.ColumnDelinquencyDays, days)
	case days < 0 || days > math.MaxInt32:
		return c, false, fmt.Errorf("column %s: %v days is out of range", domain.ColumnDelinquencyDays, days)
	default:
		c.DelinquencyDays = int(days)
	}

	c.State = cell(row, columns, domain.ColumnState)
	c.Sector = cell(row, columns, domain.ColumnSector)
	return c, missing, nil
}

// parseNumber reads a raw cell value. Empty cells are NaN.
func parseNumber(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}
