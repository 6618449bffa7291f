package domain

import (
	"fmt"
	"math"
)

// NumericAccessor reads a numeric column from a contract. NaN means undefined.
type NumericAccessor func(c *Contract) float64

// CategoricalAccessor reads a categorical column. ok is false for a null value.
type CategoricalAccessor func(c *Contract) (value string, ok bool)

// LabelAccessor reads a binary label column.
type LabelAccessor func(c *Contract) Category

var sourceNumeric = []string{
	ColumnContractValue,
	ColumnInterestRate,
	ColumnTerm,
	ColumnDelinquencyDays,
	ColumnOutstandingValue,
	ColumnContractValueWithInterest,
	ColumnDeclaredRevenue,
	ColumnCreditScore,
}

var derivedNumeric = []string{
	ColumnBad,
	ColumnLossRatio,
	ColumnLossCategory,
	ColumnRatioContractToRevenue,
	ColumnRatioContractToRevenueCategory,
	ColumnRatioOutstandingToTerm,
	ColumnRatioDelinquencyToTerm,
	ColumnScoreCategory,
}

var numericAccessors = map[string]NumericAccessor{
	ColumnContractValue:             func(c *Contract) float64 { return c.ContractValue },
	ColumnInterestRate:              func(c *Contract) float64 { return c.InterestRate },
	ColumnTerm:                      func(c *Contract) float64 { return c.Term },
	ColumnDelinquencyDays:           func(c *Contract) float64 { return float64(c.DelinquencyDays) },
	ColumnOutstandingValue:          func(c *Contract) float64 { return c.OutstandingValue },
	ColumnContractValueWithInterest: func(c *Contract) float64 { return c.ContractValueWithInterest },
	ColumnDeclaredRevenue:           func(c *Contract) float64 { return c.DeclaredRevenue },
	ColumnCreditScore:               func(c *Contract) float64 { return c.CreditScore },

	ColumnBad:                            func(c *Contract) float64 { return categoryFloat(c.Derived.Bad) },
	ColumnLossRatio:                      func(c *Contract) float64 { return c.Derived.LossRatio.Float() },
	ColumnLossCategory:                   func(c *Contract) float64 { return categoryFloat(c.Derived.LossCategory) },
	ColumnRatioContractToRevenue:         func(c *Contract) float64 { return c.Derived.RatioContractToRevenue.Float() },
	ColumnRatioContractToRevenueCategory: func(c *Contract) float64 { return categoryFloat(c.Derived.RatioContractToRevenueCategory) },
	ColumnRatioOutstandingToTerm:         func(c *Contract) float64 { return c.Derived.RatioOutstandingToTerm.Float() },
	ColumnRatioDelinquencyToTerm:         func(c *Contract) float64 { return c.Derived.RatioDelinquencyToTerm.Float() },
	ColumnScoreCategory:                  func(c *Contract) float64 { return categoryFloat(c.Derived.ScoreCategory) },
}

var labelAccessors = map[string]LabelAccessor{
	ColumnBad:                            func(c *Contract) Category { return c.Derived.Bad },
	ColumnLossCategory:                   func(c *Contract) Category { return c.Derived.LossCategory },
	ColumnRatioContractToRevenueCategory: func(c *Contract) Category { return c.Derived.RatioContractToRevenueCategory },
	ColumnScoreCategory:                  func(c *Contract) Category { return c.Derived.ScoreCategory },
}

var categoricalAccessors = map[string]CategoricalAccessor{
	ColumnState:  func(c *Contract) (string, bool) { return c.State, c.State != "" },
	ColumnSector: func(c *Contract) (string, bool) { return c.Sector, c.Sector != "" },
	ColumnRegion: func(c *Contract) (string, bool) { return c.Derived.Region, c.Derived.Region != "" },
}

func categoryFloat(c Category) float64 {
	if !c.Defined() {
		return math.NaN()
	}
	return float64(c)
}

func isSourceColumn(name string) bool {
	if name == ColumnState || name == ColumnSector {
		return true
	}
	for _, n := range sourceNumeric {
		if n == name {
			return true
		}
	}
	return false
}

// SourceNumericColumns returns the numeric source columns in sheet order.
func SourceNumericColumns() []string {
	return append([]string(nil), sourceNumeric...)
}

// NumericColumns returns every numeric column available on t, source columns first.
func (t *Table) NumericColumns() []string {
	out := SourceNumericColumns()
	for _, name := range derivedNumeric {
		if t.HasColumn(name) {
			out = append(out, name)
		}
	}
	return out
}

// Numeric resolves a numeric column accessor.
func (t *Table) Numeric(name string) (NumericAccessor, error) {
	get, ok := numericAccessors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	if err := t.requireDerived(name); err != nil {
		return nil, err
	}
	return get, nil
}

// Label resolves a binary label column accessor.
func (t *Table) Label(name string) (LabelAccessor, error) {
	get, ok := labelAccessors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a binary label", ErrUnknownColumn, name)
	}
	if err := t.requireDerived(name); err != nil {
		return nil, err
	}
	return get, nil
}

// Categorical resolves a categorical column accessor. Binary label columns are
// also accepted and read as "0"/"1".
func (t *Table) Categorical(name string) (CategoricalAccessor, error) {
	if get, ok := categoricalAccessors[name]; ok {
		if err := t.requireDerived(name); err != nil {
			return nil, err
		}
		return get, nil
	}
	label, err := t.Label(name)
	if err != nil {
		return nil, err
	}
	return func(c *Contract) (string, bool) {
		v := label(c)
		return v.String(), v.Defined()
	}, nil
}
