package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownColumn is returned when a column name is not in the registry
	ErrUnknownColumn = errors.New("unknown column")
	// ErrColumnNotDerived is returned when a derived column has not been computed yet
	ErrColumnNotDerived = errors.New("column not derived")
)

// Table is the in-memory contract table for one analysis session. Derivation
// steps enrich Records in place and record which derived columns exist.
type Table struct {
	Source  string
	Records []Contract

	derived map[string]bool
}

// NewTable wraps records loaded from source. Every derived column starts unset.
func NewTable(source string, records []Contract) *Table {
	for i := range records {
		records[i].Derived = UndefinedDerived()
	}
	return &Table{
		Source:  source,
		Records: records,
		derived: make(map[string]bool),
	}
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Clone returns a deep copy. Contracts hold only values so copying the slice is enough.
func (t *Table) Clone() *Table {
	records := make([]Contract, len(t.Records))
	copy(records, t.Records)
	derived := make(map[string]bool, len(t.derived))
	for k, v := range t.derived {
		derived[k] = v
	}
	return &Table{Source: t.Source, Records: records, derived: derived}
}

// MarkDerived records that the named derived columns are now populated.
func (t *Table) MarkDerived(names ...string) {
	if t.derived == nil {
		t.derived = make(map[string]bool)
	}
	for _, name := range names {
		t.derived[name] = true
	}
}

// HasColumn reports whether name is a source column or a derived column already computed.
func (t *Table) HasColumn(name string) bool {
	if isSourceColumn(name) {
		return true
	}
	return t.derived[name]
}

// Filter returns a live view over the rows matching pred.
func (t *Table) Filter(pred func(*Contract) bool) View {
	return View{table: t, pred: pred}
}

// View is a filtered window onto a Table. It holds no rows of its own: every
// call re-reads the table, so it always reflects the current labels.
type View struct {
	table *Table
	pred  func(*Contract) bool
}

// Len counts the matching rows
func (v View) Len() int {
	n := 0
	v.Each(func(*Contract) { n++ })
	return n
}

// Each calls fn with a pointer into the underlying table for every matching row.
func (v View) Each(fn func(*Contract)) {
	if v.table == nil {
		return
	}
	for i := range v.table.Records {
		c := &v.table.Records[i]
		if v.pred == nil || v.pred(c) {
			fn(c)
		}
	}
}

// Records returns pointers into the underlying table for the matching rows.
func (v View) Records() []*Contract {
	var out []*Contract
	v.Each(func(c *Contract) { out = append(out, c) })
	return out
}

// Table returns the table the view reads from
func (v View) Table() *Table {
	return v.table
}

// Values collects column values of the matching rows, skipping undefined ones.
func (v View) Values(name string) ([]float64, error) {
	get, err := v.table.Numeric(name)
	if err != nil {
		return nil, err
	}
	var out []float64
	v.Each(func(c *Contract) {
		if val := get(c); !isNaN(val) {
			out = append(out, val)
		}
	})
	return out, nil
}

func (t *Table) requireDerived(name string) error {
	if !t.HasColumn(name) {
		return fmt.Errorf("%w: %s", ErrColumnNotDerived, name)
	}
	return nil
}

func isNaN(f float64) bool {
	return f != f
}
