package domain

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberJSON(t *testing.T) {
	tests := []struct {
		name string
		in   Number
		want string
	}{
		{"finite", 1.5, "1.5"},
		{"zero", 0, "0"},
		{"nan", Number(math.NaN()), "null"},
		{"inf", Number(math.Inf(1)), "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}

	var n Number
	require.NoError(t, json.Unmarshal([]byte("null"), &n))
	assert.True(t, n.Undefined())
	require.NoError(t, json.Unmarshal([]byte("0.25"), &n))
	assert.Equal(t, 0.25, n.Float())
}

func TestCategory(t *testing.T) {
	assert.True(t, CategoryLow.Defined())
	assert.True(t, CategoryHigh.Defined())
	assert.False(t, CategoryUndefined.Defined())
	assert.Equal(t, "1", CategoryHigh.String())
	assert.Equal(t, "", CategoryUndefined.String())

	data, err := json.Marshal([]Category{CategoryLow, CategoryHigh, CategoryUndefined})
	require.NoError(t, err)
	assert.Equal(t, "[0,1,null]", string(data))

	var c Category
	require.NoError(t, json.Unmarshal([]byte("null"), &c))
	assert.Equal(t, CategoryUndefined, c)
}

func sample() *Table {
	return NewTable("test.xlsx", []Contract{
		{ContractValue: 100, DelinquencyDays: 0, State: "SP", Sector: "Varejo"},
		{ContractValue: 200, DelinquencyDays: 200, State: "BA"},
		{ContractValue: 300, DelinquencyDays: 365, State: "", Sector: "Industria"},
	})
}

func TestNewTableResetsDerived(t *testing.T) {
	table := sample()
	require.Equal(t, 3, table.Len())
	for _, c := range table.Records {
		assert.False(t, c.Derived.Bad.Defined())
		assert.True(t, c.Derived.LossRatio.Undefined())
	}
	assert.Equal(t, 0, (*Table)(nil).Len())
}

func TestColumnResolution(t *testing.T) {
	table := sample()

	_, err := table.Numeric("bogus")
	assert.True(t, errors.Is(err, ErrUnknownColumn))

	_, err = table.Numeric(ColumnBad)
	assert.True(t, errors.Is(err, ErrColumnNotDerived))

	_, err = table.Label(ColumnContractValue)
	assert.True(t, errors.Is(err, ErrUnknownColumn))

	assert.Equal(t, SourceNumericColumns(), table.NumericColumns())

	for i := range table.Records {
		table.Records[i].Derived.Bad = CategoryLow
	}
	table.MarkDerived(ColumnBad)
	assert.True(t, table.HasColumn(ColumnBad))
	assert.Contains(t, table.NumericColumns(), ColumnBad)

	get, err := table.Categorical(ColumnBad)
	require.NoError(t, err)
	v, ok := get(&table.Records[0])
	assert.True(t, ok)
	assert.Equal(t, "0", v)
}

func TestCategoricalNulls(t *testing.T) {
	table := sample()

	state, err := table.Categorical(ColumnState)
	require.NoError(t, err)
	_, ok := state(&table.Records[2])
	assert.False(t, ok)

	_, err = table.Categorical(ColumnRegion)
	assert.True(t, errors.Is(err, ErrColumnNotDerived))
}

func TestViewIsLive(t *testing.T) {
	table := sample()
	bad := table.Filter(func(c *Contract) bool { return c.Derived.Bad == CategoryHigh })
	assert.Equal(t, 0, bad.Len())

	for i := range table.Records {
		if table.Records[i].DelinquencyDays > 180 {
			table.Records[i].Derived.Bad = CategoryHigh
		}
	}
	assert.Equal(t, 2, bad.Len())
	assert.Same(t, table, bad.Table())

	values, err := bad.Values(ColumnContractValue)
	require.NoError(t, err)
	assert.Equal(t, []float64{200, 300}, values)
}

func TestValuesSkipUndefined(t *testing.T) {
	table := sample()
	table.Records[0].Derived.LossRatio = 0.5
	table.MarkDerived(ColumnLossRatio)

	values, err := table.Filter(nil).Values(ColumnLossRatio)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, values)
}

func TestCloneIsIndependent(t *testing.T) {
	table := sample()
	clone := table.Clone()
	clone.Records[0].ContractValue = 999
	clone.MarkDerived(ColumnBad)

	assert.Equal(t, 100.0, table.Records[0].ContractValue)
	assert.False(t, table.HasColumn(ColumnBad))
	assert.True(t, clone.HasColumn(ColumnBad))
}
