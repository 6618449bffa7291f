package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditlens/pkg/contracts/domain"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		state string
		want  Region
	}{
		{"SP", Sudeste},
		{"sp", Sudeste},
		{" RS ", Sul},
		{"DF", CentroOeste},
		{"TO", Norte},
		{"BA", Nordeste},
		{"XX", Unknown},
		{"", Unknown},
		{"SPA", Unknown},
		{"1A", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			assert.Equal(t, tt.want, Lookup(tt.state))
		})
	}
}

func TestLookupIsPure(t *testing.T) {
	for _, uf := range States {
		assert.Equal(t, Lookup(uf), Lookup(uf), uf)
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate())
	assert.Len(t, States, 27)
}

func TestRegionCounts(t *testing.T) {
	counts := make(map[Region]int)
	for _, uf := range States {
		counts[Lookup(uf)]++
	}
	assert.Equal(t, map[Region]int{
		Norte:       7,
		Nordeste:    9,
		CentroOeste: 4,
		Sudeste:     4,
		Sul:         3,
	}, counts)
}

func TestAssign(t *testing.T) {
	table := domain.NewTable("test", []domain.Contract{
		{State: "SP"},
		{State: "ZZ"},
		{State: "pe"},
	})
	assert.False(t, table.HasColumn(domain.ColumnRegion))

	Assign(table)

	require.True(t, table.HasColumn(domain.ColumnRegion))
	assert.Equal(t, "Sudeste", table.Records[0].Derived.Region)
	assert.Equal(t, "", table.Records[1].Derived.Region)
	assert.Equal(t, "Nordeste", table.Records[2].Derived.Region)
}

func TestTableHoldsOnlyFederativeUnits(t *testing.T) {
	known := make(map[string]bool, len(States))
	for _, uf := range States {
		known[uf] = true
	}
	mapped := 0
	for a := byte('A'); a <= 'Z'; a++ {
		for b := byte('A'); b <= 'Z'; b++ {
			code := string([]byte{a, b})
			if Lookup(code) != Unknown {
				mapped++
				assert.True(t, known[code], code)
			}
		}
	}
	assert.Equal(t, len(States), mapped)
	assert.Equal(t, Norte, Lookup("AM"))
	assert.Equal(t, CentroOeste, Lookup("MS"))
	assert.Equal(t, Sul, Lookup("PR"))
}
