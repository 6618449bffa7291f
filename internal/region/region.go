// Package region maps Brazilian state codes (UF) to their macro-region.
//
// The table is closed and fixed at build time. Validate checks it against the
// list of federative units once at startup.
package region

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"creditlens/pkg/contracts/domain"
)

// Region is one of the five IBGE macro-regions.
type Region string

const (
	Norte       Region = "Norte"
	Nordeste    Region = "Nordeste"
	CentroOeste Region = "Centro-Oeste"
	Sudeste     Region = "Sudeste"
	Sul         Region = "Sul"

	// Unknown is returned for a state code outside the table.
	Unknown Region = ""
)

// All lists the regions in display order
var All = []Region{Norte, Nordeste, CentroOeste, Sudeste, Sul}

// States is the full list of federative units, including the Federal District.
var States = []string{
	"AC", "AL", "AM", "AP", "BA", "CE", "DF", "ES", "GO", "MA", "MG", "MS", "MT", "PA",
	"PB", "PE", "PI", "PR", "RJ", "RN", "RO", "RR", "RS", "SC", "SE", "SP", "TO",
}

// table is indexed by the two upper-case letters of the state code, offset
// from 'A'. It is only read through Lookup.
var table = [26][26]Region{
	'A' - 'A': {'C' - 'A': Norte, 'L' - 'A': Nordeste, 'M' - 'A': Norte, 'P' - 'A': Norte},
	'B' - 'A': {'A' - 'A': Nordeste},
	'C' - 'A': {'E' - 'A': Nordeste},
	'D' - 'A': {'F' - 'A': CentroOeste},
	'E' - 'A': {'S' - 'A': Sudeste},
	'G' - 'A': {'O' - 'A': CentroOeste},
	'M' - 'A': {'A' - 'A': Nordeste, 'G' - 'A': Sudeste, 'S' - 'A': CentroOeste, 'T' - 'A': CentroOeste},
	'P' - 'A': {'A' - 'A': Norte, 'B' - 'A': Nordeste, 'E' - 'A': Nordeste, 'I' - 'A': Nordeste, 'R' - 'A': Sul},
	'R' - 'A': {'J' - 'A': Sudeste, 'N' - 'A': Nordeste, 'O' - 'A': Norte, 'R' - 'A': Norte, 'S' - 'A': Sul},
	'S' - 'A': {'C' - 'A': Sul, 'E' - 'A': Nordeste, 'P' - 'A': Sudeste},
	'T' - 'A': {'O' - 'A': Norte},
}

// Lookup returns the region of a state code. Unrecognised codes yield Unknown.
func Lookup(state string) Region {
	code := Normalize(state)
	if len(code) != 2 || !isUpper(code[0]) || !isUpper(code[1]) {
		return Unknown
	}
	return table[code[0]-'A'][code[1]-'A']
}

// Assign fills the regiao column of every row. Rows with an unknown state get
// an empty region, which groups as the null bucket.
func Assign(t *domain.Table) *domain.Table {
	for i := range t.Records {
		t.Records[i].Derived.Region = string(Lookup(t.Records[i].State))
	}
	t.MarkDerived(domain.ColumnRegion)
	return t
}

// Normalize trims, strips diacritics and upper-cases a state code.
func Normalize(state string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(state))
	if err != nil {
		out = strings.TrimSpace(state)
	}
	return strings.ToUpper(out)
}

// Validate checks that every federative unit maps to a region and nothing else does.
func Validate() error {
	known := make(map[string]bool, len(States))
	for _, uf := range States {
		known[uf] = true
		if Lookup(uf) == Unknown {
			return fmt.Errorf("region table: state %s has no region", uf)
		}
	}
	for i := range table {
		for j := range table[i] {
			if table[i][j] == Unknown {
				continue
			}
			code := string([]byte{byte('A' + i), byte('A' + j)})
			if !known[code] {
				return fmt.Errorf("region table: unexpected state %s", code)
			}
		}
	}
	return nil
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}
