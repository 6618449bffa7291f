package stats

import (
	"math"
	"sort"

	"creditlens/pkg/contracts/domain"
)

type classValues struct {
	class  string
	values []float64
}

// splitByClass collects the non-NaN values of column per class of by.
// Rows with a null class are dropped. Classes come back sorted.
func splitByClass(t *domain.Table, column, by string) ([]classValues, error) {
	get, err := t.Numeric(column)
	if err != nil {
		return nil, err
	}
	class, err := t.Categorical(by)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]float64)
	for i := range t.Records {
		c := &t.Records[i]
		key, ok := class(c)
		if !ok {
			continue
		}
		v := get(c)
		if math.IsNaN(v) {
			continue
		}
		groups[key] = append(groups[key], v)
	}

	out := make([]classValues, 0, len(groups))
	for k, v := range groups {
		out = append(out, classValues{class: k, values: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].class < out[j].class })
	return out, nil
}
