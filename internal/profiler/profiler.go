// Package profiler builds categorical risk profiles: for each value of a
// categorical attribute, how its rows split across a binary label compared with
// the whole table.
package profiler

import (
	"fmt"
	"sort"

	apperrors "creditlens/internal/errors"
	"creditlens/pkg/contracts/domain"
)

// DefaultThresholdMultiplier flags a category whose internal share of a class
// exceeds the global share by more than 10%.
const DefaultThresholdMultiplier = 1.1

// Options configures a profiling run.
type Options struct {
	Attributes          []string
	Label               string
	ThresholdMultiplier float64
}

// DefaultOptions profiles state, sector and region against bad_label.
func DefaultOptions() Options {
	return Options{
		Attributes:          []string{domain.ColumnState, domain.ColumnSector, domain.ColumnRegion},
		Label:               domain.ColumnBad,
		ThresholdMultiplier: DefaultThresholdMultiplier,
	}
}

// Profile computes the class totals and one AttributeProfile per attribute.
// Rows whose label is undefined are left out of every count. The source table
// is only read.
func Profile(t *domain.Table, opts Options) (*domain.ProfileReport, error) {
	if opts.Label == "" {
		opts.Label = domain.ColumnBad
	}
	if opts.ThresholdMultiplier <= 0 {
		return nil, apperrors.NewAppValidationError(
			fmt.Sprintf("threshold multiplier must be positive, got %v", opts.ThresholdMultiplier))
	}

	label, err := t.Label(opts.Label)
	if err != nil {
		return nil, apperrors.NewValidationErrorWithCause("invalid label column", err).
			WithContext("column", opts.Label)
	}

	accessors := make([]domain.CategoricalAccessor, len(opts.Attributes))
	for i, name := range opts.Attributes {
		get, err := t.Categorical(name)
		if err != nil {
			return nil, apperrors.NewValidationErrorWithCause("invalid categorical attribute", err).
				WithContext("column", name)
		}
		accessors[i] = get
	}

	totals, err := ClassTotals(t, opts.Label)
	if err != nil {
		return nil, err
	}
	if totals.Count0 == 0 {
		return nil, apperrors.NewDegenerateLabelError(opts.Label, 0)
	}
	if totals.Count1 == 0 {
		return nil, apperrors.NewDegenerateLabelError(opts.Label, 1)
	}

	report := &domain.ProfileReport{
		Label:      opts.Label,
		Multiplier: opts.ThresholdMultiplier,
		Totals:     totals,
		Attributes: make([]domain.AttributeProfile, 0, len(opts.Attributes)),
	}
	for i, name := range opts.Attributes {
		report.Attributes = append(report.Attributes,
			profileAttribute(t, name, accessors[i], label, totals, opts.ThresholdMultiplier))
	}
	return report, nil
}

// ClassTotals counts the label's classes over the whole table.
func ClassTotals(t *domain.Table, labelColumn string) (domain.ClassTotals, error) {
	label, err := t.Label(labelColumn)
	if err != nil {
		return domain.ClassTotals{}, apperrors.NewValidationErrorWithCause("invalid label column", err).
			WithContext("column", labelColumn)
	}

	totals := domain.ClassTotals{Label: labelColumn}
	for i := range t.Records {
		switch label(&t.Records[i]) {
		case domain.CategoryLow:
			totals.Count0++
		case domain.CategoryHigh:
			totals.Count1++
		default:
			totals.Undefined++
		}
	}
	if n := totals.Total(); n > 0 {
		totals.Percent0 = percent(totals.Count0, n)
		totals.Percent1 = percent(totals.Count1, n)
	}
	return totals, nil
}

type counts struct {
	missing bool
	c0, c1  int
}

func profileAttribute(
	t *domain.Table,
	name string,
	get domain.CategoricalAccessor,
	label domain.LabelAccessor,
	totals domain.ClassTotals,
	multiplier float64,
) domain.AttributeProfile {
	groups := make(map[string]*counts)
	for i := range t.Records {
		c := &t.Records[i]
		class := label(c)
		if !class.Defined() {
			continue
		}
		value, ok := get(c)
		if !ok {
			value = ""
		}
		g, exists := groups[value]
		if !exists {
			g = &counts{missing: !ok}
			groups[value] = g
		}
		if class == domain.CategoryHigh {
			g.c1++
		} else {
			g.c0++
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		// the null bucket sorts last
		if keys[i] == "" || keys[j] == "" {
			return keys[j] == "" && keys[i] != ""
		}
		return keys[i] < keys[j]
	})

	profile := domain.AttributeProfile{
		Attribute:            name,
		Rows:                 make([]domain.CategoryRow, 0, len(keys)),
		RiskThreshold:        multiplier * totals.Percent1,
		PerformanceThreshold: multiplier * totals.Percent0,
		HighRisk:             []domain.CategoryRow{},
		HighPerformance:      []domain.CategoryRow{},
	}
	for _, k := range keys {
		g := groups[k]
		row := domain.CategoryRow{
			Value:     k,
			Missing:   g.missing,
			Total0:    g.c0,
			Total1:    g.c1,
			Internal0: percent(g.c0, g.c0+g.c1),
			Internal1: percent(g.c1, g.c0+g.c1),
			Global0:   percent(g.c0, totals.Count0),
			Global1:   percent(g.c1, totals.Count1),
		}
		profile.Rows = append(profile.Rows, row)

		if row.Internal1 > profile.RiskThreshold {
			profile.HighRisk = append(profile.HighRisk, row)
		}
		if row.Internal0 > profile.PerformanceThreshold {
			profile.HighPerformance = append(profile.HighPerformance, row)
		}
	}
	return profile
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
