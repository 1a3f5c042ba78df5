package policy

import (
	"encoding/json"
	"sort"
	"strconv"

	"raidash/internal/localization"
)

// Default local policy columns, always listed first
const (
	ColumnTreatment   = "Treatment"
	ColumnEffect      = "Effect of treatment"
	ColumnEffectLower = "Effect of treatment lower bound"
	ColumnEffectUpper = "Effect of treatment upper bound"
)

// Column is a list column: Key indexes the row, Name is the header
type Column struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// PolicyList is the top-N local policy listing
type PolicyList struct {
	Columns []Column      `json:"columns"`
	Rows    []LocalPolicy `json:"rows"`
}

// Empty reports whether there is nothing to list
func (l PolicyList) Empty() bool { return len(l.Rows) == 0 }

// TopLocalPolicies sorts a copy of the policies by treatment effect, largest
// first, and keeps min(n, len) rows. Columns list the four defaults followed
// by the remaining keys of the first row in sorted order.
func TopLocalPolicies(policies []LocalPolicy, n int, headers localization.CounterfactualStrings) PolicyList {
	if len(policies) == 0 || n <= 0 {
		return PolicyList{}
	}

	columns := []Column{
		{Key: ColumnTreatment, Name: headers.RecommendedTreatment},
		{Key: ColumnEffect, Name: headers.EffectOfTreatment},
		{Key: ColumnEffectLower, Name: headers.EffectLowerBound},
		{Key: ColumnEffectUpper, Name: headers.EffectUpperBound},
	}
	defaults := map[string]bool{ColumnTreatment: true, ColumnEffect: true, ColumnEffectLower: true, ColumnEffectUpper: true}
	var rest []string
	for k := range policies[0] {
		if !defaults[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		columns = append(columns, Column{Key: k, Name: k})
	}

	rows := append([]LocalPolicy(nil), policies...)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Effect() > rows[j].Effect()
	})
	if n < len(rows) {
		rows = rows[:n]
	}
	return PolicyList{Columns: columns, Rows: rows}
}

// Effect returns the numeric treatment effect, zero when absent or not numeric
func (p LocalPolicy) Effect() float64 {
	return numeric(p[ColumnEffect])
}

// Cell formats one value for display
func (p LocalPolicy) Cell(key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', 6, 64)
	case json.Number:
		return v.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func numeric(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}
