package excel

import (
	"fmt"
	"strconv"

	"raidash/domain/core"
)

// FeatureRows extracts model input rows for the named features. Categorical
// features are encoded as the index of the cell value in levels[feature].
func FeatureRows(data *ExcelData, features []string, levels map[string][]string) ([][]float64, error) {
	present := make(map[string]bool, len(data.Headers))
	for _, h := range data.Headers {
		present[h] = true
	}
	for _, f := range features {
		if !present[f] {
			return nil, fmt.Errorf("%w: column %q missing from spreadsheet", core.ErrUnknownFeature, f)
		}
	}

	encoders := make(map[string]map[string]int, len(levels))
	for name, values := range levels {
		idx := make(map[string]int, len(values))
		for i, v := range values {
			idx[v] = i
		}
		encoders[name] = idx
	}

	out := make([][]float64, 0, len(data.Rows))
	for r, row := range data.Rows {
		values := make([]float64, len(features))
		for j, f := range features {
			cell := row[f]
			if enc, ok := encoders[f]; ok {
				code, known := enc[cell]
				if !known {
					return nil, core.NewValidationError(fmt.Sprintf("row %d column %s", r+2, f), fmt.Sprintf("unknown level %q", cell))
				}
				values[j] = float64(code)
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, core.NewValidationError(fmt.Sprintf("row %d column %s", r+2, f), fmt.Sprintf("not a number: %q", cell))
			}
			values[j] = v
		}
		out = append(out, values)
	}
	return out, nil
}
