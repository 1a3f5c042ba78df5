// Package erroranalysis holds the data shapes exchanged with the error
// analysis backend: surrogate error tree nodes, error matrices, feature
// importances and prediction vectors.
package erroranalysis

import (
	"encoding/json"
	"fmt"

	"raidash/domain/core"
)

// Split methods for tree node conditions
const (
	MethodLessAndEqual = "less and equal"
	MethodGreater      = "greater"
	MethodIncludes     = "includes"
	MethodExcludes     = "excludes"
)

// Metric display names
const (
	MetricErrorRate         = "Error rate"
	MetricMeanAbsoluteError = "Mean absolute error"
)

// ModelTask tells classification and regression apart
type ModelTask string

const (
	TaskClassification ModelTask = "classification"
	TaskRegression     ModelTask = "regression"
)

// TreeNode is one node of the surrogate error tree, emitted flat in pre-order.
// The root has nil parent fields.
type TreeNode struct {
	ID               int      `json:"id"`
	NodeIndex        int      `json:"nodeIndex"`
	ParentID         *int     `json:"parentId"`
	ParentNodeName   *string  `json:"parentNodeName"`
	NodeName         *string  `json:"nodeName"`
	Condition        *string  `json:"condition"`
	Method           *string  `json:"method"`
	Arg              *float64 `json:"arg"`
	Error            float64  `json:"error"`
	Success          float64  `json:"success"`
	Size             float64  `json:"size"`
	MetricName       string   `json:"metricName"`
	MetricValue      float64  `json:"metricValue"`
	IsErrorMetric    bool     `json:"isErrorMetric"`
	SourceRowKeyHash string   `json:"sourceRowKeyHash"`
}

// IsRoot reports whether the node has no parent
func (n TreeNode) IsRoot() bool {
	return n.ParentID == nil
}

// Condition strings for the two sides of a numeric split
func LeftCondition(feature string, threshold float64) string {
	return fmt.Sprintf("%s <= %.2f", feature, threshold)
}

func RightCondition(feature string, threshold float64) string {
	return fmt.Sprintf("%s > %.2f", feature, threshold)
}

// Category describes the bins of one matrix axis. Numeric bins carry their
// interval bounds; categorical bins carry only values.
type Category struct {
	Values      []string  `json:"values"`
	IntervalMin []float64 `json:"intervalMin,omitempty"`
	IntervalMax []float64 `json:"intervalMax,omitempty"`
}

// MatrixCell is one heat map cell
type MatrixCell struct {
	Count       int     `json:"count"`
	FalseCount  float64 `json:"falseCount"`
	MetricName  string  `json:"metricName"`
	MetricValue float64 `json:"metricValue"`
}

// Matrix is the error heat map over one or two features.
// With a single feature Category2 is empty and Cells has one column.
type Matrix struct {
	Category1 Category       `json:"category1"`
	Category2 Category       `json:"category2"`
	Cells     [][]MatrixCell `json:"matrix"`
}

// Filter restricts the rows an analysis runs over
type Filter struct {
	Arg    []float64 `json:"arg"`
	Column string    `json:"column"`
	Method string    `json:"method"`
}

// Filter methods beyond the split methods
const (
	MethodLess            = "less"
	MethodGreaterAndEqual = "greater and equal"
	MethodEqual           = "equal"
	MethodInRange         = "in the range of"
)

// Match reports whether a value passes the filter. Includes and excludes
// compare against every arg; the other methods use the first one, and the
// range uses the first two.
func (f Filter) Match(v float64) bool {
	if len(f.Arg) == 0 {
		return true
	}
	switch f.Method {
	case MethodLessAndEqual:
		return v <= f.Arg[0]
	case MethodLess:
		return v < f.Arg[0]
	case MethodGreater:
		return v > f.Arg[0]
	case MethodGreaterAndEqual:
		return v >= f.Arg[0]
	case MethodEqual:
		return v == f.Arg[0]
	case MethodInRange:
		if len(f.Arg) < 2 {
			return v >= f.Arg[0]
		}
		return v >= f.Arg[0] && v <= f.Arg[1]
	case MethodIncludes, MethodExcludes:
		found := false
		for _, a := range f.Arg {
			if v == a {
				found = true
				break
			}
		}
		return found == (f.Method == MethodIncludes)
	}
	return true
}

// ParseFilters decodes raw request filters
func ParseFilters(raw []json.RawMessage) ([]Filter, error) {
	out := make([]Filter, 0, len(raw))
	for i, r := range raw {
		var f Filter
		if err := json.Unmarshal(r, &f); err != nil {
			return nil, core.NewValidationError(fmt.Sprintf("filters[%d]", i), err.Error())
		}
		if f.Column == "" {
			return nil, core.NewValidationError(fmt.Sprintf("filters[%d]", i), "column is required")
		}
		out = append(out, f)
	}
	return out, nil
}

// Importances are feature importances aligned with the feature names
type Importances []float64

// Predictions hold one probability vector per row. Regression rows carry a
// single predicted value.
type Predictions [][]float64

// TreeRequest is the positional payload for the tree endpoint:
// [features, filters, composite_filters, max_depth, num_leaves]
type TreeRequest struct {
	Features         []string
	Filters          []json.RawMessage
	CompositeFilters []json.RawMessage
	MaxDepth         int
	NumLeaves        int
}

// Validate checks the request bounds
func (r TreeRequest) Validate() error {
	if len(r.Features) == 0 {
		return core.NewValidationError("features", "at least one feature is required")
	}
	if r.MaxDepth < 1 {
		return core.NewValidationError("max_depth", "must be positive")
	}
	if r.NumLeaves < 2 {
		return core.NewValidationError("num_leaves", "must be at least 2")
	}
	return nil
}

func (r TreeRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{
		nonNilStrings(r.Features), nonNilRaw(r.Filters), nonNilRaw(r.CompositeFilters), r.MaxDepth, r.NumLeaves,
	})
}

func (r *TreeRequest) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("%w: tree payload must be an array: %v", core.ErrInvalidRequest, err)
	}
	if len(parts) != 5 {
		return fmt.Errorf("%w: tree payload needs 5 elements, got %d", core.ErrInvalidRequest, len(parts))
	}
	targets := []interface{}{&r.Features, &r.Filters, &r.CompositeFilters, &r.MaxDepth, &r.NumLeaves}
	for i, target := range targets {
		if err := json.Unmarshal(parts[i], target); err != nil {
			return fmt.Errorf("%w: tree payload element %d: %v", core.ErrInvalidRequest, i, err)
		}
	}
	return nil
}

// MatrixRequest is the positional payload for the matrix endpoint:
// [features, filters, composite_filters]. Features holds one or two names.
type MatrixRequest struct {
	Features         []string
	Filters          []json.RawMessage
	CompositeFilters []json.RawMessage
}

// Validate checks the feature count
func (r MatrixRequest) Validate() error {
	if len(r.Features) < 1 || len(r.Features) > 2 {
		return core.NewValidationError("features", "one or two features are required")
	}
	return nil
}

func (r MatrixRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{
		nonNilStrings(r.Features), nonNilRaw(r.Filters), nonNilRaw(r.CompositeFilters),
	})
}

func (r *MatrixRequest) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("%w: matrix payload must be an array: %v", core.ErrInvalidRequest, err)
	}
	if len(parts) != 3 {
		return fmt.Errorf("%w: matrix payload needs 3 elements, got %d", core.ErrInvalidRequest, len(parts))
	}
	targets := []interface{}{&r.Features, &r.Filters, &r.CompositeFilters}
	for i, target := range targets {
		if err := json.Unmarshal(parts[i], target); err != nil {
			return fmt.Errorf("%w: matrix payload element %d: %v", core.ErrInvalidRequest, i, err)
		}
	}
	return nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilRaw(s []json.RawMessage) []json.RawMessage {
	if s == nil {
		return []json.RawMessage{}
	}
	return s
}
