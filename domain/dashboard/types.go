// Package dashboard holds the closed set of dashboard variants: how data is
// obtained (mode) and which dataset shape drives the layout.
package dashboard

import (
	"fmt"
	"strings"

	"raidash/domain/core"
)

// Mode selects where the dashboard gets its analysis data
type Mode string

const (
	// ModeGenerated answers requests from local fixture generators
	ModeGenerated Mode = "generated"
	// ModeStatic bakes precomputed tree and matrix into the config, no requests
	ModeStatic Mode = "static"
	// ModeLive routes requests through the remote inference backend
	ModeLive Mode = "live"
)

// DatasetName identifies one of the bundled dataset variants
type DatasetName string

const (
	DatasetBoston            DatasetName = "boston"
	DatasetAdultCensusIncome DatasetName = "adult_census_income"
	DatasetBreastCancer      DatasetName = "breast_cancer"
)

// Shape is the dataset layout the dashboard adapts to
type Shape int

const (
	ShapeDefault Shape = iota
	ShapeRegression
	ShapeCategorical
)

func (s Shape) String() string {
	switch s {
	case ShapeRegression:
		return "regression"
	case ShapeCategorical:
		return "categorical"
	default:
		return "default"
	}
}

// Shape returns the layout shape implied by the dataset
func (d DatasetName) Shape() Shape {
	switch d {
	case DatasetBoston:
		return ShapeRegression
	case DatasetAdultCensusIncome:
		return ShapeCategorical
	default:
		return ShapeDefault
	}
}

// Variant is the full tagged selector, resolved once at construction
type Variant struct {
	Mode    Mode
	Dataset DatasetName
}

func (v Variant) String() string {
	return fmt.Sprintf("%s/%s", v.Mode, v.Dataset)
}

// ParseMode parses a mode name
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeGenerated, ModeStatic, ModeLive:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownMode, s)
}

// ParseDataset parses a dataset name
func ParseDataset(s string) (DatasetName, error) {
	switch d := DatasetName(strings.ToLower(strings.TrimSpace(s))); d {
	case DatasetBoston, DatasetAdultCensusIncome, DatasetBreastCancer:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownDataset, s)
}

// Datasets lists every bundled dataset variant
func Datasets() []DatasetName {
	return []DatasetName{DatasetBoston, DatasetAdultCensusIncome, DatasetBreastCancer}
}
