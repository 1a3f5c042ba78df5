package dashboard

import (
	"raidash/domain/erroranalysis"
)

// Model and explanation labels shown on the dashboard
const (
	ModelClassBlackbox       = "blackbox"
	ModelClassTrained        = "trained"
	ExplanationMethodMimic   = "mimic"
	ExplanationMethodUnknown = ""
)

// Default tree request bounds
const (
	DefaultMaxDepth  = 3
	DefaultNumLeaves = 31
)

// Config is the normalized dashboard configuration derived once from a
// Variant. Handlers read it and never branch on the raw variant again.
type Config struct {
	Variant           Variant                 `json:"variant"`
	Shape             Shape                   `json:"-"`
	ShapeName         string                  `json:"shape"`
	Task              erroranalysis.ModelTask `json:"task"`
	FeatureNames      []string                `json:"featureNames"`
	Categorical       map[string][]string     `json:"categoricalMap,omitempty"`
	ClassNames        []string                `json:"classNames,omitempty"`
	ClassDimension    int                     `json:"classDimension"`
	ModelClass        string                  `json:"modelClass"`
	ExplanationMethod string                  `json:"explanationMethod,omitempty"`
	TreeFeatures      []string                `json:"treeFeatures"`
	MatrixFeatures    []string                `json:"matrixFeatures"`
	MaxDepth          int                     `json:"maxDepth"`
	NumLeaves         int                     `json:"numLeaves"`
	CanPredict        bool                    `json:"canPredict"`
	RequestsEnabled   bool                    `json:"requestsEnabled"`

	StaticTree   []erroranalysis.TreeNode `json:"-"`
	StaticMatrix *erroranalysis.Matrix    `json:"-"`
}

// Schema describes the dataset a dashboard inspects
type Schema struct {
	Task         erroranalysis.ModelTask
	FeatureNames []string
	Categorical  map[string][]string
	ClassNames   []string
}

// NewConfig resolves a variant against its dataset schema. Static data is
// attached separately by the caller.
func NewConfig(v Variant, schema Schema) Config {
	shape := v.Dataset.Shape()
	cfg := Config{
		Variant:         v,
		Shape:           shape,
		ShapeName:       shape.String(),
		Task:            schema.Task,
		FeatureNames:    schema.FeatureNames,
		ClassNames:      schema.ClassNames,
		ClassDimension:  len(schema.ClassNames),
		ModelClass:      ModelClassTrained,
		TreeFeatures:    schema.FeatureNames,
		MaxDepth:        DefaultMaxDepth,
		NumLeaves:       DefaultNumLeaves,
		RequestsEnabled: v.Mode != ModeStatic,
		CanPredict:      v.Mode != ModeStatic,
	}
	if schema.Task == erroranalysis.TaskRegression {
		cfg.ClassDimension = 1
	}

	switch shape {
	case ShapeCategorical:
		cfg.Categorical = schema.Categorical
		cfg.ModelClass = ModelClassBlackbox
	default:
		cfg.ExplanationMethod = ExplanationMethodMimic
	}

	switch n := len(schema.FeatureNames); {
	case n >= 2:
		cfg.MatrixFeatures = schema.FeatureNames[:2]
	case n == 1:
		cfg.MatrixFeatures = schema.FeatureNames[:1]
	}
	return cfg
}
