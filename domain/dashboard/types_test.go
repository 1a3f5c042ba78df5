package dashboard

import (
	"errors"
	"testing"

	"raidash/domain/core"
	"raidash/domain/erroranalysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Live ")
	require.NoError(t, err)
	assert.Equal(t, ModeLive, m)

	_, err = ParseMode("version-3")
	assert.True(t, errors.Is(err, core.ErrUnknownMode))
}

func TestParseDataset(t *testing.T) {
	for _, name := range Datasets() {
		d, err := ParseDataset(string(name))
		require.NoError(t, err)
		assert.Equal(t, name, d)
	}

	_, err := ParseDataset("iris")
	assert.True(t, errors.Is(err, core.ErrUnknownDataset))
}

func TestDatasetShape(t *testing.T) {
	assert.Equal(t, ShapeRegression, DatasetBoston.Shape())
	assert.Equal(t, ShapeCategorical, DatasetAdultCensusIncome.Shape())
	assert.Equal(t, ShapeDefault, DatasetBreastCancer.Shape())
	assert.Equal(t, "categorical", ShapeCategorical.String())
}

func TestNewConfigByShape(t *testing.T) {
	schema := Schema{
		Task:         erroranalysis.TaskClassification,
		FeatureNames: []string{"age", "sex", "hours"},
		Categorical:  map[string][]string{"sex": {"Male", "Female"}},
		ClassNames:   []string{"<=50K", ">50K"},
	}

	adult := NewConfig(Variant{Mode: ModeGenerated, Dataset: DatasetAdultCensusIncome}, schema)
	assert.Equal(t, ShapeCategorical, adult.Shape)
	assert.Equal(t, ModelClassBlackbox, adult.ModelClass)
	assert.Equal(t, schema.Categorical, adult.Categorical)
	assert.Empty(t, adult.ExplanationMethod)
	assert.Equal(t, []string{"age", "sex"}, adult.MatrixFeatures)
	assert.Equal(t, 2, adult.ClassDimension)
	assert.True(t, adult.CanPredict)

	cancer := NewConfig(Variant{Mode: ModeStatic, Dataset: DatasetBreastCancer}, schema)
	assert.Equal(t, ExplanationMethodMimic, cancer.ExplanationMethod)
	assert.Nil(t, cancer.Categorical)
	assert.False(t, cancer.RequestsEnabled)
	assert.False(t, cancer.CanPredict)

	schema.Task = erroranalysis.TaskRegression
	schema.ClassNames = nil
	boston := NewConfig(Variant{Mode: ModeLive, Dataset: DatasetBoston}, schema)
	assert.Equal(t, ShapeRegression, boston.Shape)
	assert.Equal(t, 1, boston.ClassDimension)
}
