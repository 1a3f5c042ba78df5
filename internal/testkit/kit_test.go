package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raidash/domain/core"
	"raidash/domain/dashboard"
	"raidash/domain/erroranalysis"
)

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := GeneratorConfig{Rows: 50, Seed: 7}
	a, err := Generate(dashboard.DatasetAdultCensusIncome, cfg)
	require.NoError(t, err)
	b, err := Generate(dashboard.DatasetAdultCensusIncome, cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Rows, b.Rows)
	assert.Equal(t, a.TrueY, b.TrueY)
	assert.Equal(t, a.PredY, b.PredY)
}

func TestDatasetShapes(t *testing.T) {
	tests := []struct {
		name        dashboard.DatasetName
		task        erroranalysis.ModelTask
		classDim    int
		categorical bool
	}{
		{dashboard.DatasetBoston, erroranalysis.TaskRegression, 1, false},
		{dashboard.DatasetAdultCensusIncome, erroranalysis.TaskClassification, 2, true},
		{dashboard.DatasetBreastCancer, erroranalysis.TaskClassification, 2, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			d, err := Generate(tt.name, GeneratorConfig{Rows: 100, Seed: 1})
			require.NoError(t, err)

			assert.Equal(t, tt.task, d.Task)
			assert.Equal(t, tt.classDim, d.ClassDimension())
			assert.Equal(t, tt.categorical, len(d.Categorical) > 0)
			require.Len(t, d.Rows, 100)
			for _, row := range d.Rows {
				require.Len(t, row, len(d.FeatureNames))
			}
			for name, levels := range d.Categorical {
				idx, err := d.FeatureIndex(name)
				require.NoError(t, err)
				for _, v := range d.Column(idx) {
					assert.Less(t, int(v), len(levels))
				}
			}
		})
	}
}

func TestErrorsMatchTask(t *testing.T) {
	d, err := Generate(dashboard.DatasetBreastCancer, GeneratorConfig{Rows: 200, Seed: 3})
	require.NoError(t, err)

	misclassified := 0.0
	for _, e := range d.Errors() {
		assert.Contains(t, []float64{0, 1}, e)
		misclassified += e
	}
	assert.Greater(t, misclassified, 0.0, "the model should make some mistakes")
	assert.Less(t, misclassified, 200.0)

	reg, err := Generate(dashboard.DatasetBoston, GeneratorConfig{Rows: 50, Seed: 3})
	require.NoError(t, err)
	for _, e := range reg.Errors() {
		assert.GreaterOrEqual(t, e, 0.0)
	}
}

func TestScoreChecksRowShape(t *testing.T) {
	d, err := Generate(dashboard.DatasetBreastCancer, GeneratorConfig{Rows: 10, Seed: 3})
	require.NoError(t, err)

	p, err := d.Score(d.Rows[0])
	require.NoError(t, err)
	assert.True(t, p >= 0 && p <= 1)

	_, err = d.Score([]float64{1})
	assert.ErrorIs(t, err, core.ErrRowShape)
}

func TestTestKitCachesDatasets(t *testing.T) {
	kit := NewTestKitWithConfig(GeneratorConfig{Rows: 20, Seed: 9})

	a, err := kit.Dataset(dashboard.DatasetBoston)
	require.NoError(t, err)
	b, err := kit.Dataset(dashboard.DatasetBoston)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, []string{"boston"}, kit.Names())

	_, err = kit.Dataset("iris")
	assert.ErrorIs(t, err, core.ErrUnknownDataset)
}
