package fixtures

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raidash/domain/core"
	"raidash/domain/dashboard"
	"raidash/domain/erroranalysis"
	"raidash/domain/policy"
	"raidash/internal/testkit"
)

func newProvider(t *testing.T, name dashboard.DatasetName) *Provider {
	t.Helper()
	d, err := testkit.Generate(name, testkit.GeneratorConfig{Rows: 300, Seed: 11})
	require.NoError(t, err)
	return NewProvider(d, nil)
}

func TestTreePreOrderAndConsistency(t *testing.T) {
	p := newProvider(t, dashboard.DatasetBreastCancer)
	req := erroranalysis.TreeRequest{Features: p.Dataset().FeatureNames, MaxDepth: 3, NumLeaves: 8}

	nodes, err := p.Tree(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, nodes)

	root := nodes[0]
	assert.True(t, root.IsRoot())
	assert.Nil(t, root.Condition)
	assert.Equal(t, 300.0, root.Size)
	assert.Equal(t, erroranalysis.MetricErrorRate, root.MetricName)
	assert.InDelta(t, root.Error/root.Size, root.MetricValue, 1e-9)
	assert.Equal(t, root.Size, root.Error+root.Success)

	children := map[int][]erroranalysis.TreeNode{}
	for i, n := range nodes {
		assert.Equal(t, i, n.ID, "ids follow pre-order")
		if n.ParentID != nil {
			assert.Less(t, *n.ParentID, n.ID)
			children[*n.ParentID] = append(children[*n.ParentID], n)
		}
	}
	for parentID, kids := range children {
		require.Len(t, kids, 2, "node %d", parentID)
		assert.Equal(t, nodes[parentID].Size, kids[0].Size+kids[1].Size)
		assert.Equal(t, erroranalysis.MethodLessAndEqual, *kids[0].Method)
		assert.Equal(t, erroranalysis.MethodGreater, *kids[1].Method)
		assert.Equal(t, *nodes[parentID].NodeName, *kids[0].ParentNodeName)
		assert.Equal(t, erroranalysis.LeftCondition(*kids[0].ParentNodeName, *kids[0].Arg), *kids[0].Condition)
	}

	leaves := len(nodes) - len(children)
	assert.LessOrEqual(t, leaves, req.NumLeaves)
}

func TestTreeRespectsDepthAndFilters(t *testing.T) {
	p := newProvider(t, dashboard.DatasetAdultCensusIncome)
	filter := json.RawMessage(`{"arg":[40],"column":"age","method":"greater"}`)

	nodes, err := p.Tree(context.Background(), erroranalysis.TreeRequest{
		Features:  []string{"age", "hours-per-week"},
		Filters:   []json.RawMessage{filter},
		MaxDepth:  1,
		NumLeaves: 31,
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(nodes), 3)

	older := 0
	idx, err := p.Dataset().FeatureIndex("age")
	require.NoError(t, err)
	for _, row := range p.Dataset().Rows {
		if row[idx] > 40 {
			older++
		}
	}
	assert.Equal(t, float64(older), nodes[0].Size)
}

func TestTreeRejectsUnknownFeature(t *testing.T) {
	p := newProvider(t, dashboard.DatasetBoston)
	_, err := p.Tree(context.Background(), erroranalysis.TreeRequest{Features: []string{"nope"}, MaxDepth: 2, NumLeaves: 4})
	assert.ErrorIs(t, err, core.ErrUnknownFeature)

	_, err = p.Tree(context.Background(), erroranalysis.TreeRequest{Features: []string{"RM"}, MaxDepth: 0, NumLeaves: 4})
	assert.True(t, core.IsValidationError(err))
}

func TestRegressionTreeUsesMAE(t *testing.T) {
	p := newProvider(t, dashboard.DatasetBoston)
	nodes, err := p.Tree(context.Background(), erroranalysis.TreeRequest{Features: []string{"LSTAT", "RM"}, MaxDepth: 2, NumLeaves: 4})
	require.NoError(t, err)

	assert.Equal(t, erroranalysis.MetricMeanAbsoluteError, nodes[0].MetricName)
	assert.Zero(t, nodes[0].Success)
}

func TestMatrixTwoFeatures(t *testing.T) {
	p := newProvider(t, dashboard.DatasetAdultCensusIncome)
	m, err := p.Matrix(context.Background(), erroranalysis.MatrixRequest{Features: []string{"sex", "age"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Male", "Female"}, m.Category1.Values)
	require.Len(t, m.Cells, 2)
	assert.Len(t, m.Category2.IntervalMin, len(m.Cells[0]))

	total := 0
	for _, row := range m.Cells {
		for _, cell := range row {
			total += cell.Count
			if cell.Count > 0 {
				assert.InDelta(t, cell.FalseCount/float64(cell.Count), cell.MetricValue, 1e-9)
			}
		}
	}
	assert.Equal(t, 300, total)
}

func TestMatrixSingleFeature(t *testing.T) {
	p := newProvider(t, dashboard.DatasetBreastCancer)
	m, err := p.Matrix(context.Background(), erroranalysis.MatrixRequest{Features: []string{"mean radius"}})
	require.NoError(t, err)

	assert.Len(t, m.Cells, 4)
	for _, row := range m.Cells {
		assert.Len(t, row, 1)
	}
	assert.Empty(t, m.Category2.Values)
}

func TestImportancesNormalized(t *testing.T) {
	p := newProvider(t, dashboard.DatasetBoston)
	imp, err := p.Importances(context.Background())
	require.NoError(t, err)

	require.Len(t, imp, len(p.Dataset().FeatureNames))
	sum := 0.0
	for _, v := range imp {
		assert.GreaterOrEqual(t, v, 0.0)
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestPredictShapes(t *testing.T) {
	cls := newProvider(t, dashboard.DatasetBreastCancer)
	preds, err := cls.Predict(context.Background(), cls.Dataset().Rows[:3])
	require.NoError(t, err)
	require.Len(t, preds, 3)
	for _, p := range preds {
		require.Len(t, p, 2)
		assert.InDelta(t, 1.0, p[0]+p[1], 1e-9)
	}

	reg := newProvider(t, dashboard.DatasetBoston)
	preds, err = reg.Predict(context.Background(), reg.Dataset().Rows[:2])
	require.NoError(t, err)
	assert.Len(t, preds[0], 1)

	_, err = reg.Predict(context.Background(), [][]float64{{1, 2}})
	assert.ErrorIs(t, err, core.ErrRowShape)
}

func TestPolicyIsValid(t *testing.T) {
	p := newProvider(t, dashboard.DatasetBreastCancer)
	pol, err := p.Policy()
	require.NoError(t, err)

	require.NoError(t, policy.Validate(pol.PolicyTree))
	assert.Len(t, pol.LocalPolicies, maxLocalPolicies)

	total := 0
	for _, leaf := range pol.PolicyTree.Leaves() {
		total += leaf.NSamples
	}
	assert.Equal(t, 300, total)
}
