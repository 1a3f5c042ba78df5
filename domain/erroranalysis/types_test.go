package erroranalysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raidash/domain/core"
)

func TestTreeRequestPositionalPayload(t *testing.T) {
	req := TreeRequest{Features: []string{"age", "hours"}, MaxDepth: 4, NumLeaves: 31}

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `[["age","hours"],[],[],4,31]`, string(data))

	var back TreeRequest
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, req.Features, back.Features)
	assert.Equal(t, 4, back.MaxDepth)
	assert.Equal(t, 31, back.NumLeaves)
	assert.NoError(t, back.Validate())
}

func TestTreeRequestRejectsBadShape(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"object", `{"features":["a"]}`},
		{"too short", `[["a"],[],[]]`},
		{"wrong element type", `[["a"],[],[],"four",31]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req TreeRequest
			err := json.Unmarshal([]byte(tt.payload), &req)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrInvalidRequest)
		})
	}
}

func TestMatrixRequestValidate(t *testing.T) {
	var req MatrixRequest
	require.NoError(t, json.Unmarshal([]byte(`[["age"],[{"column":"age"}],[]]`), &req))
	assert.NoError(t, req.Validate())
	assert.Len(t, req.Filters, 1)

	assert.True(t, core.IsValidationError(MatrixRequest{}.Validate()))
	assert.True(t, core.IsValidationError(MatrixRequest{Features: []string{"a", "b", "c"}}.Validate()))
}

func TestConditions(t *testing.T) {
	assert.Equal(t, "age <= 30.50", LeftCondition("age", 30.5))
	assert.Equal(t, "age > 30.00", RightCondition("age", 30))
}

func TestTreeNodeRootHasNullParents(t *testing.T) {
	data, err := json.Marshal(TreeNode{MetricName: MetricErrorRate})
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Nil(t, fields["parentId"])
	assert.Nil(t, fields["condition"])
	assert.Contains(t, fields, "parentId")
	assert.True(t, TreeNode{}.IsRoot())
}

func TestFilterMatch(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		value  float64
		want   bool
	}{
		{"less and equal boundary", Filter{Arg: []float64{30}, Method: MethodLessAndEqual}, 30, true},
		{"greater boundary", Filter{Arg: []float64{30}, Method: MethodGreater}, 30, false},
		{"range inside", Filter{Arg: []float64{1, 5}, Method: MethodInRange}, 3, true},
		{"range outside", Filter{Arg: []float64{1, 5}, Method: MethodInRange}, 6, false},
		{"includes", Filter{Arg: []float64{0, 2}, Method: MethodIncludes}, 2, true},
		{"excludes", Filter{Arg: []float64{0, 2}, Method: MethodExcludes}, 2, false},
		{"no args passes", Filter{Method: MethodLess}, 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(tt.value))
		})
	}
}

func TestParseFilters(t *testing.T) {
	filters, err := ParseFilters([]json.RawMessage{json.RawMessage(`{"arg":[40],"column":"age","method":"greater"}`)})
	require.NoError(t, err)
	require.Len(t, filters, 1)
	assert.Equal(t, "age", filters[0].Column)

	_, err = ParseFilters([]json.RawMessage{json.RawMessage(`{"arg":[40]}`)})
	assert.True(t, core.IsValidationError(err))
}
