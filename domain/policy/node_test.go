package policy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raidash/domain/core"
)

const policyTreeJSON = `{
  "leaf": false, "feature": "age", "threshold": 30,
  "left": {"leaf": true, "n_samples": 12, "treatment": "A"},
  "right": {"leaf": true, "n_samples": 8, "treatment": "B"}
}`

func TestParseTree(t *testing.T) {
	root, err := ParseTree([]byte(policyTreeJSON))
	require.NoError(t, err)

	assert.False(t, root.Leaf)
	assert.Equal(t, "age", root.Feature)
	assert.Equal(t, 30.0, root.Threshold)
	assert.Equal(t, 12, root.Left.NSamples)
	assert.Equal(t, "B", root.Right.Treatment)
	assert.Len(t, root.Leaves(), 2)
}

func TestParseTreeNull(t *testing.T) {
	root, err := ParseTree([]byte("null"))
	require.NoError(t, err)
	assert.Nil(t, root)
}

func TestNodeJSONShape(t *testing.T) {
	data, err := json.Marshal(ageTree())
	require.NoError(t, err)
	assert.JSONEq(t, policyTreeJSON, string(data))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		root *Node
		ok   bool
	}{
		{"leaf", NewLeaf(3, "A"), true},
		{"split", ageTree(), true},
		{"missing right", &Node{Feature: "age", Left: NewLeaf(1, "A")}, false},
		{"leaf with children", &Node{Leaf: true, Left: NewLeaf(1, "A")}, false},
		{"negative samples", NewLeaf(-1, "A"), false},
		{"split without feature", NewSplit("", 1, NewLeaf(1, "A"), NewLeaf(1, "B")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.root)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, core.ErrInvalidTree)
		})
	}
}

func TestValidateDepthLimit(t *testing.T) {
	root := NewLeaf(1, "A")
	for i := 0; i < MaxDepth+2; i++ {
		root = NewSplit("x", float64(i), root, NewLeaf(1, "B"))
	}
	assert.ErrorIs(t, Validate(root), core.ErrInvalidTree)
}

func TestRecommend(t *testing.T) {
	root := ageTree()

	leaf, err := root.Recommend(map[string]float64{"age": 30})
	require.NoError(t, err)
	assert.Equal(t, "A", leaf.Treatment)

	leaf, err = root.Recommend(map[string]float64{"age": 45})
	require.NoError(t, err)
	assert.Equal(t, "B", leaf.Treatment)

	_, err = root.Recommend(map[string]float64{"income": 1})
	assert.ErrorIs(t, err, core.ErrUnknownFeature)
}
