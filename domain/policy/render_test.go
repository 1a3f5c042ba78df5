package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raidash/internal/localization"
)

func englishLabels(t *testing.T) Labels {
	t.Helper()
	c, err := localization.NewCatalog()
	require.NoError(t, err)
	return LabelsFrom(c.Lookup("en").CausalAnalysis.TreatmentPolicy)
}

func ageTree() *Node {
	return NewSplit("age", 30, NewLeaf(12, "A"), NewLeaf(8, "B"))
}

func TestRenderNilIsPlaceholder(t *testing.T) {
	labels := englishLabels(t)
	table := Render(nil, Vertical, false, labels)

	assert.Equal(t, KindPlaceholder, table.Kind)
	assert.Equal(t, "No data", table.Text)
	assert.Nil(t, table.Lines)
}

func TestRenderLeaf(t *testing.T) {
	table := Render(NewLeaf(12, "A"), Vertical, false, englishLabels(t))

	assert.Equal(t, KindLeaf, table.Kind)
	assert.Equal(t, []string{"12 samples", "recommend A"}, table.Lines)
}

func TestRenderVerticalSplit(t *testing.T) {
	table := Render(ageTree(), Vertical, false, englishLabels(t))

	require.Equal(t, KindGrid, table.Kind)
	assert.False(t, table.Nested)
	assert.Equal(t, "age ≤ 30 → left", table.Rows[0][0].Label)
	assert.Equal(t, "age > 30 → right", table.Rows[1][0].Label)

	left := table.Rows[0][1].Child
	right := table.Rows[1][1].Child
	require.NotNil(t, left)
	require.NotNil(t, right)
	assert.Equal(t, []string{"12 samples", "recommend A"}, left.Lines)
	assert.Equal(t, []string{"8 samples", "recommend B"}, right.Lines)
	assert.True(t, left.Nested)
	assert.Equal(t, Horizontal, left.Orientation)
}

func TestRenderHorizontalSplit(t *testing.T) {
	table := Render(ageTree(), Horizontal, false, englishLabels(t))

	require.Equal(t, KindGrid, table.Kind)
	assert.Equal(t, "age ≤ 30 → left", table.Rows[0][0].Label)
	assert.Equal(t, "age > 30 → right", table.Rows[0][1].Label)
	require.NotNil(t, table.Rows[1][0].Child)
	require.NotNil(t, table.Rows[1][1].Child)
	assert.Equal(t, "recommend A", table.Rows[1][0].Child.Lines[1])
	assert.Equal(t, "recommend B", table.Rows[1][1].Child.Lines[1])
}

func TestRenderAlternatesOrientationByDepth(t *testing.T) {
	tree := NewSplit("age", 30,
		NewSplit("income", 50000, NewLeaf(3, "A"), NewLeaf(4, "B")),
		NewLeaf(8, "C"))
	table := Render(tree, Vertical, false, englishLabels(t))

	inner := table.Rows[0][1].Child
	require.NotNil(t, inner)
	require.Equal(t, KindGrid, inner.Kind)
	assert.Equal(t, Horizontal, inner.Orientation)
	assert.Equal(t, "income ≤ 50000 → left", inner.Rows[0][0].Label)
	assert.Equal(t, Vertical, inner.Rows[1][0].Child.Orientation)
}

func TestRenderVisitsEveryNode(t *testing.T) {
	tree := NewSplit("a", 1,
		NewSplit("b", 2, NewLeaf(1, "x"), NewLeaf(2, "y")),
		NewSplit("c", 3, NewLeaf(3, "z"), NewSplit("d", 4, NewLeaf(4, "w"), NewLeaf(5, "v"))))
	table := Render(tree, Vertical, false, englishLabels(t))

	assert.Equal(t, tree.Count(), countTables(&table))
}

func TestRenderDeepChainKeepsEveryLeaf(t *testing.T) {
	const splits = MaxDepth + 6
	tree := NewLeaf(1, "last")
	for i := 0; i < splits; i++ {
		tree = NewSplit("f", float64(i), NewLeaf(i+2, "x"), tree)
	}
	table := Render(tree, Vertical, false, englishLabels(t))

	assert.Equal(t, tree.Count(), countTables(&table))
	assert.Equal(t, len(tree.Leaves()), countKind(&table, KindLeaf))
	assert.Zero(t, countKind(&table, KindPlaceholder))
}

func TestRenderMissingChildShowsNoData(t *testing.T) {
	tree := &Node{Feature: "age", Threshold: 30, Left: NewLeaf(1, "A")}
	table := Render(tree, Vertical, false, englishLabels(t))

	assert.Equal(t, KindPlaceholder, table.Rows[1][1].Child.Kind)
	assert.Equal(t, "No data", table.Rows[1][1].Child.Text)
}

func TestRenderFrenchLabels(t *testing.T) {
	labels := LabelsFrom(localization.MustCatalog().Lookup("fr").CausalAnalysis.TreatmentPolicy)
	table := Render(ageTree(), Vertical, false, labels)

	assert.Equal(t, "age ≤ 30 → gauche", table.Rows[0][0].Label)
}

func TestOrientationFlip(t *testing.T) {
	assert.Equal(t, Horizontal, Vertical.Flip())
	assert.Equal(t, Vertical, Horizontal.Flip())

	o, err := ParseOrientation("horizontal")
	require.NoError(t, err)
	assert.Equal(t, Horizontal, o)
	_, err = ParseOrientation("diagonal")
	assert.Error(t, err)
}

func countTables(t *Table) int {
	if t == nil {
		return 0
	}
	n := 1
	for _, row := range t.Rows {
		for _, cell := range row {
			n += countTables(cell.Child)
		}
	}
	return n
}

func countKind(t *Table, kind Kind) int {
	if t == nil {
		return 0
	}
	n := 0
	if t.Kind == kind {
		n = 1
	}
	for _, row := range t.Rows {
		for _, cell := range row {
			n += countKind(cell.Child, kind)
		}
	}
	return n
}
