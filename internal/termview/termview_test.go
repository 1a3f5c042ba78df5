package termview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"raidash/domain/policy"
	"raidash/internal/localization"
)

func labels() policy.Labels {
	return policy.LabelsFrom(localization.MustCatalog().Lookup("en").CausalAnalysis.TreatmentPolicy)
}

func TestRenderTableShowsEveryLabel(t *testing.T) {
	tree := policy.NewSplit("age", 30, policy.NewLeaf(12, "A"), policy.NewLeaf(8, "B"))
	out := RenderTable(policy.Render(tree, policy.Vertical, false, labels()))

	for _, want := range []string{"age ≤ 30 → left", "age > 30 → right", "12 samples", "recommend A", "8 samples", "recommend B"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "→ left"), strings.Index(out, "→ right"))
}

func TestRenderPlaceholder(t *testing.T) {
	out := RenderTable(policy.Render(nil, policy.Vertical, false, labels()))
	assert.Contains(t, out, "No data")
}

func TestRenderList(t *testing.T) {
	headers := localization.MustCatalog().Lookup("en").Counterfactuals
	list := policy.TopLocalPolicies([]policy.LocalPolicy{
		{policy.ColumnTreatment: "increase", policy.ColumnEffect: 0.4},
	}, 5, headers)

	out := RenderList(list, "No data")
	assert.Contains(t, out, "Recommended treatment")
	assert.Contains(t, out, "increase")
	assert.Contains(t, RenderList(policy.PolicyList{}, "No data"), "No data")
}
