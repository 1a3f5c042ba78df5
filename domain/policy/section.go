package policy

import (
	"raidash/internal/localization"
)

// LocalPolicy is one individual's row: treatment, effect estimates and the
// individual's feature values, keyed by column name.
type LocalPolicy map[string]interface{}

// Policy is a learned treatment policy for one treatment feature
type Policy struct {
	TreatmentFeature string        `json:"treatment_feature"`
	PolicyTree       *Node         `json:"policy_tree"`
	LocalPolicies    []LocalPolicy `json:"local_policies"`
}

// Section is the rendered policy block: header plus either a single leaf
// cell or the split grid.
type Section struct {
	Header           string `json:"header"`
	TreatmentFeature string `json:"treatmentFeature"`
	SingleCell       bool   `json:"singleCell"`
	Table            Table  `json:"table"`
}

// RenderSection renders the policy block for a whole policy
func RenderSection(p *Policy, orientation Orientation, labels Labels) Section {
	if p == nil {
		return Section{
			Header: localization.Format(labels.Size, 0),
			Table:  Render(nil, orientation, false, labels),
		}
	}
	s := Section{
		Header:           localization.Format(labels.Size, len(p.LocalPolicies)),
		TreatmentFeature: p.TreatmentFeature,
		Table:            Render(p.PolicyTree, orientation, false, labels),
	}
	s.SingleCell = p.PolicyTree != nil && p.PolicyTree.Leaf
	return s
}
