package fixtures

import (
	"math"

	"github.com/montanaflynn/stats"

	"raidash/domain/policy"
)

const maxLocalPolicies = 100

// Policy builds a treatment policy over the dataset: the last numeric
// feature is the treatment, the first two split the population at their
// medians. Effects are a fixed function of the split features.
func (p *Provider) Policy() (*policy.Policy, error) {
	numeric := p.numericFeatures()
	if len(numeric) < 3 {
		return &policy.Policy{}, nil
	}
	a, b, treatment := numeric[0], numeric[1], numeric[len(numeric)-1]
	ta, err := stats.Median(p.data.Column(a))
	if err != nil {
		return nil, err
	}
	tb, err := stats.Median(p.data.Column(b))
	if err != nil {
		return nil, err
	}
	ta, tb = round2(ta), round2(tb)

	effect := func(row []float64) float64 {
		ea := (row[a] - ta) / math.Max(math.Abs(ta), 1)
		eb := (row[b] - tb) / math.Max(math.Abs(tb), 1)
		return math.Round((0.4*ea-0.25*eb)*1000) / 1000
	}

	type leafAcc struct {
		n   int
		sum float64
	}
	var ll, lr, right leafAcc
	locals := make([]policy.LocalPolicy, 0, maxLocalPolicies)
	for i, row := range p.data.Rows {
		e := effect(row)
		switch {
		case row[a] > ta:
			right.n++
			right.sum += e
		case row[b] <= tb:
			ll.n++
			ll.sum += e
		default:
			lr.n++
			lr.sum += e
		}
		if i < maxLocalPolicies {
			locals = append(locals, policy.LocalPolicy{
				policy.ColumnTreatment:   recommend(e),
				policy.ColumnEffect:      e,
				policy.ColumnEffectLower: math.Round((e-0.1)*1000) / 1000,
				policy.ColumnEffectUpper: math.Round((e+0.1)*1000) / 1000,
				p.data.FeatureNames[a]:   row[a],
				p.data.FeatureNames[b]:   row[b],
			})
		}
	}
	leaf := func(acc leafAcc) *policy.Node {
		mean := 0.0
		if acc.n > 0 {
			mean = acc.sum / float64(acc.n)
		}
		return policy.NewLeaf(acc.n, recommend(mean))
	}

	names := p.data.FeatureNames
	tree := policy.NewSplit(names[a], ta,
		policy.NewSplit(names[b], tb, leaf(ll), leaf(lr)),
		leaf(right))
	return &policy.Policy{
		TreatmentFeature: names[treatment],
		PolicyTree:       tree,
		LocalPolicies:    locals,
	}, nil
}

func (p *Provider) numericFeatures() []int {
	var out []int
	for i, name := range p.data.FeatureNames {
		if !p.data.IsCategorical(name) {
			out = append(out, i)
		}
	}
	return out
}

func recommend(effect float64) string {
	if effect > 0 {
		return "increase"
	}
	return "decrease"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
