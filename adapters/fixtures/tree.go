package fixtures

import (
	"context"

	"github.com/montanaflynn/stats"

	"raidash/domain/core"
	"raidash/domain/erroranalysis"
)

const minLeafRows = 5

type split struct {
	feature   int
	threshold float64
	left      []int
	right     []int
}

type treeBuilder struct {
	p         *Provider
	features  []int
	errs      []float64
	maxDepth  int
	numLeaves int
	leaves    int
	nodes     []erroranalysis.TreeNode
}

// Tree grows a surrogate error tree: each node splits at the median of the
// requested feature that best separates high and low error rows. Nodes are
// returned flat in pre-order with the root first.
func (p *Provider) Tree(ctx context.Context, req erroranalysis.TreeRequest) ([]erroranalysis.TreeNode, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	features, err := p.featureIndexes(req.Features)
	if err != nil {
		return nil, err
	}
	rows, err := p.filteredRows(req.Filters)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := &treeBuilder{
		p:         p,
		features:  features,
		errs:      p.data.Errors(),
		maxDepth:  req.MaxDepth,
		numLeaves: req.NumLeaves,
		leaves:    1,
	}
	b.grow(rows, 0, nil, false)
	p.logger.Debug("error tree for %s: %d nodes over %d rows", p.data.Name, len(b.nodes), len(rows))
	return b.nodes, nil
}

func (b *treeBuilder) grow(rows []int, depth int, parent *split, isRight bool) int {
	id := len(b.nodes)
	errSum, success, metricValue := b.p.cohortStats(rows, b.errs)
	metricName, isError := b.p.metric()

	node := erroranalysis.TreeNode{
		ID:               id,
		NodeIndex:        id,
		Error:            errSum,
		Success:          success,
		Size:             float64(len(rows)),
		MetricName:       metricName,
		MetricValue:      metricValue,
		IsErrorMetric:    isError,
		SourceRowKeyHash: core.ComputeCohortHash(rows).String(),
	}
	if parent != nil {
		b.describeChild(&node, parent, isRight)
	}
	b.nodes = append(b.nodes, node)

	var best *split
	if depth < b.maxDepth && b.leaves < b.numLeaves {
		best = b.bestSplit(rows)
	}
	if best == nil {
		return id
	}
	name := b.p.data.FeatureNames[best.feature]
	b.nodes[id].NodeName = &name
	b.leaves++

	leftID := b.grow(best.left, depth+1, best, false)
	b.nodes[leftID].ParentID = intPtr(id)
	rightID := b.grow(best.right, depth+1, best, true)
	b.nodes[rightID].ParentID = intPtr(id)
	return id
}

func (b *treeBuilder) describeChild(node *erroranalysis.TreeNode, parent *split, isRight bool) {
	feature := b.p.data.FeatureNames[parent.feature]
	threshold := parent.threshold
	method := erroranalysis.MethodLessAndEqual
	condition := erroranalysis.LeftCondition(feature, threshold)
	if isRight {
		method = erroranalysis.MethodGreater
		condition = erroranalysis.RightCondition(feature, threshold)
	}
	node.ParentNodeName = &feature
	node.Method = &method
	node.Condition = &condition
	node.Arg = &threshold
}

// bestSplit picks the median split with the largest reduction in the sum of
// squared error deviations. Returns nil when no split helps.
func (b *treeBuilder) bestSplit(rows []int) *split {
	if len(rows) < 2*minLeafRows {
		return nil
	}
	parentSSE := sse(rows, b.errs)
	if parentSSE == 0 {
		return nil
	}

	var best *split
	bestGain := 0.0
	for _, f := range b.features {
		values := make([]float64, len(rows))
		for i, r := range rows {
			values[i] = b.p.data.Rows[r][f]
		}
		threshold, err := stats.Median(values)
		if err != nil {
			continue
		}
		var left, right []int
		for i, r := range rows {
			if values[i] <= threshold {
				left = append(left, r)
			} else {
				right = append(right, r)
			}
		}
		if len(left) < minLeafRows || len(right) < minLeafRows {
			continue
		}
		gain := parentSSE - sse(left, b.errs) - sse(right, b.errs)
		if gain > bestGain {
			bestGain = gain
			best = &split{feature: f, threshold: threshold, left: left, right: right}
		}
	}
	return best
}

func sse(rows []int, errs []float64) float64 {
	if len(rows) == 0 {
		return 0
	}
	mean := 0.0
	for _, r := range rows {
		mean += errs[r]
	}
	mean /= float64(len(rows))
	total := 0.0
	for _, r := range rows {
		d := errs[r] - mean
		total += d * d
	}
	return total
}

func intPtr(v int) *int { return &v }
