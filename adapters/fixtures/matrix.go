package fixtures

import (
	"context"
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"raidash/domain/erroranalysis"
)

type binning struct {
	category erroranalysis.Category
	edges    []float64 // upper bounds for numeric bins, nil for categorical
}

func (b binning) size() int {
	return len(b.category.Values)
}

func (b binning) index(v float64) int {
	if b.edges == nil {
		return int(v)
	}
	for i, upper := range b.edges {
		if v <= upper {
			return i
		}
	}
	return len(b.edges) - 1
}

// Matrix bins one or two features (quartiles for numeric features, one bin
// per level for categorical ones) and reports the error metric per cell.
func (p *Provider) Matrix(ctx context.Context, req erroranalysis.MatrixRequest) (*erroranalysis.Matrix, error) {
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

	bins := make([]binning, len(features))
	for i, f := range features {
		bins[i], err = p.binFeature(f, rows)
		if err != nil {
			return nil, err
		}
	}
	rowBins := bins[0]
	colBins := binning{category: erroranalysis.Category{Values: []string{}}}
	nCols := 1
	if len(bins) == 2 {
		colBins = bins[1]
		nCols = colBins.size()
	}

	errs := p.data.Errors()
	members := make([][][]int, rowBins.size())
	for i := range members {
		members[i] = make([][]int, nCols)
	}
	for _, r := range rows {
		row := p.data.Rows[r]
		i := rowBins.index(row[features[0]])
		j := 0
		if len(features) == 2 {
			j = colBins.index(row[features[1]])
		}
		members[i][j] = append(members[i][j], r)
	}

	metricName, _ := p.metric()
	m := &erroranalysis.Matrix{
		Category1: rowBins.category,
		Category2: colBins.category,
		Cells:     make([][]erroranalysis.MatrixCell, len(members)),
	}
	for i := range members {
		m.Cells[i] = make([]erroranalysis.MatrixCell, nCols)
		for j, cohort := range members[i] {
			errSum, _, metricValue := p.cohortStats(cohort, errs)
			m.Cells[i][j] = erroranalysis.MatrixCell{
				Count:       len(cohort),
				FalseCount:  errSum,
				MetricName:  metricName,
				MetricValue: metricValue,
			}
		}
	}
	return m, nil
}

func (p *Provider) binFeature(f int, rows []int) (binning, error) {
	name := p.data.FeatureNames[f]
	if levels, ok := p.data.Categorical[name]; ok {
		return binning{category: erroranalysis.Category{Values: append([]string(nil), levels...)}}, nil
	}

	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = p.data.Rows[r][f]
	}
	if len(values) == 0 {
		return binning{category: erroranalysis.Category{Values: []string{}}, edges: []float64{}}, nil
	}

	lo, err := stats.Min(values)
	if err != nil {
		return binning{}, err
	}
	hi, err := stats.Max(values)
	if err != nil {
		return binning{}, err
	}
	bounds := []float64{lo}
	for _, pct := range []float64{25, 50, 75} {
		q, err := stats.Percentile(values, pct)
		if err != nil {
			return binning{}, err
		}
		bounds = append(bounds, q)
	}
	bounds = append(bounds, hi)
	bounds = uniqueSorted(bounds)

	b := binning{}
	if len(bounds) == 1 {
		b.edges = []float64{bounds[0]}
		b.category = erroranalysis.Category{
			Values:      []string{fmt.Sprintf("%.2f", bounds[0])},
			IntervalMin: []float64{bounds[0]},
			IntervalMax: []float64{bounds[0]},
		}
		return b, nil
	}
	for i := 1; i < len(bounds); i++ {
		b.edges = append(b.edges, bounds[i])
		b.category.IntervalMin = append(b.category.IntervalMin, bounds[i-1])
		b.category.IntervalMax = append(b.category.IntervalMax, bounds[i])
		b.category.Values = append(b.category.Values, fmt.Sprintf("%.2f - %.2f", bounds[i-1], bounds[i]))
	}
	return b, nil
}

func uniqueSorted(in []float64) []float64 {
	sort.Float64s(in)
	out := in[:0]
	for i, v := range in {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
