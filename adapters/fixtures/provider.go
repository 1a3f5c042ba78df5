// Package fixtures answers error-analysis requests locally from a synthetic
// dataset so the dashboard and backend run without a model server.
package fixtures

import (
	"context"
	"encoding/json"
	"fmt"

	"raidash/domain/erroranalysis"
	"raidash/internal"
	"raidash/internal/testkit"
	"raidash/ports"
)

var _ ports.AnalysisSource = (*Provider)(nil)

// Provider computes trees, matrices, importances and predictions from one dataset
type Provider struct {
	data   *testkit.Dataset
	logger *internal.Logger
}

// NewProvider wraps a generated dataset
func NewProvider(data *testkit.Dataset, logger *internal.Logger) *Provider {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Provider{data: data, logger: logger}
}

// Dataset returns the underlying dataset
func (p *Provider) Dataset() *testkit.Dataset {
	return p.data
}

// Predict scores each row with the dataset's model
func (p *Provider) Predict(ctx context.Context, rows [][]float64) (erroranalysis.Predictions, error) {
	out := make(erroranalysis.Predictions, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score, err := p.data.Score(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if p.data.Task == erroranalysis.TaskRegression {
			out[i] = []float64{score}
		} else {
			out[i] = []float64{1 - score, score}
		}
	}
	return out, nil
}

// filteredRows returns the indexes of the rows passing every filter
func (p *Provider) filteredRows(raw []json.RawMessage) ([]int, error) {
	filters, err := erroranalysis.ParseFilters(raw)
	if err != nil {
		return nil, err
	}
	cols := make([]int, len(filters))
	for i, f := range filters {
		idx, err := p.data.FeatureIndex(f.Column)
		if err != nil {
			return nil, err
		}
		cols[i] = idx
	}

	rows := make([]int, 0, len(p.data.Rows))
	for r, row := range p.data.Rows {
		keep := true
		for i, f := range filters {
			if !f.Match(row[cols[i]]) {
				keep = false
				break
			}
		}
		if keep {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		p.logger.Debug("filters removed every row of %s", p.data.Name)
	}
	return rows, nil
}

func (p *Provider) featureIndexes(names []string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		idx, err := p.data.FeatureIndex(name)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

func (p *Provider) metric() (name string, isError bool) {
	if p.data.Task == erroranalysis.TaskRegression {
		return erroranalysis.MetricMeanAbsoluteError, true
	}
	return erroranalysis.MetricErrorRate, true
}

// cohortStats sums the error over a set of rows and derives the node metric
func (p *Provider) cohortStats(rows []int, errs []float64) (errSum, success, metricValue float64) {
	for _, r := range rows {
		errSum += errs[r]
	}
	n := float64(len(rows))
	if n > 0 {
		metricValue = errSum / n
	}
	if p.data.Task != erroranalysis.TaskRegression {
		success = n - errSum
	}
	return errSum, success, metricValue
}
