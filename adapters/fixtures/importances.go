package fixtures

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"raidash/domain/erroranalysis"
)

// Importances scores each feature by the absolute Pearson correlation of
// its column with the per-row error, normalized to sum to one.
func (p *Provider) Importances(ctx context.Context) (erroranalysis.Importances, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	errs := p.data.Errors()
	out := make(erroranalysis.Importances, len(p.data.FeatureNames))
	for i := range p.data.FeatureNames {
		c := stat.Correlation(p.data.Column(i), errs, nil)
		if math.IsNaN(c) {
			c = 0
		}
		out[i] = math.Abs(c)
	}
	if total := floats.Sum(out); total > 0 {
		floats.Scale(1/total, out)
	}
	return out, nil
}
