package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"

	"raidash/domain/core"
	"raidash/domain/dashboard"
	"raidash/domain/erroranalysis"
)

// GeneratorConfig controls synthetic dataset generation
type GeneratorConfig struct {
	Rows int
	Seed int64
}

// DefaultGeneratorConfig returns the configuration used by the dashboard fixtures
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{Rows: 500, Seed: 42}
}

// Dataset is a synthetic tabular dataset with ground truth and the
// predictions of a fixed model. Categorical features are stored as level
// indexes into Categorical[name].
type Dataset struct {
	Name         dashboard.DatasetName
	Task         erroranalysis.ModelTask
	FeatureNames []string
	Categorical  map[string][]string
	ClassNames   []string
	Rows         [][]float64
	TrueY        []float64
	PredY        []float64

	model func(row []float64) float64
}

// ClassDimension is 1 for regression and the number of classes otherwise
func (d *Dataset) ClassDimension() int {
	if d.Task == erroranalysis.TaskRegression {
		return 1
	}
	return len(d.ClassNames)
}

// IsCategorical reports whether a feature holds level indexes
func (d *Dataset) IsCategorical(feature string) bool {
	_, ok := d.Categorical[feature]
	return ok
}

// FeatureIndex returns the column of a feature
func (d *Dataset) FeatureIndex(name string) (int, error) {
	for i, f := range d.FeatureNames {
		if f == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q in %s", core.ErrUnknownFeature, name, d.Name)
}

// Column returns a copy of one feature column
func (d *Dataset) Column(i int) []float64 {
	col := make([]float64, len(d.Rows))
	for r, row := range d.Rows {
		col[r] = row[i]
	}
	return col
}

// Errors returns the per-row error: 0/1 misclassification for
// classification, absolute error for regression.
func (d *Dataset) Errors() []float64 {
	out := make([]float64, len(d.Rows))
	for i := range d.Rows {
		diff := d.PredY[i] - d.TrueY[i]
		if d.Task == erroranalysis.TaskRegression {
			out[i] = math.Abs(diff)
		} else if diff != 0 {
			out[i] = 1
		}
	}
	return out
}

// Score runs the dataset's model on one row: the positive class probability
// for classification, the predicted value for regression.
func (d *Dataset) Score(row []float64) (float64, error) {
	if len(row) != len(d.FeatureNames) {
		return 0, fmt.Errorf("%w: got %d values, want %d", core.ErrRowShape, len(row), len(d.FeatureNames))
	}
	return d.model(row), nil
}

type featureSpec struct {
	name    string
	mean    float64
	stdDev  float64
	min     float64
	max     float64
	integer bool
	levels  []string
	weights []float64
}

type datasetSpec struct {
	task       erroranalysis.ModelTask
	features   []featureSpec
	classNames []string
	// truth draws the label for a row
	truth func(row []float64, rng *rand.Rand) float64
	// model is the deployed model under inspection
	model func(row []float64) float64
}

func specFor(name dashboard.DatasetName) (datasetSpec, error) {
	switch name {
	case dashboard.DatasetBoston:
		return bostonSpec(), nil
	case dashboard.DatasetAdultCensusIncome:
		return adultSpec(), nil
	case dashboard.DatasetBreastCancer:
		return breastCancerSpec(), nil
	}
	return datasetSpec{}, fmt.Errorf("%w: %q", core.ErrUnknownDataset, name)
}

// Generate builds a deterministic dataset for the named variant
func Generate(name dashboard.DatasetName, cfg GeneratorConfig) (*Dataset, error) {
	spec, err := specFor(name)
	if err != nil {
		return nil, err
	}
	if cfg.Rows <= 0 {
		return nil, core.NewValidationError("rows", "must be positive")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	d := &Dataset{
		Name:        name,
		Task:        spec.task,
		Categorical: map[string][]string{},
		ClassNames:  spec.classNames,
		Rows:        make([][]float64, cfg.Rows),
		TrueY:       make([]float64, cfg.Rows),
		PredY:       make([]float64, cfg.Rows),
		model:       spec.model,
	}
	for _, f := range spec.features {
		d.FeatureNames = append(d.FeatureNames, f.name)
		if len(f.levels) > 0 {
			d.Categorical[f.name] = f.levels
		}
	}

	for i := 0; i < cfg.Rows; i++ {
		row := make([]float64, len(spec.features))
		for j, f := range spec.features {
			row[j] = f.sample(rng)
		}
		d.Rows[i] = row
		d.TrueY[i] = spec.truth(row, rng)
		score := spec.model(row)
		if spec.task == erroranalysis.TaskRegression {
			d.PredY[i] = score
		} else if score >= 0.5 {
			d.PredY[i] = 1
		}
	}
	return d, nil
}

func (f featureSpec) sample(rng *rand.Rand) float64 {
	if len(f.levels) > 0 {
		return float64(weightedIndex(rng, f.weights, len(f.levels)))
	}
	v := f.mean + f.stdDev*rng.NormFloat64()
	v = math.Max(f.min, math.Min(f.max, v))
	if f.integer {
		v = math.Round(v)
	}
	return v
}

func weightedIndex(rng *rand.Rand, weights []float64, n int) int {
	if len(weights) != n {
		return rng.Intn(n)
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return n - 1
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func bernoulli(rng *rand.Rand, p float64) float64 {
	if rng.Float64() < p {
		return 1
	}
	return 0
}

func bostonSpec() datasetSpec {
	// CRIM ZN INDUS CHAS NOX RM AGE DIS RAD TAX PTRATIO B LSTAT
	features := []featureSpec{
		{name: "CRIM", mean: 3.6, stdDev: 4, min: 0.006, max: 89},
		{name: "ZN", mean: 11, stdDev: 20, min: 0, max: 100},
		{name: "INDUS", mean: 11, stdDev: 6.8, min: 0.46, max: 27.7},
		{name: "CHAS", mean: 0.07, stdDev: 0.25, min: 0, max: 1, integer: true},
		{name: "NOX", mean: 0.55, stdDev: 0.11, min: 0.38, max: 0.87},
		{name: "RM", mean: 6.3, stdDev: 0.7, min: 3.5, max: 8.8},
		{name: "AGE", mean: 68, stdDev: 28, min: 2.9, max: 100},
		{name: "DIS", mean: 3.8, stdDev: 2.1, min: 1.1, max: 12.1},
		{name: "RAD", mean: 9.5, stdDev: 8.7, min: 1, max: 24, integer: true},
		{name: "TAX", mean: 408, stdDev: 168, min: 187, max: 711, integer: true},
		{name: "PTRATIO", mean: 18.5, stdDev: 2.2, min: 12.6, max: 22},
		{name: "B", mean: 356, stdDev: 91, min: 0.3, max: 396.9},
		{name: "LSTAT", mean: 12.6, stdDev: 7.1, min: 1.7, max: 38},
	}
	linear := func(row []float64) float64 {
		return 22.5 + 5.2*(row[5]-6.3) - 0.55*(row[12]-12.6) - 12*(row[4]-0.55) - 0.9*(row[10]-18.5) + 2.5*row[3]
	}
	return datasetSpec{
		task:     erroranalysis.TaskRegression,
		features: features,
		truth: func(row []float64, rng *rand.Rand) float64 {
			v := linear(row) + 1.5*rng.NormFloat64()
			// price collapse the model does not capture
			if row[12] > 20 {
				v -= 0.6 * (row[12] - 20)
			}
			return math.Max(5, math.Min(50, v))
		},
		model: func(row []float64) float64 {
			return math.Max(5, math.Min(50, linear(row)))
		},
	}
}

func adultSpec() datasetSpec {
	features := []featureSpec{
		{name: "age", mean: 38.6, stdDev: 13.6, min: 17, max: 90, integer: true},
		{name: "workclass", levels: []string{"Private", "Self-emp", "Government", "Other"}, weights: []float64{0.7, 0.11, 0.13, 0.06}},
		{name: "education-num", mean: 10, stdDev: 2.6, min: 1, max: 16, integer: true},
		{name: "marital-status", levels: []string{"Married", "Never-married", "Divorced", "Widowed"}, weights: []float64{0.47, 0.33, 0.15, 0.05}},
		{name: "occupation", levels: []string{"Prof-specialty", "Craft-repair", "Exec-managerial", "Sales", "Other-service"}},
		{name: "race", levels: []string{"White", "Black", "Asian-Pac-Islander", "Other"}, weights: []float64{0.85, 0.1, 0.03, 0.02}},
		{name: "sex", levels: []string{"Male", "Female"}, weights: []float64{0.67, 0.33}},
		{name: "capital-gain", mean: 1000, stdDev: 3000, min: 0, max: 99999, integer: true},
		{name: "hours-per-week", mean: 40, stdDev: 12, min: 1, max: 99, integer: true},
	}
	logit := func(row []float64) float64 {
		x := -6.0 + 0.045*row[0] + 0.33*row[2] + 0.00025*row[7] + 0.03*row[8]
		if row[3] == 0 {
			x += 1.6
		}
		if row[4] == 0 || row[4] == 2 {
			x += 0.7
		}
		return x
	}
	return datasetSpec{
		task:       erroranalysis.TaskClassification,
		features:   features,
		classNames: []string{"<=50K", ">50K"},
		truth: func(row []float64, rng *rand.Rand) float64 {
			x := logit(row)
			// long hours in self employment pay off in ways the model misses
			if row[1] == 1 && row[8] > 50 {
				x += 2.5
			}
			return bernoulli(rng, sigmoid(x))
		},
		model: func(row []float64) float64 {
			return sigmoid(logit(row))
		},
	}
}

func breastCancerSpec() datasetSpec {
	features := []featureSpec{
		{name: "mean radius", mean: 14.1, stdDev: 3.5, min: 6.9, max: 28.1},
		{name: "mean texture", mean: 19.3, stdDev: 4.3, min: 9.7, max: 39.3},
		{name: "mean perimeter", mean: 92, stdDev: 24, min: 43.8, max: 188.5},
		{name: "mean area", mean: 655, stdDev: 352, min: 143.5, max: 2501},
		{name: "mean smoothness", mean: 0.096, stdDev: 0.014, min: 0.053, max: 0.163},
		{name: "mean concavity", mean: 0.089, stdDev: 0.08, min: 0, max: 0.427},
		{name: "worst radius", mean: 16.3, stdDev: 4.8, min: 7.9, max: 36},
		{name: "worst concave points", mean: 0.115, stdDev: 0.066, min: 0, max: 0.291},
	}
	logit := func(row []float64) float64 {
		return -0.9*(row[6]-16.3) - 28*(row[7]-0.115) - 0.12*(row[1]-19.3) + 0.6
	}
	return datasetSpec{
		task:       erroranalysis.TaskClassification,
		features:   features,
		classNames: []string{"malignant", "benign"},
		truth: func(row []float64, rng *rand.Rand) float64 {
			x := logit(row)
			if row[5] > 0.15 {
				x -= 2
			}
			return bernoulli(rng, sigmoid(x))
		},
		model: func(row []float64) float64 {
			return sigmoid(logit(row))
		},
	}
}

// TestKit caches generated datasets by name
type TestKit struct {
	cfg      GeneratorConfig
	mu       sync.Mutex
	datasets map[dashboard.DatasetName]*Dataset
}

// NewTestKit creates a kit with the default generator configuration
func NewTestKit() *TestKit {
	return NewTestKitWithConfig(DefaultGeneratorConfig())
}

// NewTestKitWithConfig creates a kit with an explicit configuration
func NewTestKitWithConfig(cfg GeneratorConfig) *TestKit {
	return &TestKit{cfg: cfg, datasets: map[dashboard.DatasetName]*Dataset{}}
}

// Dataset returns the cached dataset, generating it on first use
func (k *TestKit) Dataset(name dashboard.DatasetName) (*Dataset, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if d, ok := k.datasets[name]; ok {
		return d, nil
	}
	d, err := Generate(name, k.cfg)
	if err != nil {
		return nil, err
	}
	k.datasets[name] = d
	return d, nil
}

// Names returns the names of the datasets generated so far
func (k *TestKit) Names() []string {
	k.mu.Lock()
	defer k.mu.Unlock()

	out := make([]string, 0, len(k.datasets))
	for name := range k.datasets {
		out = append(out, string(name))
	}
	sort.Strings(out)
	return out
}
