package app

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"raidash/adapters/fixtures"
	"raidash/domain/core"
	"raidash/domain/dashboard"
	"raidash/domain/erroranalysis"
	"raidash/domain/policy"
	"raidash/internal"
	"raidash/internal/errors"
	"raidash/internal/testkit"
	"raidash/ports"
)

// Snapshot is everything the error analysis page shows at once
type Snapshot struct {
	Config      dashboard.Config          `json:"config"`
	Tree        []erroranalysis.TreeNode  `json:"tree"`
	Matrix      *erroranalysis.Matrix     `json:"matrix"`
	Importances erroranalysis.Importances `json:"importances"`
}

// ETag hashes the snapshot content
func (s *Snapshot) ETag() (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return core.NewHash(raw).Short(), nil
}

// DashboardService resolves a dashboard variant once and serves its data
type DashboardService struct {
	cfg     dashboard.Config
	source  ports.AnalysisSource
	dataset *testkit.Dataset
	policy  *policy.Policy
	logger  *internal.Logger
}

// NewDashboardService builds the service for a variant. Generated mode
// answers from the fixture provider, live mode from the given source, and
// static mode computes tree and matrix here and never requests again.
func NewDashboardService(ctx context.Context, variant dashboard.Variant, kit *testkit.TestKit, live ports.AnalysisSource, logger *internal.Logger) (*DashboardService, error) {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	data, err := kit.Dataset(variant.Dataset)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load dataset %s", variant.Dataset)
	}
	provider := fixtures.NewProvider(data, logger)

	cfg := dashboard.NewConfig(variant, dashboard.Schema{
		Task:         data.Task,
		FeatureNames: data.FeatureNames,
		Categorical:  data.Categorical,
		ClassNames:   data.ClassNames,
	})

	s := &DashboardService{cfg: cfg, dataset: data, logger: logger}
	switch variant.Mode {
	case dashboard.ModeGenerated:
		s.source = provider
	case dashboard.ModeLive:
		if live == nil {
			return nil, errors.ConfigInvalid("live mode requires an inference client")
		}
		s.source = live
	case dashboard.ModeStatic:
		tree, err := provider.Tree(ctx, s.treeRequest())
		if err != nil {
			return nil, errors.Wrap(err, "failed to precompute error tree")
		}
		matrix, err := provider.Matrix(ctx, s.matrixRequest(cfg.MatrixFeatures))
		if err != nil {
			return nil, errors.Wrap(err, "failed to precompute error matrix")
		}
		s.cfg.StaticTree = tree
		s.cfg.StaticMatrix = matrix
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unknown dashboard mode %q", variant.Mode))
	}

	s.policy, err = provider.Policy()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build treatment policy")
	}
	logger.Info("dashboard %s ready (%s, %d features)", variant, cfg.ShapeName, len(cfg.FeatureNames))
	return s, nil
}

// Config returns the normalized configuration
func (s *DashboardService) Config() dashboard.Config {
	return s.cfg
}

// Dataset returns the dataset backing the dashboard schema
func (s *DashboardService) Dataset() *testkit.Dataset {
	return s.dataset
}

// Policy returns the causal treatment policy
func (s *DashboardService) Policy() *policy.Policy {
	return s.policy
}

// Load fetches tree, matrix and importances concurrently. The first failure
// cancels the others and is returned.
func (s *DashboardService) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{Config: s.cfg}
	if s.source == nil {
		snap.Tree = s.cfg.StaticTree
		snap.Matrix = s.cfg.StaticMatrix
		return snap, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tree, err := s.source.Tree(gctx, s.treeRequest())
		if err != nil {
			return fmt.Errorf("tree: %w", err)
		}
		snap.Tree = tree
		return nil
	})
	g.Go(func() error {
		matrix, err := s.source.Matrix(gctx, s.matrixRequest(s.cfg.MatrixFeatures))
		if err != nil {
			return fmt.Errorf("matrix: %w", err)
		}
		snap.Matrix = matrix
		return nil
	})
	g.Go(func() error {
		imp, err := s.source.Importances(gctx)
		if err != nil {
			return fmt.Errorf("importances: %w", err)
		}
		snap.Importances = imp
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Matrix fetches the heat map for a chosen feature pair
func (s *DashboardService) Matrix(ctx context.Context, features []string) (*erroranalysis.Matrix, error) {
	if s.source == nil {
		return nil, core.ErrUnavailable
	}
	return s.source.Matrix(ctx, s.matrixRequest(features))
}

// Predict scores rows. Not available in static mode.
func (s *DashboardService) Predict(ctx context.Context, rows [][]float64) (erroranalysis.Predictions, error) {
	if s.source == nil || !s.cfg.CanPredict {
		return nil, core.ErrUnavailable
	}
	return s.source.Predict(ctx, rows)
}

func (s *DashboardService) treeRequest() erroranalysis.TreeRequest {
	return erroranalysis.TreeRequest{
		Features:  s.cfg.TreeFeatures,
		MaxDepth:  s.cfg.MaxDepth,
		NumLeaves: s.cfg.NumLeaves,
	}
}

func (s *DashboardService) matrixRequest(features []string) erroranalysis.MatrixRequest {
	return erroranalysis.MatrixRequest{Features: features}
}
