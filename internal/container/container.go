package container

import (
	"context"
	"fmt"
	"net/http"

	"raidash/adapters/excel"
	"raidash/adapters/inference"
	"raidash/app"
	"raidash/domain/dashboard"
	"raidash/internal"
	"raidash/internal/config"
	"raidash/internal/localization"
	"raidash/internal/metrics"
	"raidash/internal/testkit"
	"raidash/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	Logger  *internal.Logger
	Metrics *metrics.Registry
	Catalog *localization.Catalog

	// Data sources
	TestKit     *testkit.TestKit
	Client      *inference.Client
	Spreadsheet *excel.ExcelData

	// Services
	Dashboard *app.DashboardService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(internal.ParseLevel(cfg.Log.Level), cfg.Log.Format),
	}
	if cfg.Metrics.Enabled {
		c.Metrics = metrics.New(cfg.Metrics.Namespace)
	}
	return c, nil
}

// Init builds every component the dashboard needs
func (c *Container) Init(ctx context.Context) error {
	var err error
	c.Catalog, err = localization.NewCatalog()
	if err != nil {
		return fmt.Errorf("failed to load localization tables: %w", err)
	}

	c.TestKit = testkit.NewTestKitWithConfig(testkit.GeneratorConfig{
		Rows: c.Config.Dashboard.Rows,
		Seed: c.Config.Dashboard.Seed,
	})
	c.Client = c.NewClient(nil)

	if err := c.initSpreadsheet(); err != nil {
		c.Logger.Warn("spreadsheet not loaded: %v", err)
	}

	if err := c.initDashboard(ctx); err != nil {
		return fmt.Errorf("failed to initialize dashboard: %w", err)
	}

	c.Logger.Info("Container initialized: %s", c.Config.Dashboard.Variant())
	return nil
}

// NewClient builds an inference client for the configured backend
func (c *Container) NewClient(hc *http.Client) *inference.Client {
	return inference.New(c.Config.Backend.URL,
		inference.WithHTTPClient(hc),
		inference.WithLogger(c.Logger),
		inference.WithMetrics(c.Metrics),
	)
}

// initSpreadsheet loads the optional spreadsheet of rows to score
func (c *Container) initSpreadsheet() error {
	if c.Config.Data.SpreadsheetFile == "" {
		return nil
	}
	excelConfig := excel.DefaultExcelConfig()
	excelConfig.FilePath = c.Config.Data.SpreadsheetFile
	excelConfig.Enabled = true
	if c.Config.Data.Sheet != "" {
		excelConfig.Sheet = c.Config.Data.Sheet
	}

	c.Logger.Info("Using spreadsheet data source: %s", excelConfig.FilePath)
	reader := excel.NewDataReader(excelConfig, c.Logger)
	data, err := reader.ReadData()
	if err != nil {
		return err
	}
	c.Spreadsheet = data
	return nil
}

// initDashboard resolves the configured variant into a dashboard service
func (c *Container) initDashboard(ctx context.Context) error {
	variant := c.Config.Dashboard.Variant()
	var live ports.AnalysisSource
	if variant.Mode == dashboard.ModeLive {
		live = c.Client
	}

	var err error
	c.Dashboard, err = app.NewDashboardService(ctx, variant, c.TestKit, live, c.Logger)
	return err
}

// Close flushes buffered logs
func (c *Container) Close() error {
	_ = c.Logger.Sync()
	return nil
}
