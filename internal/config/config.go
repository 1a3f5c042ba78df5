package config

import (
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"

	"raidash/domain/dashboard"
	"raidash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Dashboard DashboardConfig
	Data      DataConfig
	Metrics   MetricsConfig
	Log       LogConfig
}

// ServerConfig holds dashboard web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// BackendConfig holds the analysis backend settings
type BackendConfig struct {
	URL  string // base address the inference client posts to
	Port string // listen port of the fixture backend
}

// DashboardConfig selects the dashboard variant
type DashboardConfig struct {
	Mode     dashboard.Mode
	Dataset  dashboard.DatasetName
	Language string
	TopN     int
	Rows     int
	Seed     int64
}

// Variant returns the configured dashboard variant
func (d DashboardConfig) Variant() dashboard.Variant {
	return dashboard.Variant{Mode: d.Mode, Dataset: d.Dataset}
}

// DataConfig holds data file settings
type DataConfig struct {
	SpreadsheetFile string
	Sheet           string
}

// MetricsConfig holds prometheus settings
type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables and an optional
// config.yaml, then validates it
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}
	return LoadFrom(v)
}

// LoadFrom builds the configuration from a prepared viper instance
func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Server:  *loadServerConfig(v),
		Backend: *loadBackendConfig(v),
		Data:    *loadDataConfig(v),
		Metrics: *loadMetricsConfig(v),
		Log:     *loadLogConfig(v),
	}

	dashboardConfig, err := loadDashboardConfig(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dashboard configuration")
	}
	cfg.Dashboard = *dashboardConfig

	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("backend_url", "http://localhost:5000")
	v.SetDefault("backend_port", "5000")
	v.SetDefault("dashboard_mode", string(dashboard.ModeGenerated))
	v.SetDefault("dataset", string(dashboard.DatasetBreastCancer))
	v.SetDefault("language", "en")
	v.SetDefault("top_n", 10)
	v.SetDefault("fixture_rows", 500)
	v.SetDefault("fixture_seed", 42)
	v.SetDefault("spreadsheet_file", "")
	v.SetDefault("spreadsheet_sheet", "Sheet1")
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("metrics_namespace", "raidash")
	v.SetDefault("log_level", "INFO")
	v.SetDefault("log_format", "json")
}

func loadServerConfig(v *viper.Viper) *ServerConfig {
	return &ServerConfig{
		Port:    v.GetString("port"),
		GinMode: v.GetString("gin_mode"),
	}
}

func loadBackendConfig(v *viper.Viper) *BackendConfig {
	return &BackendConfig{
		URL:  strings.TrimSpace(v.GetString("backend_url")),
		Port: v.GetString("backend_port"),
	}
}

func loadDashboardConfig(v *viper.Viper) (*DashboardConfig, error) {
	mode, err := dashboard.ParseMode(v.GetString("dashboard_mode"))
	if err != nil {
		return nil, errors.ConfigInvalid(fmt.Sprintf("DASHBOARD_MODE: %v", err))
	}
	dataset, err := dashboard.ParseDataset(v.GetString("dataset"))
	if err != nil {
		return nil, errors.ConfigInvalid(fmt.Sprintf("DATASET: %v", err))
	}
	return &DashboardConfig{
		Mode:     mode,
		Dataset:  dataset,
		Language: v.GetString("language"),
		TopN:     v.GetInt("top_n"),
		Rows:     v.GetInt("fixture_rows"),
		Seed:     v.GetInt64("fixture_seed"),
	}, nil
}

func loadDataConfig(v *viper.Viper) *DataConfig {
	return &DataConfig{
		SpreadsheetFile: v.GetString("spreadsheet_file"),
		Sheet:           v.GetString("spreadsheet_sheet"),
	}
}

func loadMetricsConfig(v *viper.Viper) *MetricsConfig {
	return &MetricsConfig{
		Enabled:   v.GetBool("metrics_enabled"),
		Namespace: v.GetString("metrics_namespace"),
	}
}

func loadLogConfig(v *viper.Viper) *LogConfig {
	return &LogConfig{
		Level:  v.GetString("log_level"),
		Format: strings.ToLower(v.GetString("log_format")),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.Dashboard.TopN <= 0 {
		return errors.ConfigInvalid("TOP_N must be positive")
	}
	if config.Dashboard.Rows <= 0 {
		return errors.ConfigInvalid("FIXTURE_ROWS must be positive")
	}
	if config.Dashboard.Mode == dashboard.ModeLive {
		u, err := url.Parse(config.Backend.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.ConfigInvalid(fmt.Sprintf("BACKEND_URL %q is not an absolute URL", config.Backend.URL))
		}
	}
	return nil
}
