package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raidash/domain/dashboard"
	"raidash/internal/errors"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:5000", cfg.Backend.URL)
	assert.Equal(t, dashboard.ModeGenerated, cfg.Dashboard.Mode)
	assert.Equal(t, dashboard.DatasetBreastCancer, cfg.Dashboard.Dataset)
	assert.Equal(t, 10, cfg.Dashboard.TopN)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("DASHBOARD_MODE", "live")
	t.Setenv("DATASET", "boston")
	t.Setenv("BACKEND_URL", "http://models.internal:9000")
	t.Setenv("TOP_N", "3")

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, dashboard.Variant{Mode: dashboard.ModeLive, Dataset: dashboard.DatasetBoston}, cfg.Dashboard.Variant())
	assert.Equal(t, "http://models.internal:9000", cfg.Backend.URL)
	assert.Equal(t, 3, cfg.Dashboard.TopN)
}

func TestYAMLConfig(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader("dataset: adult_census_income\nlanguage: fr\n")))

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, dashboard.DatasetAdultCensusIncome, cfg.Dashboard.Dataset)
	assert.Equal(t, "fr", cfg.Dashboard.Language)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown mode", map[string]string{"DASHBOARD_MODE": "version-4"}},
		{"unknown dataset", map[string]string{"DATASET": "iris"}},
		{"relative backend url in live mode", map[string]string{"DASHBOARD_MODE": "live", "BACKEND_URL": "localhost"}},
		{"non-positive top n", map[string]string{"TOP_N": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFrom(viper.New())
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
