package container

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raidash/domain/dashboard"
	"raidash/internal/config"
)

func TestInitGeneratedDashboard(t *testing.T) {
	t.Setenv("FIXTURE_ROWS", "120")
	cfg, err := config.LoadFrom(viper.New())
	require.NoError(t, err)

	c, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, c.Init(context.Background()))

	assert.NotNil(t, c.Dashboard)
	assert.NotNil(t, c.Metrics)
	assert.Equal(t, dashboard.ModeGenerated, c.Dashboard.Config().Variant.Mode)
	assert.Equal(t, "http://localhost:5000", c.Client.BaseURL())
	assert.Nil(t, c.Spreadsheet)
	assert.NoError(t, c.Close())
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}
