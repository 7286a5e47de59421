package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treesimjoin/simjoin/pkg/config"
	"github.com/treesimjoin/simjoin/pkg/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		Join: config.JoinConfig{
			DataDir:     "./test_data",
			DefaultAlgo: "tjoin",
			DefaultTau:  1,
			MaxWorker:   4,
		},
		Database: config.DatabaseConfig{
			Type:     "sqlite",
			Database: ":memory:",
		},
		Storage: config.StorageConfig{
			Type:      "local",
			LocalPath: "./test_storage",
		},
	}
}

func TestService_New(t *testing.T) {
	cfg := testConfig()

	t.Run("WithLogger", func(t *testing.T) {
		logger := utils.NewDefaultLogger(utils.LevelInfo, nil)
		svc, err := New(cfg, logger)
		require.NoError(t, err)
		require.NotNil(t, svc)
		assert.False(t, svc.IsRunning())
	})

	t.Run("WithoutLogger", func(t *testing.T) {
		svc, err := New(cfg, nil)
		require.NoError(t, err)
		require.NotNil(t, svc)
	})
}

func TestService_HealthCheck_NoComponents(t *testing.T) {
	svc, err := New(testConfig(), nil)
	require.NoError(t, err)

	// HealthCheck should not fail when components are not initialized.
	err = svc.HealthCheck(context.Background())
	assert.NoError(t, err)
}

func TestService_DefaultCostModel(t *testing.T) {
	svc, err := New(testConfig(), nil)
	require.NoError(t, err)

	model := svc.DefaultCostModel()
	require.NotNil(t, model)
	assert.Equal(t, 1.0, model.Del(0))
	assert.Equal(t, 1.0, model.Ins(0))
	assert.Equal(t, 0.0, model.Ren(0, 0))
}

func TestService_NewTouzet(t *testing.T) {
	svc, err := New(testConfig(), nil)
	require.NoError(t, err)

	touzet := svc.NewTouzet()
	require.NotNil(t, touzet)
}
