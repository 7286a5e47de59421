package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
database:
  type: sqlite
storage:
  type: local
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "./data", cfg.Join.DataDir)
	assert.Equal(t, "tjoin", cfg.Join.DefaultAlgo)
	assert.Equal(t, 1, cfg.Join.DefaultTau)
	assert.Equal(t, 4, cfg.Join.MaxWorker)
}

func TestLoad_CustomValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
join:
  data_dir: "/tmp/corpora"
  default_algo: "guha"
  default_tau: 3
  max_worker: 10
database:
  type: postgres
  host: db.example.com
  port: 5432
  database: simjoin
  user: admin
  password: secret
storage:
  type: local
  local_path: /tmp/storage
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/corpora", cfg.Join.DataDir)
	assert.Equal(t, "guha", cfg.Join.DefaultAlgo)
	assert.Equal(t, 3, cfg.Join.DefaultTau)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "simjoin", cfg.Database.Database)
	assert.Equal(t, 10, cfg.Join.MaxWorker)
}

func TestLoad_InvalidDatabaseType(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
database:
  type: oracle
storage:
  type: local
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	_, err = Load(configFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestLoad_COSWithCredentials(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
database:
  type: sqlite
storage:
  type: cos
  bucket: test-bucket
  region: ap-guangzhou
  secret_id: test-id
  secret_key: test-key
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)
	assert.Equal(t, "cos", cfg.Storage.Type)
	assert.Equal(t, "test-bucket", cfg.Storage.Bucket)
}

func TestValidate_InvalidDatabaseType(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Type: "oracle"},
		Storage:  StorageConfig{Type: "local"},
		Join:     JoinConfig{MaxWorker: 1},
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestValidate_InvalidWorkerCount(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Type: "sqlite"},
		Storage:  StorageConfig{Type: "local"},
		Join:     JoinConfig{MaxWorker: 0},
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_worker must be at least 1")
}

func TestValidate_NegativeTau(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Type: "sqlite"},
		Storage:  StorageConfig{Type: "local"},
		Join:     JoinConfig{MaxWorker: 1, DefaultTau: -1},
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "default_tau must be non-negative")
}

func TestGetCorpusDir(t *testing.T) {
	cfg := &Config{
		Join: JoinConfig{DataDir: "/tmp/data"},
	}

	dir := cfg.GetCorpusDir("bolzano")
	assert.Equal(t, "/tmp/data/bolzano", dir)
}

func TestEnsureDataDir(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "join", "data")

	cfg := &Config{
		Join: JoinConfig{DataDir: dataDir},
	}

	err := cfg.EnsureDataDir()
	require.NoError(t, err)

	_, err = os.Stat(dataDir)
	assert.NoError(t, err)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestLoadFromReader(t *testing.T) {
	content := []byte(`
database:
  type: mysql
  host: mysql.local
storage:
  type: local
`)
	cfg, err := LoadFromReader("yaml", content)
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.Equal(t, "mysql.local", cfg.Database.Host)
}
