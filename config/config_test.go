// backend/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gewnthar/greenpaths/backend/aq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
server:
  port: "5000"
aqi_data:
  cache_dir: `+filepath.Join(dir, "aqi_cache")+`
  failure_backoff: 30s
routing:
  clean_paths_enabled: true
  sensitivity_subset: true
`)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, 30.0, cfg.AqiData.FailureBackoff.Seconds())
	assert.Equal(t, aq.Sensitivities(true), cfg.Routing.Sensitivities())
	assert.DirExists(t, cfg.AqiData.CacheDir)
}

func TestLoadConfig_DefaultBackoff(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, "aqi_data:\n  cache_dir: "+filepath.Join(dir, "cache")+"\n")

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 60.0, cfg.AqiData.FailureBackoff.Seconds())
}

func TestLoadConfig_SensitivityOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
aqi_data:
  cache_dir: `+filepath.Join(dir, "cache")+`
routing:
  aq_sensitivities: [1, 3, 6]
`)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 6}, cfg.Routing.Sensitivities())
}

func TestLoadConfig_RejectsUnknownSensitivity(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
aqi_data:
  cache_dir: `+filepath.Join(dir, "cache")+`
routing:
  aq_sensitivities: [1, 7]
`)

	_, err := LoadConfig(path)

	assert.Error(t, err)
}

func TestLoadConfig_GraphSubsetEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
aqi_data:
  cache_dir: `+filepath.Join(dir, "cache")+`
routing:
  graph_subset: false
  edge_file: graphs/hma_edges.csv
  subset_edge_file: graphs/kumpula_edges.csv
`)
	t.Setenv("GRAPH_SUBSET", "True")

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.True(t, cfg.Routing.GraphSubset)
	assert.Equal(t, "graphs/kumpula_edges.csv", cfg.Routing.EdgeFilePath())
}
