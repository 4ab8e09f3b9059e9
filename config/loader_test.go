package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
data:
  zones: testdata/zones.csv
  node_mapping: testdata/mapping.csv
  base_skim: testdata/skim.csv
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, float64(DefaultThreshold), cfg.Analysis.DefaultThreshold)
	assert.Equal(t, float64(DefaultBandWidth), cfg.Analysis.DefaultBandWidth)
	assert.Equal(t, DefaultAttribute, cfg.Analysis.DefaultAttribute)
	assert.Equal(t, "min", cfg.Analysis.AggregateRule)
	assert.Equal(t, DefaultBatchSize, cfg.Analysis.BatchSize)
	assert.Equal(t, DefaultMaxUploadMB, cfg.Analysis.MaxUploadMB)
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  cors_origins: ["http://localhost:3000"]
data:
  zones: z.csv
  node_mapping: m.csv
  base_skim: s.csv
analysis:
  default_threshold: 30
  default_band_width: 10
  default_attribute: POP_2024
  aggregate_rule: mean
cache:
  dir: /tmp/taz-cache
attributes:
  - name: job_density
    label: Job Density
    aggregable: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30.0, cfg.Analysis.DefaultThreshold)
	assert.Equal(t, "mean", cfg.Analysis.AggregateRule)
	assert.Equal(t, "/tmp/taz-cache", cfg.Cache.Dir)
	require.Len(t, cfg.Attributes, 1)
	assert.Equal(t, "job_density", cfg.Attributes[0].Name)
	require.NotNil(t, cfg.Attributes[0].Aggregable)
	assert.False(t, *cfg.Attributes[0].Aggregable)
}

func TestLoadMissingRequiredData(t *testing.T) {
	path := writeConfig(t, `
data:
  zones: z.csv
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadInvalidAggregateRule(t *testing.T) {
	path := writeConfig(t, `
data:
  zones: z.csv
  node_mapping: m.csv
  base_skim: s.csv
analysis:
  aggregate_rule: median
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadEnvFallback(t *testing.T) {
	path := writeConfig(t, `
data:
  zones: z.csv
  node_mapping: m.csv
  base_skim: s.csv
`)
	t.Setenv("TAZ_ACCESS_CONFIG", path)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "z.csv", cfg.Data.Zones)
}
