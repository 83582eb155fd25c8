package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 25.0, cfg.Scoring.LocationWeight)
	assert.Equal(t, 25.0, cfg.Scoring.IncomeWeight)
	assert.Equal(t, 50, cfg.Scoring.TransactionCap)
	assert.Equal(t, 100_000.0, cfg.Scoring.IncomeCeiling)
	assert.Equal(t, 0.45, cfg.Scoring.MaxEMIToIncomeRatio)
	assert.Equal(t, 0.15, cfg.Simulator.StabilityJitter)
	assert.NotEmpty(t, cfg.Anthropic.Model)
	assert.Empty(t, cfg.Anthropic.Key)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CREDITVISION_SERVER_PORT", "9999")
	t.Setenv("CREDITVISION_STORE_DRIVER", "postgres")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Store.Driver)
}

func TestLoadTiersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	doc := `tiers:
  - name: only
    min_score: 300
    max_score: 900
    income_multiple: 2.0
    base_rate_percent: 10
    min_rate_percent: 8
    max_rate_percent: 12
    term_months: 120
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	tiers, err := LoadTiersFile(path)
	require.NoError(t, err)
	require.Len(t, tiers, 1)
	assert.Equal(t, "only", tiers[0].Name)
	assert.Equal(t, 300, tiers[0].MinScore)
	assert.Equal(t, 900, tiers[0].MaxScore)
	assert.Equal(t, 120, tiers[0].TermMonths)
}

func TestLoadTiersFileErrors(t *testing.T) {
	_, err := LoadTiersFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("tiers: []\n"), 0o644))
	_, err = LoadTiersFile(empty)
	require.Error(t, err)
}
