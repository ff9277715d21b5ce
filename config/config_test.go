package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-engine/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "shifts.db", cfg.Database.Path)
	assert.Equal(t, "CORTILE", cfg.Scheduling.FallbackStationCode)
	assert.Equal(t, []string{"operatore", "generico"}, cfg.Scheduling.GenericRoleTokens)
	assert.Equal(t, "coordinator", cfg.Horizon.ConstrainedRole)
	assert.Equal(t, 10, cfg.Horizon.Days)
}

func TestLoad_FileThenEnv(t *testing.T) {
	// GIVEN a config file and an environment override
	dir := t.TempDir()
	yml := "database:\n  path: /tmp/roster.db\nhorizon:\n  days: 7\n  constrained_role: supervisor\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o600))
	t.Setenv("SHIFT_HORIZON_DAYS", "14")

	// WHEN loading
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	// THEN the environment wins over the file, the file over defaults
	assert.Equal(t, "/tmp/roster.db", cfg.Database.Path)
	assert.Equal(t, 14, cfg.Horizon.Days)
	assert.Equal(t, "supervisor", cfg.Horizon.ConstrainedRole)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Logging.Env)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("SHIFT_LOGGING_ENV", "staging")
	_, err := config.Load("")
	assert.Error(t, err)
}
