package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/easyapply-agent/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveConfig_DefaultsOnly(t *testing.T) {
	runConfigPath = ""
	t.Cleanup(func() { runConfigPath = "" })

	cfg, err := resolveConfig(runCommand)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultMaxApplications, cfg.MaxApplications)
	assert.Equal(t, float64(config.DefaultMinDelaySeconds), cfg.MinDelaySeconds)
	assert.Equal(t, config.DefaultReportFile, cfg.ReportFile)
	assert.True(t, cfg.Headless)
}

func TestResolveConfig_FileValues(t *testing.T) {
	runConfigPath = writeConfigFile(t, `{
		"keywords": "golang",
		"location": "Berlin",
		"max_applications": 7,
		"min_delay_seconds": 1.5
	}`)
	t.Cleanup(func() { runConfigPath = "" })

	cfg, err := resolveConfig(runCommand)
	require.NoError(t, err)

	assert.Equal(t, "golang", cfg.Keywords)
	assert.Equal(t, "Berlin", cfg.Location)
	assert.Equal(t, 7, cfg.MaxApplications)
	assert.Equal(t, 1.5, cfg.MinDelaySeconds)
}

func TestResolveConfig_FlagOverridesFile(t *testing.T) {
	runConfigPath = writeConfigFile(t, `{"keywords": "golang", "max_applications": 7}`)
	t.Cleanup(func() {
		runConfigPath = ""
		_ = runCommand.Flags().Set("keywords", "")
		runCommand.Flags().Lookup("keywords").Changed = false
	})

	require.NoError(t, runCommand.Flags().Set("keywords", "site reliability"))

	cfg, err := resolveConfig(runCommand)
	require.NoError(t, err)

	assert.Equal(t, "site reliability", cfg.Keywords)
	assert.Equal(t, 7, cfg.MaxApplications, "unset flags keep file values")
}

func TestResolveConfig_RejectsBadFile(t *testing.T) {
	runConfigPath = writeConfigFile(t, `{"max_applications": -3}`)
	t.Cleanup(func() { runConfigPath = "" })

	_, err := resolveConfig(runCommand)
	assert.Error(t, err)
}
