package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyroplan/siteplan/pkg/core"
)

func TestLoad_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	// No config file present: defaults apply.
	require.NoError(t, Load(t.TempDir()))

	assert.Equal(t, "info", GetString("logLevel"))
	assert.Equal(t, "./siteplanlogs", GetString("logsDir"))
	assert.Equal(t, "./siteplans", GetString("export.outputDir"))
	assert.True(t, GetBool("export.compressOutput"))
	assert.False(t, GetBool("influx.enabled"))
	assert.False(t, GetBool("otel.enabled"))
}

func TestLoad_FromFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"project": {"units": "meters", "safetyDistance": 100, "showHeight": true},
		"export": {"outputDir": "/tmp/plans", "compressOutput": false},
		"share": {"serverUrl": "https://plans.example.com", "apiKey": "secret"}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "siteplan.cfg.json"), []byte(cfg), 0644))

	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", GetString("logLevel"))
	assert.Equal(t, "/tmp/plans", GetString("export.outputDir"))
	assert.False(t, GetBool("export.compressOutput"))
	assert.Equal(t, "https://plans.example.com", GetString("share.serverUrl"))

	// Unset keys keep their defaults.
	assert.Equal(t, "./siteplanlogs", GetString("logsDir"))
}

func TestProjectDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{"project": {"units": "meters", "safetyDistance": 85, "showHeight": true}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "siteplan.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	s := ProjectDefaults()
	assert.Equal(t, core.UnitsMeters, s.Units)
	assert.Equal(t, 85.0, s.SafetyDistance)
	assert.True(t, s.ShowHeight)
}

func TestProjectDefaults_NoFile(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(t.TempDir()))

	s := ProjectDefaults()
	assert.Equal(t, core.UnitsFeet, s.Units)
	assert.Equal(t, 70.0, s.SafetyDistance)
	assert.False(t, s.ShowHeight)
}

func TestExport(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{"export": {"outputDir": "./out", "compressOutput": false}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "siteplan.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	e := Export()
	assert.Equal(t, "./out", e.OutputDir)
	assert.False(t, e.CompressOutput)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "siteplan.cfg.json"), []byte("{not json"), 0644))

	assert.Error(t, Load(dir))
}
