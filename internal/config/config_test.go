package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"palworld": { "host": "10.0.0.1", "port": 8213, "password": "hunter2" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "10.0.0.1", viper.GetString("palworld.host"))
	assert.Equal(t, 8213, viper.GetInt("palworld.port"))
	assert.Equal(t, "hunter2", viper.GetString("palworld.password"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./palmaplogs", viper.GetString("logsDir"))
	assert.Equal(t, "0.0.0.0", viper.GetString("listen.host"))
	assert.Equal(t, 8080, viper.GetInt("listen.port"))
	assert.Equal(t, "localhost", viper.GetString("palworld.host"))
	assert.Equal(t, 8212, viper.GetInt("palworld.port"))
	assert.Equal(t, "", viper.GetString("palworld.password"))
	assert.Equal(t, "./data/map_objects.json", viper.GetString("map.objectsFile"))
	assert.Equal(t, "5s", viper.GetString("map.pollInterval"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, "palmap-metrics", viper.GetString("influx.org"))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "localhost", viper.GetString("palworld.host"))
}

func TestLoad_CorruptFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`{broken`), 0644))

	err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestSave_WritesWholesale(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, Load(dir))

	Set("palworld.password", "newsecret")
	require.NoError(t, Save(dir))

	// A fresh viper instance sees the persisted value.
	viper.Reset()
	require.NoError(t, Load(dir))
	assert.Equal(t, "newsecret", GetString("palworld.password"))
}

func TestGetters(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("testString", "value")
	viper.Set("testInt", 42)
	viper.Set("testBool", true)

	assert.Equal(t, "value", GetString("testString"))
	assert.Equal(t, 42, GetInt("testInt"))
	assert.Equal(t, true, GetBool("testBool"))
}
