package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ConfigFileName is the persisted JSON config file.
const ConfigFileName = "palmap.cfg.json"

// Load reads configuration from the JSON file in configDir, seeds defaults,
// and binds PALMAP_* environment variables. A missing file is not an error:
// the defaults apply until Save writes the file for the first time.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./palmaplogs")

	viper.SetDefault("listen.host", "0.0.0.0")
	viper.SetDefault("listen.port", 8080)

	viper.SetDefault("palworld.host", "localhost")
	viper.SetDefault("palworld.port", 8212)
	viper.SetDefault("palworld.password", "")

	viper.SetDefault("map.objectsFile", "./data/map_objects.json")
	viper.SetDefault("map.pollInterval", "5s")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "palmap-metrics")

	viper.SetEnvPrefix("PALMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// Save writes the full current configuration to the JSON file in configDir.
// The file is replaced wholesale on every update.
func Save(configDir string) error {
	path := filepath.Join(configDir, ConfigFileName)
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("error writing config file: %v", err)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// Set updates a config value in memory. Call Save to persist.
func Set(key string, value any) {
	viper.Set(key, value)
}
