package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pyroplan/siteplan/pkg/core"
)

// ExportConfig holds site-plan document output settings
type ExportConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./siteplanlogs")

	viper.SetDefault("project.units", "feet")
	viper.SetDefault("project.safetyDistance", 70.0)
	viper.SetDefault("project.showHeight", false)

	viper.SetDefault("share.serverUrl", "http://localhost:5000")
	viper.SetDefault("share.apiKey", "")

	viper.SetDefault("export.outputDir", "./siteplans")
	viper.SetDefault("export.compressOutput", true)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "siteplan-metrics")
	viper.SetDefault("influx.interval", "30s")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.endpoint", "")

	viper.SetConfigName("siteplan.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine, the defaults above apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %v", err)
		}
	}

	return nil
}

// ProjectDefaults builds the settings a new session starts with from config.
func ProjectDefaults() core.Settings {
	return core.Settings{
		Units:          core.Units(viper.GetString("project.units")),
		SafetyDistance: viper.GetFloat64("project.safetyDistance"),
		ShowHeight:     viper.GetBool("project.showHeight"),
	}
}

// Export returns the export output settings.
func Export() ExportConfig {
	return ExportConfig{
		OutputDir:      viper.GetString("export.outputDir"),
		CompressOutput: viper.GetBool("export.compressOutput"),
	}
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
