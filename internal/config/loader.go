package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/heliodash")
	}

	setDefaults(v)

	// Enable environment variable overrides
	v.SetEnvPrefix("HELIODASH")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Transport defaults
	v.SetDefault("queue.type", "mqtt")
	v.SetDefault("queue.url", "tcp://localhost:1883")
	v.SetDefault("queue.client_id", "heliodash")
	v.SetDefault("queue.topics.solar", "pvpanelendak/PUB/CH1")
	v.SetDefault("queue.topics.net_meter", "244cab25438c/PUB/CH0")
	v.SetDefault("queue.topics.import_total", "244cab25438c/PUB/CH2")
	v.SetDefault("queue.topics.export_total", "244cab25438c/PUB/CH3")

	// Display defaults
	v.SetDefault("display.capacity_watts", 8000.0)
	v.SetDefault("display.refresh_minutes", 1)
	v.SetDefault("display.timezone", "Europe/Brussels")
	v.SetDefault("display.high_export_watts", 2000.0)
	v.SetDefault("display.max_chart_points", 0)

	// Forecast defaults
	v.SetDefault("forecast.enabled", false)
	v.SetDefault("forecast.declination", 45.0)
	v.SetDefault("forecast.azimuth", 135.0)
	v.SetDefault("forecast.kwp", 8.0)
	v.SetDefault("forecast.damping_morning", 0.2)
	v.SetDefault("forecast.damping_evening", 0.0)
	v.SetDefault("forecast.base_url", "https://api.forecast.solar")
	v.SetDefault("forecast.timeout", "30s")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 5580)

	// Auth defaults
	v.SetDefault("auth.enabled", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Queue: QueueConfig{
			Type:     "mqtt",
			URL:      "tcp://localhost:1883",
			ClientID: "heliodash",
			Topics: TopicsConfig{
				Solar:       "pvpanelendak/PUB/CH1",
				NetMeter:    "244cab25438c/PUB/CH0",
				ImportTotal: "244cab25438c/PUB/CH2",
				ExportTotal: "244cab25438c/PUB/CH3",
			},
		},
		Display: DisplayConfig{
			CapacityWatts:   8000,
			RefreshMinutes:  1,
			Timezone:        "Europe/Brussels",
			HighExportWatts: 2000,
		},
		Forecast: ForecastConfig{
			Enabled:        false,
			Declination:    45,
			Azimuth:        135,
			KilowattPeak:   8,
			DampingMorning: 0.2,
			BaseURL:        "https://api.forecast.solar",
			Timeout:        30 * time.Second,
		},
		Server: ServerConfig{
			Host:     "0.0.0.0",
			HTTPPort: 5580,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}
