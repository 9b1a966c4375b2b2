package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Queue    QueueConfig    `mapstructure:"queue"`
	Display  DisplayConfig  `mapstructure:"display"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// QueueConfig represents message transport configuration
type QueueConfig struct {
	Type     string `mapstructure:"type"`      // Transport type: mqtt (default), nats, memory
	URL      string `mapstructure:"url"`       // Broker URL (e.g., tcp://localhost:1883, nats://localhost:4222)
	Username string `mapstructure:"username"`  // Optional authentication
	Password string `mapstructure:"password"`  // Optional authentication
	ClientID string `mapstructure:"client_id"` // Client identity prefix on the broker

	Topics TopicsConfig `mapstructure:"topics"`
}

// TopicsConfig maps the four telemetry channels to broker topics
type TopicsConfig struct {
	Solar       string `mapstructure:"solar"`        // Instantaneous production + energy today
	NetMeter    string `mapstructure:"net_meter"`    // Import/export power at the grid connection
	ImportTotal string `mapstructure:"import_total"` // Cumulative imported energy today
	ExportTotal string `mapstructure:"export_total"` // Cumulative exported energy today
}

// All returns the configured topics in a fixed order.
func (t *TopicsConfig) All() []string {
	return []string{t.Solar, t.NetMeter, t.ImportTotal, t.ExportTotal}
}

// DisplayConfig represents accumulator and refresh configuration
type DisplayConfig struct {
	CapacityWatts   float64 `mapstructure:"capacity_watts"`    // Installation capacity ceiling used for normalization
	RefreshMinutes  int     `mapstructure:"refresh_minutes"`   // Minimum minutes between refresh signals
	Timezone        string  `mapstructure:"timezone"`          // Wall-clock timezone for day boundaries (e.g., "Europe/Brussels")
	HighExportWatts float64 `mapstructure:"high_export_watts"` // Export power above which the display highlights export
	MaxChartPoints  int     `mapstructure:"max_chart_points"`  // Downsample day series in snapshots above this count (0 = never)
}

// ForecastConfig represents the solar production forecast provider configuration
type ForecastConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Latitude       float64       `mapstructure:"latitude"`
	Longitude      float64       `mapstructure:"longitude"`
	Declination    float64       `mapstructure:"declination"`     // Panel tilt in degrees, 0 = horizontal
	Azimuth        float64       `mapstructure:"azimuth"`         // Panel orientation in degrees, 0 = north
	KilowattPeak   float64       `mapstructure:"kwp"`             // Installed peak capacity in kW
	DampingMorning float64       `mapstructure:"damping_morning"` // Morning shading factor [0,1]
	DampingEvening float64       `mapstructure:"damping_evening"` // Evening shading factor [0,1]
	BaseURL        string        `mapstructure:"base_url"`        // Forecast API endpoint
	Timeout        time.Duration `mapstructure:"timeout"`         // HTTP client timeout
}

// ServerConfig represents the status API server configuration
type ServerConfig struct {
	Host     string `mapstructure:"host"`      // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort int    `mapstructure:"http_port"` // HTTP server port
}

// AuthConfig represents status API authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Require an API key on /v1 routes
	APIKeys []string `mapstructure:"api_keys"` // Accepted keys, minimum 32 characters each
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Queue.Validate(); err != nil {
		return fmt.Errorf("queue config: %w", err)
	}

	if err := c.Display.Validate(); err != nil {
		return fmt.Errorf("display config: %w", err)
	}

	if err := c.Forecast.Validate(); err != nil {
		return fmt.Errorf("forecast config: %w", err)
	}

	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates transport configuration
func (c *QueueConfig) Validate() error {
	validTypes := map[string]bool{
		"": true, "mqtt": true, "nats": true, "memory": true,
	}

	if !validTypes[c.Type] {
		return fmt.Errorf("type must be one of: mqtt, nats, memory")
	}

	if c.Type != "memory" && c.URL == "" {
		return fmt.Errorf("url is required")
	}

	for _, topic := range c.Topics.All() {
		if topic == "" {
			return fmt.Errorf("all four topics (solar, net_meter, import_total, export_total) are required")
		}
	}

	return nil
}

// Validate validates display configuration
func (c *DisplayConfig) Validate() error {
	if c.CapacityWatts <= 0 {
		return fmt.Errorf("capacity_watts must be positive")
	}

	if c.RefreshMinutes <= 0 {
		return fmt.Errorf("refresh_minutes must be positive")
	}

	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
		}
	}

	if c.MaxChartPoints < 0 {
		return fmt.Errorf("max_chart_points cannot be negative")
	}

	return nil
}

// Location returns the configured wall-clock timezone, UTC if unset.
func (c *DisplayConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate validates forecast configuration
func (c *ForecastConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude must be in [-90, 90]")
	}

	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude must be in [-180, 180]")
	}

	if c.KilowattPeak <= 0 {
		return fmt.Errorf("kwp must be positive")
	}

	if c.DampingMorning < 0 || c.DampingMorning > 1 {
		return fmt.Errorf("damping_morning must be in [0, 1]")
	}

	if c.DampingEvening < 0 || c.DampingEvening > 1 {
		return fmt.Errorf("damping_evening must be in [0, 1]")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	return nil
}

// Validate validates authentication configuration
func (c *AuthConfig) Validate() error {
	if c.Enabled && len(c.APIKeys) == 0 {
		return fmt.Errorf("api_keys is required when auth is enabled")
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
