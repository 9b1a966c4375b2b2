package config

import (
	"testing"
	"time"
)

func withDefaults(mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	mutate(cfg)
	return cfg
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "default config should be valid",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name: "zero capacity",
			config: withDefaults(func(c *Config) {
				c.Display.CapacityWatts = 0
			}),
			wantErr: true,
		},
		{
			name: "negative capacity",
			config: withDefaults(func(c *Config) {
				c.Display.CapacityWatts = -100
			}),
			wantErr: true,
		},
		{
			name: "non-positive refresh interval",
			config: withDefaults(func(c *Config) {
				c.Display.RefreshMinutes = 0
			}),
			wantErr: true,
		},
		{
			name: "bogus timezone",
			config: withDefaults(func(c *Config) {
				c.Display.Timezone = "Mars/Olympus_Mons"
			}),
			wantErr: true,
		},
		{
			name: "invalid http port",
			config: withDefaults(func(c *Config) {
				c.Server.HTTPPort = 0
			}),
			wantErr: true,
		},
		{
			name: "unknown queue type",
			config: withDefaults(func(c *Config) {
				c.Queue.Type = "rabbitmq"
			}),
			wantErr: true,
		},
		{
			name: "missing broker url",
			config: withDefaults(func(c *Config) {
				c.Queue.URL = ""
			}),
			wantErr: true,
		},
		{
			name: "memory transport needs no url",
			config: withDefaults(func(c *Config) {
				c.Queue.Type = "memory"
				c.Queue.URL = ""
			}),
			wantErr: false,
		},
		{
			name: "missing topic",
			config: withDefaults(func(c *Config) {
				c.Queue.Topics.ExportTotal = ""
			}),
			wantErr: true,
		},
		{
			name: "auth enabled without keys",
			config: withDefaults(func(c *Config) {
				c.Auth.Enabled = true
			}),
			wantErr: true,
		},
		{
			name: "auth enabled with keys",
			config: withDefaults(func(c *Config) {
				c.Auth.Enabled = true
				c.Auth.APIKeys = []string{"0123456789abcdef0123456789abcdef"}
			}),
			wantErr: false,
		},
		{
			name: "invalid logging level",
			config: withDefaults(func(c *Config) {
				c.Logging.Level = "verbose"
			}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestForecastConfigValidation(t *testing.T) {
	base := ForecastConfig{
		Enabled:        true,
		Latitude:       51.2,
		Longitude:      5.3,
		Declination:    45,
		Azimuth:        135,
		KilowattPeak:   8,
		DampingMorning: 0.2,
		DampingEvening: 0,
		BaseURL:        "https://api.forecast.solar",
		Timeout:        30 * time.Second,
	}

	tests := []struct {
		name    string
		mutate  func(*ForecastConfig)
		wantErr bool
	}{
		{"valid", func(c *ForecastConfig) {}, false},
		{"disabled skips validation", func(c *ForecastConfig) {
			c.Enabled = false
			c.Latitude = 999
		}, false},
		{"latitude out of range", func(c *ForecastConfig) { c.Latitude = 91 }, true},
		{"longitude out of range", func(c *ForecastConfig) { c.Longitude = -181 }, true},
		{"zero kwp", func(c *ForecastConfig) { c.KilowattPeak = 0 }, true},
		{"damping above one", func(c *ForecastConfig) { c.DampingMorning = 1.5 }, true},
		{"zero timeout", func(c *ForecastConfig) { c.Timeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestDisplayConfigLocation(t *testing.T) {
	cfg := DisplayConfig{Timezone: "Europe/Brussels"}
	if cfg.Location().String() != "Europe/Brussels" {
		t.Errorf("expected Europe/Brussels, got %s", cfg.Location())
	}

	cfg = DisplayConfig{}
	if cfg.Location() != time.UTC {
		t.Errorf("expected UTC for empty timezone, got %s", cfg.Location())
	}
}

func TestTopicsAll(t *testing.T) {
	topics := TopicsConfig{
		Solar:       "a",
		NetMeter:    "b",
		ImportTotal: "c",
		ExportTotal: "d",
	}

	all := topics.All()
	if len(all) != 4 {
		t.Fatalf("expected 4 topics, got %d", len(all))
	}
	if all[0] != "a" || all[3] != "d" {
		t.Errorf("unexpected topic ordering: %v", all)
	}
}
