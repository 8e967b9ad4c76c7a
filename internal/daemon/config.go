// Package daemon manages the aeonisd daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	Engine    EngineConfig    `toml:"engine"`
	Output    OutputConfig    `toml:"output"`
	API       APIConfig       `toml:"api"`
	Storage   StorageConfig   `toml:"storage"`
	Logging   LoggingConfig   `toml:"logging"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// EngineConfig controls the tick engine's seed and pacing.
type EngineConfig struct {
	SeedFile      string `toml:"seed_file"`
	WorldSeed     uint64 `toml:"world_seed"`
	TickInterval  string `toml:"tick_interval"`
	MaxTicks      uint64 `toml:"max_ticks"` // 0 = unbounded
}

// OutputConfig controls where frames are written.
type OutputConfig struct {
	Dir            string `toml:"dir"`
	RetainNDJSON   bool   `toml:"retain_ndjson"`
	HighlightsOnly bool   `toml:"highlights_only"`
}

// APIConfig controls the HTTP API / SSE server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// StorageConfig controls the SQLite run store.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// TelemetryConfig controls observability.
type TelemetryConfig struct {
	Enabled        bool `toml:"enabled"`
	Prometheus     bool `toml:"prometheus"`
	PrometheusPort int  `toml:"prometheus_port"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := aeonisHome()
	return Config{
		Engine: EngineConfig{
			SeedFile:     filepath.Join(homeDir, "seeds", "default.json"),
			TickInterval: "1s",
			MaxTicks:     0,
		},
		Output: OutputConfig{
			Dir:            filepath.Join(homeDir, "runs"),
			RetainNDJSON:   true,
			HighlightsOnly: false,
		},
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        4200,
			CORSOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Dir: homeDir,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "aeonisd.log"),
		},
		Telemetry: TelemetryConfig{
			Enabled:        true,
			Prometheus:     false, // opt-in: expose /metrics
			PrometheusPort: 9090,
		},
	}
}

// LoadConfig reads config from ~/.aeonis/config.toml, falling back to
// defaults when no file exists.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(aeonisHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config to ~/.aeonis/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(aeonisHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

func aeonisHome() string {
	if env := os.Getenv("AEONIS_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".aeonis")
}

// AeonisHome is exported for use by other packages.
func AeonisHome() string {
	return aeonisHome()
}
