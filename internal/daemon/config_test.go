package daemon

import (
	"reflect"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 4200 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 4200)
	}
	if cfg.Engine.TickInterval != "1s" {
		t.Errorf("Engine.TickInterval = %q, want %q", cfg.Engine.TickInterval, "1s")
	}
	if cfg.Engine.MaxTicks != 0 {
		t.Errorf("Engine.MaxTicks = %d, want 0 (unbounded)", cfg.Engine.MaxTicks)
	}
	if cfg.Telemetry.Prometheus {
		t.Error("Telemetry.Prometheus should default to false (opt-in)")
	}
}

func TestLoadConfigFallsBackToDefaultsWhenNoFileExists(t *testing.T) {
	t.Setenv("AEONIS_HOME", t.TempDir())
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Error("LoadConfig with no config file present should return DefaultConfig()")
	}
}

func TestSaveConfigThenLoadConfigRoundTrips(t *testing.T) {
	t.Setenv("AEONIS_HOME", t.TempDir())
	cfg := DefaultConfig()
	cfg.API.Port = 9999
	cfg.Engine.MaxTicks = 500

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.API.Port != 9999 || loaded.Engine.MaxTicks != 500 {
		t.Errorf("round-tripped config = %+v, want Port=9999 MaxTicks=500", loaded)
	}
}
