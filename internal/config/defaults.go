package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/citysim.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Simulation: SimulationConfig{
			Interval: time.Second,
			Speeds:   []int{1, 2, 5},
			Seed:     0,
		},
		Display: DisplayConfig{
			FoodScale:   500,
			EnergyScale: 300,
			MoneyScale:  300,
			LogLines:    8,
			ShowEvents:  true,
		},
		Storage: StorageConfig{
			DBPath:       "~/.citysim/cities.db",
			AutosaveSlot: "autosave",
		},
		Server: ServerConfig{
			Address:     ":23235",
			IdleTimeout: 30 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default YAML document.
func DefaultYAML() []byte {
	return defaultYAML
}
