// Package config provides YAML-based configuration loading for citysim
// drivers. The simulation rules themselves are fixed and not configurable;
// this covers timing, display, storage, server and logging settings.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the full citysim configuration.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Display    DisplayConfig    `yaml:"display"`
	Storage    StorageConfig    `yaml:"storage"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
}

// SimulationConfig controls how drivers schedule ticks.
type SimulationConfig struct {
	Interval time.Duration `yaml:"interval"` // Time between driver advances
	Speeds   []int         `yaml:"speeds"`   // Selectable ticks per interval
	Seed     int64         `yaml:"seed"`     // 0 = seed from the clock
}

// DisplayConfig controls the terminal dashboard.
type DisplayConfig struct {
	FoodScale   int  `yaml:"food_scale"`
	EnergyScale int  `yaml:"energy_scale"`
	MoneyScale  int  `yaml:"money_scale"`
	LogLines    int  `yaml:"log_lines"`
	ShowEvents  bool `yaml:"show_events"`
}

// StorageConfig locates the save database.
type StorageConfig struct {
	DBPath       string `yaml:"db_path"`
	AutosaveSlot string `yaml:"autosave_slot"`
}

// ServerConfig holds SSH host settings.
type ServerConfig struct {
	Address     string        `yaml:"address"`
	HostKey     string        `yaml:"host_key"` // Empty = ~/.citysim/host_key
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Validate reports the first setting that would break a driver.
func (c Config) Validate() error {
	if c.Simulation.Interval <= 0 {
		return fmt.Errorf("%w: simulation.interval must be positive, got %s", ErrInvalid, c.Simulation.Interval)
	}
	if len(c.Simulation.Speeds) == 0 {
		return fmt.Errorf("%w: simulation.speeds must not be empty", ErrInvalid)
	}
	for _, s := range c.Simulation.Speeds {
		if s < 1 {
			return fmt.Errorf("%w: simulation.speeds entries must be at least 1, got %d", ErrInvalid, s)
		}
	}
	if c.Display.FoodScale <= 0 || c.Display.EnergyScale <= 0 || c.Display.MoneyScale <= 0 {
		return fmt.Errorf("%w: display scales must be positive", ErrInvalid)
	}
	if c.Display.LogLines < 1 {
		return fmt.Errorf("%w: display.log_lines must be at least 1, got %d", ErrInvalid, c.Display.LogLines)
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("%w: storage.db_path must be set", ErrInvalid)
	}
	return nil
}
