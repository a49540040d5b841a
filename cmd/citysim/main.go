// citysim is a terminal city-building simulation.
//
// Usage:
//
//	citysim run                  - Run a city in the terminal dashboard
//	citysim serve                - Start SSH server for remote cities
//	citysim simulate --days 365  - Advance a city headlessly and print the result
//	citysim saves list           - List saved cities
//	citysim saves delete <slot>  - Delete a saved city
//	citysim config               - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.citysim/config.yaml, then ./configs/citysim.yaml)
//	--db <path>         - Set database path (default: ~/.citysim/cities.db)
//	--seed <value>      - Set RNG seed for reproducible cities
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/citysim/internal/city"
	"github.com/vovakirdan/citysim/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagSeed     int64
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "citysim",
	Short: "CitySim - Grow a city in your terminal",
	Long: `CitySim is a small day-by-day city simulation. Population eats food,
uses energy and pays money; random events like droughts and power
outages shake things up until the city thrives or collapses.

Available commands:
  run       - Run a city in the terminal dashboard
  serve     - Start SSH server, one city per connection
  simulate  - Advance a city without a UI
  saves     - List or delete saved cities
  config    - Print the effective configuration

Examples:
  citysim run
  citysim run --slot mytown
  citysim simulate --days 365 --seed 42
  citysim serve --ssh :2222
  citysim saves list`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to saves database (overrides storage.db_path)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = config seed or time based)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads the configuration and applies global flag overrides.
func loadConfig() (config.Config, string, error) {
	cfg, source, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, "", err
	}

	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagSeed != 0 {
		cfg.Simulation.Seed = flagSeed
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, source, nil
}

// mustLoadConfig is loadConfig for command handlers.
func mustLoadConfig() config.Config {
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger builds the process logger from the configured level.
func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "citysim",
	})

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", cfg.Log.Level)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// newSession founds a city whose engine is seeded from config, or from the
// clock when the seed is zero.
func newSession(cfg config.Config) (*city.Session, int64) {
	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return city.NewSession(city.NewSeededEngine(seed)), seed
}
