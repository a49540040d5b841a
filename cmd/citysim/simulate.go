package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/citysim/internal/city"
	"github.com/vovakirdan/citysim/internal/platform/batch"
	"github.com/vovakirdan/citysim/internal/storage"
)

var (
	flagDays     int
	flagSpeed    int
	flagSaveSlot string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Advance a city without a UI",
	Long: `Run a city headlessly until the requested number of days has passed
or the city collapses, then print its final state and recent log.

With --speed K each step advances K days, so the final day may pass
--days by up to K-1. Use --log-level debug to log every step.

Examples:
  citysim simulate --days 365
  citysim simulate --days 1000 --seed 42 --speed 5
  citysim simulate --days 30 --save mytown`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagDays, "days", 100, "Number of days to simulate")
	simulateCmd.Flags().IntVar(&flagSpeed, "speed", 1, "Ticks per step")
	simulateCmd.Flags().StringVar(&flagSaveSlot, "save", "", "Save the final city to this slot")
}

func runSimulate(_ *cobra.Command, _ []string) {
	if flagDays < 1 {
		fmt.Fprintln(os.Stderr, "Error: --days must be at least 1")
		os.Exit(1)
	}

	cfg := mustLoadConfig()
	logger := newLogger(cfg)

	session, seed := newSession(cfg)
	if err := session.SetSpeed(flagSpeed); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("founding city", "seed", seed, "speed", flagSpeed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := batch.NewRunner(session, logger).Run(ctx, flagDays)
	if err != nil {
		logger.Error("simulation stopped", "error", err)
	}

	printCity(res.Final, cfg.Display.LogLines)

	if flagSaveSlot != "" {
		store, openErr := storage.Open(cfg.Storage.DBPath)
		if openErr != nil {
			fmt.Fprintf(os.Stderr, "Error opening saves database: %v\n", openErr)
			os.Exit(1)
		}
		saveErr := store.SaveCity(flagSaveSlot, res.Final)
		store.Close()
		if saveErr != nil {
			fmt.Fprintf(os.Stderr, "Error saving city: %v\n", saveErr)
			os.Exit(1)
		}
		fmt.Printf("\nSaved to slot %q\n", flagSaveSlot)
	}

	if err != nil {
		os.Exit(1)
	}
}

// printCity writes a plain-text summary of a city and the tail of its log.
func printCity(s *city.State, logLines int) {
	fmt.Printf("Day %d - %s\n", s.Day, s.Status())
	fmt.Println()
	fmt.Printf("  %-12s %d\n", "Population", s.Population)
	fmt.Printf("  %-12s %d (+%d/day)\n", "Food", s.Food, s.FoodProd)
	fmt.Printf("  %-12s %d (+%d/day)\n", "Energy", s.Energy, s.EnergyProd)
	fmt.Printf("  %-12s %d (+%d/day)\n", "Money", s.Money, s.MoneyProd)

	if len(s.Events) > 0 {
		parts := make([]string, len(s.Events))
		for i, ev := range s.Events {
			parts[i] = fmt.Sprintf("%s (%dd)", ev.Kind, ev.RemainingDays)
		}
		fmt.Printf("  %-12s %s\n", "Events", strings.Join(parts, ", "))
	}

	if len(s.Log) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Recent log:")
	start := max(0, len(s.Log)-logLines)
	for _, entry := range s.Log[start:] {
		fmt.Printf("  %s\n", entry)
	}
}
