package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/citysim/internal/platform/tui"
	"github.com/vovakirdan/citysim/internal/storage"
)

var flagSlot string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a city in the terminal dashboard",
	Long: `Start the city dashboard. The city starts paused.

Controls:
  Space/P    - Start or pause the city
  1..9       - Pick a speed from the configured speeds list
  S          - Save to the current slot
  N          - Found a new city (after collapse)
  Q/Ctrl+C   - Quit

If the slot already holds a saved city it is resumed, otherwise a new
city is founded. The slot defaults to storage.autosave_slot.

Examples:
  citysim run
  citysim run --slot mytown
  citysim run --seed 42`,
	Args: cobra.NoArgs,
	Run:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagSlot, "slot", "", "Save slot to resume and save to")
}

func runRun(_ *cobra.Command, _ []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: run needs an interactive terminal.")
		fmt.Fprintln(os.Stderr, "Use 'citysim simulate' for headless runs.")
		os.Exit(1)
	}

	cfg := mustLoadConfig()
	logger := newLogger(cfg)

	slot := flagSlot
	if slot == "" {
		slot = cfg.Storage.AutosaveSlot
	}

	session, seed := newSession(cfg)
	logger.Debug("founding city", "seed", seed, "slot", slot)

	// Open save storage
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open saves database, saving disabled", "error", err)
		// Continue without storage - the city still runs
		store = nil
	}

	if store != nil {
		saved, loadErr := store.LoadCity(slot)
		switch {
		case loadErr == nil:
			session.Replace(saved)
			logger.Info("resumed city", "slot", slot, "day", saved.Day)
		case errors.Is(loadErr, storage.ErrSlotNotFound):
			// Fresh city
		default:
			logger.Warn("could not load save, founding a new city", "slot", slot, "error", loadErr)
		}
	}

	runErr := tui.Run(session, store, cfg, slot)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running city: %v\n", runErr)
		os.Exit(1)
	}
}
