package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/citysim/internal/storage"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "Manage saved cities",
	Long: `List or delete cities saved with the save key or simulate --save.

Examples:
  citysim saves list
  citysim saves delete mytown`,
}

var savesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved cities, newest first",
	Args:  cobra.NoArgs,
	Run:   runSavesList,
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <slot>",
	Short: "Delete a saved city",
	Args:  cobra.ExactArgs(1),
	Run:   runSavesDelete,
}

func init() {
	savesCmd.AddCommand(savesListCmd)
	savesCmd.AddCommand(savesDeleteCmd)
}

func openStore() *storage.Store {
	cfg := mustLoadConfig()
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening saves database: %v\n", err)
		os.Exit(1)
	}
	return store
}

func runSavesList(_ *cobra.Command, _ []string) {
	store := openStore()
	saves, err := store.ListSaves()
	store.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing saves: %v\n", err)
		os.Exit(1)
	}

	if len(saves) == 0 {
		fmt.Println("No saved cities.")
		fmt.Println()
		fmt.Println("Press 's' in 'citysim run' to save one.")
		return
	}

	// Calculate column widths
	maxSlotLen := 4 // "Slot" header
	for _, s := range saves {
		maxSlotLen = max(maxSlotLen, len(s.Slot))
	}

	// Print header
	fmt.Printf("  %-*s  %-6s  %-10s  %-9s  %s\n", maxSlotLen, "Slot", "Day", "Population", "Status", "Saved")
	fmt.Printf("  %-*s  %-6s  %-10s  %-9s  %s\n", maxSlotLen, "----", "---", "----------", "------", "-----")

	for _, s := range saves {
		status := "alive"
		if s.Collapsed {
			status = "collapsed"
		}
		fmt.Printf("  %-*s  %-6d  %-10d  %-9s  %s\n",
			maxSlotLen, s.Slot, s.Day, s.Population, status, s.SavedAt.Format("2006-01-02 15:04"))
	}
}

func runSavesDelete(_ *cobra.Command, args []string) {
	slot := args[0]

	store := openStore()
	err := store.DeleteSave(slot)
	store.Close()

	switch {
	case errors.Is(err, storage.ErrSlotNotFound):
		fmt.Fprintf(os.Stderr, "Error: no saved city in slot %q\n", slot)
		os.Exit(1)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error deleting save: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted slot %q\n", slot)
}
