// Package tui provides the Bubble Tea dashboard for citysim.
// It drives a city.Session on a fixed interval, maps keys to driver
// controls and renders the city with lipgloss and bubbles components.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent once per scheduling interval.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends a tick after the interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
