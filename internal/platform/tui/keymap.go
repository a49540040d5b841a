package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// maxSpeedKeys caps speed bindings at the digit keys 1-9.
const maxSpeedKeys = 9

// KeyMap defines the dashboard key bindings.
type KeyMap struct {
	Toggle  key.Binding
	Speeds  []key.Binding // Speeds[i] selects the i-th configured speed
	Save    key.Binding
	NewCity key.Binding
	Quit    key.Binding

	speedHelp key.Binding // Single help entry standing in for all speed keys
}

// NewKeyMap builds bindings for the configured speed list.
func NewKeyMap(speeds []int) KeyMap {
	n := min(len(speeds), maxSpeedKeys)

	km := KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space/p", "start/pause"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		NewCity: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new city"),
			key.WithDisabled(),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Speeds: make([]key.Binding, n),
	}

	labels := make([]string, n)
	for i := range n {
		digit := strconv.Itoa(i + 1)
		km.Speeds[i] = key.NewBinding(
			key.WithKeys(digit),
			key.WithHelp(digit, fmt.Sprintf("speed x%d", speeds[i])),
		)
		labels[i] = fmt.Sprintf("x%d", speeds[i])
	}
	if n > 0 {
		km.speedHelp = key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp(fmt.Sprintf("1-%d", n), "speed "+strings.Join(labels, "/")),
		)
	}
	return km
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.speedHelp, k.Save, k.NewCity, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Save, k.NewCity, k.Quit},
		k.Speeds,
	}
}
