package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/citysim/internal/city"
	"github.com/vovakirdan/citysim/internal/config"
	"github.com/vovakirdan/citysim/internal/storage"
)

// Layout constants
const (
	defaultWidth  = 80
	defaultHeight = 24
	statsWidth    = 22 // Left column with numeric readouts
	minBarWidth   = 10
	maxBarWidth   = 60
)

// Model is the Bubble Tea model for the city dashboard.
type Model struct {
	session *city.Session
	store   *storage.Store // May be nil; saving is then unavailable
	cfg     config.Config
	slot    string // Save slot written by the save key

	keys      KeyMap
	help      help.Model
	foodBar   progress.Model
	energyBar progress.Model
	moneyBar  progress.Model
	logView   viewport.Model

	city     *city.State // Last snapshot, refreshed on every tick and key
	width    int
	height   int
	notice   string // One-line feedback such as "saved"
	quitting bool
}

// NewModel creates a dashboard over the given session.
func NewModel(session *city.Session, store *storage.Store, cfg config.Config, slot string) Model {
	m := Model{
		session:   session,
		store:     store,
		cfg:       cfg,
		slot:      slot,
		keys:      NewKeyMap(cfg.Simulation.Speeds),
		help:      help.New(),
		foodBar:   progress.New(progress.WithSolidFill("#5FAF5F"), progress.WithoutPercentage()),
		energyBar: progress.New(progress.WithSolidFill("#FFD75F"), progress.WithoutPercentage()),
		moneyBar:  progress.New(progress.WithSolidFill("#5F87D7"), progress.WithoutPercentage()),
		logView:   viewport.New(defaultWidth, cfg.Display.LogLines),
	}
	m.resize(defaultWidth, defaultHeight)
	m.refresh()
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.cfg.Simulation.Interval)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refresh()
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey maps keys to driver controls.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		m.session.Toggle()
		m.notice = ""

	case key.Matches(msg, m.keys.Save):
		m.notice = m.save()

	case key.Matches(msg, m.keys.NewCity):
		m.session.Reset()
		m.notice = "A new city was founded"

	default:
		for i, b := range m.keys.Speeds {
			if key.Matches(msg, b) {
				speed := m.cfg.Simulation.Speeds[i]
				if err := m.session.SetSpeed(speed); err != nil {
					m.notice = err.Error()
				} else {
					m.notice = fmt.Sprintf("Speed x%d", speed)
				}
				break
			}
		}
	}

	m.refresh()
	return m, nil
}

// handleTick advances the city by one scheduling interval.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.session.Advance()
	m.refresh()
	return m, tickCmd(m.cfg.Simulation.Interval)
}

// save writes the current city to the model's slot and returns a notice.
func (m Model) save() string {
	if m.store == nil {
		return "Saving unavailable: no database"
	}
	if err := m.store.SaveCity(m.slot, m.session.Snapshot()); err != nil {
		return fmt.Sprintf("Save failed: %v", err)
	}
	return fmt.Sprintf("Saved to slot %q", m.slot)
}

// refresh takes a fresh snapshot and updates dependent widgets.
func (m *Model) refresh() {
	m.city = m.session.Snapshot()
	m.keys.NewCity.SetEnabled(m.city.Collapsed)

	m.logView.SetContent(strings.Join(m.city.Log, "\n"))
	m.logView.GotoBottom()
}

// resize lays widgets out for the given terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	barWidth := max(minBarWidth, min(maxBarWidth, width-statsWidth-4))
	m.foodBar.Width = barWidth
	m.energyBar.Width = barWidth
	m.moneyBar.Width = barWidth

	m.logView.Width = max(1, width-2)
	m.logView.Height = m.cfg.Display.LogLines
	m.help.Width = width
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

// City returns the snapshot the view was last rendered from.
func (m Model) City() *city.State {
	return m.city
}

// Run starts the Bubble Tea program for a local terminal.
func Run(session *city.Session, store *storage.Store, cfg config.Config, slot string) error {
	model := NewModel(session, store, cfg, slot)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
