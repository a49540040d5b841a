package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/citysim/internal/city"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))

	statusStyles = map[string]lipgloss.Style{
		"RUNNING":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		"PAUSED":    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		"COLLAPSED": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}

	labelStyle  = lipgloss.NewStyle().Width(statsWidth)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	eventStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
)

// render composes the full dashboard from the last snapshot.
func (m Model) render() string {
	c := m.city
	var sections []string

	sections = append(sections, m.renderHeader(c), "")
	sections = append(sections, m.renderResources(c), "")

	if m.cfg.Display.ShowEvents {
		sections = append(sections, renderEvents(c), "")
	}

	sections = append(sections, logBoxStyle.Render(m.logView.View()))

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader draws the day counter on the left and run status on the right.
func (m Model) renderHeader(c *city.State) string {
	left := titleStyle.Render(fmt.Sprintf("Day: %d", c.Day))
	speed := dimStyle.Render(fmt.Sprintf("  speed x%d", c.Speed))

	status := c.Status()
	right := statusStyles[status].Render(status)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(speed) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + speed + strings.Repeat(" ", gap) + right
}

// renderResources draws one row per resource: readout then progress bar.
func (m Model) renderResources(c *city.State) string {
	rows := []string{
		labelStyle.Render(fmt.Sprintf("Population: %d", c.Population)),
		labelStyle.Render(fmt.Sprintf("Food: %d", c.Food)) +
			m.foodBar.ViewAs(fraction(c.Food, m.cfg.Display.FoodScale)),
		labelStyle.Render(fmt.Sprintf("Energy: %d", c.Energy)) +
			m.energyBar.ViewAs(fraction(c.Energy, m.cfg.Display.EnergyScale)),
		labelStyle.Render(fmt.Sprintf("Money: %d", c.Money)) +
			m.moneyBar.ViewAs(fraction(c.Money, m.cfg.Display.MoneyScale)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderEvents lists active events with their remaining days.
func renderEvents(c *city.State) string {
	if len(c.Events) == 0 {
		return dimStyle.Render("No active events")
	}
	parts := make([]string, len(c.Events))
	for i, ev := range c.Events {
		parts[i] = fmt.Sprintf("%s (%dd)", ev.Kind, ev.RemainingDays)
	}
	return eventStyle.Render("Events: " + strings.Join(parts, ", "))
}

// fraction returns value/scale capped to [0, 1] for progress bars.
func fraction(value, scale int) float64 {
	if scale <= 0 {
		return 0
	}
	return min(1, max(0, float64(value)/float64(scale)))
}
