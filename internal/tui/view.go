package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/routinize/internal/constants"
	"github.com/julianstephens/routinize/internal/stats"
	"github.com/julianstephens/routinize/internal/tui/components/dashboard"
	"github.com/julianstephens/routinize/internal/tui/components/routinecard"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateDashboard:
		content = m.viewDashboard()
	case constants.StateRoutines:
		content = m.viewRoutines()
	case constants.StateBlocks:
		content = m.viewBlocks()
	case constants.StateHealth:
		content = m.viewHealth()
	case constants.StateHealthForm, constants.StateAddBlock:
		content = m.form.View()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	var status string
	if m.status != "" {
		status = statusStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		docStyle.Render(content),
		status,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active > constants.StateHealth {
		active = m.previousState
	}
	var rendered []string
	for _, t := range tabs {
		if t.state == active {
			rendered = append(rendered, activeTabStyle.Render(t.title))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(t.title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) viewDashboard() string {
	day := stats.DaySummary(m.routines, m.blocks, m.records)
	var timer string
	if day.ActiveBlock != nil {
		timer = m.timers.View(*day.ActiveBlock)
	}
	return dashboard.Render(day, m.now(), timer)
}

func (m Model) contentWidth() int {
	if m.width == 0 {
		return 60
	}
	return min(m.width-4, 80)
}

func (m Model) viewRoutines() string {
	header := fmt.Sprintf("Filter: %s", selectedStyle.Render(m.filter))
	visible := m.visibleRoutines()
	if len(visible) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, "", mutedStyle.Render("No routines in this category."))
	}
	cards := []string{header}
	for i, r := range visible {
		cards = append(cards, routinecard.Render(r, i == m.routineCursor, m.contentWidth()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (m Model) viewBlocks() string {
	summary := stats.SummarizeBlocks(m.blocks)
	header := fmt.Sprintf("Today's progress: %d%%  ·  %d completed  ·  %d pending  ·  %d active",
		summary.Percent, summary.Completed, summary.Pending, summary.Active)
	if len(m.blocks) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, "", mutedStyle.Render("No time blocks yet. Press a to add one."))
	}

	cards := []string{header}
	for i, b := range m.blocks {
		style := blockCardStyle.Width(m.contentWidth() - 2)
		if i == m.blockCursor {
			style = style.BorderForeground(lipgloss.Color("205"))
		}
		title := fmt.Sprintf("%s  %s", lipgloss.NewStyle().Bold(true).Render(b.Title), mutedStyle.Render(b.Label()))
		lines := []string{title}
		if b.Notes != "" {
			lines = append(lines, mutedStyle.Render(b.Notes))
		}
		lines = append(lines, m.timers.View(b))
		cards = append(cards, style.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (m Model) viewHealth() string {
	if len(m.records) == 0 {
		return mutedStyle.Render("No check-ins yet. Press n to log how you feel.")
	}

	score := stats.RecentAverage(m.records, constants.RecentWindow)
	band := stats.Band(score)
	bandStyle := lipgloss.NewStyle().Foreground(dashboard.BandColors[band.Color]).Bold(true)
	lines := []string{
		fmt.Sprintf("Health score %s  %s", bandStyle.Render(fmt.Sprintf("%d/10", score)), bandStyle.Render(band.Label)),
		"",
	}
	for _, r := range stats.Recent(m.records, constants.RecentWindow) {
		var metrics []string
		for _, metric := range r.Data.Metrics() {
			color := dashboard.BandColors[stats.SliderBand(metric.Value)]
			metrics = append(metrics, fmt.Sprintf("%s %s", metric.Name, lipgloss.NewStyle().Foreground(color).Render(fmt.Sprint(metric.Value))))
		}
		lines = append(lines, fmt.Sprintf("%s  %s", mutedStyle.Render(r.Date.Local().Format("Jan 2 15:04")), strings.Join(metrics, "  ")))
		if r.Data.Notes != "" {
			lines = append(lines, mutedStyle.Render("    "+r.Data.Notes))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewConfirmDelete() string {
	name := ""
	if m.pending != nil {
		name = m.pending.name
	}
	return lipgloss.Place(max(m.width-4, 40), max(m.height-6, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %s?", name)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
