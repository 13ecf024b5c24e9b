package dashboard

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/routinize/internal/stats"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Width(26)
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// BandColors maps score colors to terminal colors.
var BandColors = map[stats.Color]lipgloss.Color{
	stats.Green:  lipgloss.Color("42"),
	stats.Yellow: lipgloss.Color("220"),
	stats.Red:    lipgloss.Color("196"),
}

// Render draws the day overview. countdown is the rendered active time block
// timer, if any.
func Render(day stats.Day, now time.Time, countdown string) string {
	routines := panel("Routines",
		fmt.Sprintf("%d/%d", day.RoutinesCompleted, day.RoutinesTotal),
		"completed today")
	if day.ActiveRoutine != nil {
		routines = panel("Routines",
			fmt.Sprintf("%d/%d", day.RoutinesCompleted, day.RoutinesTotal),
			"▶ "+day.ActiveRoutine.Name)
	}

	blocks := panel("Time Blocks",
		fmt.Sprintf("%d%%", day.Blocks.Percent),
		fmt.Sprintf("%d of %d done", day.Blocks.Completed, day.Blocks.Total))

	health := panel("Health", "—", "no check-ins yet")
	if day.HealthRecords > 0 {
		band := lipgloss.NewStyle().Foreground(BandColors[day.HealthBand.Color]).Render(day.HealthBand.Label)
		health = panel("Health", fmt.Sprintf("%d/10", day.HealthAverage), band)
	}

	sections := []string{
		titleStyle.Render("Routinize") + "  " + dateStyle.Render(now.Format("Monday, January 2")),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, routines, blocks, health),
	}
	if day.ActiveBlock != nil {
		sections = append(sections, "", labelStyle.Render("Focus: ")+valueStyle.Render(day.ActiveBlock.Title))
		if countdown != "" {
			sections = append(sections, countdown)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func panel(title, value, caption string) string {
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render(title),
		valueStyle.Render(value),
		labelStyle.Render(caption),
	))
}
