package routinecard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/routinize/internal/models"
	"github.com/julianstephens/routinize/internal/stats"
)

// CategoryColors maps each routine category to its accent color.
var CategoryColors = map[models.Category]lipgloss.Color{
	models.CategoryMorning: lipgloss.Color("214"),
	models.CategoryWork:    lipgloss.Color("39"),
	models.CategoryHealth:  lipgloss.Color("42"),
	models.CategoryEvening: lipgloss.Color("141"),
}

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	selectedBorder = lipgloss.Color("205")
	nameStyle      = lipgloss.NewStyle().Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	doneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	statusStyles   = map[string]lipgloss.Style{
		"Completed":   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"In Progress": lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		"Ready":       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
)

// Render draws one routine card. Tasks are numbered for toggling.
func Render(r models.Routine, selected bool, width int) string {
	style := cardStyle
	if selected {
		style = style.BorderForeground(selectedBorder)
	}
	if width > 4 {
		style = style.Width(width - 2)
	}

	badge := lipgloss.NewStyle().Foreground(CategoryColors[r.Category]).Render("● " + r.Category.Title())
	header := fmt.Sprintf("%s  %s  %s", nameStyle.Render(r.Name), badge, statusStyles[r.Status()].Render(r.Status()))

	lines := []string{header}
	if r.Description != "" {
		lines = append(lines, mutedStyle.Render(r.Description))
	}
	window := fmt.Sprintf("%d min", r.DurationMin)
	if r.StartTime != "" && r.EndTime != "" {
		window = fmt.Sprintf("%s - %s · %s", r.StartTime, r.EndTime, window)
	}
	lines = append(lines, mutedStyle.Render(window))

	bar := progress.New(progress.WithSolidFill(string(CategoryColors[r.Category])), progress.WithWidth(barWidth(width)))
	lines = append(lines, bar.ViewAs(float64(stats.RoutineCompletion(r))/100))

	if selected {
		for i, t := range r.SortedTasks() {
			mark := "○"
			name := t.Name
			if t.Completed {
				mark = "✓"
				name = doneStyle.Render(name)
			}
			lines = append(lines, fmt.Sprintf("%d %s %s %s", i+1, mark, name, mutedStyle.Render(fmt.Sprintf("%dm", t.DurationMin))))
		}
	}
	return style.Render(strings.Join(lines, "\n"))
}

func barWidth(width int) int {
	if width <= 0 {
		return 40
	}
	if w := width - 6; w > 10 {
		return w
	}
	return 10
}
