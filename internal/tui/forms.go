package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/routinize/internal/constants"
	"github.com/julianstephens/routinize/internal/models"
	"github.com/julianstephens/routinize/internal/stats"
	"github.com/julianstephens/routinize/internal/tui/components/dashboard"
)

// HealthFormModel backs the check-in form.
type HealthFormModel struct {
	Check models.HealthCheck
}

// BlockFormModel backs the add block form.
type BlockFormModel struct {
	Title    string
	Duration string
	Notes    string
}

// metricOptions lists 1-10, colored by slider band.
func metricOptions() []huh.Option[int] {
	opts := make([]huh.Option[int], 0, constants.MetricMax)
	for v := constants.MetricMin; v <= constants.MetricMax; v++ {
		color := dashboard.BandColors[stats.SliderBand(v)]
		label := lipgloss.NewStyle().Foreground(color).Render(strconv.Itoa(v))
		opts = append(opts, huh.NewOption(label, v))
	}
	return opts
}

func metricSelect(title string, value *int) *huh.Select[int] {
	return huh.NewSelect[int]().
		Title(title).
		Options(metricOptions()...).
		Inline(true).
		Value(value)
}

// NewHealthForm creates the daily health check-in form
func NewHealthForm(fm *HealthFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			metricSelect("Hydration", &fm.Check.Hydration),
			metricSelect("Energy", &fm.Check.Energy),
			metricSelect("Focus", &fm.Check.Focus),
			metricSelect("Mood", &fm.Check.Mood),
			huh.NewText().
				Title("Notes").
				Value(&fm.Check.Notes),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewBlockForm creates the add time block form
func NewBlockForm(fm *BlockFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Duration (min)").
				Value(&fm.Duration).
				Validate(func(s string) error {
					d, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || d <= 0 {
						return fmt.Errorf("duration must be a positive number")
					}
					return nil
				}),
			huh.NewInput().
				Title("Notes").
				Value(&fm.Notes),
		),
	).WithTheme(huh.ThemeDracula())
}
