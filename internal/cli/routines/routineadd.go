package routines

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/routinize/internal/actions"
	"github.com/julianstephens/routinize/internal/cli"
	"github.com/julianstephens/routinize/internal/constants"
	"github.com/julianstephens/routinize/internal/models"
)

type RoutineAddCmd struct {
	Name        string `arg:"" help:"Routine name."`
	Category    string `short:"c" help:"Category (morning|work|health|evening)." required:""`
	Description string `short:"D" help:"Short description."`
	Duration    int    `short:"d" help:"Planned duration in minutes." default:"0"`
	Start       string `short:"s" help:"Start time (HH:MM)."`
	End         string `short:"e" help:"End time (HH:MM)."`
}

func (c *RoutineAddCmd) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("routine name is required")
	}
	if _, err := models.ParseCategory(c.Category); err != nil {
		return err
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative")
	}
	for _, t := range []string{c.Start, c.End} {
		if t == "" {
			continue
		}
		if _, err := time.Parse(constants.TimeFormat, t); err != nil {
			return fmt.Errorf("invalid time %q (expected HH:MM)", t)
		}
	}
	return nil
}

func (c *RoutineAddCmd) Run(ctx *cli.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}
	category, _ := models.ParseCategory(c.Category)

	routine := actions.NewRoutine(c.Name, c.Description, category, c.Duration, c.Start, c.End, ctx.Now())
	if err := routine.Validate(); err != nil {
		return fmt.Errorf("invalid routine: %w", err)
	}
	ctx.Accessor.Routines.Add(ctx.Ctx(), routine)

	ctx.Printf("Added routine: %s (%s) [%s]\n", routine.Name, category.Title(), cli.ShortID(routine.ID))
	return nil
}
