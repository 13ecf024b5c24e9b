package routines

import (
	"fmt"
	"time"

	"github.com/julianstephens/routinize/internal/actions"
	"github.com/julianstephens/routinize/internal/cli"
	"github.com/julianstephens/routinize/internal/models"
)

type transition func([]models.Routine, string, time.Time) []models.Routine

func apply(ctx *cli.Context, ref string, fn transition) (models.Routine, error) {
	routines, err := cli.Items(ctx.Accessor.Routines.Load(ctx.Ctx()))
	if err != nil {
		return models.Routine{}, err
	}
	r, err := find(routines, ref)
	if err != nil {
		return models.Routine{}, err
	}
	now := ctx.Now()
	ctx.Accessor.Routines.Mutate(ctx.Ctx(), func(items []models.Routine) []models.Routine {
		return fn(items, r.ID, now)
	})
	return r, nil
}

type RoutineStartCmd struct {
	ID string `arg:"" help:"Routine id or unique prefix."`
}

func (c *RoutineStartCmd) Run(ctx *cli.Context) error {
	r, err := apply(ctx, c.ID, actions.StartRoutine)
	if err != nil {
		return err
	}
	if r.Completed {
		ctx.Printf("Routine %s is already completed.\n", r.Name)
		return nil
	}
	ctx.Printf("Started routine: %s\n", r.Name)
	return nil
}

type RoutinePauseCmd struct {
	ID string `arg:"" help:"Routine id or unique prefix."`
}

func (c *RoutinePauseCmd) Run(ctx *cli.Context) error {
	r, err := apply(ctx, c.ID, actions.PauseRoutine)
	if err != nil {
		return err
	}
	ctx.Printf("Paused routine: %s\n", r.Name)
	return nil
}

type RoutineCompleteCmd struct {
	ID string `arg:"" help:"Routine id or unique prefix."`
}

func (c *RoutineCompleteCmd) Run(ctx *cli.Context) error {
	r, err := apply(ctx, c.ID, actions.CompleteRoutine)
	if err != nil {
		return err
	}
	ctx.Printf("Completed routine: %s\n", r.Name)
	return nil
}

type RoutineDeleteCmd struct {
	ID string `arg:"" help:"Routine id or unique prefix."`
}

func (c *RoutineDeleteCmd) Run(ctx *cli.Context) error {
	routines, err := cli.Items(ctx.Accessor.Routines.Load(ctx.Ctx()))
	if err != nil {
		return err
	}
	r, err := find(routines, c.ID)
	if err != nil {
		return err
	}
	if !ctx.Accessor.Routines.Delete(ctx.Ctx(), r.ID) {
		return fmt.Errorf("failed to delete routine: %s", r.Name)
	}
	ctx.Printf("Deleted routine: %s\n", r.Name)
	return nil
}
