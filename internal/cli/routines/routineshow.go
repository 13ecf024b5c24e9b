package routines

import (
	"fmt"

	"github.com/julianstephens/routinize/internal/cli"
	"github.com/julianstephens/routinize/internal/models"
	"github.com/julianstephens/routinize/internal/stats"
)

type RoutineShowCmd struct {
	ID string `arg:"" help:"Routine id or unique prefix."`
}

func (c *RoutineShowCmd) Run(ctx *cli.Context) error {
	routines, err := cli.Items(ctx.Accessor.Routines.Load(ctx.Ctx()))
	if err != nil {
		return err
	}
	r, err := find(routines, c.ID)
	if err != nil {
		return err
	}

	ctx.Printf("%s\n", r.Name)
	ctx.Printf("  ID:        %s\n", r.ID)
	ctx.Printf("  Category:  %s\n", r.Category.Title())
	if r.Description != "" {
		ctx.Printf("  About:     %s\n", r.Description)
	}
	if r.StartTime != "" || r.EndTime != "" {
		ctx.Printf("  Window:    %s - %s\n", r.StartTime, r.EndTime)
	}
	ctx.Printf("  Duration:  %d min\n", r.DurationMin)
	ctx.Printf("  Status:    %s\n", r.Status())

	p := stats.RoutineProgress(r, ctx.Now())
	ctx.Printf("  Progress:  %d%% (%d min done)\n", p.CompletionRate, p.TotalTimeSpent)

	if len(r.Tasks) == 0 {
		ctx.Println("  No tasks.")
		return nil
	}
	ctx.Println("  Tasks:")
	for _, t := range r.SortedTasks() {
		mark := "[ ]"
		if t.Completed {
			mark = "[✓]"
		}
		ctx.Printf("    %s %d. %s (%d min) [%s]\n", mark, t.Order, t.Name, t.DurationMin, cli.ShortID(t.ID))
	}
	return nil
}

func find(routines []models.Routine, ref string) (models.Routine, error) {
	id, err := cli.ResolveID(cli.IDs(routines), ref, "routine")
	if err != nil {
		return models.Routine{}, err
	}
	for _, r := range routines {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Routine{}, fmt.Errorf("routine not found: %s", ref)
}
