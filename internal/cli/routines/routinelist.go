package routines

import (
	"github.com/julianstephens/routinize/internal/actions"
	"github.com/julianstephens/routinize/internal/cli"
	"github.com/julianstephens/routinize/internal/stats"
)

type RoutineListCmd struct {
	Category string `short:"c" help:"Filter by category (all|morning|work|health|evening)." default:"all"`
}

func (c *RoutineListCmd) Run(ctx *cli.Context) error {
	all, err := cli.Items(ctx.Accessor.Routines.Load(ctx.Ctx()))
	if err != nil {
		return err
	}
	routines := actions.FilterByCategory(all, c.Category)

	if len(routines) == 0 {
		ctx.Println("No routines found.")
		return nil
	}

	for _, r := range routines {
		ctx.Printf("%s  %-24s %-8s %3d min  %3d%%  %s\n",
			cli.ShortID(r.ID), r.Name, r.Category.Title(), r.DurationMin, stats.RoutineCompletion(r), r.Status())
		if drift := r.TaskDurationDrift(); drift != 0 && len(r.Tasks) > 0 {
			ctx.Printf("          ⚠ duration differs from task total by %+d min\n", drift)
		}
	}
	return nil
}
