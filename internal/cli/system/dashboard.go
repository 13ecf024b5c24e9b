package system

import (
	"strings"

	"github.com/julianstephens/routinize/internal/cli"
	"github.com/julianstephens/routinize/internal/countdown"
	"github.com/julianstephens/routinize/internal/stats"
)

// DashboardCmd prints the overview of the day.
type DashboardCmd struct{}

func (c *DashboardCmd) Run(ctx *cli.Context) error {
	routines, err := cli.Items(ctx.Accessor.Routines.Load(ctx.Ctx()))
	if err != nil {
		return err
	}
	blocks, err := cli.Items(ctx.Accessor.TimeBlocks.Load(ctx.Ctx()))
	if err != nil {
		return err
	}
	records, err := cli.Items(ctx.Accessor.HealthRecords.Load(ctx.Ctx()))
	if err != nil {
		return err
	}
	day := stats.DaySummary(routines, blocks, records)

	ctx.Printf("Routinize · %s\n", ctx.Now().Format("Monday, January 2"))
	ctx.Println(strings.Repeat("─", 40))

	ctx.Printf("Routines      %d/%d completed\n", day.RoutinesCompleted, day.RoutinesTotal)
	if day.ActiveRoutine != nil {
		ctx.Printf("  ▶ %s (%d%%)\n", day.ActiveRoutine.Name, stats.RoutineCompletion(*day.ActiveRoutine))
	}

	ctx.Printf("Time blocks   %d/%d completed (%d%%)\n", day.Blocks.Completed, day.Blocks.Total, day.Blocks.Percent)
	if day.ActiveBlock != nil {
		ctx.Printf("  ▶ %s (%s)\n", day.ActiveBlock.Title, countdown.FormatSeconds(day.ActiveBlock.DurationSeconds()))
	}

	if day.HealthRecords == 0 {
		ctx.Println("Health        no check-ins yet")
	} else {
		ctx.Printf("Health        %d/10 %s\n", day.HealthAverage, day.HealthBand.Label)
	}
	return nil
}
