package blocks

import (
	"github.com/julianstephens/routinize/internal/actions"
	"github.com/julianstephens/routinize/internal/cli"
	"github.com/julianstephens/routinize/internal/countdown"
	"github.com/julianstephens/routinize/internal/stats"
)

type BlockSummaryCmd struct{}

func (c *BlockSummaryCmd) Run(ctx *cli.Context) error {
	blocks, err := load(ctx)
	if err != nil {
		return err
	}
	s := stats.SummarizeBlocks(blocks)

	ctx.Println("Today's Progress")
	ctx.Printf("  Completed: %d\n", s.Completed)
	ctx.Printf("  Pending:   %d\n", s.Pending)
	ctx.Printf("  Active:    %d\n", s.Active)
	ctx.Printf("  Total:     %d\n", s.Total)
	ctx.Printf("  Done:      %d%%\n", s.Percent)

	if b, ok := actions.ActiveBlock(blocks); ok {
		ctx.Printf("\nActive: %s (%s)\n", b.Title, countdown.FormatSeconds(b.DurationSeconds()))
	}
	return nil
}
