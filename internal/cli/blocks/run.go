package blocks

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/julianstephens/routinize/internal/actions"
	"github.com/julianstephens/routinize/internal/cli"
	"github.com/julianstephens/routinize/internal/constants"
	"github.com/julianstephens/routinize/internal/countdown"
	"github.com/julianstephens/routinize/internal/logger"
	"github.com/julianstephens/routinize/internal/models"
)

const barWidth = 30

// BlockRunCmd runs a block's countdown in the terminal. Interrupting pauses
// the block and stores the remaining time for the next run; reaching zero
// completes it.
type BlockRunCmd struct {
	ID       string        `arg:"" help:"Time block id or unique prefix."`
	Interval time.Duration `help:"Tick interval." default:"1s" hidden:""`
}

func (c *BlockRunCmd) Run(ctx *cli.Context) error {
	blocks, err := load(ctx)
	if err != nil {
		return err
	}
	b, err := find(blocks, c.ID)
	if err != nil {
		return err
	}

	interval := c.Interval
	if interval <= 0 {
		interval = constants.TickInterval
	}

	sigCtx, stop := signal.NotifyContext(ctx.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timer := countdown.ForBlock(b)
	interactive := cli.IsTerminal(ctx.Out)
	finished := make(chan countdown.TickResult, 1)

	runner := countdown.NewRunner(timer,
		countdown.WithInterval(interval),
		countdown.OnTick(func(res countdown.TickResult) {
			if res == countdown.Ticked {
				if interactive {
					ctx.Printf("\r%s", progressLine(timer))
				}
				return
			}
			select {
			case finished <- res:
			default:
			}
		}),
	)
	defer runner.Close()

	if !runner.Start(sigCtx) {
		return fmt.Errorf("time block %s has no time to run", b.Title)
	}
	c.persist(ctx, b.ID, actions.StartBlock)
	logger.Info("Time block started", "id", b.ID, "title", b.Title)
	ctx.Printf("▶ %s (%s)\n", b.Title, timer.Format())

	select {
	case res := <-finished:
		if interactive {
			ctx.Println()
		}
		if res == countdown.Expired {
			c.persist(ctx, b.ID, actions.StopBlock)
			logger.Info("Time block completed", "id", b.ID)
			ctx.Printf("✓ %s completed\n", b.Title)
			return nil
		}
		c.persist(ctx, b.ID, pauseAt(timer))
		ctx.Printf("⏸ %s paused\n", b.Title)
	case <-sigCtx.Done():
		runner.Pause()
		if interactive {
			ctx.Println()
		}
		c.persist(ctx, b.ID, pauseAt(timer))
		logger.Info("Time block paused", "id", b.ID, "remaining", timer.Format())
		ctx.Printf("⏸ %s paused with %s remaining\n", b.Title, timer.Format())
	}
	return nil
}

// pauseAt records the timer's remaining time with the pause.
func pauseAt(timer *countdown.Timer) func([]models.TimeBlock, string, time.Time) []models.TimeBlock {
	return func(items []models.TimeBlock, id string, _ time.Time) []models.TimeBlock {
		return actions.PauseBlockAt(items, id, timer.Remaining())
	}
}

// persist detaches from cancellation so an interrupt still records the pause.
func (c *BlockRunCmd) persist(ctx *cli.Context, id string, fn func([]models.TimeBlock, string, time.Time) []models.TimeBlock) {
	now := ctx.Now()
	ctx.Accessor.TimeBlocks.Mutate(context.WithoutCancel(ctx.Ctx()), func(items []models.TimeBlock) []models.TimeBlock {
		return fn(items, id, now)
	})
}

func progressLine(t *countdown.Timer) string {
	filled := int(t.Progress() / 100 * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return fmt.Sprintf("⏱ %s %s %3.0f%%", t.Format(), bar, t.Progress())
}
