package blocks

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/routinize/internal/actions"
	"github.com/julianstephens/routinize/internal/cli"
	"github.com/julianstephens/routinize/internal/countdown"
	"github.com/julianstephens/routinize/internal/models"
)

func load(ctx *cli.Context) ([]models.TimeBlock, error) {
	return cli.Items(ctx.Accessor.TimeBlocks.Load(ctx.Ctx()))
}

func find(blocks []models.TimeBlock, ref string) (models.TimeBlock, error) {
	id, err := cli.ResolveID(cli.IDs(blocks), ref, "time block")
	if err != nil {
		return models.TimeBlock{}, err
	}
	for _, b := range blocks {
		if b.ID == id {
			return b, nil
		}
	}
	return models.TimeBlock{}, fmt.Errorf("time block not found: %s", ref)
}

func apply(ctx *cli.Context, ref string, fn func([]models.TimeBlock, string, time.Time) []models.TimeBlock) (models.TimeBlock, error) {
	blocks, err := load(ctx)
	if err != nil {
		return models.TimeBlock{}, err
	}
	b, err := find(blocks, ref)
	if err != nil {
		return models.TimeBlock{}, err
	}
	now := ctx.Now()
	ctx.Accessor.TimeBlocks.Mutate(ctx.Ctx(), func(items []models.TimeBlock) []models.TimeBlock {
		return fn(items, b.ID, now)
	})
	return b, nil
}

type BlockAddCmd struct {
	Title    string `arg:"" help:"Block title."`
	Duration int    `short:"d" help:"Duration in minutes." required:""`
	Notes    string `short:"n" help:"Optional notes."`
}

func (c *BlockAddCmd) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("block title is required")
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be greater than zero")
	}
	return nil
}

func (c *BlockAddCmd) Run(ctx *cli.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}
	b := actions.NewTimeBlock(c.Title, c.Duration, c.Notes)
	ctx.Accessor.TimeBlocks.Add(ctx.Ctx(), b)
	ctx.Printf("Added time block: %s (%s) [%s]\n", b.Title, countdown.FormatSeconds(b.DurationSeconds()), cli.ShortID(b.ID))
	return nil
}

type BlockListCmd struct {
	Status string `short:"s" help:"Filter by status (all|pending|active|completed)." enum:"all,pending,active,completed" default:"all"`
}

func (c *BlockListCmd) Run(ctx *cli.Context) error {
	blocks, err := load(ctx)
	if err != nil {
		return err
	}

	shown := 0
	for _, b := range blocks {
		if c.Status != "" && c.Status != "all" && string(b.Status()) != c.Status {
			continue
		}
		shown++
		ctx.Printf("%s  %-28s %8s  %s\n", cli.ShortID(b.ID), b.Title, countdown.FormatSeconds(b.DurationSeconds()), b.Label())
		if b.Notes != "" {
			ctx.Printf("          %s\n", b.Notes)
		}
	}
	if shown == 0 {
		ctx.Println("No time blocks found.")
	}
	return nil
}

type BlockStartCmd struct {
	ID string `arg:"" help:"Time block id or unique prefix."`
}

func (c *BlockStartCmd) Run(ctx *cli.Context) error {
	b, err := apply(ctx, c.ID, actions.StartBlock)
	if err != nil {
		return err
	}
	ctx.Printf("Started time block: %s\n", b.Title)
	return nil
}

type BlockPauseCmd struct {
	ID string `arg:"" help:"Time block id or unique prefix."`
}

func (c *BlockPauseCmd) Run(ctx *cli.Context) error {
	b, err := apply(ctx, c.ID, func(items []models.TimeBlock, id string, _ time.Time) []models.TimeBlock {
		return actions.PauseBlock(items, id)
	})
	if err != nil {
		return err
	}
	ctx.Printf("Paused time block: %s\n", b.Title)
	return nil
}

type BlockStopCmd struct {
	ID string `arg:"" help:"Time block id or unique prefix."`
}

func (c *BlockStopCmd) Run(ctx *cli.Context) error {
	b, err := apply(ctx, c.ID, actions.StopBlock)
	if err != nil {
		return err
	}
	ctx.Printf("Completed time block: %s\n", b.Title)
	return nil
}

type BlockResetCmd struct {
	ID string `arg:"" help:"Time block id or unique prefix."`
}

func (c *BlockResetCmd) Run(ctx *cli.Context) error {
	b, err := apply(ctx, c.ID, func(items []models.TimeBlock, id string, _ time.Time) []models.TimeBlock {
		return actions.ResetBlock(items, id)
	})
	if err != nil {
		return err
	}
	ctx.Printf("Reset time block: %s\n", b.Title)
	return nil
}

type BlockDeleteCmd struct {
	ID string `arg:"" help:"Time block id or unique prefix."`
}

func (c *BlockDeleteCmd) Run(ctx *cli.Context) error {
	blocks, err := load(ctx)
	if err != nil {
		return err
	}
	b, err := find(blocks, c.ID)
	if err != nil {
		return err
	}
	if !ctx.Accessor.TimeBlocks.Delete(ctx.Ctx(), b.ID) {
		return fmt.Errorf("failed to delete time block: %s", b.Title)
	}
	ctx.Printf("Deleted time block: %s\n", b.Title)
	return nil
}
