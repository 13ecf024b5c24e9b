package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/routinize/internal/cli"
	"github.com/julianstephens/routinize/internal/constants"
	"github.com/julianstephens/routinize/internal/seed"
	"github.com/julianstephens/routinize/internal/storage"
)

var collectionKeys = []string{constants.RoutinesKey, constants.HealthRecordsKey, constants.TimeBlocksKey}

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing data before initialization."`
	Seed   bool   `help:"Populate the store with sample routines, time blocks and health records."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Backend.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized routinize storage at: %s\n", ctx.Backend.GetConfigPath())

	if c.Force {
		// Non-file stores keep their schema, so clear the collections instead.
		for _, key := range collectionKeys {
			if err := ctx.Backend.Remove(ctx.Ctx(), key); err != nil {
				return fmt.Errorf("failed to clear %s: %w", key, err)
			}
		}
	}

	if c.Source != "" {
		copied, err := copyFrom(ctx, c.Source)
		if err != nil {
			return fmt.Errorf("failed to copy data from %s: %w", c.Source, err)
		}
		ctx.Printf("Copied %d collection(s) from %s\n", copied, c.Source)
	}

	rewritten, err := ctx.Accessor.Migrate(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to upgrade stored data: %w", err)
	}
	for _, key := range rewritten {
		ctx.Printf("Upgraded %s to format v%d\n", key, constants.CollectionVersion)
	}

	if c.Seed {
		if err := seed.Write(ctx.Ctx(), ctx.Accessor, ctx.Now()); err != nil {
			return fmt.Errorf("failed to write sample data: %w", err)
		}
		ctx.Println("Added sample routines, time blocks and health records")
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	dbPath, ok := ctx.DataFile()
	if !ok {
		return nil
	}
	if c.Source != "" {
		absDB, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDB
		}
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}
	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Backend.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

// copyFrom copies the raw collections of another store. Collections are
// copied as stored and upgraded afterwards by Migrate.
func copyFrom(ctx *cli.Context, source string) (int, error) {
	src, err := cli.NewBackend(source)
	if err != nil {
		return 0, err
	}
	if err := src.Load(); err != nil {
		return 0, err
	}
	defer src.Close()

	copied := 0
	for _, key := range collectionKeys {
		raw, err := src.Get(ctx.Ctx(), key)
		if errors.Is(err, storage.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return copied, err
		}
		if err := ctx.Backend.Set(ctx.Ctx(), key, raw); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}
