package system

import (
	"fmt"

	"github.com/julianstephens/routinize/internal/cli"
	"github.com/julianstephens/routinize/internal/constants"
)

// MigrateCmd rewrites legacy or partially invalid collections in the current
// format. Records that cannot be read are dropped.
type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	rewritten, err := ctx.Accessor.Migrate(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if len(rewritten) == 0 {
		ctx.Println("✓ All collections are up to date")
		return nil
	}
	for _, key := range rewritten {
		ctx.Printf("✓ Rewrote %s as format v%d\n", key, constants.CollectionVersion)
	}
	return nil
}
