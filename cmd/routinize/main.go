package main

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/routinize/internal/cli"
	"github.com/julianstephens/routinize/internal/cli/backups"
	"github.com/julianstephens/routinize/internal/cli/blocks"
	"github.com/julianstephens/routinize/internal/cli/health"
	"github.com/julianstephens/routinize/internal/cli/routines"
	"github.com/julianstephens/routinize/internal/cli/system"
	"github.com/julianstephens/routinize/internal/constants"
	"github.com/julianstephens/routinize/internal/errors"
	"github.com/julianstephens/routinize/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Data file path, redis:// or postgres:// connection string, 'postgres' or 'redis' to read the connection string from the environment or OS keyring, or 'memory'. PostgreSQL connection strings must not embed a password." env:"ROUTINIZE_CONFIG" default:"${default_config}"`
	Debug   bool   `help:"Enable debug logging." env:"ROUTINIZE_DEBUG"`

	Init      system.InitCmd      `cmd:"" help:"Initialize routinize storage."`
	Migrate   system.MigrateCmd   `cmd:"" help:"Upgrade stored collections to the current format."`
	Doctor    system.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Tui       system.TuiCmd       `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Dashboard system.DashboardCmd `cmd:"" help:"Show today's overview."`
	Routine   struct {
		Add      routines.RoutineAddCmd      `cmd:"" help:"Add a routine."`
		List     routines.RoutineListCmd     `cmd:"" help:"List routines." default:"1"`
		Show     routines.RoutineShowCmd     `cmd:"" help:"Show a routine and its tasks."`
		Start    routines.RoutineStartCmd    `cmd:"" help:"Make a routine the active one."`
		Pause    routines.RoutinePauseCmd    `cmd:"" help:"Pause a routine."`
		Complete routines.RoutineCompleteCmd `cmd:"" help:"Mark a routine completed."`
		Delete   routines.RoutineDeleteCmd   `cmd:"" help:"Delete a routine."`
		Task     struct {
			Add    routines.TaskAddCmd    `cmd:"" help:"Add a task to a routine."`
			Toggle routines.TaskToggleCmd `cmd:"" help:"Toggle a task's completion."`
		} `cmd:"" help:"Manage routine tasks."`
	} `cmd:"" help:"Manage routines."`
	Block struct {
		Add     blocks.BlockAddCmd     `cmd:"" help:"Add a time block."`
		List    blocks.BlockListCmd    `cmd:"" help:"List time blocks." default:"1"`
		Start   blocks.BlockStartCmd   `cmd:"" help:"Mark a time block active."`
		Pause   blocks.BlockPauseCmd   `cmd:"" help:"Pause a time block."`
		Stop    blocks.BlockStopCmd    `cmd:"" help:"Complete a time block."`
		Reset   blocks.BlockResetCmd   `cmd:"" help:"Return a time block to pending."`
		Delete  blocks.BlockDeleteCmd  `cmd:"" help:"Delete a time block."`
		Run     blocks.BlockRunCmd     `cmd:"" help:"Run a time block countdown in the foreground."`
		Summary blocks.BlockSummaryCmd `cmd:"" help:"Summarize time block progress."`
	} `cmd:"" help:"Manage time blocks."`
	Health struct {
		Log     health.HealthLogCmd     `cmd:"" help:"Record a health self-check."`
		List    health.HealthListCmd    `cmd:"" help:"List health records." default:"1"`
		Summary health.HealthSummaryCmd `cmd:"" help:"Show the recent health score."`
	} `cmd:"" help:"Track health self-checks."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
		Push    backups.BackupPushCmd    `cmd:"" help:"Upload a backup to S3."`
		Pull    backups.BackupPullCmd    `cmd:"" help:"Download a backup from S3."`
	} `cmd:"" help:"Manage data file backups."`
	Secret struct {
		Set    system.SecretSetCmd    `cmd:"" help:"Store a connection string in the OS keyring."`
		Delete system.SecretDeleteCmd `cmd:"" help:"Remove a stored connection string."`
	} `cmd:"" help:"Manage backend connection strings."`
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily routines, time blocks and health check-ins"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	command := ""
	if ctx.Selected() != nil {
		command = ctx.Selected().Name
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: logDir(CLI.Config),
		Quiet:     command == "tui",
	}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	backend, err := cli.NewBackend(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	defer backend.Close()
	logger.Debug("Using storage", "location", backend.GetConfigPath())

	// init and doctor handle a missing or broken store themselves.
	if command != "init" && command != "doctor" {
		if err := backend.Load(); err != nil {
			_ = backend.Close()
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(cli.NewContext(backend)); err != nil {
		_ = backend.Close()
		errors.Fatal(err)
	}
}

// logDir keeps logs next to a file store, or in the default config directory
// for network backends.
func logDir(config string) string {
	if !strings.Contains(config, "://") && filepath.Ext(config) != "" {
		if path, err := cli.ExpandPath(config); err == nil {
			return filepath.Dir(path)
		}
	}
	dir, _ := cli.ExpandPath(filepath.Dir(constants.DefaultConfigPath))
	return dir
}
