package backups

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/routinize/internal/backup"
	"github.com/julianstephens/routinize/internal/cli"
	"github.com/julianstephens/routinize/internal/constants"
)

// newRemote is replaced in tests.
var newRemote = backup.NewRemote

func manager(ctx *cli.Context) (*backup.Manager, error) {
	path, ok := ctx.DataFile()
	if !ok {
		return nil, fmt.Errorf("backups are only available for SQLite and JSON stores (current: %s)", ctx.Backend.GetConfigPath())
	}
	return backup.NewManager(path), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		ctx.Printf("  %s  %s  (%.1f KB)\n", b.Timestamp.Format("2006-01-02 15:04:05"), b.Name(), sizeKB)
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}

	backupPath := mgr.Resolve(c.BackupFile)
	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("backup file not found: %s", backupPath)
	}

	if !c.Yes {
		ctx.Println("⚠️  WARNING: This will replace your current data with the backup.")
		ctx.Println("⚠️  IMPORTANT: Stop any other routinize processes (including the TUI) first.")
		ctx.Println("A backup of your current data will be created before restoring.")
		ctx.Printf("\nRestore from: %s\n", backupPath)
		ctx.Printf("Continue? [y/N]: ")

		response, err := bufio.NewReader(ctx.In).ReadString('\n')
		if err != nil && response == "" {
			return err
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Backend.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
	}

	safety, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	if safety != "" {
		ctx.Printf("Previous data saved as %s\n", filepath.Base(safety))
	}
	ctx.Println("✓ Data restored successfully!")
	return nil
}

type BackupPushCmd struct {
	BackupFile string `arg:"" optional:"" help:"Backup to upload. A fresh backup is created when omitted."`
	Bucket     string `help:"S3 bucket." env:"ROUTINIZE_S3_BUCKET"`
}

func (c *BackupPushCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	remote, err := newRemote(ctx.Ctx(), c.Bucket)
	if err != nil {
		return err
	}

	var backupPath string
	if c.BackupFile == "" {
		if backupPath, err = mgr.CreateBackup(); err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
	} else {
		backupPath = mgr.Resolve(c.BackupFile)
	}

	key, err := remote.Push(ctx.Ctx(), backupPath)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Uploaded %s to s3://%s/%s\n", filepath.Base(backupPath), c.Bucket, key)
	return nil
}

type BackupPullCmd struct {
	Name   string `arg:"" help:"Backup file name in the bucket."`
	Bucket string `help:"S3 bucket." env:"ROUTINIZE_S3_BUCKET"`
}

func (c *BackupPullCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	remote, err := newRemote(ctx.Ctx(), c.Bucket)
	if err != nil {
		return err
	}

	path, err := remote.Pull(ctx.Ctx(), c.Name, mgr.GetBackupDir())
	if err != nil {
		return err
	}
	if err := mgr.Verify(path); err != nil {
		return fmt.Errorf("downloaded backup is invalid: %w", err)
	}
	ctx.Printf("✓ Downloaded %s\n", path)
	ctx.Printf("Restore it with: routinize backup restore %s\n", filepath.Base(path))
	return nil
}
