package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/autosend/internal/backup"
	"github.com/julianstephens/autosend/internal/cli"
	"github.com/julianstephens/autosend/internal/cli/render"
	"github.com/julianstephens/autosend/internal/storage/sqlite"
)

var errBackupUnsupported = errors.New("backups are only supported for the SQLite store")

func backupManager(ctx *cli.Context) (*backup.Manager, error) {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil, errBackupUnsupported
	}
	return backup.NewManager(ctx.Store.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	snap, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.Println(render.Success("Backup created: " + filepath.Base(snap.Path)))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	snaps, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(snaps) == 0 {
		ctx.Println("No backups found.")
	} else {
		ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(snaps), backup.DefaultKeep)
		for _, s := range snaps {
			ctx.Printf("  %s  %s  (%.1f KB)\n", s.Taken.Format("2006-01-02 15:04:05"), filepath.Base(s.Path), float64(s.Size)/1024)
		}
		ctx.Println()
	}
	ctx.Printf("Backup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	File string `arg:"" help:"Path or filename of the backup to restore."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

// resolve accepts a path or a bare filename inside the backup directory.
func (c *BackupRestoreCmd) resolve(mgr *backup.Manager) (string, error) {
	if _, err := os.Stat(c.File); err == nil {
		return filepath.Abs(c.File)
	}
	if !filepath.IsAbs(c.File) {
		candidate := filepath.Join(mgr.Dir(), c.File)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("backup file not found: tried %s and %s", c.File, mgr.Dir())
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	path, err := c.resolve(mgr)
	if err != nil {
		return err
	}

	if !c.Yes {
		ctx.Println(render.Warning("This replaces the current database. Stop any process using it first."))
		confirmed := false
		err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Restore from " + filepath.Base(path) + "?").
				Affirmative("Restore").
				Negative("Cancel").
				Value(&confirmed),
		)).WithTheme(huh.ThemeDracula()).Run()
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		ctx.Println(render.Warning(fmt.Sprintf("failed to close database: %v", err)))
	}
	previous, err := mgr.Restore(path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if previous != nil {
		ctx.Println("Saved current database as: " + filepath.Base(previous.Path))
	}
	ctx.Println(render.Success("Database restored from " + filepath.Base(path)))
	return ctx.Store.Load()
}
