package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/autosend/internal/cli"
	"github.com/julianstephens/autosend/internal/cli/decisions"
	"github.com/julianstephens/autosend/internal/cli/dispatches"
	"github.com/julianstephens/autosend/internal/cli/schedules"
	"github.com/julianstephens/autosend/internal/cli/settings"
	"github.com/julianstephens/autosend/internal/cli/system"
	"github.com/julianstephens/autosend/internal/config"
	"github.com/julianstephens/autosend/internal/constants"
	apperrors "github.com/julianstephens/autosend/internal/errors"
	"github.com/julianstephens/autosend/internal/keyring"
	"github.com/julianstephens/autosend/internal/logger"
	"github.com/julianstephens/autosend/internal/queue/redisqueue"
	"github.com/julianstephens/autosend/internal/storage"
	"github.com/julianstephens/autosend/internal/storage/postgres"
	"github.com/julianstephens/autosend/internal/storage/sqlite"
	"github.com/julianstephens/autosend/internal/utils"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite database path or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded in the connection string; use the OS keyring, AUTOSEND_DB_CONNECTION, or .pgpass instead." type:"string" default:"${config_path}"`
	Policy  string `help:"Autosend policy file." type:"string" default:"${policy_path}"`
	Debug   bool   `help:"Log at debug level and mirror logs to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize storage and write a default policy."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Backup  struct {
		Create  system.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    system.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore system.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage SQLite database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show which secrets are stored." default:"1"`
	} `cmd:"" help:"Manage stored credentials."`

	Workspace struct {
		Set  settings.WorkspaceSetCmd  `cmd:"" help:"Update workspace autosend settings."`
		Show settings.WorkspaceShowCmd `cmd:"" help:"Show workspace autosend settings."`
	} `cmd:"" help:"Manage workspace settings."`
	Campaign struct {
		Set  settings.CampaignSetCmd  `cmd:"" help:"Create or update a campaign's schedule override."`
		Show settings.CampaignShowCmd `cmd:"" help:"Show a campaign."`
		List settings.CampaignListCmd `cmd:"" help:"List a workspace's campaigns."`
	} `cmd:"" help:"Manage campaign overrides."`
	Schedule struct {
		Validate schedules.ValidateCmd `cmd:"" help:"Validate a custom schedule file."`
		Check    schedules.CheckCmd    `cmd:"" help:"Check whether an instant is inside the sending window."`
		Next     schedules.NextCmd     `cmd:"" help:"Find the next sending window."`
		Holidays schedules.HolidaysCmd `cmd:"" help:"List holiday blackout dates for a year."`
		Edit     schedules.EditCmd     `cmd:"" help:"Edit a custom schedule interactively."`
	} `cmd:"" help:"Inspect and edit sending schedules."`
	Dispatch struct {
		Plan dispatches.PlanCmd `cmd:"" help:"Show when a reply would be dispatched."`
		Due  dispatches.DueCmd  `cmd:"" help:"List dispatch jobs that are due."`
		Ack  dispatches.AckCmd  `cmd:"" help:"Mark a dispatch job done."`
	} `cmd:"" help:"Manage delayed dispatch jobs."`
	Decide  decisions.DecideCmd  `cmd:"" help:"Decide whether to auto-send a draft reply."`
	History decisions.HistoryCmd `cmd:"" help:"Show recent autosend decisions."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Autosend decision engine for AI-drafted replies"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
			"policy_path": constants.DefaultPolicyPath,
		},
	)

	policyPath := utils.ExpandHome(CLI.Policy)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(policyPath)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	policy, err := config.Load(policyPath)
	if err != nil {
		apperrors.Fatal(err)
	}

	store, err := openStore(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	appCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cliCtx := &cli.Context{
		Store:      store,
		Policy:     policy,
		PolicyPath: policyPath,
		Ctx:        appCtx,
	}

	if policy.Queue.Backend == config.QueueBackendRedis {
		q, err := openQueue(appCtx, policy.Queue)
		if err != nil {
			apperrors.Fatal(err)
		}
		defer q.Close()
		cliCtx.Queue = q
	}

	// init loads on its own
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	logger.Debug("Running command", "command", ctx.Command())
	if err := ctx.Run(cliCtx); err != nil {
		apperrors.Fatal(err)
	}
}

// openStore picks the storage backend. A PostgreSQL connection string passed
// on the command line must not carry a password; one taken from the
// environment or the keyring may.
func openStore(target string) (storage.Provider, error) {
	if postgres.IsConnString(target) {
		if _, err := postgres.ValidateConnString(target); err != nil {
			return nil, err
		}
		logger.Debug("Using PostgreSQL store", "source", "flag")
		return postgres.New(target), nil
	}

	if target == constants.DefaultConfigPath {
		if conn := os.Getenv(constants.ConnectionEnvVar); conn != "" {
			logger.Debug("Using PostgreSQL store", "source", "env")
			return postgres.New(conn), nil
		}
		conn, err := keyring.Get(keyring.DatabaseConnection)
		switch {
		case err == nil && conn != "":
			logger.Debug("Using PostgreSQL store", "source", "keyring")
			return postgres.New(conn), nil
		case err != nil && !errors.Is(err, keyring.ErrNotFound):
			logger.Warn("Keyring lookup failed, falling back to SQLite", "error", err)
		}
	}

	path := utils.ExpandHome(target)
	logger.Debug("Using SQLite store", "path", path)
	return sqlite.NewStore(path), nil
}

func openQueue(ctx context.Context, qp config.QueuePolicy) (*redisqueue.Queue, error) {
	opts := &redis.Options{Addr: qp.RedisAddr, DB: qp.RedisDB}
	password, err := keyring.Get(keyring.RedisPassword)
	switch {
	case err == nil:
		opts.Password = password
	case !errors.Is(err, keyring.ErrNotFound):
		logger.Warn("Keyring lookup failed, connecting to Redis without a password", "error", err)
	}

	q := redisqueue.New(opts, qp.Namespace)
	if err := q.Ping(ctx); err != nil {
		_ = q.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", qp.RedisAddr, err)
	}
	logger.Debug("Using Redis dispatch queue", "addr", qp.RedisAddr, "namespace", qp.Namespace)
	return q, nil
}
