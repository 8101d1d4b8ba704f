package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/autosend/internal/cli"
	"github.com/julianstephens/autosend/internal/cli/render"
	"github.com/julianstephens/autosend/internal/keyring"
	"github.com/julianstephens/autosend/internal/storage/postgres"
)

// KeyringSetCmd stores a secret in the OS keyring
type KeyringSetCmd struct {
	Account string `arg:"" enum:"db,redis" help:"Secret to store: db (PostgreSQL connection string) or redis (password)."`
	Secret  string `arg:"" help:"Secret value."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	account, err := keyring.ParseAccount(cmd.Account)
	if err != nil {
		return err
	}

	if account == keyring.DatabaseConnection {
		if !postgres.IsConnString(cmd.Secret) {
			return errors.New("connection string must be a valid PostgreSQL connection string")
		}
		if _, err := postgres.ValidateConnString(cmd.Secret); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			// the keyring is encrypted, so embedded credentials are acceptable here
			ctx.Println(render.Warning("Connection string contains embedded credentials; storing it in the OS keyring as-is."))
		}
	}

	if err := keyring.Set(account, cmd.Secret); err != nil {
		return err
	}
	ctx.Println(render.Success(fmt.Sprintf("Stored %s secret in OS keyring", account)))
	return nil
}

// KeyringDeleteCmd removes a secret from the OS keyring
type KeyringDeleteCmd struct {
	Account string `arg:"" enum:"db,redis" help:"Secret to delete: db or redis."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	account, err := keyring.ParseAccount(cmd.Account)
	if err != nil {
		return err
	}
	if err := keyring.Delete(account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s secret found in keyring", account)
		}
		return err
	}
	ctx.Println(render.Success(fmt.Sprintf("Deleted %s secret from OS keyring", account)))
	return nil
}

// KeyringStatusCmd reports keyring availability and which secrets are stored
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println(render.Danger("OS keyring is not available on this system"))
		return keyring.ErrKeyringUnavailable
	}
	ctx.Println(render.Success("OS keyring is available"))
	for _, account := range []keyring.Account{keyring.DatabaseConnection, keyring.RedisPassword} {
		_, err := keyring.Get(account)
		ctx.Print(render.KV(render.P(string(account), render.Verdict(err == nil, "stored", "not stored"))))
	}
	return nil
}
