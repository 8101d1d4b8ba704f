// Package keyring stores autosend secrets in the OS keyring.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/autosend/internal/constants"
)

var (
	ErrNotFound           = errors.New("secret not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Account names a secret slot under the autosend service.
type Account string

const (
	DatabaseConnection Account = constants.DefaultKeyringUser
	RedisPassword      Account = constants.RedisKeyringUser
)

// Get returns the secret stored for account.
func Get(account Account) (string, error) {
	secret, err := keyring.Get(constants.AppName, string(account))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores secret for account, replacing any existing value.
func Set(account Account, secret string) error {
	if secret == "" {
		return fmt.Errorf("%s secret cannot be empty", account)
	}
	if err := keyring.Set(constants.AppName, string(account), secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", account, err)
	}
	return nil
}

// Delete removes the secret stored for account.
func Delete(account Account) error {
	if err := keyring.Delete(constants.AppName, string(account)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", account, err)
	}
	return nil
}

// ParseAccount maps a user-facing name to an Account.
func ParseAccount(name string) (Account, error) {
	switch name {
	case "db", "database", string(DatabaseConnection):
		return DatabaseConnection, nil
	case "redis", string(RedisPassword):
		return RedisPassword, nil
	default:
		return "", fmt.Errorf("unknown keyring account %q (want db or redis)", name)
	}
}

// IsAvailable reports whether the OS keyring answers requests.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
