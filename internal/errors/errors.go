package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/keyring"
	"github.com/julianstephens/autosend/internal/logger"
	"github.com/julianstephens/autosend/internal/storage"
	"github.com/julianstephens/autosend/internal/storage/postgres"
	"github.com/julianstephens/autosend/internal/validation"
)

// hints are matched in order against the error chain.
var hints = []struct {
	target error
	hint   string
}{
	{postgres.ErrEmbeddedCredentials, "store the connection string with 'autosend keyring set db' or export " + constants.ConnectionEnvVar},
	{postgres.ErrInvalidConnectionString, "use postgres://user@host:5432/db or a key=value DSN"},
	{keyring.ErrKeyringUnavailable, "no OS keyring found; export " + constants.ConnectionEnvVar + " instead"},
	{validation.ErrInvalidSchedule, "fix the fields above and check the file with 'autosend schedule validate'"},
	{storage.ErrNotFound, "check the id with 'autosend workspace show' or 'autosend campaign list'"},
}

// Hint returns a suggested next step for known errors, or "".
func Hint(err error) string {
	for _, h := range hints {
		if errors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Format formats an error message with a consistent "Error: " prefix,
// followed by a hint line for known errors.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\n  Hint: " + hint
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
