package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/julianstephens/autosend/internal/storage"
	"github.com/julianstephens/autosend/internal/storage/postgres"
	"github.com/julianstephens/autosend/internal/validation"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: errors.New("queue unavailable"), expected: "Error: queue unavailable"},
		{
			name:     "wrapped error",
			err:      fmt.Errorf("failed to enqueue job: %w", errors.New("connection refused")),
			expected: "Error: failed to enqueue job: connection refused",
		},
		{
			name:     "missing row carries a hint",
			err:      fmt.Errorf("failed to get campaign c_1: %w", storage.ErrNotFound),
			expected: "Error: failed to get campaign c_1: not found\n  Hint: check the id with 'autosend workspace show' or 'autosend campaign list'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unknown", errors.New("boom"), ""},
		{"nil", nil, ""},
		{"embedded password", fmt.Errorf("open store: %w", postgres.ErrEmbeddedCredentials), "keyring set db"},
		{"bad conn string", postgres.ErrInvalidConnectionString, "postgres://"},
		{"invalid schedule", fmt.Errorf("save: %w", validation.ErrInvalidSchedule), "schedule validate"},
		{"not found", storage.ErrNotFound, "campaign list"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hint(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("Hint() = %q, want none", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Hint() = %q, want it to mention %q", got, tt.want)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("workspace %s has no settings", "ws_1")
	if got != "Error: workspace ws_1 has no settings" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestFatal(t *testing.T) {
	if os.Getenv("AUTOSEND_TEST_FATAL") == "1" {
		Fatal(errors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "AUTOSEND_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Fatal() did not exit with error: %v", err)
	}
	if exitErr.ExitCode() != 1 {
		t.Errorf("Fatal() exit code = %d, want 1", exitErr.ExitCode())
	}
	if !strings.Contains(stderr.String(), "Error: test error") {
		t.Errorf("Fatal() stderr = %q", stderr.String())
	}
}

func TestFatal_NilError(t *testing.T) {
	if os.Getenv("AUTOSEND_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_NilError")
	cmd.Env = append(os.Environ(), "AUTOSEND_TEST_FATAL_NIL=1")
	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
