package sqlite

import (
	"errors"
	"testing"
	"time"
)

func TestIsTransientErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"constraint", errors.New("UNIQUE constraint failed: dispatch_jobs.id"), false},
		{"busy text", errors.New("SQLITE_BUSY"), true},
		{"locked text", errors.New("database is locked"), true},
		{"table locked", errors.New("database table is locked"), true},
		{"busy code", errors.New("sqlite: (5) database is busy"), true},
		{"short read code", errors.New("sqlite: (522) short read"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransientErr(tt.err); got != tt.want {
				t.Errorf("isTransientErr(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryOp(t *testing.T) {
	fast := retryConfig{maxRetries: 3, baseDelay: time.Millisecond, maxDelay: 5 * time.Millisecond}

	t.Run("succeeds after transient errors", func(t *testing.T) {
		calls := 0
		err := retryOp(fast, func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked")
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Errorf("retryOp() = %v after %d calls", err, calls)
		}
	})

	t.Run("permanent error not retried", func(t *testing.T) {
		calls := 0
		permanent := errors.New("syntax error")
		err := retryOp(fast, func() error {
			calls++
			return permanent
		})
		if !errors.Is(err, permanent) || calls != 1 {
			t.Errorf("retryOp() = %v after %d calls", err, calls)
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := retryOp(fast, func() error {
			calls++
			return errors.New("SQLITE_BUSY")
		})
		if err == nil || calls != fast.maxRetries+1 {
			t.Errorf("retryOp() = %v after %d calls", err, calls)
		}
	})
}

func TestBackoffDelay(t *testing.T) {
	cfg := retryConfig{maxRetries: 5, baseDelay: 10 * time.Millisecond, maxDelay: 40 * time.Millisecond}
	for attempt, floor := range []time.Duration{10, 20, 40, 40} {
		floor *= time.Millisecond
		d := backoffDelay(cfg, attempt)
		if d < floor || d >= floor+cfg.baseDelay {
			t.Errorf("backoffDelay(%d) = %v, want in [%v, %v)", attempt, d, floor, floor+cfg.baseDelay)
		}
	}
}
