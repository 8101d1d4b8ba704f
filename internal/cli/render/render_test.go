package render

import (
	"strings"
	"testing"
	"time"
)

func TestKVAlignsValues(t *testing.T) {
	out := KV(P("Mode", "CUSTOM"), P("Timezone", "UTC"), P("Holidays", ""))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %q", len(lines), out)
	}

	col := strings.Index(lines[0], "CUSTOM")
	if col < 0 || strings.Index(lines[1], "UTC") != col {
		t.Errorf("values not aligned:\n%s", out)
	}
	if !strings.HasSuffix(lines[2], "-") {
		t.Errorf("empty value not rendered as '-': %q", lines[2])
	}
}

func TestTime(t *testing.T) {
	instant := time.Date(2026, 1, 12, 17, 0, 0, 0, time.UTC)

	tests := []struct {
		tz   string
		want string
	}{
		{"", "2026-01-12T17:00:00Z"},
		{"UTC", "2026-01-12T17:00:00Z"},
		{"Not/AZone", "2026-01-12T17:00:00Z"},
		{"America/Los_Angeles", "2026-01-12T17:00:00Z (Mon 2026-01-12 09:00 America/Los_Angeles)"},
	}
	for _, tt := range tests {
		if got := Time(instant, tt.tz); got != tt.want {
			t.Errorf("Time(%q) = %q, want %q", tt.tz, got, tt.want)
		}
	}
	if got := Time(time.Time{}, "UTC"); got != "" {
		t.Errorf("Time(zero) = %q", got)
	}
}

func TestMessagesCarryText(t *testing.T) {
	for _, s := range []string{Success("saved"), Warning("saved"), Danger("saved"), Title("saved")} {
		if !strings.Contains(s, "saved") {
			t.Errorf("rendered %q lost its text", s)
		}
	}
}
