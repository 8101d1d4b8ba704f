package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{
			name:     "empty string is rejected",
			timezone: "",
			wantErr:  true,
		},
		{
			name:     "Local is rejected",
			timezone: "Local",
			wantErr:  true,
		},
		{
			name:     "valid timezone UTC",
			timezone: "UTC",
			wantErr:  false,
		},
		{
			name:     "valid timezone America/New_York",
			timezone: "America/New_York",
			wantErr:  false,
		},
		{
			name:     "invalid timezone",
			timezone: "Invalid/Timezone",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestIsValidTimezone(t *testing.T) {
	if !IsValidTimezone("Europe/London") {
		t.Error("Europe/London should be valid")
	}
	if IsValidTimezone("Mars/Olympus_Mons") {
		t.Error("Mars/Olympus_Mons should be invalid")
	}
	if IsValidTimezone("") {
		t.Error("empty timezone should be invalid")
	}
}

func TestParseTimeToMinutes(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeToMinutes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeToMinutes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseTimeToMinutes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateKey(t *testing.T) {
	got, err := DateKey("2026-11-26")
	if err != nil {
		t.Fatalf("DateKey failed: %v", err)
	}
	if got != 20261126 {
		t.Errorf("DateKey = %d, want 20261126", got)
	}

	if _, err := DateKey("2026-02-30"); err == nil {
		t.Error("expected error for impossible date")
	}
	if _, err := DateKey("2026-1-5"); err == nil {
		t.Error("expected error for unpadded date")
	}
}

func TestAddDays(t *testing.T) {
	y, m, d, wd := AddDays(2026, time.December, 30, 3)
	if y != 2027 || m != time.January || d != 2 {
		t.Errorf("AddDays = %d-%d-%d, want 2027-1-2", y, m, d)
	}
	if wd != time.Saturday {
		t.Errorf("weekday = %v, want Saturday", wd)
	}
}

func TestPartsIn(t *testing.T) {
	ny, err := LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	// 2026-01-05T03:30Z is still Sunday evening in New York.
	p := PartsIn(time.Date(2026, 1, 5, 3, 30, 0, 0, time.UTC), ny)
	if p.Date() != "2026-01-04" || p.Weekday != time.Sunday || p.Hour != 22 || p.Minute != 30 {
		t.Errorf("PartsIn = %+v", p)
	}
}

func TestZonedInstant(t *testing.T) {
	ny, _ := LoadLocation("America/New_York")
	tokyo, _ := LoadLocation("Asia/Tokyo")

	tests := []struct {
		name string
		got  time.Time
		want time.Time
	}{
		{
			name: "UTC is identity",
			got:  ZonedInstant(2026, time.January, 6, 9, 0, time.UTC),
			want: time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "winter offset",
			got:  ZonedInstant(2026, time.January, 6, 9, 0, ny),
			want: time.Date(2026, 1, 6, 14, 0, 0, 0, time.UTC),
		},
		{
			name: "summer offset",
			got:  ZonedInstant(2026, time.July, 6, 9, 0, ny),
			want: time.Date(2026, 7, 6, 13, 0, 0, 0, time.UTC),
		},
		{
			name: "day after spring forward",
			got:  ZonedInstant(2026, time.March, 9, 9, 0, ny),
			want: time.Date(2026, 3, 9, 13, 0, 0, 0, time.UTC),
		},
		{
			name: "inside spring forward gap",
			got:  ZonedInstant(2026, time.March, 8, 2, 30, ny),
			want: time.Date(2026, 3, 8, 7, 30, 0, 0, time.UTC),
		},
		{
			name: "ambiguous fall back hour picks earlier instant",
			got:  ZonedInstant(2026, time.November, 1, 1, 30, ny),
			want: time.Date(2026, 11, 1, 5, 30, 0, 0, time.UTC),
		},
		{
			name: "positive offset crosses date line",
			got:  ZonedInstant(2026, time.January, 6, 8, 0, tokyo),
			want: time.Date(2026, 1, 5, 23, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equal(tt.want) {
				t.Errorf("ZonedInstant = %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestNthWeekdayOfMonth(t *testing.T) {
	// Thanksgiving 2026: fourth Thursday of November.
	if d := NthWeekdayOfMonth(2026, time.November, time.Thursday, 4); d != 26 {
		t.Errorf("4th Thursday of Nov 2026 = %d, want 26", d)
	}
	// Memorial Day 2026: last Monday of May.
	if d := LastWeekdayOfMonth(2026, time.May, time.Monday); d != 25 {
		t.Errorf("last Monday of May 2026 = %d, want 25", d)
	}
	// Month starting on the target weekday.
	if d := NthWeekdayOfMonth(2026, time.June, time.Monday, 1); d != 1 {
		t.Errorf("1st Monday of June 2026 = %d, want 1", d)
	}
}
