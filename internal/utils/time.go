package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/julianstephens/autosend/internal/constants"
)

var (
	clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// LocalParts is a wall-clock reading of an instant in a timezone.
type LocalParts struct {
	Year    int
	Month   time.Month
	Day     int
	Weekday time.Weekday
	Hour    int
	Minute  int
}

// Date returns the YYYY-MM-DD form of the local calendar day.
func (p LocalParts) Date() string {
	return FormatDate(p.Year, p.Month, p.Day)
}

// LoadLocation loads a timezone location from an IANA timezone name.
// Unlike time.LoadLocation it rejects the empty string and "Local", since
// stored schedules must name a real zone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return nil, fmt.Errorf("timezone %q is not an IANA zone name", timezone)
	}
	return time.LoadLocation(timezone)
}

// IsValidTimezone reports whether the name loads as a zone and the current
// instant can be rendered in it. It never panics.
func IsValidTimezone(timezone string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	loc, err := LoadLocation(timezone)
	if err != nil {
		return false
	}
	return time.Now().In(loc).Format(time.RFC3339) != ""
}

// PartsIn converts an instant to wall-clock parts in the location.
func PartsIn(t time.Time, loc *time.Location) LocalParts {
	local := t.In(loc)
	return LocalParts{
		Year:    local.Year(),
		Month:   local.Month(),
		Day:     local.Day(),
		Weekday: local.Weekday(),
		Hour:    local.Hour(),
		Minute:  local.Minute(),
	}
}

// ValidateTimeFormat checks if the string is a 24h HH:MM clock time.
func ValidateTimeFormat(timeStr string) bool {
	return clockPattern.MatchString(timeStr)
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	m := clockPattern.FindStringSubmatch(timeStr)
	if m == nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	return h*60 + mins, nil
}

// ParseDate parses a strict YYYY-MM-DD calendar date.
func ParseDate(dateStr string) (time.Time, error) {
	if !datePattern.MatchString(dateStr) {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", dateStr)
	}
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	return t, nil
}

// ValidateDateFormat checks if the string is a real YYYY-MM-DD date.
func ValidateDateFormat(dateStr string) bool {
	_, err := ParseDate(dateStr)
	return err == nil
}

// DateKey converts YYYY-MM-DD into the integer YYYYMMDD used for range comparisons.
func DateKey(dateStr string) (int, error) {
	t, err := ParseDate(dateStr)
	if err != nil {
		return 0, err
	}
	return t.Year()*10000 + int(t.Month())*100 + t.Day(), nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(year int, month time.Month, day int) string {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(constants.DateFormat)
}

// AddDays shifts a calendar date by n days. Arithmetic happens at UTC noon
// so it is unaffected by DST in any zone.
func AddDays(year int, month time.Month, day, n int) (int, time.Month, int, time.Weekday) {
	t := time.Date(year, month, day+n, 12, 0, 0, 0, time.UTC)
	return t.Year(), t.Month(), t.Day(), t.Weekday()
}

// ZonedInstant returns the instant at which the wall clock in loc reads the
// given local date and time. Inside a DST gap the wall time is pushed forward
// by the length of the gap; in an overlap the earlier instant is used.
func ZonedInstant(year int, month time.Month, day, hour, minute int, loc *time.Location) time.Time {
	// Guess as if the wall clock were UTC, then correct by the zone offset
	// observed at the guess until the reading settles.
	want := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	guess := want
	for i := 0; i < 3; i++ {
		local := guess.In(loc)
		seen := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), 0, 0, time.UTC)
		diff := want.Sub(seen)
		if diff == 0 {
			break
		}
		guess = guess.Add(diff)
	}
	return guess.UTC()
}
