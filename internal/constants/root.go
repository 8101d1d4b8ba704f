package constants

import "time"

// ScheduleMode selects how the permitted sending window is derived.
type ScheduleMode string

// CheckReason explains a schedule check outcome.
type CheckReason string

// HolidayPreset names a built-in holiday calendar.
type HolidayPreset string

const (
	AppName            = "autosend"
	DefaultKeyringUser = "database-connection"
	RedisKeyringUser   = "redis-password"
	DefaultConfigPath  = "~/.config/autosend/autosend.db"
	DefaultPolicyPath  = "~/.config/autosend/policy.yaml"
	ConnectionEnvVar   = "AUTOSEND_DB_CONNECTION"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Schedule modes
	ScheduleModeAlways        ScheduleMode = "ALWAYS"
	ScheduleModeBusinessHours ScheduleMode = "BUSINESS_HOURS"
	ScheduleModeCustom        ScheduleMode = "CUSTOM"

	// Schedule check reasons
	ReasonAlways                  CheckReason = "always"
	ReasonWithinWindow            CheckReason = "within_window"
	ReasonOutsideWindow           CheckReason = "outside_window"
	ReasonDayNotActive            CheckReason = "day_not_active"
	ReasonBlackoutDate            CheckReason = "blackout_date"
	ReasonScheduleMissingFallback CheckReason = "schedule_missing_fallback"

	// Holiday presets
	HolidayPresetUSFederalPlusCommon HolidayPreset = "US_FEDERAL_PLUS_COMMON"

	// Custom schedule limits
	CustomScheduleVersion   = 1
	MaxBlackoutDates        = 200
	MaxBlackoutDateRanges   = 50
	MaxBlackoutRangeDays    = 366
	NextWindowLookaheadDays = 90

	// Default schedule values
	DefaultTimezone      = "America/Los_Angeles"
	DefaultWorkStartTime = "09:00"
	DefaultWorkEndTime   = "17:00"

	// Dispatch job statuses
	JobStatusPending = "pending"
	JobStatusDone    = "done"

	// SQLite retry tuning for transient lock errors
	StoreMaxRetries     = 3
	StoreRetryBaseDelay = 50 * time.Millisecond
	StoreRetryMaxDelay  = 500 * time.Millisecond
)

// ParseScheduleMode converts a stored or user-supplied mode into a ScheduleMode.
// Empty input is reported as not ok so callers can fall through layers.
func ParseScheduleMode(s string) (ScheduleMode, bool) {
	switch ScheduleMode(s) {
	case ScheduleModeAlways, ScheduleModeBusinessHours, ScheduleModeCustom:
		return ScheduleMode(s), true
	default:
		return "", false
	}
}
