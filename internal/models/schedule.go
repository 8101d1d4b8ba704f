package models

import (
	"time"

	"github.com/julianstephens/autosend/internal/constants"
)

// ScheduleConfig is the merged schedule configuration for one lead.
type ScheduleConfig struct {
	Mode           constants.ScheduleMode `json:"mode"`
	Timezone       string                 `json:"timezone"`        // IANA timezone name, already validated
	WorkStartTime  string                 `json:"work_start_time"` // HH:MM, used by BUSINESS_HOURS
	WorkEndTime    string                 `json:"work_end_time"`   // HH:MM, used by BUSINESS_HOURS
	CustomSchedule *CustomSchedule        `json:"custom_schedule,omitempty"`
}

// CustomSchedule is the persisted CUSTOM mode window definition.
type CustomSchedule struct {
	Version   int            `json:"version"`
	Days      []int          `json:"days"` // 0=Sunday .. 6=Saturday
	StartTime string         `json:"startTime"`
	EndTime   string         `json:"endTime"`
	Timezone  string         `json:"timezone,omitempty"`
	Holidays  *HolidayConfig `json:"holidays,omitempty"`
}

// HolidayConfig describes blackout dates layered on top of a schedule.
type HolidayConfig struct {
	Preset                       constants.HolidayPreset `json:"preset,omitempty"`
	ExcludedPresetDates          []string                `json:"excludedPresetDates,omitempty"`
	AdditionalBlackoutDates      []string                `json:"additionalBlackoutDates,omitempty"`
	AdditionalBlackoutDateRanges []DateRange             `json:"additionalBlackoutDateRanges,omitempty"`
}

// DateRange is an inclusive range of YYYY-MM-DD dates.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// IsEmpty reports whether the config blacks out nothing.
func (h *HolidayConfig) IsEmpty() bool {
	if h == nil {
		return true
	}
	return h.Preset == "" &&
		len(h.ExcludedPresetDates) == 0 &&
		len(h.AdditionalBlackoutDates) == 0 &&
		len(h.AdditionalBlackoutDateRanges) == 0
}

// ResolvedWindow is the evaluator's view of a schedule. It is derived, never stored.
type ResolvedWindow struct {
	Days      []time.Weekday
	StartTime string
	EndTime   string
	Timezone  string
	Holidays  *HolidayConfig
}

// HasDay reports whether the weekday is active in the window.
func (w ResolvedWindow) HasDay(wd time.Weekday) bool {
	for _, d := range w.Days {
		if d == wd {
			return true
		}
	}
	return false
}

// ScheduleCheckResult is the answer to "may we send at this instant?".
type ScheduleCheckResult struct {
	WithinSchedule  bool                  `json:"within_schedule"`
	Reason          constants.CheckReason `json:"reason"`
	NextWindowStart *time.Time            `json:"next_window_start,omitempty"`
}
