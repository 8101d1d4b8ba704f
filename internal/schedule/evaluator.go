package schedule

import (
	"time"

	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/holiday"
	"github.com/julianstephens/autosend/internal/logger"
	"github.com/julianstephens/autosend/internal/models"
	"github.com/julianstephens/autosend/internal/utils"
)

var businessDays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
}

// ResolveWindow derives the sending window for cfg. The second return value
// is false when no window applies: ALWAYS mode, or a CUSTOM mode whose
// schedule is missing or unusable. Callers treat an unresolved window as
// "sending allowed" (fail-open).
func ResolveWindow(cfg models.ScheduleConfig) (models.ResolvedWindow, bool) {
	var window models.ResolvedWindow

	switch cfg.Mode {
	case constants.ScheduleModeBusinessHours:
		window = models.ResolvedWindow{
			Days:      businessDays,
			StartTime: cfg.WorkStartTime,
			EndTime:   cfg.WorkEndTime,
			Timezone:  cfg.Timezone,
		}
	case constants.ScheduleModeCustom:
		custom := cfg.CustomSchedule
		if custom == nil || len(custom.Days) == 0 {
			return models.ResolvedWindow{}, false
		}
		tz := cfg.Timezone
		if custom.Timezone != "" && utils.IsValidTimezone(custom.Timezone) {
			tz = custom.Timezone
		}
		days := make([]time.Weekday, 0, len(custom.Days))
		for _, d := range custom.Days {
			if d >= 0 && d <= 6 {
				days = append(days, time.Weekday(d))
			}
		}
		window = models.ResolvedWindow{
			Days:      days,
			StartTime: custom.StartTime,
			EndTime:   custom.EndTime,
			Timezone:  tz,
			Holidays:  custom.Holidays,
		}
	default:
		return models.ResolvedWindow{}, false
	}

	if len(window.Days) == 0 ||
		!utils.ValidateTimeFormat(window.StartTime) ||
		!utils.ValidateTimeFormat(window.EndTime) ||
		!utils.IsValidTimezone(window.Timezone) {
		return models.ResolvedWindow{}, false
	}
	return window, true
}

// IsWithinSchedule reports whether now falls inside the configured sending
// window, and if not, when the next window opens.
func IsWithinSchedule(cfg models.ScheduleConfig, now time.Time) models.ScheduleCheckResult {
	if cfg.Mode == constants.ScheduleModeAlways {
		return models.ScheduleCheckResult{WithinSchedule: true, Reason: constants.ReasonAlways}
	}

	window, ok := ResolveWindow(cfg)
	if !ok {
		logger.Warn("No schedule window resolved, allowing send", "mode", cfg.Mode)
		return models.ScheduleCheckResult{WithinSchedule: true, Reason: constants.ReasonScheduleMissingFallback}
	}

	loc, err := utils.LoadLocation(window.Timezone)
	if err != nil {
		// unreachable: ResolveWindow already validated the zone
		return models.ScheduleCheckResult{WithinSchedule: true, Reason: constants.ReasonScheduleMissingFallback}
	}

	today := utils.PartsIn(now, loc)
	cur := today.Hour*60 + today.Minute
	start, _ := utils.ParseTimeToMinutes(window.StartTime)
	end, _ := utils.ParseTimeToMinutes(window.EndTime)

	within := false
	anchor := today.Date()
	if start <= end {
		within = window.HasDay(today.Weekday) && cur >= start && cur <= end
	} else {
		y, m, d, wd := utils.AddDays(today.Year, today.Month, today.Day, -1)
		switch {
		case window.HasDay(today.Weekday) && cur >= start:
			within = true
		case window.HasDay(wd) && cur <= end:
			within = true
			anchor = utils.FormatDate(y, m, d)
		}
	}

	if within {
		if !holiday.IsBlackoutDate(anchor, window.Holidays) {
			return models.ScheduleCheckResult{WithinSchedule: true, Reason: constants.ReasonWithinWindow}
		}
		return outside(cfg, now, constants.ReasonBlackoutDate)
	}
	if window.HasDay(today.Weekday) {
		return outside(cfg, now, constants.ReasonOutsideWindow)
	}
	return outside(cfg, now, constants.ReasonDayNotActive)
}

func outside(cfg models.ScheduleConfig, now time.Time, reason constants.CheckReason) models.ScheduleCheckResult {
	next := NextAutoSendWindow(cfg, now)
	return models.ScheduleCheckResult{
		WithinSchedule:  false,
		Reason:          reason,
		NextWindowStart: &next,
	}
}

// NextAutoSendWindow returns the opening instant of the next permitted
// window at or after now. It returns now unchanged for ALWAYS mode, for an
// unresolved window, or when nothing opens within the lookahead horizon.
func NextAutoSendWindow(cfg models.ScheduleConfig, now time.Time) time.Time {
	if cfg.Mode == constants.ScheduleModeAlways {
		return now
	}
	window, ok := ResolveWindow(cfg)
	if !ok {
		return now
	}
	loc, err := utils.LoadLocation(window.Timezone)
	if err != nil {
		return now
	}
	startMinutes, _ := utils.ParseTimeToMinutes(window.StartTime)

	today := utils.PartsIn(now, loc)
	for offset := 0; offset < constants.NextWindowLookaheadDays; offset++ {
		y, m, d, wd := utils.AddDays(today.Year, today.Month, today.Day, offset)
		if !window.HasDay(wd) {
			continue
		}
		if holiday.IsBlackoutDate(utils.FormatDate(y, m, d), window.Holidays) {
			continue
		}
		candidate := utils.ZonedInstant(y, m, d, startMinutes/60, startMinutes%60, loc)
		if offset > 0 || !candidate.Before(now) {
			return candidate
		}
	}

	logger.Debug("No window opens within lookahead", "days", constants.NextWindowLookaheadDays, "timezone", window.Timezone)
	return now
}
