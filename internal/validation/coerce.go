package validation

import (
	"encoding/json"

	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/models"
	"github.com/julianstephens/autosend/internal/utils"
)

// CoerceCustomSchedule is the read-path counterpart of ValidateCustomSchedule.
// It never fails: invalid optional sub-fields are dropped, and a document
// whose required fields cannot be salvaged yields nil, which evaluators treat
// as "no custom schedule".
func CoerceCustomSchedule(raw string) *models.CustomSchedule {
	if raw == "" {
		return nil
	}

	var wire wireSchedule
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil
	}

	if present(wire.Version) {
		if version, ok := decodeInt(wire.Version); !ok || version != constants.CustomScheduleVersion {
			return nil
		}
	}

	schedule := &models.CustomSchedule{Version: constants.CustomScheduleVersion}

	var rawDays []json.RawMessage
	if err := json.Unmarshal(wire.Days, &rawDays); err != nil {
		return nil
	}
	for _, rd := range rawDays {
		if day, ok := decodeInt(rd); ok && day >= 0 && day <= 6 {
			schedule.Days = append(schedule.Days, day)
		}
	}
	schedule.Days = normalizeDays(schedule.Days)
	if len(schedule.Days) == 0 {
		return nil
	}

	if schedule.StartTime = coerceClock(wire.StartTime); schedule.StartTime == "" {
		return nil
	}
	if schedule.EndTime = coerceClock(wire.EndTime); schedule.EndTime == "" {
		return nil
	}

	var tz string
	if err := json.Unmarshal(wire.Timezone, &tz); err == nil && utils.IsValidTimezone(tz) {
		schedule.Timezone = tz
	}

	if present(wire.Holidays) {
		schedule.Holidays = coerceHolidays(wire.Holidays)
	}

	return schedule
}

func coerceClock(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || !utils.ValidateTimeFormat(s) {
		return ""
	}
	return s
}

func coerceHolidays(raw json.RawMessage) *models.HolidayConfig {
	var wire wireHolidays
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil
	}

	holidays := &models.HolidayConfig{}

	var preset string
	if err := json.Unmarshal(wire.Preset, &preset); err == nil && constants.HolidayPreset(preset) == constants.HolidayPresetUSFederalPlusCommon {
		holidays.Preset = constants.HolidayPresetUSFederalPlusCommon
	}

	holidays.ExcludedPresetDates = coerceDates(wire.ExcludedPresetDates, 0)
	holidays.AdditionalBlackoutDates = coerceDates(wire.AdditionalBlackoutDates, constants.MaxBlackoutDates)

	var rawRanges []json.RawMessage
	if err := json.Unmarshal(wire.AdditionalBlackoutDateRanges, &rawRanges); err == nil {
		for _, rr := range rawRanges {
			if len(holidays.AdditionalBlackoutDateRanges) == constants.MaxBlackoutDateRanges {
				break
			}
			var r models.DateRange
			if err := json.Unmarshal(rr, &r); err != nil {
				continue
			}
			if checkRange(r) == nil {
				holidays.AdditionalBlackoutDateRanges = append(holidays.AdditionalBlackoutDateRanges, r)
			}
		}
	}

	if holidays.IsEmpty() {
		return nil
	}
	return holidays
}

// coerceDates keeps valid YYYY-MM-DD strings, element by element, up to limit
// entries (zero means unbounded).
func coerceDates(raw json.RawMessage, limit int) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var dates []string
	for _, item := range items {
		var d string
		if err := json.Unmarshal(item, &d); err != nil || !utils.ValidateDateFormat(d) {
			continue
		}
		dates = append(dates, d)
	}
	dates = dedupeStrings(dates)
	if limit > 0 && len(dates) > limit {
		dates = dates[:limit]
	}
	return dates
}
