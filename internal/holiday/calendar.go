// Package holiday computes blackout dates from named presets and explicit
// per-schedule additions.
package holiday

import (
	"sync"
	"time"

	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/models"
	"github.com/julianstephens/autosend/internal/utils"
)

type cacheKey struct {
	preset constants.HolidayPreset
	year   int
}

// presetCache holds immutable date sets keyed by (preset, year). Concurrent
// misses may compute the same set twice; the result is identical either way.
var presetCache sync.Map

// PresetDates returns the blackout dates of a preset for one year as a set of
// YYYY-MM-DD strings. Unknown presets yield an empty set. Callers must not
// modify the returned map.
func PresetDates(year int, preset constants.HolidayPreset) map[string]struct{} {
	key := cacheKey{preset: preset, year: year}
	if cached, ok := presetCache.Load(key); ok {
		return cached.(map[string]struct{})
	}

	dates := computePreset(year, preset)
	actual, _ := presetCache.LoadOrStore(key, dates)
	return actual.(map[string]struct{})
}

func computePreset(year int, preset constants.HolidayPreset) map[string]struct{} {
	dates := make(map[string]struct{})
	if preset != constants.HolidayPresetUSFederalPlusCommon {
		return dates
	}

	add := func(month time.Month, day int) {
		dates[utils.FormatDate(year, month, day)] = struct{}{}
	}

	add(time.January, 1)
	add(time.January, utils.NthWeekdayOfMonth(year, time.January, time.Monday, 3))   // MLK Day
	add(time.February, utils.NthWeekdayOfMonth(year, time.February, time.Monday, 3)) // Presidents Day
	add(time.May, utils.LastWeekdayOfMonth(year, time.May, time.Monday))             // Memorial Day
	add(time.June, 19)
	add(time.July, 4)
	add(time.September, utils.NthWeekdayOfMonth(year, time.September, time.Monday, 1)) // Labor Day
	add(time.October, utils.NthWeekdayOfMonth(year, time.October, time.Monday, 2))     // Columbus / Indigenous Peoples Day
	add(time.November, 11)

	thanksgiving := utils.NthWeekdayOfMonth(year, time.November, time.Thursday, 4)
	add(time.November, thanksgiving)
	add(time.November, thanksgiving+1)

	add(time.December, 24)
	add(time.December, 25)

	return dates
}

// IsBlackoutDate reports whether sending is disallowed on the YYYY-MM-DD date.
// A nil config or an unparsable date never blacks anything out.
func IsBlackoutDate(date string, holidays *models.HolidayConfig) bool {
	if holidays.IsEmpty() {
		return false
	}

	for _, d := range holidays.AdditionalBlackoutDates {
		if d == date {
			return true
		}
	}

	key, err := utils.DateKey(date)
	if err != nil {
		return false
	}

	for _, r := range holidays.AdditionalBlackoutDateRanges {
		start, errStart := utils.DateKey(r.Start)
		end, errEnd := utils.DateKey(r.End)
		if errStart != nil || errEnd != nil {
			continue
		}
		if key >= start && key <= end {
			return true
		}
	}

	if holidays.Preset == "" {
		return false
	}
	if _, ok := PresetDates(key/10000, holidays.Preset)[date]; !ok {
		return false
	}
	for _, excluded := range holidays.ExcludedPresetDates {
		if excluded == date {
			return false
		}
	}
	return true
}

// Calendar lists every blackout date of the given year in ascending order.
func Calendar(year int, holidays *models.HolidayConfig) []string {
	var dates []string
	if holidays.IsEmpty() {
		return dates
	}

	for day := time.Date(year, time.January, 1, 12, 0, 0, 0, time.UTC); day.Year() == year; day = day.AddDate(0, 0, 1) {
		date := day.Format(constants.DateFormat)
		if IsBlackoutDate(date, holidays) {
			dates = append(dates, date)
		}
	}
	return dates
}
