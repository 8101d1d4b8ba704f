package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/models"
	"github.com/julianstephens/autosend/internal/utils"
)

// IssueType represents the rule a custom schedule violated
type IssueType string

const (
	IssueMalformedDocument  IssueType = "malformed_document"
	IssueUnsupportedVersion IssueType = "unsupported_version"
	IssueMissingField       IssueType = "missing_field"
	IssueInvalidDays        IssueType = "invalid_days"
	IssueInvalidTime        IssueType = "invalid_time"
	IssueInvalidTimezone    IssueType = "invalid_timezone"
	IssueInvalidPreset      IssueType = "invalid_preset"
	IssueInvalidDate        IssueType = "invalid_date"
	IssueInvalidDateRange   IssueType = "invalid_date_range"
	IssueTooManyEntries     IssueType = "too_many_entries"
)

// ErrInvalidSchedule is wrapped by ValidationResult.Err.
var ErrInvalidSchedule = errors.New("invalid custom schedule")

// Issue is a single violated rule
type Issue struct {
	Type        IssueType
	Field       string
	Description string
}

// ValidationResult contains all detected issues
type ValidationResult struct {
	Issues []Issue
}

// HasIssues returns true if there are any issues
func (vr *ValidationResult) HasIssues() bool {
	return len(vr.Issues) > 0
}

// HasIssueType reports whether an issue of the given type was recorded
func (vr *ValidationResult) HasIssueType(t IssueType) bool {
	for _, issue := range vr.Issues {
		if issue.Type == t {
			return true
		}
	}
	return false
}

// FormatReport returns a human-readable report of all issues
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasIssues() {
		return "Custom schedule is valid."
	}

	report := "Custom schedule is invalid:\n"
	for _, issue := range vr.Issues {
		report += fmt.Sprintf("- %s\n", issue.Description)
	}
	return report
}

// Err returns nil for a clean result, otherwise an error listing every issue.
func (vr *ValidationResult) Err() error {
	if !vr.HasIssues() {
		return nil
	}
	errs := make([]error, 0, len(vr.Issues)+1)
	errs = append(errs, ErrInvalidSchedule)
	for _, issue := range vr.Issues {
		errs = append(errs, errors.New(issue.Description))
	}
	return errors.Join(errs...)
}

func (vr *ValidationResult) add(t IssueType, field, format string, args ...interface{}) {
	vr.Issues = append(vr.Issues, Issue{
		Type:        t,
		Field:       field,
		Description: fmt.Sprintf(format, args...),
	})
}

// Validator validates custom schedule documents on the write path
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// wireSchedule mirrors the stored JSON with every field left undecoded so
// type errors can be reported per field.
type wireSchedule struct {
	Version   json.RawMessage `json:"version"`
	Days      json.RawMessage `json:"days"`
	StartTime json.RawMessage `json:"startTime"`
	EndTime   json.RawMessage `json:"endTime"`
	Timezone  json.RawMessage `json:"timezone"`
	Holidays  json.RawMessage `json:"holidays"`
}

type wireHolidays struct {
	Preset                       json.RawMessage `json:"preset"`
	ExcludedPresetDates          json.RawMessage `json:"excludedPresetDates"`
	AdditionalBlackoutDates      json.RawMessage `json:"additionalBlackoutDates"`
	AdditionalBlackoutDateRanges json.RawMessage `json:"additionalBlackoutDateRanges"`
}

// ValidateCustomSchedule strictly parses a custom schedule document. The
// schedule is returned only when the result has no issues.
func (v *Validator) ValidateCustomSchedule(raw []byte) (*models.CustomSchedule, ValidationResult) {
	result := ValidationResult{Issues: []Issue{}}

	var wire wireSchedule
	if err := json.Unmarshal(raw, &wire); err != nil {
		result.add(IssueMalformedDocument, "", "Custom schedule must be a JSON object: %v", err)
		return nil, result
	}

	schedule := &models.CustomSchedule{Version: constants.CustomScheduleVersion}

	if present(wire.Version) {
		version, ok := decodeInt(wire.Version)
		if !ok || version != constants.CustomScheduleVersion {
			result.add(IssueUnsupportedVersion, "version", "Unsupported custom schedule version: %s (expected %d)", string(wire.Version), constants.CustomScheduleVersion)
		}
	}

	if !present(wire.Days) {
		result.add(IssueMissingField, "days", "Missing required field: days")
	} else {
		var rawDays []json.RawMessage
		if err := json.Unmarshal(wire.Days, &rawDays); err != nil {
			result.add(IssueInvalidDays, "days", "days must be an array of integers 0-6")
		} else {
			for _, rd := range rawDays {
				day, ok := decodeInt(rd)
				if !ok || day < 0 || day > 6 {
					result.add(IssueInvalidDays, "days", "Invalid day %s: days must be integers 0-6 (0=Sunday)", string(rd))
					continue
				}
				schedule.Days = append(schedule.Days, day)
			}
			schedule.Days = normalizeDays(schedule.Days)
			if len(rawDays) == 0 {
				result.add(IssueInvalidDays, "days", "days must contain at least one day")
			}
		}
	}

	schedule.StartTime = v.requireClock(&result, wire.StartTime, "startTime")
	schedule.EndTime = v.requireClock(&result, wire.EndTime, "endTime")

	if present(wire.Timezone) {
		var tz string
		if err := json.Unmarshal(wire.Timezone, &tz); err != nil || !utils.IsValidTimezone(tz) {
			result.add(IssueInvalidTimezone, "timezone", "Invalid IANA timezone: %s", string(wire.Timezone))
		} else {
			schedule.Timezone = tz
		}
	}

	if present(wire.Holidays) {
		schedule.Holidays = v.validateHolidays(&result, wire.Holidays)
	}

	if result.HasIssues() {
		return nil, result
	}
	return schedule, result
}

// ValidateSchedule re-checks an already typed schedule, e.g. one built in
// the interactive editor, by running it through the strict parser.
func (v *Validator) ValidateSchedule(schedule models.CustomSchedule) ValidationResult {
	if schedule.Version == 0 {
		schedule.Version = constants.CustomScheduleVersion
	}
	raw, err := json.Marshal(schedule)
	if err != nil {
		result := ValidationResult{}
		result.add(IssueMalformedDocument, "", "Custom schedule cannot be encoded: %v", err)
		return result
	}
	_, result := v.ValidateCustomSchedule(raw)
	return result
}

func (v *Validator) requireClock(result *ValidationResult, raw json.RawMessage, field string) string {
	if !present(raw) {
		result.add(IssueMissingField, field, "Missing required field: %s", field)
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || !utils.ValidateTimeFormat(s) {
		result.add(IssueInvalidTime, field, "Invalid %s: %s (expected 24h HH:MM)", field, string(raw))
		return ""
	}
	return s
}

func (v *Validator) validateHolidays(result *ValidationResult, raw json.RawMessage) *models.HolidayConfig {
	var wire wireHolidays
	if err := json.Unmarshal(raw, &wire); err != nil {
		result.add(IssueMalformedDocument, "holidays", "holidays must be a JSON object")
		return nil
	}

	holidays := &models.HolidayConfig{}

	if present(wire.Preset) {
		var preset string
		if err := json.Unmarshal(wire.Preset, &preset); err != nil || constants.HolidayPreset(preset) != constants.HolidayPresetUSFederalPlusCommon {
			result.add(IssueInvalidPreset, "holidays.preset", "Unsupported holiday preset: %s", string(wire.Preset))
		} else {
			holidays.Preset = constants.HolidayPreset(preset)
		}
	}

	holidays.ExcludedPresetDates = v.validateDateList(result, wire.ExcludedPresetDates, "holidays.excludedPresetDates", 0)
	holidays.AdditionalBlackoutDates = v.validateDateList(result, wire.AdditionalBlackoutDates, "holidays.additionalBlackoutDates", constants.MaxBlackoutDates)

	if present(wire.AdditionalBlackoutDateRanges) {
		var ranges []models.DateRange
		if err := json.Unmarshal(wire.AdditionalBlackoutDateRanges, &ranges); err != nil {
			result.add(IssueInvalidDateRange, "holidays.additionalBlackoutDateRanges", "additionalBlackoutDateRanges must be an array of {start, end} objects")
		} else {
			if len(ranges) > constants.MaxBlackoutDateRanges {
				result.add(IssueTooManyEntries, "holidays.additionalBlackoutDateRanges", "Too many blackout date ranges: %d (max %d)", len(ranges), constants.MaxBlackoutDateRanges)
			}
			for i, r := range ranges {
				if err := checkRange(r); err != nil {
					result.add(IssueInvalidDateRange, "holidays.additionalBlackoutDateRanges", "Invalid blackout date range #%d: %v", i+1, err)
					continue
				}
				holidays.AdditionalBlackoutDateRanges = append(holidays.AdditionalBlackoutDateRanges, r)
			}
		}
	}

	return holidays
}

// validateDateList checks an optional array of YYYY-MM-DD strings. A limit of
// zero means unbounded.
func (v *Validator) validateDateList(result *ValidationResult, raw json.RawMessage, field string, limit int) []string {
	if !present(raw) {
		return nil
	}
	var dates []string
	if err := json.Unmarshal(raw, &dates); err != nil {
		result.add(IssueInvalidDate, field, "%s must be an array of YYYY-MM-DD strings", field)
		return nil
	}
	if limit > 0 && len(dates) > limit {
		result.add(IssueTooManyEntries, field, "Too many entries in %s: %d (max %d)", field, len(dates), limit)
	}
	var valid []string
	for _, d := range dates {
		if !utils.ValidateDateFormat(d) {
			result.add(IssueInvalidDate, field, "Invalid date in %s: %q (expected YYYY-MM-DD)", field, d)
			continue
		}
		valid = append(valid, d)
	}
	return dedupeStrings(valid)
}

// checkRange enforces start <= end and an inclusive span of at most
// MaxBlackoutRangeDays days.
func checkRange(r models.DateRange) error {
	start, err := utils.ParseDate(r.Start)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	end, err := utils.ParseDate(r.End)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("end %s is before start %s", r.End, r.Start)
	}
	span := int(end.Sub(start).Hours()/24) + 1
	if span > constants.MaxBlackoutRangeDays {
		return fmt.Errorf("range spans %d days (max %d)", span, constants.MaxBlackoutRangeDays)
	}
	return nil
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// decodeInt accepts JSON numbers with no fractional part.
func decodeInt(raw json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

func normalizeDays(days []int) []int {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}

func dedupeStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
