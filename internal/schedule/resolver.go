package schedule

import (
	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/logger"
	"github.com/julianstephens/autosend/internal/models"
	"github.com/julianstephens/autosend/internal/utils"
	"github.com/julianstephens/autosend/internal/validation"
)

// Layer is one level of schedule configuration (workspace or campaign).
// Zero values mean "not set at this level".
type Layer struct {
	Mode           constants.ScheduleMode
	Timezone       string
	WorkStartTime  string
	WorkEndTime    string
	CustomSchedule *models.CustomSchedule
}

// Resolver merges layered schedule settings into a ScheduleConfig.
type Resolver struct {
	defaultTimezone string
}

// NewResolver creates a Resolver. An empty or invalid default falls back to
// constants.DefaultTimezone.
func NewResolver(defaultTimezone string) *Resolver {
	if !utils.IsValidTimezone(defaultTimezone) {
		defaultTimezone = constants.DefaultTimezone
	}
	return &Resolver{defaultTimezone: defaultTimezone}
}

// DefaultTimezone returns the zone used when neither the lead nor the workspace names a valid one.
func (r *Resolver) DefaultTimezone() string {
	return r.defaultTimezone
}

// Resolve merges the workspace and campaign layers. Campaign values win for
// mode and the custom schedule object; the timezone prefers the lead's.
func (r *Resolver) Resolve(workspace, campaign Layer, leadTimezone string) models.ScheduleConfig {
	mode := constants.ScheduleModeAlways
	if campaign.Mode != "" {
		mode = campaign.Mode
	} else if workspace.Mode != "" {
		mode = workspace.Mode
	}

	var custom *models.CustomSchedule
	if campaign.CustomSchedule != nil {
		copied := *campaign.CustomSchedule
		custom = &copied
	} else if workspace.CustomSchedule != nil {
		copied := *workspace.CustomSchedule
		custom = &copied
	}

	if custom != nil {
		custom.Holidays = MergeHolidays(holidaysOf(workspace.CustomSchedule), holidaysOf(campaign.CustomSchedule))
	}

	start, end := workspace.WorkStartTime, workspace.WorkEndTime
	if !utils.ValidateTimeFormat(start) {
		start = constants.DefaultWorkStartTime
	}
	if !utils.ValidateTimeFormat(end) {
		end = constants.DefaultWorkEndTime
	}

	return models.ScheduleConfig{
		Mode:           mode,
		Timezone:       r.resolveTimezone(leadTimezone, workspace.Timezone),
		WorkStartTime:  start,
		WorkEndTime:    end,
		CustomSchedule: custom,
	}
}

// ResolveSettings parses stored settings at the boundary and resolves them.
// A nil campaign means the lead is not part of a campaign. Malformed stored
// modes or schedules degrade to "not set" instead of failing.
func (r *Resolver) ResolveSettings(ws models.WorkspaceSettings, campaign *models.CampaignSettings, leadTimezone string) models.ScheduleConfig {
	workspace := Layer{
		Mode:           parseStoredMode(ws.AutoSendScheduleMode, "workspace", ws.WorkspaceID),
		Timezone:       ws.Timezone,
		WorkStartTime:  ws.WorkStartTime,
		WorkEndTime:    ws.WorkEndTime,
		CustomSchedule: coerceStored(ws.AutoSendCustomSchedule, "workspace", ws.WorkspaceID),
	}

	var layer Layer
	if campaign != nil {
		layer = Layer{
			Mode:           parseStoredMode(campaign.ScheduleMode, "campaign", campaign.CampaignID),
			CustomSchedule: coerceStored(campaign.CustomSchedule, "campaign", campaign.CampaignID),
		}
	}

	return r.Resolve(workspace, layer, leadTimezone)
}

func (r *Resolver) resolveTimezone(leadTimezone, workspaceTimezone string) string {
	if utils.IsValidTimezone(leadTimezone) {
		return leadTimezone
	}
	if utils.IsValidTimezone(workspaceTimezone) {
		return workspaceTimezone
	}
	return r.defaultTimezone
}

// MergeHolidays combines workspace and campaign holiday settings. The preset
// and its exclusions come only from the workspace; explicit blackout dates
// and ranges are the deduplicated union of both layers.
func MergeHolidays(workspace, campaign *models.HolidayConfig) *models.HolidayConfig {
	if workspace.IsEmpty() && campaign.IsEmpty() {
		return nil
	}

	merged := &models.HolidayConfig{}
	if workspace != nil {
		merged.Preset = workspace.Preset
		merged.ExcludedPresetDates = append([]string(nil), workspace.ExcludedPresetDates...)
	}

	seenDates := make(map[string]bool)
	seenRanges := make(map[models.DateRange]bool)
	for _, layer := range []*models.HolidayConfig{workspace, campaign} {
		if layer == nil {
			continue
		}
		for _, d := range layer.AdditionalBlackoutDates {
			if !seenDates[d] {
				seenDates[d] = true
				merged.AdditionalBlackoutDates = append(merged.AdditionalBlackoutDates, d)
			}
		}
		for _, rng := range layer.AdditionalBlackoutDateRanges {
			if !seenRanges[rng] {
				seenRanges[rng] = true
				merged.AdditionalBlackoutDateRanges = append(merged.AdditionalBlackoutDateRanges, rng)
			}
		}
	}

	if merged.IsEmpty() {
		return nil
	}
	return merged
}

func holidaysOf(s *models.CustomSchedule) *models.HolidayConfig {
	if s == nil {
		return nil
	}
	return s.Holidays
}

func parseStoredMode(raw, level, id string) constants.ScheduleMode {
	if raw == "" {
		return ""
	}
	mode, ok := constants.ParseScheduleMode(raw)
	if !ok {
		logger.Warn("Ignoring unknown stored schedule mode", "level", level, "id", id, "mode", raw)
		return ""
	}
	return mode
}

func coerceStored(raw, level, id string) *models.CustomSchedule {
	if raw == "" {
		return nil
	}
	schedule := validation.CoerceCustomSchedule(raw)
	if schedule == nil {
		logger.Warn("Stored custom schedule is unusable, treating as unset", "level", level, "id", id)
	}
	return schedule
}
