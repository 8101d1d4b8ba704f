package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/autosend/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a WorkspaceSettings struct.
// Keys absent from data keep their defaults; a stored zero value is kept as is.
// A missing timezone stays empty so the resolver's default applies.
func MapToSettings(workspaceID string, data map[string]string) (WorkspaceSettings, error) {
	settings := DefaultWorkspaceSettings(workspaceID)
	settings.Timezone = ""

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingWorkStartTime:
			settings.WorkStartTime = value
		case constants.SettingWorkEndTime:
			settings.WorkEndTime = value
		case constants.SettingAutoSendEnabled:
			settings.AutoSendEnabled = value == "true"
		case constants.SettingAutoSendScheduleMode:
			settings.AutoSendScheduleMode = value
		case constants.SettingAutoSendCustomSchedule:
			settings.AutoSendCustomSchedule = value
		case constants.SettingAutoSendConfidenceThreshold:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return WorkspaceSettings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.ConfidenceThreshold = f
		case constants.SettingAutoSendDelayMinSeconds:
			if _, err := fmt.Sscanf(value, "%d", &settings.DelayMinSeconds); err != nil {
				return WorkspaceSettings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
		case constants.SettingAutoSendDelayMaxSeconds:
			if _, err := fmt.Sscanf(value, "%d", &settings.DelayMaxSeconds); err != nil {
				return WorkspaceSettings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
		case constants.SettingAutoSendRevisionEnabled:
			settings.RevisionEnabled = value == "true"
		case constants.SettingAutoSendRevisionMaxIter:
			if _, err := fmt.Sscanf(value, "%d", &settings.RevisionMaxIterations); err != nil {
				return WorkspaceSettings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
		case constants.SettingAutoSendRevisionModel:
			settings.RevisionModel = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a WorkspaceSettings struct to a map of key-value pairs.
func SettingsToMap(settings WorkspaceSettings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:                    settings.Timezone,
		constants.SettingWorkStartTime:               settings.WorkStartTime,
		constants.SettingWorkEndTime:                 settings.WorkEndTime,
		constants.SettingAutoSendEnabled:             strconv.FormatBool(settings.AutoSendEnabled),
		constants.SettingAutoSendScheduleMode:        settings.AutoSendScheduleMode,
		constants.SettingAutoSendCustomSchedule:      settings.AutoSendCustomSchedule,
		constants.SettingAutoSendConfidenceThreshold: strconv.FormatFloat(settings.ConfidenceThreshold, 'f', -1, 64),
		constants.SettingAutoSendDelayMinSeconds:     strconv.Itoa(settings.DelayMinSeconds),
		constants.SettingAutoSendDelayMaxSeconds:     strconv.Itoa(settings.DelayMaxSeconds),
		constants.SettingAutoSendRevisionEnabled:     strconv.FormatBool(settings.RevisionEnabled),
		constants.SettingAutoSendRevisionMaxIter:     strconv.Itoa(settings.RevisionMaxIterations),
		constants.SettingAutoSendRevisionModel:       settings.RevisionModel,
	}
}

// DefaultWorkspaceSettings returns the settings a new workspace starts with.
func DefaultWorkspaceSettings(workspaceID string) WorkspaceSettings {
	return WorkspaceSettings{
		WorkspaceID:           workspaceID,
		Timezone:              constants.DefaultTimezone,
		WorkStartTime:         constants.DefaultWorkStartTime,
		WorkEndTime:           constants.DefaultWorkEndTime,
		AutoSendEnabled:       constants.DefaultAutoSendEnabled,
		AutoSendScheduleMode:  string(constants.ScheduleModeAlways),
		ConfidenceThreshold:   constants.DefaultConfidenceThreshold,
		DelayMinSeconds:       constants.DefaultDelayMinSeconds,
		DelayMaxSeconds:       constants.DefaultDelayMaxSeconds,
		RevisionEnabled:       constants.DefaultAutoSendRevisionEnabled,
		RevisionMaxIterations: constants.DefaultRevisionIterations,
		RevisionModel:         constants.DefaultAutoSendRevisionModel,
	}
}
