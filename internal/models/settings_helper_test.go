package models

import (
	"testing"

	"github.com/julianstephens/autosend/internal/constants"
)

func TestSettingsMapRoundTrip(t *testing.T) {
	original := WorkspaceSettings{
		WorkspaceID:            "ws_1",
		Timezone:               "America/New_York",
		WorkStartTime:          "08:30",
		WorkEndTime:            "18:00",
		AutoSendEnabled:        true,
		AutoSendScheduleMode:   string(constants.ScheduleModeCustom),
		AutoSendCustomSchedule: `{"version":1}`,
		ConfidenceThreshold:    0.82,
		DelayMinSeconds:        30,
		DelayMaxSeconds:        90,
		RevisionEnabled:        true,
		RevisionMaxIterations:  2,
		RevisionModel:          "gpt-4o",
	}

	got, err := MapToSettings("ws_1", SettingsToMap(original))
	if err != nil {
		t.Fatalf("MapToSettings() error = %v", err)
	}
	if got != original {
		t.Errorf("round trip = %+v, want %+v", got, original)
	}
}

func TestMapToSettingsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"threshold", constants.SettingAutoSendConfidenceThreshold, "high"},
		{"delay min", constants.SettingAutoSendDelayMinSeconds, "soon"},
		{"delay max", constants.SettingAutoSendDelayMaxSeconds, ""},
		{"iterations", constants.SettingAutoSendRevisionMaxIter, "many"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := MapToSettings("ws_1", map[string]string{tt.key: tt.val}); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.val)
			}
		})
	}
}

func TestMapToSettingsIgnoresUnknownKeys(t *testing.T) {
	got, err := MapToSettings("ws_1", map[string]string{"legacy_flag": "1", constants.SettingTimezone: "UTC"})
	if err != nil {
		t.Fatalf("MapToSettings() error = %v", err)
	}
	if got.Timezone != "UTC" || got.WorkspaceID != "ws_1" {
		t.Errorf("got %+v", got)
	}
}

func TestMapToSettingsMissingKeysUseDefaults(t *testing.T) {
	got, err := MapToSettings("ws_1", map[string]string{constants.SettingWorkStartTime: "07:00"})
	if err != nil {
		t.Fatalf("MapToSettings() error = %v", err)
	}

	want := DefaultWorkspaceSettings("ws_1")
	want.Timezone = ""
	want.WorkStartTime = "07:00"
	if got != want {
		t.Errorf("MapToSettings() = %+v, want %+v", got, want)
	}
}

func TestMapToSettingsKeepsStoredZeroValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*WorkspaceSettings)
	}{
		{"zero threshold", func(s *WorkspaceSettings) { s.ConfidenceThreshold = 0 }},
		{"immediate delay band", func(s *WorkspaceSettings) { s.DelayMinSeconds, s.DelayMaxSeconds = 0, 0 }},
		{"zero lower bound only", func(s *WorkspaceSettings) { s.DelayMinSeconds = 0 }},
		{"autosend off", func(s *WorkspaceSettings) { s.AutoSendEnabled = false }},
		{"empty model", func(s *WorkspaceSettings) { s.RevisionModel = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := DefaultWorkspaceSettings("ws_1")
			tt.mutate(&stored)

			got, err := MapToSettings("ws_1", SettingsToMap(stored))
			if err != nil {
				t.Fatalf("MapToSettings() error = %v", err)
			}
			if got != stored {
				t.Errorf("read back %+v, want %+v", got, stored)
			}
		})
	}
}
