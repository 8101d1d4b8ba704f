package constants

const (
	// Workspace settings
	SettingTimezone                    = "timezone"
	SettingWorkStartTime               = "work_start_time"
	SettingWorkEndTime                 = "work_end_time"
	SettingAutoSendEnabled             = "auto_send_enabled"
	SettingAutoSendScheduleMode        = "auto_send_schedule_mode"
	SettingAutoSendCustomSchedule      = "auto_send_custom_schedule"
	SettingAutoSendConfidenceThreshold = "auto_send_confidence_threshold"
	SettingAutoSendDelayMinSeconds     = "auto_send_delay_min_seconds"
	SettingAutoSendDelayMaxSeconds     = "auto_send_delay_max_seconds"
	SettingAutoSendRevisionEnabled     = "auto_send_revision_enabled"
	SettingAutoSendRevisionMaxIter     = "auto_send_revision_max_iterations"
	SettingAutoSendRevisionModel       = "auto_send_revision_model"

	DefaultAutoSendEnabled         = true
	DefaultAutoSendRevisionEnabled = false
	DefaultAutoSendRevisionModel   = "default"
)
