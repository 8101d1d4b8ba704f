package models

// WorkspaceSettings represents the autosend settings stored for one workspace.
// Schedule fields are kept raw; they are parsed at the resolver boundary.
type WorkspaceSettings struct {
	WorkspaceID            string  `json:"workspace_id"`
	Timezone               string  `json:"timezone"`                          // IANA timezone name, may be invalid as stored
	WorkStartTime          string  `json:"work_start_time"`                   // e.g. "09:00"
	WorkEndTime            string  `json:"work_end_time"`                     // e.g. "17:00"
	AutoSendEnabled        bool    `json:"auto_send_enabled"`                 // master switch for autonomous sending
	AutoSendScheduleMode   string  `json:"auto_send_schedule_mode"`           // ALWAYS, BUSINESS_HOURS or CUSTOM
	AutoSendCustomSchedule string  `json:"auto_send_custom_schedule"`         // raw custom schedule JSON
	ConfidenceThreshold    float64 `json:"auto_send_confidence_threshold"`    // minimum confidence to send
	DelayMinSeconds        int     `json:"auto_send_delay_min_seconds"`       // lower bound of the chosen delay
	DelayMaxSeconds        int     `json:"auto_send_delay_max_seconds"`       // upper bound of the chosen delay
	RevisionEnabled        bool    `json:"auto_send_revision_enabled"`        // whether drafts may be revised
	RevisionMaxIterations  int     `json:"auto_send_revision_max_iterations"` // 1..3
	RevisionModel          string  `json:"auto_send_revision_model"`          // model hint passed to the reviser
}

// CampaignSettings holds the schedule overrides of a single campaign.
type CampaignSettings struct {
	CampaignID     string `json:"campaign_id"`
	WorkspaceID    string `json:"workspace_id"`
	Name           string `json:"name"`
	ScheduleMode   string `json:"schedule_mode"`   // empty means inherit from workspace
	CustomSchedule string `json:"custom_schedule"` // raw JSON, empty means inherit
}
