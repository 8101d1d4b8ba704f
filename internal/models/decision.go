package models

import (
	"time"

	"github.com/julianstephens/autosend/internal/constants"
)

// DecisionRecord is the audit row written for every autosend decision.
type DecisionRecord struct {
	ID              string                   `json:"id"`
	WorkspaceID     string                   `json:"workspace_id"`
	CampaignID      string                   `json:"campaign_id,omitempty"`
	MessageID       string                   `json:"message_id"`
	Action          constants.DecisionAction `json:"action"`
	ScheduleReason  constants.CheckReason    `json:"schedule_reason,omitempty"`
	StopReason      constants.StopReason     `json:"stop_reason,omitempty"`
	Iterations      int                      `json:"iterations"`
	StartConfidence float64                  `json:"start_confidence"`
	EndConfidence   float64                  `json:"end_confidence"`
	DelaySeconds    int                      `json:"delay_seconds"`
	RunAt           *time.Time               `json:"run_at,omitempty"`
	JobID           string                   `json:"job_id,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
}
