package models

import "time"

// DispatchJob is a unit of work handed to the background queue.
type DispatchJob struct {
	ID        string    `json:"id"`
	RunAt     time.Time `json:"run_at"`
	Payload   []byte    `json:"payload"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// DispatchPayload is the JSON body stored with a dispatch job.
type DispatchPayload struct {
	WorkspaceID      string  `json:"workspace_id"`
	CampaignID       string  `json:"campaign_id,omitempty"`
	InboundMessageID string  `json:"inbound_message_id"`
	Channel          string  `json:"channel"`
	DraftContent     string  `json:"draft_content"`
	Confidence       float64 `json:"confidence"`
}
