package models

import "github.com/julianstephens/autosend/internal/constants"

// ConfidenceEvaluation is the scorer's verdict on a draft.
type ConfidenceEvaluation struct {
	Confidence    float64                    `json:"confidence"`
	Reason        string                     `json:"reason"`
	Source        constants.EvaluationSource `json:"source"`
	HardBlockCode string                     `json:"hard_block_code,omitempty"`
}

// RevisionState summarises one draft-evaluation cycle of the revision loop.
type RevisionState struct {
	DraftContent    string               `json:"draft_content"`
	StartConfidence float64              `json:"start_confidence"`
	EndConfidence   float64              `json:"end_confidence"`
	StopReason      constants.StopReason `json:"stop_reason"`
	IterationsUsed  int                  `json:"iterations_used"`
	Attempted       bool                 `json:"attempted"`
	Applied         bool                 `json:"applied"`
}
