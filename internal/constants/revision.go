package constants

// EvaluationSource identifies who produced a confidence evaluation.
type EvaluationSource string

// StopReason is the terminal classification of a revision loop.
type StopReason string

// RevisionMode controls whether the revision loop may run.
type RevisionMode string

// DecisionAction is the outcome of an autosend decision.
type DecisionAction string

const (
	SourceModel     EvaluationSource = "model"
	SourceHardBlock EvaluationSource = "hard_block"

	StopThresholdMet  StopReason = "threshold_met"
	StopHardBlock     StopReason = "hard_block"
	StopNoImprovement StopReason = "no_improvement"
	StopExhausted     StopReason = "exhausted"
	StopDisabled      StopReason = "disabled"
	StopNotApplicable StopReason = "not_applicable"
	StopError         StopReason = "error"

	RevisionModeOff   RevisionMode = "off"
	RevisionModeAuto  RevisionMode = "auto"
	RevisionModeForce RevisionMode = "force"

	// RevisionChannel is the only channel with rich-text drafts worth revising.
	RevisionChannel = "email"

	MinRevisionIterations     = 1
	MaxRevisionIterations     = 3
	DefaultRevisionIterations = 2

	DefaultConfidenceThreshold = 0.75
	DefaultDelayMinSeconds     = 180
	DefaultDelayMaxSeconds     = 900

	ActionSend        DecisionAction = "send"
	ActionDefer       DecisionAction = "defer"
	ActionNeedsReview DecisionAction = "needs_review"
	ActionBlock       DecisionAction = "block"
	ActionSkip        DecisionAction = "skip"
)
