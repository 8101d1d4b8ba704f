// Package revision runs the confidence-gated revision loop over a draft reply.
//
// The loop is a state machine with three phases: Baseline, Revising(n) and
// Stopped(reason). Transitions are pure functions on State so every stop
// condition can be exercised without an evaluator or reviser.
package revision

import (
	"github.com/julianstephens/autosend/internal/confidence"
	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/models"
)

// Phase is the position of a loop in its state machine.
type Phase int

const (
	PhaseBaseline Phase = iota
	PhaseRevising
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseBaseline:
		return "baseline"
	case PhaseRevising:
		return "revising"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// State is one snapshot of a revision loop.
type State struct {
	Phase      Phase
	Iteration  int // revise calls made so far
	Draft      string
	Evaluation models.ConfidenceEvaluation
	Start      float64
	Applied    bool
	StopReason constants.StopReason

	threshold     float64
	maxIterations int
}

// Begin creates the initial state for a draft. An empty draft stops
// immediately with StopError and zero iterations.
func Begin(draft string, threshold float64, maxIterations int) State {
	s := State{
		Phase:         PhaseBaseline,
		Draft:         draft,
		threshold:     confidence.Clamp(threshold),
		maxIterations: ClampIterations(maxIterations),
	}
	if draft == "" {
		return s.stop(constants.StopError)
	}
	return s
}

// Threshold returns the clamped send threshold the loop compares against.
func (s State) Threshold() float64 {
	return s.threshold
}

// MaxIterations returns the clamped iteration budget.
func (s State) MaxIterations() int {
	return s.maxIterations
}

// Done reports whether the loop has stopped.
func (s State) Done() bool {
	return s.Phase == PhaseStopped
}

// WithBaseline records the baseline evaluation. A hard-blocked or passing
// baseline stops the loop before any revision is attempted.
func (s State) WithBaseline(eval models.ConfidenceEvaluation) State {
	if s.Phase != PhaseBaseline {
		return s
	}
	eval = confidence.Normalize(eval)
	s.Evaluation = eval
	s.Start = eval.Confidence

	verdict := confidence.Classify(eval, s.threshold)
	switch {
	case verdict.HardBlocked:
		return s.stop(constants.StopHardBlock)
	case verdict.Pass:
		return s.stop(constants.StopThresholdMet)
	}
	s.Phase = PhaseRevising
	return s
}

// NextIteration marks the start of another revise call.
func (s State) NextIteration() State {
	if s.Phase != PhaseRevising {
		return s
	}
	s.Iteration++
	return s
}

// WithRevision applies the reviser's result for the current iteration. A nil
// revision stops with StopNoImprovement; an adopted revision is re-checked for
// hard blocks and the threshold, and otherwise the loop continues until the
// iteration budget is spent.
func (s State) WithRevision(rev *Revision) State {
	if s.Phase != PhaseRevising {
		return s
	}
	if rev == nil {
		return s.stop(constants.StopNoImprovement)
	}

	s.Draft = rev.Draft
	s.Evaluation = confidence.Normalize(rev.Evaluation)
	s.Applied = true

	verdict := confidence.Classify(s.Evaluation, s.threshold)
	switch {
	case verdict.HardBlocked:
		return s.stop(constants.StopHardBlock)
	case verdict.Pass:
		return s.stop(constants.StopThresholdMet)
	case s.Iteration >= s.maxIterations:
		return s.stop(constants.StopExhausted)
	}
	return s
}

// Result converts the state into the reported RevisionState.
func (s State) Result() models.RevisionState {
	return models.RevisionState{
		DraftContent:    s.Draft,
		StartConfidence: s.Start,
		EndConfidence:   s.Evaluation.Confidence,
		StopReason:      s.StopReason,
		IterationsUsed:  s.Iteration,
		Attempted:       s.Iteration > 0,
		Applied:         s.Applied,
	}
}

func (s State) stop(reason constants.StopReason) State {
	s.Phase = PhaseStopped
	s.StopReason = reason
	return s
}

// ClampIterations keeps an iteration budget within the supported range.
func ClampIterations(n int) int {
	if n < constants.MinRevisionIterations {
		return constants.MinRevisionIterations
	}
	if n > constants.MaxRevisionIterations {
		return constants.MaxRevisionIterations
	}
	return n
}
