package revision

import (
	"context"
	"fmt"

	"github.com/julianstephens/autosend/internal/confidence"
	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/logger"
	"github.com/julianstephens/autosend/internal/models"
)

// Evaluator scores a draft.
type Evaluator interface {
	Evaluate(ctx context.Context, draft string) (models.ConfidenceEvaluation, error)
}

// Revision is an improved draft together with its evaluation.
type Revision struct {
	Draft      string
	Evaluation models.ConfidenceEvaluation
}

// ReviseRequest is what a Reviser receives for one iteration.
type ReviseRequest struct {
	Draft        string
	Evaluation   models.ConfidenceEvaluation
	Constraints  HardConstraints
	Conversation Conversation
	Model        string
	Iteration    int
}

// Reviser proposes an improved draft. Returning a nil Revision and nil error
// means no improvement is possible.
type Reviser interface {
	Revise(ctx context.Context, req ReviseRequest) (*Revision, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(ctx context.Context, draft string) (models.ConfidenceEvaluation, error)

func (f EvaluatorFunc) Evaluate(ctx context.Context, draft string) (models.ConfidenceEvaluation, error) {
	return f(ctx, draft)
}

// ReviserFunc adapts a function to Reviser.
type ReviserFunc func(ctx context.Context, req ReviseRequest) (*Revision, error)

func (f ReviserFunc) Revise(ctx context.Context, req ReviseRequest) (*Revision, error) {
	return f(ctx, req)
}

// Request is the input to one run of the loop.
type Request struct {
	Draft         string
	Channel       string
	Threshold     float64
	MaxIterations int
	Model         string
	Conversation  Conversation
}

// Loop drives the revision state machine against external collaborators.
type Loop struct {
	evaluator   Evaluator
	reviser     Reviser
	constraints ConstraintBuilder
}

// NewLoop creates a Loop. A nil ConstraintBuilder uses PhraseConstraints with
// no extra phrases.
func NewLoop(evaluator Evaluator, reviser Reviser, constraints ConstraintBuilder) *Loop {
	if constraints == nil {
		constraints = NewPhraseConstraints(nil)
	}
	return &Loop{evaluator: evaluator, reviser: reviser, constraints: constraints}
}

// Run evaluates the draft and revises it until it passes, is hard-blocked,
// cannot be improved or the iteration budget is spent. Evaluator and reviser
// errors are returned unchanged together with the state reached so far; the
// loop does not retry.
func (l *Loop) Run(ctx context.Context, req Request) (models.RevisionState, error) {
	state, err := l.Drive(ctx, req)
	return state.Result(), err
}

// Drive is Run returning the final State, which also carries the last
// evaluation.
func (l *Loop) Drive(ctx context.Context, req Request) (State, error) {
	state := Begin(req.Draft, req.Threshold, req.MaxIterations)
	if state.Done() {
		logger.Warn("Revision skipped for empty draft", "channel", req.Channel)
		return state, nil
	}

	baseline, err := l.evaluator.Evaluate(ctx, state.Draft)
	if err != nil {
		return state.stop(constants.StopError), fmt.Errorf("failed to evaluate baseline draft: %w", err)
	}
	state = state.WithBaseline(baseline)

	for !state.Done() {
		if err := ctx.Err(); err != nil {
			return state.stop(constants.StopError), err
		}
		state = state.NextIteration()

		constraints := l.constraints.Build(req.Conversation, state.Draft)
		rev, err := l.reviser.Revise(ctx, ReviseRequest{
			Draft:        state.Draft,
			Evaluation:   state.Evaluation,
			Constraints:  constraints,
			Conversation: req.Conversation,
			Model:        req.Model,
			Iteration:    state.Iteration,
		})
		if err != nil {
			return state.stop(constants.StopError), fmt.Errorf("failed to revise draft (iteration %d): %w", state.Iteration, err)
		}

		if rev != nil {
			if check := l.constraints.Validate(rev.Draft, constraints); !check.Passed {
				logger.Info("Rejected revision violating hard constraints",
					"iteration", state.Iteration, "violations", check.Violations)
				rev = nil
			}
		}
		state = state.WithRevision(rev)
	}

	logger.Info("Revision loop stopped",
		"reason", state.StopReason,
		"iterations", state.Iteration,
		"start", state.Start,
		"end", state.Evaluation.Confidence,
		"applied", state.Applied)
	return state, nil
}

// Baseline evaluates a draft once without revising it.
func (l *Loop) Baseline(ctx context.Context, draft string) (models.ConfidenceEvaluation, error) {
	eval, err := l.evaluator.Evaluate(ctx, draft)
	if err != nil {
		return models.ConfidenceEvaluation{}, fmt.Errorf("failed to evaluate draft: %w", err)
	}
	return confidence.Normalize(eval), nil
}
