// Package decision composes schedule resolution, the confidence gate, the
// revision loop and dispatch planning into a single autosend decision.
package decision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/autosend/internal/confidence"
	"github.com/julianstephens/autosend/internal/config"
	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/dispatch"
	"github.com/julianstephens/autosend/internal/logger"
	"github.com/julianstephens/autosend/internal/models"
	"github.com/julianstephens/autosend/internal/revision"
	"github.com/julianstephens/autosend/internal/schedule"
	"github.com/julianstephens/autosend/internal/storage"
)

// Store is the persistence the engine reads settings from and writes its
// audit trail to.
type Store interface {
	GetWorkspaceSettings(ctx context.Context, workspaceID string) (models.WorkspaceSettings, error)
	GetCampaign(ctx context.Context, id string) (models.CampaignSettings, error)
	RecordDecision(ctx context.Context, record models.DecisionRecord) error
}

// Options wires the engine's collaborators. Reviser may be nil, in which case
// drafts are evaluated once and never revised.
type Options struct {
	Policy    *config.Policy
	Evaluator revision.Evaluator
	Reviser   revision.Reviser
	Queue     dispatch.Queue
}

// Request describes one drafted reply awaiting a decision.
type Request struct {
	WorkspaceID  string
	CampaignID   string
	MessageID    string // inbound message being answered
	Channel      string
	Draft        string
	LeadTimezone string
	SentAt       time.Time // receipt time of the inbound message; zero means now
	Conversation revision.Conversation
}

// Decision is the engine's verdict for a Request.
type Decision struct {
	Action     constants.DecisionAction    `json:"action"`
	Revision   models.RevisionState        `json:"revision"`
	Evaluation models.ConfidenceEvaluation `json:"evaluation"`
	Schedule   models.ScheduleConfig       `json:"schedule"`
	Plan       *dispatch.Plan              `json:"plan,omitempty"`
	JobID      string                      `json:"job_id,omitempty"`
}

// Engine makes autosend decisions for inbound replies.
type Engine struct {
	store     Store
	policy    *config.Policy
	resolver  *schedule.Resolver
	loop      *revision.Loop
	scheduler *dispatch.Scheduler
	canRevise bool
	now       func() time.Time
	newID     func() string
}

// New creates an Engine. A nil policy uses config.Default.
func New(store Store, opts Options) *Engine {
	policy := opts.Policy
	if policy == nil {
		policy = config.Default()
	}
	return &Engine{
		store:     store,
		policy:    policy,
		resolver:  schedule.NewResolver(policy.DefaultTimezone),
		loop:      revision.NewLoop(opts.Evaluator, opts.Reviser, revision.NewPhraseConstraints(policy.Constraints.ForbiddenPhrases)),
		scheduler: dispatch.NewScheduler(opts.Queue),
		canRevise: opts.Reviser != nil,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Decide runs the full pipeline for req. Evaluator, reviser and queue errors
// abort the decision and are returned wrapped; nothing is recorded for them.
func (e *Engine) Decide(ctx context.Context, req Request) (Decision, error) {
	settings, campaign, err := e.loadSettings(ctx, req)
	if err != nil {
		return Decision{}, err
	}

	dlog := logger.With("workspace_id", req.WorkspaceID, "message_id", req.MessageID)
	d := Decision{Schedule: e.resolver.ResolveSettings(settings, campaign, req.LeadTimezone)}

	if strings.TrimSpace(req.Draft) == "" {
		d.Action = constants.ActionSkip
		d.Revision = revision.Begin("", settings.ConfidenceThreshold, settings.RevisionMaxIterations).Result()
		return d, e.record(ctx, req, d)
	}
	if !settings.AutoSendEnabled {
		d.Action = constants.ActionSkip
		d.Revision = models.RevisionState{DraftContent: req.Draft, StopReason: constants.StopDisabled}
		return d, e.record(ctx, req, d)
	}

	state, err := e.evaluate(ctx, req, settings)
	d.Revision = state.Result()
	d.Evaluation = state.Evaluation
	if err != nil {
		dlog.Error("Evaluation failed, nothing recorded", "stop_reason", d.Revision.StopReason, "error", err)
		return d, fmt.Errorf("decision for message %s failed: %w", req.MessageID, err)
	}

	verdict := confidence.Classify(d.Evaluation, settings.ConfidenceThreshold)
	switch {
	case verdict.HardBlocked:
		d.Action = constants.ActionBlock
	case !verdict.Pass:
		d.Action = constants.ActionNeedsReview
	default:
		if err := e.dispatch(ctx, req, settings, &d); err != nil {
			return d, err
		}
	}

	dlog.Info("Autosend decision",
		"action", d.Action,
		"stop_reason", d.Revision.StopReason,
		"confidence", d.Evaluation.Confidence)
	return d, e.record(ctx, req, d)
}

func (e *Engine) loadSettings(ctx context.Context, req Request) (models.WorkspaceSettings, *models.CampaignSettings, error) {
	settings, err := e.store.GetWorkspaceSettings(ctx, req.WorkspaceID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		settings = e.policy.WorkspaceDefaults(req.WorkspaceID)
	case err != nil:
		return settings, nil, fmt.Errorf("failed to load workspace settings: %w", err)
	}

	if req.CampaignID == "" {
		return settings, nil, nil
	}
	campaign, err := e.store.GetCampaign(ctx, req.CampaignID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		logger.Warn("Campaign not found, using workspace schedule", "campaign_id", req.CampaignID)
		return settings, nil, nil
	case err != nil:
		return settings, nil, fmt.Errorf("failed to load campaign %s: %w", req.CampaignID, err)
	}
	return settings, &campaign, nil
}

// evaluate runs the revision loop when it is enabled for the request, and a
// single baseline evaluation otherwise.
func (e *Engine) evaluate(ctx context.Context, req Request, settings models.WorkspaceSettings) (revision.State, error) {
	enablement := revision.ResolveEnabled(e.policy.RevisionMode(), req.Channel, settings.RevisionEnabled)
	if enablement.Enabled && !e.canRevise {
		enablement = revision.Enablement{StopReason: constants.StopDisabled}
	}

	if enablement.Enabled {
		return e.loop.Drive(ctx, revision.Request{
			Draft:         req.Draft,
			Channel:       req.Channel,
			Threshold:     settings.ConfidenceThreshold,
			MaxIterations: settings.RevisionMaxIterations,
			Model:         settings.RevisionModel,
			Conversation:  req.Conversation,
		})
	}

	state := revision.Begin(req.Draft, settings.ConfidenceThreshold, settings.RevisionMaxIterations)
	eval, err := e.loop.Baseline(ctx, req.Draft)
	if err != nil {
		return state, err
	}
	state = state.WithBaseline(eval)
	// a hard block stays visible in the audit row
	if state.StopReason != constants.StopHardBlock {
		state.StopReason = enablement.StopReason
	}
	return state, nil
}

func (e *Engine) dispatch(ctx context.Context, req Request, settings models.WorkspaceSettings, d *Decision) error {
	sentAt := req.SentAt
	if sentAt.IsZero() {
		sentAt = e.now()
	}
	plan := dispatch.PlanDispatch(d.Schedule, req.MessageID, sentAt, settings.DelayMinSeconds, settings.DelayMaxSeconds)
	d.Plan = &plan

	job, err := e.scheduler.Schedule(ctx, plan, models.DispatchPayload{
		WorkspaceID:      req.WorkspaceID,
		CampaignID:       req.CampaignID,
		InboundMessageID: req.MessageID,
		Channel:          req.Channel,
		DraftContent:     d.Revision.DraftContent,
		Confidence:       d.Evaluation.Confidence,
	})
	if err != nil {
		return fmt.Errorf("decision for message %s failed: %w", req.MessageID, err)
	}
	d.JobID = job.ID

	d.Action = constants.ActionSend
	if plan.Deferred {
		d.Action = constants.ActionDefer
	}
	return nil
}

func (e *Engine) record(ctx context.Context, req Request, d Decision) error {
	rec := models.DecisionRecord{
		ID:              e.newID(),
		WorkspaceID:     req.WorkspaceID,
		CampaignID:      req.CampaignID,
		MessageID:       req.MessageID,
		Action:          d.Action,
		StopReason:      d.Revision.StopReason,
		Iterations:      d.Revision.IterationsUsed,
		StartConfidence: d.Revision.StartConfidence,
		EndConfidence:   d.Revision.EndConfidence,
		JobID:           d.JobID,
		CreatedAt:       e.now().UTC(),
	}
	if d.Plan != nil {
		runAt := d.Plan.RunAt.UTC()
		rec.RunAt = &runAt
		rec.DelaySeconds = d.Plan.DelaySeconds
		rec.ScheduleReason = d.Plan.Check.Reason
	}
	if err := e.store.RecordDecision(ctx, rec); err != nil {
		logger.Error("Failed to record decision", "message_id", req.MessageID, "error", err)
		return fmt.Errorf("failed to record decision: %w", err)
	}
	return nil
}
