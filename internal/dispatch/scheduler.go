package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/logger"
	"github.com/julianstephens/autosend/internal/models"
	"github.com/julianstephens/autosend/internal/schedule"
)

// ErrNoQueue is returned by Schedule when the Scheduler has no queue.
var ErrNoQueue = errors.New("no dispatch queue configured")

// Queue is a delayed job queue. It guarantees a job is returned by Due no
// earlier than its RunAt.
type Queue interface {
	Enqueue(ctx context.Context, job models.DispatchJob) error
	Due(ctx context.Context, now time.Time, limit int) ([]models.DispatchJob, error)
	Ack(ctx context.Context, id string) error
}

// Plan describes when a reply should be dispatched.
type Plan struct {
	MessageID    string                     `json:"message_id"`
	SentAt       time.Time                  `json:"sent_at"`
	DelaySeconds int                        `json:"delay_seconds"`
	Target       time.Time                  `json:"target"`
	RunAt        time.Time                  `json:"run_at"`
	Deferred     bool                       `json:"deferred"`
	Check        models.ScheduleCheckResult `json:"check"`
}

// PlanDispatch computes the run time for a reply to messageID. The target is
// sentAt plus the deterministic delay, moved to the next window opening when
// it falls outside the schedule.
func PlanDispatch(cfg models.ScheduleConfig, messageID string, sentAt time.Time, minSeconds, maxSeconds int) Plan {
	delay := DeterministicDelay(messageID, minSeconds, maxSeconds)
	target := sentAt.Add(time.Duration(delay) * time.Second)

	plan := Plan{
		MessageID:    messageID,
		SentAt:       sentAt,
		DelaySeconds: delay,
		Target:       target,
		RunAt:        target,
		Check:        schedule.IsWithinSchedule(cfg, target),
	}
	if !plan.Check.WithinSchedule {
		plan.RunAt = schedule.NextAutoSendWindow(cfg, target)
		plan.Deferred = true
	}
	return plan
}

// Scheduler hands planned dispatches to a Queue. It executes nothing itself.
type Scheduler struct {
	queue Queue
	now   func() time.Time
	newID func() string
}

// NewScheduler creates a Scheduler backed by queue.
func NewScheduler(queue Queue) *Scheduler {
	return &Scheduler{
		queue: queue,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Schedule enqueues a job for plan.RunAt carrying payload.
func (s *Scheduler) Schedule(ctx context.Context, plan Plan, payload models.DispatchPayload) (models.DispatchJob, error) {
	if s.queue == nil {
		return models.DispatchJob{}, ErrNoQueue
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return models.DispatchJob{}, fmt.Errorf("failed to encode dispatch payload: %w", err)
	}

	job := models.DispatchJob{
		ID:        s.newID(),
		RunAt:     plan.RunAt.UTC(),
		Payload:   body,
		Status:    constants.JobStatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		logger.Error("Failed to enqueue dispatch job", "message_id", plan.MessageID, "error", err)
		return models.DispatchJob{}, fmt.Errorf("failed to enqueue dispatch job: %w", err)
	}

	logger.Info("Dispatch job scheduled",
		"job_id", job.ID,
		"message_id", plan.MessageID,
		"run_at", job.RunAt.Format(time.RFC3339),
		"deferred", plan.Deferred)
	return job, nil
}

// Due returns jobs whose run time has passed.
func (s *Scheduler) Due(ctx context.Context, limit int) ([]models.DispatchJob, error) {
	if s.queue == nil {
		return nil, ErrNoQueue
	}
	return s.queue.Due(ctx, s.now(), limit)
}

// Ack marks a job as handled.
func (s *Scheduler) Ack(ctx context.Context, id string) error {
	if s.queue == nil {
		return ErrNoQueue
	}
	return s.queue.Ack(ctx, id)
}

// DecodePayload parses a job payload.
func DecodePayload(job models.DispatchJob) (models.DispatchPayload, error) {
	var payload models.DispatchPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to decode payload of job %s: %w", job.ID, err)
	}
	return payload, nil
}
