package redisqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/dispatch"
	"github.com/julianstephens/autosend/internal/models"
)

var _ dispatch.Queue = (*Queue)(nil)

func setupQueue(t *testing.T) (*Queue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	q := New(&redis.Options{Addr: mr.Addr()}, "test")
	t.Cleanup(func() { q.Close() })
	return q, mr
}

func TestEnqueueDueAck(t *testing.T) {
	q, mr := setupQueue(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	if err := q.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	jobs := []models.DispatchJob{
		{ID: "job_b", RunAt: base.Add(time.Hour), Payload: []byte(`{"n":2}`), CreatedAt: base},
		{ID: "job_a", RunAt: base, Payload: []byte(`{"n":1}`), CreatedAt: base},
		{ID: "job_c", RunAt: base.Add(48 * time.Hour), Payload: []byte(`{"n":3}`), CreatedAt: base},
	}
	for _, j := range jobs {
		if err := q.Enqueue(ctx, j); err != nil {
			t.Fatalf("Enqueue(%s) error = %v", j.ID, err)
		}
	}

	if !mr.Exists("test:dispatch:job:job_a") {
		t.Error("job hash not written under namespace")
	}
	members, err := mr.ZMembers("test:dispatch:schedule")
	if err != nil || len(members) != 3 {
		t.Fatalf("schedule members = %v, %v", members, err)
	}

	due, err := q.Due(ctx, base.Add(2*time.Hour), 10)
	if err != nil {
		t.Fatalf("Due() error = %v", err)
	}
	if len(due) != 2 || due[0].ID != "job_a" || due[1].ID != "job_b" {
		t.Fatalf("Due() = %+v", due)
	}
	if !due[0].RunAt.Equal(base) || string(due[0].Payload) != `{"n":1}` || due[0].Status != constants.JobStatusPending {
		t.Errorf("due[0] = %+v", due[0])
	}

	if due, _ = q.Due(ctx, base.Add(2*time.Hour), 1); len(due) != 1 {
		t.Errorf("Due() limit ignored: %d", len(due))
	}

	if err := q.Ack(ctx, "job_a"); err != nil {
		t.Fatalf("Ack() error = %v", err)
	}
	if status := mr.HGet("test:dispatch:job:job_a", "status"); status != constants.JobStatusDone {
		t.Errorf("status after ack = %q", status)
	}
	due, _ = q.Due(ctx, base.Add(2*time.Hour), 10)
	if len(due) != 1 || due[0].ID != "job_b" {
		t.Errorf("Due() after ack = %+v", due)
	}
}

func TestEnqueueDuplicate(t *testing.T) {
	q, _ := setupQueue(t)
	ctx := context.Background()
	job := models.DispatchJob{ID: "job_1", RunAt: time.Now(), Payload: []byte("{}")}

	if err := q.Enqueue(ctx, job); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if err := q.Enqueue(ctx, job); !errors.Is(err, ErrDuplicateJob) {
		t.Errorf("second Enqueue() error = %v, want ErrDuplicateJob", err)
	}
	if err := q.Enqueue(ctx, models.DispatchJob{}); err == nil {
		t.Error("Enqueue() without id should fail")
	}
}

func TestEnqueueRetryAfterFailure(t *testing.T) {
	q, mr := setupQueue(t)
	ctx := context.Background()
	job := models.DispatchJob{ID: "job_1", RunAt: time.Now().Add(-time.Minute), Payload: []byte("{}")}

	mr.Close()
	if err := q.Enqueue(ctx, job); err == nil {
		t.Fatal("Enqueue() should fail while redis is down")
	}
	if err := mr.Restart(); err != nil {
		t.Fatalf("Restart() error = %v", err)
	}

	if err := q.Enqueue(ctx, job); err != nil {
		t.Fatalf("retried Enqueue() error = %v", err)
	}
	due, err := q.Due(ctx, time.Now(), 10)
	if err != nil || len(due) != 1 || due[0].ID != "job_1" {
		t.Errorf("Due() = %+v, %v", due, err)
	}
}

func TestEnqueueReplacesPartialJob(t *testing.T) {
	q, mr := setupQueue(t)
	ctx := context.Background()
	runAt := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	// body without status or schedule entry
	mr.HSet("test:dispatch:job:job_1", "run_at", "1")

	job := models.DispatchJob{ID: "job_1", RunAt: runAt, Payload: []byte(`{"n":1}`), CreatedAt: runAt}
	if err := q.Enqueue(ctx, job); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	due, err := q.Due(ctx, runAt, 10)
	if err != nil || len(due) != 1 {
		t.Fatalf("Due() = %+v, %v", due, err)
	}
	if !due[0].RunAt.Equal(runAt) || due[0].Status != constants.JobStatusPending {
		t.Errorf("due[0] = %+v", due[0])
	}

	if err := q.Ack(ctx, "job_1"); err != nil {
		t.Fatalf("Ack() error = %v", err)
	}
	if err := q.Enqueue(ctx, job); !errors.Is(err, ErrDuplicateJob) {
		t.Errorf("Enqueue() after ack error = %v, want ErrDuplicateJob", err)
	}
}

func TestAckMissing(t *testing.T) {
	q, _ := setupQueue(t)
	if err := q.Ack(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Ack() error = %v, want ErrNotFound", err)
	}
}

func TestDueEmpty(t *testing.T) {
	q, _ := setupQueue(t)
	due, err := q.Due(context.Background(), time.Now(), 10)
	if err != nil || len(due) != 0 {
		t.Errorf("Due() = %v, %v", due, err)
	}
}

func TestSchedulerOnRedis(t *testing.T) {
	q, _ := setupQueue(t)
	ctx := context.Background()
	s := dispatch.NewScheduler(q)

	plan := dispatch.Plan{MessageID: "msg_1", RunAt: time.Now().Add(-time.Minute)}
	job, err := s.Schedule(ctx, plan, models.DispatchPayload{WorkspaceID: "ws_1", InboundMessageID: "msg_1"})
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	due, err := s.Due(ctx, 10)
	if err != nil || len(due) != 1 || due[0].ID != job.ID {
		t.Fatalf("Due() = %+v, %v", due, err)
	}
	payload, err := dispatch.DecodePayload(due[0])
	if err != nil || payload.InboundMessageID != "msg_1" {
		t.Errorf("DecodePayload() = %+v, %v", payload, err)
	}
}
