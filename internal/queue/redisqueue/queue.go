// Package redisqueue implements the dispatch queue on Redis.
//
// Pending jobs live in a sorted set scored by run time in Unix milliseconds;
// each job body is a hash. All keys are prefixed with the queue namespace.
package redisqueue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/models"
)

var (
	ErrNotFound     = errors.New("dispatch job not found")
	ErrDuplicateJob = errors.New("dispatch job already exists")
)

// Queue is a Redis-backed dispatch queue. It is safe for concurrent use.
type Queue struct {
	rdb       *redis.Client
	namespace string
}

// New creates a Queue. An empty namespace defaults to the application name.
func New(opts *redis.Options, namespace string) *Queue {
	if namespace == "" {
		namespace = constants.AppName
	}
	return &Queue{rdb: redis.NewClient(opts), namespace: namespace}
}

// Close closes the Redis connection.
func (q *Queue) Close() error {
	return q.rdb.Close()
}

// Ping verifies Redis connectivity.
func (q *Queue) Ping(ctx context.Context) error {
	return q.rdb.Ping(ctx).Err()
}

func (q *Queue) scheduleKey() string {
	return q.namespace + ":dispatch:schedule"
}

func (q *Queue) jobKey(id string) string {
	return q.namespace + ":dispatch:job:" + id
}

// Enqueue stores a job and schedules it at job.RunAt.
func (q *Queue) Enqueue(ctx context.Context, job models.DispatchJob) error {
	if job.ID == "" {
		return fmt.Errorf("job id is required")
	}
	status := job.Status
	if status == "" {
		status = constants.JobStatusPending
	}

	key := q.jobKey(job.ID)
	// A job exists once its status is written; the check and the writes run
	// in one WATCH/MULTI transaction so a failed enqueue leaves nothing behind.
	err := q.rdb.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.HExists(ctx, key, "status").Result()
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrDuplicateJob, job.ID)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key,
				"run_at", job.RunAt.UTC().UnixMilli(),
				"payload", job.Payload,
				"status", status,
				"created_at", job.CreatedAt.UTC().UnixMilli())
			pipe.ZAdd(ctx, q.scheduleKey(), redis.Z{
				Score:  float64(job.RunAt.UTC().UnixMilli()),
				Member: job.ID,
			})
			return nil
		})
		return err
	}, key)
	switch {
	case errors.Is(err, redis.TxFailedErr):
		return fmt.Errorf("%w: %s", ErrDuplicateJob, job.ID)
	case errors.Is(err, ErrDuplicateJob):
		return err
	case err != nil:
		return fmt.Errorf("failed to schedule job %s: %w", job.ID, err)
	}
	return nil
}

// Due returns up to limit pending jobs whose run time is at or before now.
func (q *Queue) Due(ctx context.Context, now time.Time, limit int) ([]models.DispatchJob, error) {
	if limit <= 0 {
		limit = 100
	}
	ids, err := q.rdb.ZRangeByScore(ctx, q.scheduleKey(), &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UTC().UnixMilli(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = q.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, q.jobKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}

	jobs := make([]models.DispatchJob, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// scheduled without a body; skip rather than fail the batch
			continue
		}
		job, err := decodeJob(ids[i], fields)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Ack removes a job from the schedule and marks it done.
func (q *Queue) Ack(ctx context.Context, id string) error {
	exists, err := q.rdb.Exists(ctx, q.jobKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to ack job %s: %w", id, err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	_, err = q.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, q.scheduleKey(), id)
		pipe.HSet(ctx, q.jobKey(id), "status", constants.JobStatusDone)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to ack job %s: %w", id, err)
	}
	return nil
}

func decodeJob(id string, fields map[string]string) (models.DispatchJob, error) {
	runAt, err := strconv.ParseInt(fields["run_at"], 10, 64)
	if err != nil {
		return models.DispatchJob{}, fmt.Errorf("job %s has invalid run_at: %w", id, err)
	}
	var createdAt int64
	if v := fields["created_at"]; v != "" {
		if createdAt, err = strconv.ParseInt(v, 10, 64); err != nil {
			return models.DispatchJob{}, fmt.Errorf("job %s has invalid created_at: %w", id, err)
		}
	}
	return models.DispatchJob{
		ID:        id,
		RunAt:     time.UnixMilli(runAt).UTC(),
		Payload:   []byte(fields["payload"]),
		Status:    fields["status"],
		CreatedAt: time.UnixMilli(createdAt).UTC(),
	}, nil
}
