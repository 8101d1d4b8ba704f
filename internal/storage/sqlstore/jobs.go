package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/models"
	"github.com/julianstephens/autosend/internal/storage"
)

func (b *Base) Enqueue(ctx context.Context, job models.DispatchJob) error {
	status := job.Status
	if status == "" {
		status = constants.JobStatusPending
	}
	insert := b.rebind("INSERT INTO dispatch_jobs (id, run_at, payload, status, created_at) VALUES (?, ?, ?, ?, ?)")
	return b.write(func() error {
		_, err := b.DB.ExecContext(ctx, insert, job.ID, toMillis(job.RunAt), job.Payload, status, toMillis(job.CreatedAt))
		return err
	})
}

func (b *Base) Due(ctx context.Context, now time.Time, limit int) ([]models.DispatchJob, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := b.DB.QueryContext(ctx, b.rebind(`SELECT id, run_at, payload, status, created_at
		FROM dispatch_jobs WHERE status = ? AND run_at <= ?
		ORDER BY run_at, id LIMIT ?`), constants.JobStatusPending, toMillis(now), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.DispatchJob
	for rows.Next() {
		var j models.DispatchJob
		var runAt, createdAt int64
		if err := rows.Scan(&j.ID, &runAt, &j.Payload, &j.Status, &createdAt); err != nil {
			return nil, err
		}
		j.RunAt = fromMillis(runAt)
		j.CreatedAt = fromMillis(createdAt)
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (b *Base) Ack(ctx context.Context, id string) error {
	update := b.rebind("UPDATE dispatch_jobs SET status = ? WHERE id = ?")
	return b.write(func() error {
		res, err := b.DB.ExecContext(ctx, update, constants.JobStatusDone, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("job %s: %w", id, storage.ErrNotFound)
		}
		return nil
	})
}
