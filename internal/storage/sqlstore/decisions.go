package sqlstore

import (
	"context"
	"database/sql"

	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/models"
)

func (b *Base) RecordDecision(ctx context.Context, r models.DecisionRecord) error {
	var runAt sql.NullInt64
	if r.RunAt != nil {
		runAt = sql.NullInt64{Int64: toMillis(*r.RunAt), Valid: true}
	}
	insert := b.rebind(`INSERT INTO decisions (id, workspace_id, campaign_id, message_id, action,
		schedule_reason, stop_reason, iterations, start_confidence, end_confidence,
		delay_seconds, run_at, job_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	return b.write(func() error {
		_, err := b.DB.ExecContext(ctx, insert,
			r.ID, r.WorkspaceID, r.CampaignID, r.MessageID, string(r.Action),
			string(r.ScheduleReason), string(r.StopReason), r.Iterations, r.StartConfidence, r.EndConfidence,
			r.DelaySeconds, runAt, r.JobID, toMillis(r.CreatedAt))
		return err
	})
}

func (b *Base) ListDecisions(ctx context.Context, workspaceID string, limit int) ([]models.DecisionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := b.DB.QueryContext(ctx, b.rebind(`SELECT id, workspace_id, campaign_id, message_id, action,
		schedule_reason, stop_reason, iterations, start_confidence, end_confidence,
		delay_seconds, run_at, job_id, created_at
		FROM decisions WHERE workspace_id = ?
		ORDER BY created_at DESC, id LIMIT ?`), workspaceID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.DecisionRecord
	for rows.Next() {
		var r models.DecisionRecord
		var action, scheduleReason, stopReason string
		var runAt sql.NullInt64
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.WorkspaceID, &r.CampaignID, &r.MessageID, &action,
			&scheduleReason, &stopReason, &r.Iterations, &r.StartConfidence, &r.EndConfidence,
			&r.DelaySeconds, &runAt, &r.JobID, &createdAt); err != nil {
			return nil, err
		}
		r.Action = constants.DecisionAction(action)
		r.ScheduleReason = constants.CheckReason(scheduleReason)
		r.StopReason = constants.StopReason(stopReason)
		if runAt.Valid {
			t := fromMillis(runAt.Int64)
			r.RunAt = &t
		}
		r.CreatedAt = fromMillis(createdAt)
		records = append(records, r)
	}
	return records, rows.Err()
}
