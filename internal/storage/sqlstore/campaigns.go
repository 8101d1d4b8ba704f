package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/autosend/internal/models"
	"github.com/julianstephens/autosend/internal/storage"
)

const campaignColumns = "id, workspace_id, name, schedule_mode, custom_schedule"

func scanCampaign(row interface{ Scan(...any) error }) (models.CampaignSettings, error) {
	var c models.CampaignSettings
	err := row.Scan(&c.CampaignID, &c.WorkspaceID, &c.Name, &c.ScheduleMode, &c.CustomSchedule)
	return c, err
}

func (b *Base) GetCampaign(ctx context.Context, id string) (models.CampaignSettings, error) {
	row := b.DB.QueryRowContext(ctx, b.rebind("SELECT "+campaignColumns+" FROM campaigns WHERE id = ?"), id)
	c, err := scanCampaign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CampaignSettings{}, fmt.Errorf("campaign %s: %w", id, storage.ErrNotFound)
	}
	return c, err
}

func (b *Base) SaveCampaign(ctx context.Context, c models.CampaignSettings) error {
	if c.CampaignID == "" || c.WorkspaceID == "" {
		return fmt.Errorf("campaign id and workspace id are required")
	}
	upsert := b.rebind(`INSERT INTO campaigns (` + campaignColumns + `, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			workspace_id = excluded.workspace_id,
			name = excluded.name,
			schedule_mode = excluded.schedule_mode,
			custom_schedule = excluded.custom_schedule,
			updated_at = excluded.updated_at`)

	return b.write(func() error {
		_, err := b.DB.ExecContext(ctx, upsert,
			c.CampaignID, c.WorkspaceID, c.Name, c.ScheduleMode, c.CustomSchedule, toMillis(time.Now()))
		return err
	})
}

func (b *Base) ListCampaigns(ctx context.Context, workspaceID string) ([]models.CampaignSettings, error) {
	rows, err := b.DB.QueryContext(ctx,
		b.rebind("SELECT "+campaignColumns+" FROM campaigns WHERE workspace_id = ? ORDER BY name, id"), workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.CampaignSettings
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}
