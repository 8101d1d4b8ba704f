package sqlstore

import (
	"context"
	"fmt"

	"github.com/julianstephens/autosend/internal/models"
	"github.com/julianstephens/autosend/internal/storage"
)

func (b *Base) GetWorkspaceSettings(ctx context.Context, workspaceID string) (models.WorkspaceSettings, error) {
	rows, err := b.DB.QueryContext(ctx, b.rebind("SELECT key, value FROM workspace_settings WHERE workspace_id = ?"), workspaceID)
	if err != nil {
		return models.WorkspaceSettings{}, err
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.WorkspaceSettings{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.WorkspaceSettings{}, err
	}
	if len(data) == 0 {
		return models.WorkspaceSettings{}, fmt.Errorf("workspace %s settings: %w", workspaceID, storage.ErrNotFound)
	}

	settings, err := models.MapToSettings(workspaceID, data)
	if err != nil {
		return models.WorkspaceSettings{}, fmt.Errorf("workspace %s settings: %w", workspaceID, err)
	}
	return settings, nil
}

func (b *Base) SaveWorkspaceSettings(ctx context.Context, settings models.WorkspaceSettings) error {
	if settings.WorkspaceID == "" {
		return fmt.Errorf("workspace id is required")
	}
	upsert := b.rebind(`INSERT INTO workspace_settings (workspace_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT (workspace_id, key) DO UPDATE SET value = excluded.value`)

	return b.write(func() error {
		tx, err := b.DB.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		stmt, err := tx.PrepareContext(ctx, upsert)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for key, value := range models.SettingsToMap(settings) {
			if _, err := stmt.ExecContext(ctx, settings.WorkspaceID, key, value); err != nil {
				return fmt.Errorf("saving %s: %w", key, err)
			}
		}
		return tx.Commit()
	})
}
