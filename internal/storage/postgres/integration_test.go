package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/models"
)

// Set AUTOSEND_TEST_POSTGRES to run, e.g.
// AUTOSEND_TEST_POSTGRES="postgres://autosend@localhost:5432/autosend_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("AUTOSEND_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("AUTOSEND_TEST_POSTGRES not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	workspaceID := "ws_" + uuid.NewString()

	t.Run("WorkspaceSettings", func(t *testing.T) {
		settings := models.DefaultWorkspaceSettings(workspaceID)
		settings.AutoSendScheduleMode = string(constants.ScheduleModeBusinessHours)
		if err := store.SaveWorkspaceSettings(ctx, settings); err != nil {
			t.Fatalf("SaveWorkspaceSettings() error = %v", err)
		}
		got, err := store.GetWorkspaceSettings(ctx, workspaceID)
		if err != nil {
			t.Fatalf("GetWorkspaceSettings() error = %v", err)
		}
		if got != settings {
			t.Errorf("got %+v, want %+v", got, settings)
		}
	})

	t.Run("Campaigns", func(t *testing.T) {
		c := models.CampaignSettings{CampaignID: "camp_" + uuid.NewString(), WorkspaceID: workspaceID, Name: "Pilot"}
		if err := store.SaveCampaign(ctx, c); err != nil {
			t.Fatalf("SaveCampaign() error = %v", err)
		}
		got, err := store.GetCampaign(ctx, c.CampaignID)
		if err != nil || got != c {
			t.Errorf("GetCampaign() = %+v, %v", got, err)
		}
	})

	t.Run("DispatchJobs", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Millisecond)
		job := models.DispatchJob{ID: uuid.NewString(), RunAt: now.Add(-time.Minute), Payload: []byte(`{}`), CreatedAt: now}
		if err := store.Enqueue(ctx, job); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}
		due, err := store.Due(ctx, now, 1000)
		if err != nil {
			t.Fatalf("Due() error = %v", err)
		}
		found := false
		for _, j := range due {
			if j.ID == job.ID {
				found = true
			}
		}
		if !found {
			t.Fatalf("enqueued job not due")
		}
		if err := store.Ack(ctx, job.ID); err != nil {
			t.Fatalf("Ack() error = %v", err)
		}
	})
}
