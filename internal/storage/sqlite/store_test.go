package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/models"
	"github.com/julianstephens/autosend/internal/storage"
)

var _ storage.Provider = (*Store)(nil)

func setupStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "autosend.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInitAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "autosend.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	st, err := store.MigrationStatus()
	if err != nil {
		t.Fatalf("MigrationStatus() error = %v", err)
	}
	if st.Current != st.Latest || len(st.Pending) != 0 {
		t.Errorf("schema not fully migrated: %+v", st)
	}
	store.Close()

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer reopened.Close()
	if reopened.GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q", reopened.GetConfigPath())
	}
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Fatal("Load() should fail before Init")
	}
}

func TestWorkspaceSettings(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.GetWorkspaceSettings(ctx, "ws_1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetWorkspaceSettings() error = %v, want ErrNotFound", err)
	}

	settings := models.DefaultWorkspaceSettings("ws_1")
	settings.Timezone = "Europe/Berlin"
	settings.AutoSendScheduleMode = string(constants.ScheduleModeCustom)
	settings.AutoSendCustomSchedule = `{"version":1,"days":[1,2,3],"startTime":"08:00","endTime":"12:00"}`
	settings.ConfidenceThreshold = 0.82
	settings.RevisionEnabled = true
	settings.RevisionMaxIterations = 3
	settings.AutoSendEnabled = false

	if err := store.SaveWorkspaceSettings(ctx, settings); err != nil {
		t.Fatalf("SaveWorkspaceSettings() error = %v", err)
	}
	got, err := store.GetWorkspaceSettings(ctx, "ws_1")
	if err != nil {
		t.Fatalf("GetWorkspaceSettings() error = %v", err)
	}
	if got != settings {
		t.Errorf("GetWorkspaceSettings() = %+v, want %+v", got, settings)
	}

	// update in place
	settings.ConfidenceThreshold = 0.6
	if err := store.SaveWorkspaceSettings(ctx, settings); err != nil {
		t.Fatalf("SaveWorkspaceSettings() update error = %v", err)
	}
	got, _ = store.GetWorkspaceSettings(ctx, "ws_1")
	if got.ConfidenceThreshold != 0.6 {
		t.Errorf("ConfidenceThreshold = %v, want 0.6", got.ConfidenceThreshold)
	}

	// zero values are stored choices, not gaps
	settings.ConfidenceThreshold = 0
	settings.DelayMinSeconds, settings.DelayMaxSeconds = 0, 0
	if err := store.SaveWorkspaceSettings(ctx, settings); err != nil {
		t.Fatalf("SaveWorkspaceSettings() zero values error = %v", err)
	}
	got, _ = store.GetWorkspaceSettings(ctx, "ws_1")
	if got.ConfidenceThreshold != 0 || got.DelayMinSeconds != 0 || got.DelayMaxSeconds != 0 {
		t.Errorf("zero values read back as threshold=%v delay=[%d,%d]", got.ConfidenceThreshold, got.DelayMinSeconds, got.DelayMaxSeconds)
	}

	if err := store.SaveWorkspaceSettings(ctx, models.WorkspaceSettings{}); err == nil {
		t.Error("SaveWorkspaceSettings() without id should fail")
	}
}

func TestCampaigns(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.GetCampaign(ctx, "camp_1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetCampaign() error = %v, want ErrNotFound", err)
	}

	campaigns := []models.CampaignSettings{
		{CampaignID: "camp_2", WorkspaceID: "ws_1", Name: "Renewals", ScheduleMode: "BUSINESS_HOURS"},
		{CampaignID: "camp_1", WorkspaceID: "ws_1", Name: "Outbound Q1"},
		{CampaignID: "camp_3", WorkspaceID: "ws_2", Name: "Other"},
	}
	for _, c := range campaigns {
		if err := store.SaveCampaign(ctx, c); err != nil {
			t.Fatalf("SaveCampaign(%s) error = %v", c.CampaignID, err)
		}
	}

	got, err := store.GetCampaign(ctx, "camp_2")
	if err != nil || got != campaigns[0] {
		t.Errorf("GetCampaign() = %+v, %v", got, err)
	}

	list, err := store.ListCampaigns(ctx, "ws_1")
	if err != nil {
		t.Fatalf("ListCampaigns() error = %v", err)
	}
	if len(list) != 2 || list[0].Name != "Outbound Q1" || list[1].Name != "Renewals" {
		t.Errorf("ListCampaigns() = %+v", list)
	}

	updated := campaigns[1]
	updated.CustomSchedule = `{"version":1,"days":[4],"startTime":"09:00","endTime":"17:00"}`
	if err := store.SaveCampaign(ctx, updated); err != nil {
		t.Fatalf("SaveCampaign() update error = %v", err)
	}
	if got, _ = store.GetCampaign(ctx, "camp_1"); got.CustomSchedule != updated.CustomSchedule {
		t.Errorf("CustomSchedule = %q", got.CustomSchedule)
	}
}

func TestDispatchJobs(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	jobs := []models.DispatchJob{
		{ID: "job_late", RunAt: base.Add(2 * time.Hour), Payload: []byte(`{"n":2}`), CreatedAt: base},
		{ID: "job_early", RunAt: base, Payload: []byte(`{"n":1}`), CreatedAt: base},
		{ID: "job_mid", RunAt: base.Add(time.Hour), Payload: []byte(`{"n":3}`), CreatedAt: base},
	}
	for _, j := range jobs {
		if err := store.Enqueue(ctx, j); err != nil {
			t.Fatalf("Enqueue(%s) error = %v", j.ID, err)
		}
	}
	if err := store.Enqueue(ctx, jobs[0]); err == nil {
		t.Error("Enqueue() duplicate id should fail")
	}

	due, err := store.Due(ctx, base.Add(90*time.Minute), 10)
	if err != nil {
		t.Fatalf("Due() error = %v", err)
	}
	if len(due) != 2 || due[0].ID != "job_early" || due[1].ID != "job_mid" {
		t.Fatalf("Due() = %+v", due)
	}
	if !due[0].RunAt.Equal(base) || string(due[0].Payload) != `{"n":1}` || due[0].Status != constants.JobStatusPending {
		t.Errorf("due[0] = %+v", due[0])
	}

	if due, _ = store.Due(ctx, base.Add(3*time.Hour), 1); len(due) != 1 {
		t.Errorf("Due() limit ignored: %d", len(due))
	}

	if err := store.Ack(ctx, "job_early"); err != nil {
		t.Fatalf("Ack() error = %v", err)
	}
	if err := store.Ack(ctx, "job_missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Ack() missing error = %v, want ErrNotFound", err)
	}
	due, _ = store.Due(ctx, base.Add(3*time.Hour), 10)
	if len(due) != 2 || due[0].ID != "job_mid" {
		t.Errorf("Due() after ack = %+v", due)
	}
}

func TestDecisions(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	runAt := time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC)

	records := []models.DecisionRecord{
		{
			ID: "d1", WorkspaceID: "ws_1", MessageID: "msg_1", Action: constants.ActionDefer,
			ScheduleReason: constants.ReasonOutsideWindow, StopReason: constants.StopThresholdMet,
			StartConfidence: 0.8, EndConfidence: 0.8, DelaySeconds: 300, RunAt: &runAt, JobID: "job_1",
			CreatedAt: runAt.Add(-12 * time.Hour),
		},
		{
			ID: "d2", WorkspaceID: "ws_1", MessageID: "msg_2", Action: constants.ActionBlock,
			StopReason: constants.StopHardBlock, CreatedAt: runAt.Add(-time.Hour),
		},
	}
	for _, r := range records {
		if err := store.RecordDecision(ctx, r); err != nil {
			t.Fatalf("RecordDecision(%s) error = %v", r.ID, err)
		}
	}

	got, err := store.ListDecisions(ctx, "ws_1", 10)
	if err != nil {
		t.Fatalf("ListDecisions() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "d2" || got[1].ID != "d1" {
		t.Fatalf("ListDecisions() = %+v", got)
	}
	if got[0].RunAt != nil {
		t.Errorf("blocked decision should have no run time")
	}
	if got[1].RunAt == nil || !got[1].RunAt.Equal(runAt) || got[1].Action != constants.ActionDefer || got[1].JobID != "job_1" {
		t.Errorf("deferred decision = %+v", got[1])
	}
}
