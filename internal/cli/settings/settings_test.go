package settings

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/autosend/internal/cli"
	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out}, out
}

func ptr[T any](v T) *T { return &v }

func writeSchedule(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schedule.json")
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWorkspaceShowDefaults(t *testing.T) {
	ctx, out := setupTestDB(t)
	if err := (&WorkspaceShowCmd{ID: "ws_1"}).Run(ctx); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out.String(), constants.DefaultTimezone) {
		t.Errorf("output = %q", out.String())
	}
}

func TestWorkspaceSet(t *testing.T) {
	ctx, _ := setupTestDB(t)
	path := writeSchedule(t, `{"version":1,"days":[1,2,3,4,5],"startTime":"08:00","endTime":"18:00","holidays":{"preset":"US_FEDERAL_PLUS_COMMON"}}`)

	cmd := &WorkspaceSetCmd{
		ID:            "ws_1",
		Timezone:      ptr("Europe/London"),
		Mode:          ptr("CUSTOM"),
		ScheduleFile:  path,
		Threshold:     ptr(0.8),
		DelayMin:      ptr(60),
		DelayMax:      ptr(120),
		Revision:      ptr(true),
		MaxIterations: ptr(3),
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := ctx.Store.GetWorkspaceSettings(context.Background(), "ws_1")
	if err != nil {
		t.Fatalf("GetWorkspaceSettings() error = %v", err)
	}
	if got.Timezone != "Europe/London" || got.AutoSendScheduleMode != "CUSTOM" || got.ConfidenceThreshold != 0.8 {
		t.Errorf("settings = %+v", got)
	}
	if got.DelayMinSeconds != 60 || got.DelayMaxSeconds != 120 || !got.RevisionEnabled || got.RevisionMaxIterations != 3 {
		t.Errorf("settings = %+v", got)
	}
	if !strings.Contains(got.AutoSendCustomSchedule, `"startTime":"08:00"`) {
		t.Errorf("custom schedule = %q", got.AutoSendCustomSchedule)
	}
	// untouched fields keep their defaults
	if got.WorkStartTime != constants.DefaultWorkStartTime || !got.AutoSendEnabled {
		t.Errorf("defaults lost: %+v", got)
	}
}

func TestWorkspaceSetRejects(t *testing.T) {
	tests := []struct {
		name string
		cmd  WorkspaceSetCmd
	}{
		{"timezone", WorkspaceSetCmd{Timezone: ptr("Mars/Base")}},
		{"work start", WorkspaceSetCmd{WorkStart: ptr("9am")}},
		{"mode", WorkspaceSetCmd{Mode: ptr("WEEKENDS")}},
		{"threshold", WorkspaceSetCmd{Threshold: ptr(1.2)}},
		{"delay bounds", WorkspaceSetCmd{DelayMin: ptr(500), DelayMax: ptr(100)}},
		{"iterations", WorkspaceSetCmd{MaxIterations: ptr(5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestDB(t)
			tt.cmd.ID = "ws_1"
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected an error")
			}
		})
	}

	t.Run("invalid schedule document", func(t *testing.T) {
		ctx, _ := setupTestDB(t)
		path := writeSchedule(t, `{"version":2,"days":[],"startTime":"25:00"}`)
		err := (&WorkspaceSetCmd{ID: "ws_1", ScheduleFile: path}).Run(ctx)
		if err == nil || !strings.Contains(err.Error(), "Unsupported custom schedule version") {
			t.Errorf("error = %v", err)
		}
	})
}

func TestWorkspaceSetNoChanges(t *testing.T) {
	ctx, out := setupTestDB(t)
	if err := (&WorkspaceSetCmd{ID: "ws_1"}).Run(ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if !strings.Contains(out.String(), "No changes") {
		t.Errorf("output = %q", out.String())
	}
}

func TestCampaignLifecycle(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&CampaignSetCmd{ID: "camp_1"}).Run(ctx); err == nil {
		t.Error("creating a campaign without --workspace should fail")
	}

	path := writeSchedule(t, `{"version":1,"days":[6],"startTime":"10:00","endTime":"12:00"}`)
	create := &CampaignSetCmd{ID: "camp_1", Workspace: "ws_1", Name: ptr("Spring"), Mode: ptr("CUSTOM"), ScheduleFile: path}
	if err := create.Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := (&CampaignSetCmd{ID: "camp_1", Workspace: "ws_2"}).Run(ctx); err == nil {
		t.Error("moving a campaign to another workspace should fail")
	}

	got, err := ctx.Store.GetCampaign(context.Background(), "camp_1")
	if err != nil {
		t.Fatalf("GetCampaign() error = %v", err)
	}
	if got.Name != "Spring" || got.ScheduleMode != "CUSTOM" || got.CustomSchedule == "" {
		t.Errorf("campaign = %+v", got)
	}

	if err := (&CampaignSetCmd{ID: "camp_1", Inherit: true}).Run(ctx); err != nil {
		t.Fatalf("inherit failed: %v", err)
	}
	got, _ = ctx.Store.GetCampaign(context.Background(), "camp_1")
	if got.ScheduleMode != "" || got.CustomSchedule != "" || got.Name != "Spring" {
		t.Errorf("after inherit = %+v", got)
	}

	out.Reset()
	if err := (&CampaignShowCmd{ID: "camp_1"}).Run(ctx); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out.String(), "(workspace)") {
		t.Errorf("show output = %q", out.String())
	}

	out.Reset()
	if err := (&CampaignListCmd{Workspace: "ws_1"}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "camp_1") {
		t.Errorf("list output = %q", out.String())
	}

	if err := (&CampaignShowCmd{ID: "missing"}).Run(ctx); err == nil {
		t.Error("showing a missing campaign should fail")
	}
}
