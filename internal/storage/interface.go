package storage

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/autosend/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Workspace settings
	GetWorkspaceSettings(ctx context.Context, workspaceID string) (models.WorkspaceSettings, error)
	SaveWorkspaceSettings(ctx context.Context, settings models.WorkspaceSettings) error

	// Campaigns
	GetCampaign(ctx context.Context, id string) (models.CampaignSettings, error)
	SaveCampaign(ctx context.Context, campaign models.CampaignSettings) error
	ListCampaigns(ctx context.Context, workspaceID string) ([]models.CampaignSettings, error)

	// Dispatch jobs
	Enqueue(ctx context.Context, job models.DispatchJob) error
	// Due returns pending jobs whose run time is at or before now, oldest first.
	Due(ctx context.Context, now time.Time, limit int) ([]models.DispatchJob, error)
	Ack(ctx context.Context, id string) error

	// Decision log
	RecordDecision(ctx context.Context, record models.DecisionRecord) error
	ListDecisions(ctx context.Context, workspaceID string, limit int) ([]models.DecisionRecord, error)

	// Utils
	GetConfigPath() string
}
