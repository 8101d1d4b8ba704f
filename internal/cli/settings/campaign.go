package settings

import (
	"errors"
	"fmt"

	"github.com/julianstephens/autosend/internal/cli"
	"github.com/julianstephens/autosend/internal/cli/render"
	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/models"
	"github.com/julianstephens/autosend/internal/storage"
)

type CampaignShowCmd struct {
	ID string `arg:"" help:"Campaign ID."`
}

func (c *CampaignShowCmd) Run(ctx *cli.Context) error {
	campaign, err := ctx.Campaign(c.ID)
	if err != nil {
		return err
	}
	ctx.Println(render.Title("Campaign " + campaign.CampaignID))
	ctx.Print(render.KV(
		render.P("Name", campaign.Name),
		render.P("Workspace", campaign.WorkspaceID),
		render.P("Schedule mode", inherited(campaign.ScheduleMode)),
		render.P("Custom schedule", inherited(campaign.CustomSchedule)),
	))
	return nil
}

func inherited(v string) string {
	if v == "" {
		return "(workspace)"
	}
	return v
}

type CampaignListCmd struct {
	Workspace string `arg:"" help:"Workspace ID."`
}

func (c *CampaignListCmd) Run(ctx *cli.Context) error {
	campaigns, err := ctx.Store.ListCampaigns(ctx.Context(), c.Workspace)
	if err != nil {
		return fmt.Errorf("failed to list campaigns: %w", err)
	}
	if len(campaigns) == 0 {
		ctx.Println("No campaigns found")
		return nil
	}
	ctx.Println(render.Title("Campaigns in " + c.Workspace))
	for _, campaign := range campaigns {
		ctx.Printf("  %s  %s  mode=%s\n", campaign.CampaignID, campaign.Name, inherited(campaign.ScheduleMode))
	}
	return nil
}

type CampaignSetCmd struct {
	ID string `arg:"" help:"Campaign ID."`

	Workspace    string  `help:"Owning workspace ID (required for a new campaign)."`
	Name         *string `help:"Display name."`
	Mode         *string `help:"Schedule mode override: ALWAYS, BUSINESS_HOURS or CUSTOM."`
	ScheduleFile string  `help:"Path to a custom schedule JSON document ('-' for stdin)." name:"schedule-file"`
	Inherit      bool    `help:"Clear the mode and custom schedule overrides."`
}

func (c *CampaignSetCmd) Run(ctx *cli.Context) error {
	campaign, err := ctx.Store.GetCampaign(ctx.Context(), c.ID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		if c.Workspace == "" {
			return fmt.Errorf("campaign %s does not exist; --workspace is required to create it", c.ID)
		}
		campaign = models.CampaignSettings{CampaignID: c.ID, WorkspaceID: c.Workspace, Name: c.ID}
	case err != nil:
		return fmt.Errorf("failed to get campaign: %w", err)
	case c.Workspace != "" && c.Workspace != campaign.WorkspaceID:
		return fmt.Errorf("campaign %s belongs to workspace %s", c.ID, campaign.WorkspaceID)
	}

	if c.Inherit {
		campaign.ScheduleMode = ""
		campaign.CustomSchedule = ""
	}
	if c.Name != nil {
		campaign.Name = *c.Name
	}
	if c.Mode != nil {
		mode, ok := constants.ParseScheduleMode(*c.Mode)
		if !ok {
			return fmt.Errorf("invalid schedule mode %q (must be ALWAYS, BUSINESS_HOURS or CUSTOM)", *c.Mode)
		}
		campaign.ScheduleMode = string(mode)
	}
	if c.ScheduleFile != "" {
		raw, err := cli.ReadSchedule(c.ScheduleFile)
		if err != nil {
			return err
		}
		campaign.CustomSchedule = raw
	}

	if err := ctx.Store.SaveCampaign(ctx.Context(), campaign); err != nil {
		return fmt.Errorf("failed to save campaign: %w", err)
	}
	ctx.Println(render.Success("Campaign " + campaign.CampaignID + " saved."))
	return nil
}
