package settings

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/autosend/internal/cli"
	"github.com/julianstephens/autosend/internal/cli/render"
	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/utils"
)

type WorkspaceShowCmd struct {
	ID string `arg:"" help:"Workspace ID."`
}

func (c *WorkspaceShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.WorkspaceSettings(c.ID)
	if err != nil {
		return err
	}
	ctx.Println(render.Title("Workspace " + c.ID))
	ctx.Print(render.KV(
		render.P("Timezone", settings.Timezone),
		render.P("Work hours", settings.WorkStartTime+"-"+settings.WorkEndTime),
		render.P("Autosend", render.Verdict(settings.AutoSendEnabled, "enabled", "disabled")),
		render.P("Schedule mode", settings.AutoSendScheduleMode),
		render.P("Custom schedule", settings.AutoSendCustomSchedule),
		render.P("Confidence threshold", strconv.FormatFloat(settings.ConfidenceThreshold, 'f', -1, 64)),
		render.P("Delay", fmt.Sprintf("%ds-%ds", settings.DelayMinSeconds, settings.DelayMaxSeconds)),
		render.P("Revision", render.Verdict(settings.RevisionEnabled, "enabled", "disabled")),
		render.P("Revision iterations", settings.RevisionMaxIterations),
		render.P("Revision model", settings.RevisionModel),
	))
	return nil
}

type WorkspaceSetCmd struct {
	ID string `arg:"" help:"Workspace ID."`

	Timezone      *string  `help:"IANA timezone of the workspace."`
	WorkStart     *string  `help:"Business hours start (HH:MM)."`
	WorkEnd       *string  `help:"Business hours end (HH:MM)."`
	Enabled       *bool    `help:"Enable or disable autonomous sending."`
	Mode          *string  `help:"Schedule mode: ALWAYS, BUSINESS_HOURS or CUSTOM."`
	ScheduleFile  string   `help:"Path to a custom schedule JSON document ('-' for stdin)." name:"schedule-file"`
	Threshold     *float64 `help:"Minimum confidence to send without review (0..1)."`
	DelayMin      *int     `help:"Minimum dispatch delay in seconds."`
	DelayMax      *int     `help:"Maximum dispatch delay in seconds."`
	Revision      *bool    `help:"Allow drafts to be revised."`
	MaxIterations *int     `help:"Revision iterations (1-3)."`
	Model         *string  `help:"Model hint passed to the reviser."`
}

func (c *WorkspaceSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.WorkspaceSettings(c.ID)
	if err != nil {
		return err
	}

	updated := false
	if c.Timezone != nil {
		if !utils.IsValidTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone: %s", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.WorkStart != nil {
		if !utils.ValidateTimeFormat(*c.WorkStart) {
			return fmt.Errorf("invalid work start %q, use HH:MM", *c.WorkStart)
		}
		settings.WorkStartTime = *c.WorkStart
		updated = true
	}
	if c.WorkEnd != nil {
		if !utils.ValidateTimeFormat(*c.WorkEnd) {
			return fmt.Errorf("invalid work end %q, use HH:MM", *c.WorkEnd)
		}
		settings.WorkEndTime = *c.WorkEnd
		updated = true
	}
	if c.Enabled != nil {
		settings.AutoSendEnabled = *c.Enabled
		updated = true
	}
	if c.Mode != nil {
		mode, ok := constants.ParseScheduleMode(*c.Mode)
		if !ok {
			return fmt.Errorf("invalid schedule mode %q (must be ALWAYS, BUSINESS_HOURS or CUSTOM)", *c.Mode)
		}
		settings.AutoSendScheduleMode = string(mode)
		updated = true
	}
	if c.ScheduleFile != "" {
		raw, err := cli.ReadSchedule(c.ScheduleFile)
		if err != nil {
			return err
		}
		settings.AutoSendCustomSchedule = raw
		updated = true
	}
	if c.Threshold != nil {
		if *c.Threshold < 0 || *c.Threshold > 1 {
			return fmt.Errorf("threshold must be within [0, 1], got %v", *c.Threshold)
		}
		settings.ConfidenceThreshold = *c.Threshold
		updated = true
	}
	if c.DelayMin != nil {
		settings.DelayMinSeconds = *c.DelayMin
		updated = true
	}
	if c.DelayMax != nil {
		settings.DelayMaxSeconds = *c.DelayMax
		updated = true
	}
	if settings.DelayMinSeconds < 0 || settings.DelayMinSeconds > settings.DelayMaxSeconds {
		return fmt.Errorf("invalid delay bounds %ds-%ds", settings.DelayMinSeconds, settings.DelayMaxSeconds)
	}
	if c.Revision != nil {
		settings.RevisionEnabled = *c.Revision
		updated = true
	}
	if c.MaxIterations != nil {
		n := *c.MaxIterations
		if n < constants.MinRevisionIterations || n > constants.MaxRevisionIterations {
			return fmt.Errorf("max iterations must be within [%d, %d], got %d",
				constants.MinRevisionIterations, constants.MaxRevisionIterations, n)
		}
		settings.RevisionMaxIterations = n
		updated = true
	}
	if c.Model != nil {
		settings.RevisionModel = *c.Model
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use 'workspace show' to view settings or flags to update them.")
		return nil
	}
	if settings.AutoSendScheduleMode == string(constants.ScheduleModeCustom) && settings.AutoSendCustomSchedule == "" {
		ctx.Println(render.Warning("CUSTOM mode without a custom schedule allows sending at any time."))
	}
	if err := ctx.Store.SaveWorkspaceSettings(ctx.Context(), settings); err != nil {
		return fmt.Errorf("failed to save workspace settings: %w", err)
	}
	ctx.Println(render.Success("Workspace settings updated."))
	return nil
}
