package dispatches

import (
	"fmt"

	"github.com/julianstephens/autosend/internal/cli"
	"github.com/julianstephens/autosend/internal/cli/render"
	"github.com/julianstephens/autosend/internal/dispatch"
)

type PlanCmd struct {
	Workspace string `required:"" help:"Workspace ID."`
	Campaign  string `help:"Campaign ID whose overrides apply."`
	Message   string `required:"" help:"Inbound message ID; seeds the delay."`
	SentAt    string `name:"sent-at" help:"Inbound message receipt time (RFC 3339, default now)."`
	LeadTZ    string `name:"lead-tz" help:"Lead's IANA timezone."`
}

func (c *PlanCmd) Run(ctx *cli.Context) error {
	sentAt, err := cli.ParseInstant(c.SentAt)
	if err != nil {
		return err
	}
	settings, err := ctx.WorkspaceSettings(c.Workspace)
	if err != nil {
		return err
	}
	campaign, err := ctx.Campaign(c.Campaign)
	if err != nil {
		return err
	}

	cfg := ctx.Resolver().ResolveSettings(settings, campaign, c.LeadTZ)
	plan := dispatch.PlanDispatch(cfg, c.Message, sentAt, settings.DelayMinSeconds, settings.DelayMaxSeconds)

	ctx.Println(render.Title("Dispatch plan for " + c.Message))
	ctx.Print(render.KV(
		render.P("Schedule", fmt.Sprintf("%s (%s)", cfg.Mode, cfg.Timezone)),
		render.P("Sent at", render.Time(plan.SentAt, cfg.Timezone)),
		render.P("Delay", fmt.Sprintf("%ds", plan.DelaySeconds)),
		render.P("Target", render.Time(plan.Target, cfg.Timezone)),
		render.P("Check", plan.Check.Reason),
		render.P("Run at", render.Time(plan.RunAt, cfg.Timezone)),
		render.P("Deferred", render.Verdict(!plan.Deferred, "no", "yes")),
	))
	return nil
}

type DueCmd struct {
	Limit int `default:"20" help:"Maximum number of jobs to list."`
}

func (c *DueCmd) Run(ctx *cli.Context) error {
	jobs, err := ctx.Scheduler().Due(ctx.Context(), c.Limit)
	if err != nil {
		return fmt.Errorf("failed to list due jobs: %w", err)
	}
	if len(jobs) == 0 {
		ctx.Println("No jobs due")
		return nil
	}

	ctx.Println(render.Title(fmt.Sprintf("%d job(s) due", len(jobs))))
	for _, job := range jobs {
		payload, err := dispatch.DecodePayload(job)
		if err != nil {
			ctx.Println(render.Warning(err.Error()))
			continue
		}
		ctx.Printf("  %s  run_at=%s  workspace=%s  message=%s  channel=%s  confidence=%.2f\n",
			job.ID, render.Time(job.RunAt, ""), payload.WorkspaceID, payload.InboundMessageID,
			payload.Channel, payload.Confidence)
	}
	return nil
}

type AckCmd struct {
	ID string `arg:"" help:"Job ID."`
}

func (c *AckCmd) Run(ctx *cli.Context) error {
	if err := ctx.Scheduler().Ack(ctx.Context(), c.ID); err != nil {
		return fmt.Errorf("failed to ack job %s: %w", c.ID, err)
	}
	ctx.Println(render.Success("Acknowledged job " + c.ID))
	return nil
}
