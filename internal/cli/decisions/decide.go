package decisions

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/julianstephens/autosend/internal/cli"
	"github.com/julianstephens/autosend/internal/cli/render"
	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/decision"
	"github.com/julianstephens/autosend/internal/models"
	"github.com/julianstephens/autosend/internal/revision"
)

// DecideCmd runs a decision for a draft whose evaluation is supplied on the
// command line.
type DecideCmd struct {
	Workspace  string  `required:"" help:"Workspace ID."`
	Campaign   string  `help:"Campaign ID."`
	Message    string  `required:"" help:"Inbound message ID."`
	Channel    string  `default:"email" help:"Reply channel."`
	Draft      string  `help:"Draft reply text." xor:"draft"`
	DraftFile  string  `name:"draft-file" type:"existingfile" help:"Read the draft reply from a file." xor:"draft"`
	Confidence float64 `required:"" help:"Evaluator confidence for the draft."`
	Reason     string  `help:"Evaluator reason."`
	HardBlock  string  `name:"hard-block" help:"Hard block code; blocks the reply regardless of confidence."`
	LeadTZ     string  `name:"lead-tz" help:"Lead's IANA timezone."`
	SentAt     string  `name:"sent-at" help:"Inbound message receipt time (RFC 3339, default now)."`
}

func (c *DecideCmd) evaluator() revision.Evaluator {
	eval := models.ConfidenceEvaluation{
		Confidence:    c.Confidence,
		Reason:        c.Reason,
		Source:        constants.SourceModel,
		HardBlockCode: c.HardBlock,
	}
	if c.HardBlock != "" {
		eval.Source = constants.SourceHardBlock
	}
	return revision.EvaluatorFunc(func(context.Context, string) (models.ConfidenceEvaluation, error) {
		return eval, nil
	})
}

func (c *DecideCmd) Run(ctx *cli.Context) error {
	draft := c.Draft
	if c.DraftFile != "" {
		data, err := os.ReadFile(c.DraftFile)
		if err != nil {
			return fmt.Errorf("failed to read draft: %w", err)
		}
		draft = string(data)
	}
	sentAt, err := cli.ParseInstant(c.SentAt)
	if err != nil {
		return err
	}

	d, err := ctx.Engine(c.evaluator()).Decide(ctx.Context(), decision.Request{
		WorkspaceID:  c.Workspace,
		CampaignID:   c.Campaign,
		MessageID:    c.Message,
		Channel:      c.Channel,
		Draft:        draft,
		LeadTimezone: c.LeadTZ,
		SentAt:       sentAt,
	})
	if err != nil {
		return err
	}

	ctx.Println(render.Title("Decision: " + string(d.Action)))
	pairs := []render.Pair{
		render.P("Confidence", strconv.FormatFloat(d.Evaluation.Confidence, 'f', 2, 64)),
		render.P("Stop reason", d.Revision.StopReason),
		render.P("Schedule", fmt.Sprintf("%s (%s)", d.Schedule.Mode, d.Schedule.Timezone)),
	}
	if d.Plan != nil {
		pairs = append(pairs,
			render.P("Delay", fmt.Sprintf("%ds", d.Plan.DelaySeconds)),
			render.P("Run at", render.Time(d.Plan.RunAt, d.Schedule.Timezone)),
			render.P("Job", d.JobID))
	}
	ctx.Print(render.KV(pairs...))
	return nil
}

type HistoryCmd struct {
	Workspace string `arg:"" help:"Workspace ID."`
	Limit     int    `default:"20" help:"Number of decisions to show."`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	records, err := ctx.Store.ListDecisions(ctx.Context(), c.Workspace, c.Limit)
	if err != nil {
		return fmt.Errorf("failed to list decisions: %w", err)
	}
	if len(records) == 0 {
		ctx.Println("No decisions recorded")
		return nil
	}
	for _, r := range records {
		runAt := "-"
		if r.RunAt != nil {
			runAt = render.Time(*r.RunAt, "")
		}
		ctx.Printf("  %s  %-12s %-14s msg=%s  confidence=%.2f->%.2f  run_at=%s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.Action, r.StopReason, r.MessageID,
			r.StartConfidence, r.EndConfidence, runAt)
	}
	return nil
}
