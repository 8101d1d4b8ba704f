package schedules

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/julianstephens/autosend/internal/cli"
	"github.com/julianstephens/autosend/internal/cli/render"
	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/holiday"
	"github.com/julianstephens/autosend/internal/models"
	"github.com/julianstephens/autosend/internal/schedule"
	"github.com/julianstephens/autosend/internal/validation"
)

// Scope selects whose schedule a command resolves.
type Scope struct {
	Workspace string `required:"" help:"Workspace ID."`
	Campaign  string `help:"Campaign ID whose overrides apply."`
	LeadTZ    string `name:"lead-tz" help:"Lead's IANA timezone, preferred when valid."`
}

func (s Scope) resolve(ctx *cli.Context) (models.ScheduleConfig, error) {
	settings, err := ctx.WorkspaceSettings(s.Workspace)
	if err != nil {
		return models.ScheduleConfig{}, err
	}
	campaign, err := ctx.Campaign(s.Campaign)
	if err != nil {
		return models.ScheduleConfig{}, err
	}
	return ctx.Resolver().ResolveSettings(settings, campaign, s.LeadTZ), nil
}

func renderConfig(ctx *cli.Context, cfg models.ScheduleConfig) {
	pairs := []render.Pair{
		render.P("Mode", cfg.Mode),
		render.P("Timezone", cfg.Timezone),
	}
	if window, ok := schedule.ResolveWindow(cfg); ok {
		days := make([]string, 0, len(window.Days))
		for _, d := range window.Days {
			days = append(days, d.String()[:3])
		}
		pairs = append(pairs,
			render.P("Days", fmt.Sprint(days)),
			render.P("Window", window.StartTime+"-"+window.EndTime),
			render.P("Window timezone", window.Timezone))
		if !window.Holidays.IsEmpty() {
			pairs = append(pairs, render.P("Holiday preset", window.Holidays.Preset))
		}
	}
	ctx.Print(render.KV(pairs...))
}

type ValidateCmd struct {
	File string `arg:"" help:"Custom schedule JSON document ('-' for stdin)."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	var data []byte
	var err error
	if c.File == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(c.File)
	}
	if err != nil {
		return fmt.Errorf("failed to read schedule file: %w", err)
	}

	_, result := validation.New().ValidateCustomSchedule(data)
	if result.HasIssues() {
		ctx.Print(render.Danger(result.FormatReport()))
		return result.Err()
	}
	ctx.Println(render.Success(result.FormatReport()))
	return nil
}

type CheckCmd struct {
	Scope `embed:""`
	At    string `help:"Instant to check (RFC 3339, default now)."`
}

func (c *CheckCmd) Run(ctx *cli.Context) error {
	at, err := cli.ParseInstant(c.At)
	if err != nil {
		return err
	}
	cfg, err := c.resolve(ctx)
	if err != nil {
		return err
	}

	result := schedule.IsWithinSchedule(cfg, at)
	renderConfig(ctx, cfg)
	pairs := []render.Pair{
		render.P("At", render.Time(at, cfg.Timezone)),
		render.P("Within schedule", render.Verdict(result.WithinSchedule, "yes", "no")),
		render.P("Reason", result.Reason),
	}
	if result.NextWindowStart != nil {
		pairs = append(pairs, render.P("Next window", render.Time(*result.NextWindowStart, cfg.Timezone)))
	}
	ctx.Print(render.KV(pairs...))
	return nil
}

type NextCmd struct {
	Scope `embed:""`
	After string `help:"Search from this instant (RFC 3339, default now)."`
}

func (c *NextCmd) Run(ctx *cli.Context) error {
	after, err := cli.ParseInstant(c.After)
	if err != nil {
		return err
	}
	cfg, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	next := schedule.NextAutoSendWindow(cfg, after)
	ctx.Println(render.Time(next, cfg.Timezone))
	return nil
}

type HolidaysCmd struct {
	Scope `embed:""`
	Year  int `help:"Calendar year (default current year)."`
}

func (c *HolidaysCmd) Run(ctx *cli.Context) error {
	year := c.Year
	if year == 0 {
		year = time.Now().Year()
	}
	cfg, err := c.resolve(ctx)
	if err != nil {
		return err
	}

	var holidays *models.HolidayConfig
	if window, ok := schedule.ResolveWindow(cfg); ok {
		holidays = window.Holidays
	}
	dates := holiday.Calendar(year, holidays)
	if len(dates) == 0 {
		ctx.Printf("No blackout dates in %d\n", year)
		return nil
	}
	ctx.Println(render.Title("Blackout dates " + strconv.Itoa(year)))
	for _, date := range dates {
		d, _ := time.Parse(constants.DateFormat, date)
		ctx.Printf("  %s  %s\n", date, d.Weekday().String()[:3])
	}
	return nil
}
