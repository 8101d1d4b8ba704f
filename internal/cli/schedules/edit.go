package schedules

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/autosend/internal/cli"
	"github.com/julianstephens/autosend/internal/cli/render"
	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/models"
	"github.com/julianstephens/autosend/internal/utils"
	"github.com/julianstephens/autosend/internal/validation"
)

// scheduleForm holds the editable fields of a custom schedule as strings.
type scheduleForm struct {
	Days          []int
	StartTime     string
	EndTime       string
	Timezone      string
	Preset        string
	ExcludedDates string
	BlackoutDates string
	Confirmed     bool
}

func formFromSchedule(s *models.CustomSchedule) *scheduleForm {
	fm := &scheduleForm{
		Days:      []int{1, 2, 3, 4, 5},
		StartTime: constants.DefaultWorkStartTime,
		EndTime:   constants.DefaultWorkEndTime,
	}
	if s == nil {
		return fm
	}
	fm.Days = append([]int(nil), s.Days...)
	fm.StartTime = s.StartTime
	fm.EndTime = s.EndTime
	fm.Timezone = s.Timezone
	if h := s.Holidays; h != nil {
		fm.Preset = string(h.Preset)
		fm.ExcludedDates = strings.Join(h.ExcludedPresetDates, ", ")
		fm.BlackoutDates = strings.Join(h.AdditionalBlackoutDates, ", ")
	}
	return fm
}

// toSchedule builds a schedule from the form. Ranges are carried over from
// the original since the form does not edit them.
func (fm *scheduleForm) toSchedule(original *models.CustomSchedule) models.CustomSchedule {
	s := models.CustomSchedule{
		Version:   constants.CustomScheduleVersion,
		Days:      fm.Days,
		StartTime: strings.TrimSpace(fm.StartTime),
		EndTime:   strings.TrimSpace(fm.EndTime),
		Timezone:  strings.TrimSpace(fm.Timezone),
	}
	h := &models.HolidayConfig{
		Preset:                  constants.HolidayPreset(fm.Preset),
		ExcludedPresetDates:     splitDates(fm.ExcludedDates),
		AdditionalBlackoutDates: splitDates(fm.BlackoutDates),
	}
	if original != nil && original.Holidays != nil {
		h.AdditionalBlackoutDateRanges = original.Holidays.AdditionalBlackoutDateRanges
	}
	if !h.IsEmpty() {
		s.Holidays = h
	}
	return s
}

func splitDates(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func validateDates(s string) error {
	for _, d := range splitDates(s) {
		if !utils.ValidateDateFormat(d) {
			return fmt.Errorf("invalid date %q, use YYYY-MM-DD", d)
		}
	}
	return nil
}

func validateClock(s string) error {
	if !utils.ValidateTimeFormat(strings.TrimSpace(s)) {
		return fmt.Errorf("invalid time format, use HH:MM")
	}
	return nil
}

// newScheduleForm creates the interactive editor for a custom schedule
func newScheduleForm(fm *scheduleForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Sending days").
				Options(
					huh.NewOption("Sunday", 0),
					huh.NewOption("Monday", 1),
					huh.NewOption("Tuesday", 2),
					huh.NewOption("Wednesday", 3),
					huh.NewOption("Thursday", 4),
					huh.NewOption("Friday", 5),
					huh.NewOption("Saturday", 6),
				).
				Value(&fm.Days).
				Validate(func(days []int) error {
					if len(days) == 0 {
						return fmt.Errorf("select at least one day")
					}
					return nil
				}),
			huh.NewInput().
				Title("Start (HH:MM)").
				Value(&fm.StartTime).
				Validate(validateClock),
			huh.NewInput().
				Title("End (HH:MM)").
				Description("An end before the start spans midnight").
				Value(&fm.EndTime).
				Validate(validateClock),
			huh.NewInput().
				Title("Timezone").
				Description("IANA name; leave empty to follow the lead or workspace").
				Value(&fm.Timezone).
				Validate(func(s string) error {
					if s = strings.TrimSpace(s); s != "" && !utils.IsValidTimezone(s) {
						return fmt.Errorf("unknown timezone %q", s)
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Holiday calendar").
				Options(
					huh.NewOption("None", ""),
					huh.NewOption("US federal + common", string(constants.HolidayPresetUSFederalPlusCommon)),
				).
				Value(&fm.Preset),
			huh.NewText().
				Title("Send on these preset holidays anyway").
				Description("YYYY-MM-DD, comma separated").
				Value(&fm.ExcludedDates).
				Validate(validateDates),
			huh.NewText().
				Title("Additional blackout dates").
				Description("YYYY-MM-DD, comma separated").
				Value(&fm.BlackoutDates).
				Validate(validateDates),
			huh.NewConfirm().
				Title("Save schedule?").
				Value(&fm.Confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}

type EditCmd struct {
	Workspace string `required:"" help:"Workspace ID."`
	Campaign  string `help:"Edit this campaign's override instead of the workspace schedule."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	original, err := c.current(ctx)
	if err != nil {
		return err
	}

	fm := formFromSchedule(original)
	if err := newScheduleForm(fm).Run(); err != nil {
		return fmt.Errorf("schedule editor aborted: %w", err)
	}
	if !fm.Confirmed {
		ctx.Println("Schedule not saved.")
		return nil
	}
	return c.save(ctx, fm.toSchedule(original))
}

// current returns the stored schedule being edited, or nil when none parses.
func (c *EditCmd) current(ctx *cli.Context) (*models.CustomSchedule, error) {
	if c.Campaign != "" {
		campaign, err := ctx.Campaign(c.Campaign)
		if err != nil {
			return nil, err
		}
		return validation.CoerceCustomSchedule(campaign.CustomSchedule), nil
	}
	settings, err := ctx.WorkspaceSettings(c.Workspace)
	if err != nil {
		return nil, err
	}
	return validation.CoerceCustomSchedule(settings.AutoSendCustomSchedule), nil
}

// save validates s and stores it as the CUSTOM schedule of the target.
func (c *EditCmd) save(ctx *cli.Context, s models.CustomSchedule) error {
	result := validation.New().ValidateSchedule(s)
	if err := result.Err(); err != nil {
		return err
	}
	raw, err := cli.EncodeSchedule(&s)
	if err != nil {
		return err
	}

	if c.Campaign != "" {
		campaign, err := ctx.Campaign(c.Campaign)
		if err != nil {
			return err
		}
		if campaign.WorkspaceID != c.Workspace {
			return fmt.Errorf("campaign %s belongs to workspace %s", c.Campaign, campaign.WorkspaceID)
		}
		campaign.ScheduleMode = string(constants.ScheduleModeCustom)
		campaign.CustomSchedule = raw
		if err := ctx.Store.SaveCampaign(ctx.Context(), *campaign); err != nil {
			return fmt.Errorf("failed to save campaign: %w", err)
		}
		ctx.Println(render.Success("Campaign " + c.Campaign + " schedule saved."))
		return nil
	}

	settings, err := ctx.WorkspaceSettings(c.Workspace)
	if err != nil {
		return err
	}
	settings.AutoSendScheduleMode = string(constants.ScheduleModeCustom)
	settings.AutoSendCustomSchedule = raw
	if err := ctx.Store.SaveWorkspaceSettings(ctx.Context(), settings); err != nil {
		return fmt.Errorf("failed to save workspace settings: %w", err)
	}
	ctx.Println(render.Success("Workspace " + c.Workspace + " schedule saved."))
	return nil
}
