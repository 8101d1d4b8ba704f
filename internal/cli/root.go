package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/autosend/internal/config"
	"github.com/julianstephens/autosend/internal/decision"
	"github.com/julianstephens/autosend/internal/dispatch"
	"github.com/julianstephens/autosend/internal/models"
	"github.com/julianstephens/autosend/internal/revision"
	"github.com/julianstephens/autosend/internal/schedule"
	"github.com/julianstephens/autosend/internal/storage"
)

type Context struct {
	Store      storage.Provider
	Policy     *config.Policy
	PolicyPath string
	// Queue receives dispatch jobs; nil means the store's own queue.
	Queue dispatch.Queue
	Out   io.Writer
	Ctx   context.Context
}

// Context returns the command's context, falling back to Background.
func (c *Context) Context() context.Context {
	if c.Ctx != nil {
		return c.Ctx
	}
	return context.Background()
}

// Stdout returns the writer commands print to.
func (c *Context) Stdout() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

// Println writes a line to Stdout.
func (c *Context) Println(a ...any) {
	fmt.Fprintln(c.Stdout(), a...)
}

// Print writes its operands to Stdout.
func (c *Context) Print(a ...any) {
	fmt.Fprint(c.Stdout(), a...)
}

// Printf writes formatted output to Stdout.
func (c *Context) Printf(format string, a ...any) {
	fmt.Fprintf(c.Stdout(), format, a...)
}

func (c *Context) policy() *config.Policy {
	if c.Policy == nil {
		c.Policy = config.Default()
	}
	return c.Policy
}

func (c *Context) queue() dispatch.Queue {
	if c.Queue != nil {
		return c.Queue
	}
	return c.Store
}

// Resolver returns a schedule resolver using the policy's default timezone.
func (c *Context) Resolver() *schedule.Resolver {
	return schedule.NewResolver(c.policy().DefaultTimezone)
}

// Scheduler returns a dispatch scheduler on the configured queue.
func (c *Context) Scheduler() *dispatch.Scheduler {
	return dispatch.NewScheduler(c.queue())
}

// Engine returns a decision engine scoring drafts with evaluator. Drafts are
// never revised from the CLI.
func (c *Context) Engine(evaluator revision.Evaluator) *decision.Engine {
	return decision.New(c.Store, decision.Options{
		Policy:    c.policy(),
		Evaluator: evaluator,
		Queue:     c.queue(),
	})
}

// WorkspaceSettings loads a workspace's settings, or the policy defaults when
// none are stored yet.
func (c *Context) WorkspaceSettings(workspaceID string) (models.WorkspaceSettings, error) {
	settings, err := c.Store.GetWorkspaceSettings(c.Context(), workspaceID)
	if errors.Is(err, storage.ErrNotFound) {
		return c.policy().WorkspaceDefaults(workspaceID), nil
	}
	if err != nil {
		return settings, fmt.Errorf("failed to get workspace settings: %w", err)
	}
	return settings, nil
}

// Campaign loads a campaign. An empty id returns nil.
func (c *Context) Campaign(campaignID string) (*models.CampaignSettings, error) {
	if campaignID == "" {
		return nil, nil
	}
	campaign, err := c.Store.GetCampaign(c.Context(), campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign %s: %w", campaignID, err)
	}
	return &campaign, nil
}

// ParseDays parses a comma-separated list of weekday names or numbers
// (0=Sunday) into schedule day numbers.
func ParseDays(s string) ([]int, error) {
	dayMap := map[string]int{
		"sun": 0, "sunday": 0,
		"mon": 1, "monday": 1,
		"tue": 2, "tuesday": 2,
		"wed": 3, "wednesday": 3,
		"thu": 4, "thursday": 4,
		"fri": 5, "friday": 5,
		"sat": 6, "saturday": 6,
	}

	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if d, ok := dayMap[part]; ok {
			days = append(days, d)
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		days = append(days, num)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("at least one weekday is required")
	}
	return days, nil
}

// ParseInstant parses an RFC 3339 timestamp. Empty input and "now" mean the
// current time.
func ParseInstant(s string) (time.Time, error) {
	if s == "" || strings.EqualFold(s, "now") {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q, use RFC 3339 (e.g. 2026-01-05T09:00:00Z): %w", s, err)
	}
	return t, nil
}
