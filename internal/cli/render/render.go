// Package render formats command output.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// Pair is one labelled value in a KV block.
type Pair struct {
	Key   string
	Value string
}

// P builds a Pair, formatting value with %v.
func P(key string, value any) Pair {
	return Pair{Key: key, Value: fmt.Sprint(value)}
}

func Title(s string) string {
	return titleStyle.Render(s)
}

func Success(s string) string {
	return successStyle.Render("✓ " + s)
}

func Warning(s string) string {
	return warningStyle.Render("⚠ " + s)
}

func Danger(s string) string {
	return dangerStyle.Render("✗ " + s)
}

// KV renders pairs as an indented block with aligned values. Empty values
// are shown as "-".
func KV(pairs ...Pair) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p.Key))
	}

	var b strings.Builder
	for _, p := range pairs {
		value := p.Value
		if value == "" {
			value = "-"
		}
		pad := strings.Repeat(" ", width-lipgloss.Width(p.Key))
		fmt.Fprintf(&b, "  %s%s  %s\n", keyStyle.Render(p.Key+":"), pad, value)
	}
	return b.String()
}

// Time formats t in RFC 3339, with its wall clock in tz when tz is a valid
// zone other than UTC.
func Time(t time.Time, tz string) string {
	if t.IsZero() {
		return ""
	}
	s := t.UTC().Format(time.RFC3339)
	if tz == "" || tz == "UTC" {
		return s
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%s (%s %s)", s, t.In(loc).Format("Mon 2006-01-02 15:04"), tz)
}

// Verdict styles a boolean outcome.
func Verdict(ok bool, yes, no string) string {
	if ok {
		return successStyle.Render(yes)
	}
	return warningStyle.Render(no)
}
