package revision

import (
	"fmt"
	"strings"
)

// templateMarkers are forbidden in every draft; they indicate an unrendered
// template variable.
var templateMarkers = []string{"{{", "}}"}

// Conversation is the context the constraints are derived from.
type Conversation struct {
	InboundBody   string
	OfferedSlots  []string
	BookingLink   string
	SchedulerLink string
}

// HardConstraints are non-negotiable content rules for a revised draft.
type HardConstraints struct {
	HardRequirements []string
	HardForbidden    []string
}

// ConstraintCheck is the result of validating a draft against HardConstraints.
type ConstraintCheck struct {
	Passed     bool
	Violations []string
}

// ConstraintBuilder derives hard constraints and validates drafts against them.
type ConstraintBuilder interface {
	Build(conv Conversation, currentDraft string) HardConstraints
	Validate(draft string, constraints HardConstraints) ConstraintCheck
}

// PhraseConstraints is the default ConstraintBuilder. Links and slots already
// present in the current draft must survive a revision; configured phrases
// and template markers must never appear.
type PhraseConstraints struct {
	forbidden []string
}

// NewPhraseConstraints creates a PhraseConstraints with extra forbidden phrases.
func NewPhraseConstraints(forbidden []string) *PhraseConstraints {
	phrases := make([]string, 0, len(forbidden)+len(templateMarkers))
	for _, p := range forbidden {
		if p = strings.TrimSpace(p); p != "" {
			phrases = append(phrases, p)
		}
	}
	phrases = append(phrases, templateMarkers...)
	return &PhraseConstraints{forbidden: dedupe(phrases)}
}

// Build returns the constraints for revising currentDraft.
func (p *PhraseConstraints) Build(conv Conversation, currentDraft string) HardConstraints {
	candidates := append([]string{conv.BookingLink, conv.SchedulerLink}, conv.OfferedSlots...)

	var required []string
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c != "" && strings.Contains(currentDraft, c) {
			required = append(required, c)
		}
	}

	return HardConstraints{
		HardRequirements: dedupe(required),
		HardForbidden:    append([]string(nil), p.forbidden...),
	}
}

// Validate checks a draft. Requirements match exactly; forbidden phrases
// match case-insensitively.
func (p *PhraseConstraints) Validate(draft string, constraints HardConstraints) ConstraintCheck {
	var violations []string
	if strings.TrimSpace(draft) == "" {
		violations = append(violations, "draft is empty")
	}
	for _, req := range constraints.HardRequirements {
		if !strings.Contains(draft, req) {
			violations = append(violations, fmt.Sprintf("missing required content %q", req))
		}
	}
	lower := strings.ToLower(draft)
	for _, f := range constraints.HardForbidden {
		if strings.Contains(lower, strings.ToLower(f)) {
			violations = append(violations, fmt.Sprintf("contains forbidden content %q", f))
		}
	}
	return ConstraintCheck{Passed: len(violations) == 0, Violations: violations}
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
