package revision

import (
	"strings"

	"github.com/julianstephens/autosend/internal/constants"
)

// Enablement is the outcome of the revision precheck.
type Enablement struct {
	Enabled bool
	// StopReason explains a disabled loop; empty when Enabled.
	StopReason constants.StopReason
}

// ResolveEnabled decides whether revision may run for a channel. Only the
// email channel supports revision. Mode "off" disables it, "force" enables
// it regardless of the workspace flag, anything else defers to the flag.
func ResolveEnabled(mode constants.RevisionMode, channel string, workspaceEnabled bool) Enablement {
	if !strings.EqualFold(channel, constants.RevisionChannel) {
		return Enablement{StopReason: constants.StopNotApplicable}
	}
	switch mode {
	case constants.RevisionModeOff:
		return Enablement{StopReason: constants.StopDisabled}
	case constants.RevisionModeForce:
		return Enablement{Enabled: true}
	}
	if !workspaceEnabled {
		return Enablement{StopReason: constants.StopDisabled}
	}
	return Enablement{Enabled: true}
}

// ParseMode converts a configured mode string. Unknown values map to auto.
func ParseMode(s string) constants.RevisionMode {
	switch constants.RevisionMode(strings.ToLower(strings.TrimSpace(s))) {
	case constants.RevisionModeOff:
		return constants.RevisionModeOff
	case constants.RevisionModeForce:
		return constants.RevisionModeForce
	default:
		return constants.RevisionModeAuto
	}
}
