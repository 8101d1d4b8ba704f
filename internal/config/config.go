// Package config loads the autosend policy file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/models"
	"github.com/julianstephens/autosend/internal/revision"
	"github.com/julianstephens/autosend/internal/utils"
)

const (
	QueueBackendStore = "store"
	QueueBackendRedis = "redis"
)

// Policy is the operator-level configuration in policy.yaml. Workspace and
// campaign settings in the store take precedence over it.
type Policy struct {
	DefaultTimezone     string            `yaml:"default_timezone"`
	ConfidenceThreshold *float64          `yaml:"confidence_threshold,omitempty"`
	Delay               DelayPolicy       `yaml:"delay"`
	Revision            RevisionPolicy    `yaml:"revision"`
	Constraints         ConstraintsPolicy `yaml:"constraints"`
	Queue               QueuePolicy       `yaml:"queue"`
}

// DelayPolicy bounds the deterministic dispatch delay.
type DelayPolicy struct {
	MinSeconds *int `yaml:"min_seconds,omitempty"`
	MaxSeconds *int `yaml:"max_seconds,omitempty"`
}

// RevisionPolicy configures the revision loop.
type RevisionPolicy struct {
	Mode          string `yaml:"mode"`                     // off, auto or force
	MaxIterations int    `yaml:"max_iterations,omitempty"` // 1..3
	Model         string `yaml:"model,omitempty"`
}

// ConstraintsPolicy lists phrases no revised draft may contain.
type ConstraintsPolicy struct {
	ForbiddenPhrases []string `yaml:"forbidden_phrases,omitempty"`
}

// QueuePolicy selects where dispatch jobs are queued.
type QueuePolicy struct {
	Backend   string `yaml:"backend"`              // store or redis
	RedisAddr string `yaml:"redis_addr,omitempty"` // host:port
	RedisDB   int    `yaml:"redis_db,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
}

// Default returns the policy used when no file exists.
func Default() *Policy {
	return &Policy{
		DefaultTimezone: constants.DefaultTimezone,
		Revision: RevisionPolicy{
			Mode:          string(constants.RevisionModeAuto),
			MaxIterations: constants.DefaultRevisionIterations,
			Model:         constants.DefaultAutoSendRevisionModel,
		},
		Queue: QueuePolicy{
			Backend:   QueueBackendStore,
			RedisAddr: "localhost:6379",
			Namespace: constants.AppName,
		},
	}
}

// Load reads the policy at path. A missing file yields Default.
func Load(path string) (*Policy, error) {
	path = utils.ExpandHome(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a policy document, filling unset fields from
// Default.
func Parse(data []byte) (*Policy, error) {
	policy := Default()
	if err := yaml.Unmarshal(data, policy); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}

// Validate performs strict validation on the policy.
func (p *Policy) Validate() error {
	if p.DefaultTimezone == "" {
		p.DefaultTimezone = constants.DefaultTimezone
	}
	if !utils.IsValidTimezone(p.DefaultTimezone) {
		return fmt.Errorf("default_timezone: unknown timezone %q", p.DefaultTimezone)
	}

	if t := p.ConfidenceThreshold; t != nil && (*t < 0 || *t > 1) {
		return fmt.Errorf("confidence_threshold must be within [0, 1], got %v", *t)
	}

	if v := p.Delay.MinSeconds; v != nil && *v < 0 {
		return fmt.Errorf("delay.min_seconds must be >= 0, got %d", *v)
	}
	if v := p.Delay.MaxSeconds; v != nil && *v < 0 {
		return fmt.Errorf("delay.max_seconds must be >= 0, got %d", *v)
	}
	if lo, hi := p.Delay.MinSeconds, p.Delay.MaxSeconds; lo != nil && hi != nil && *lo > *hi {
		return fmt.Errorf("delay.min_seconds (%d) exceeds delay.max_seconds (%d)", *lo, *hi)
	}

	switch constants.RevisionMode(p.Revision.Mode) {
	case constants.RevisionModeOff, constants.RevisionModeAuto, constants.RevisionModeForce:
	case "":
		p.Revision.Mode = string(constants.RevisionModeAuto)
	default:
		return fmt.Errorf("revision.mode: invalid mode %q (must be 'off', 'auto', or 'force')", p.Revision.Mode)
	}
	if p.Revision.MaxIterations == 0 {
		p.Revision.MaxIterations = constants.DefaultRevisionIterations
	}
	if n := p.Revision.MaxIterations; n < constants.MinRevisionIterations || n > constants.MaxRevisionIterations {
		return fmt.Errorf("revision.max_iterations must be within [%d, %d], got %d",
			constants.MinRevisionIterations, constants.MaxRevisionIterations, n)
	}

	switch p.Queue.Backend {
	case "":
		p.Queue.Backend = QueueBackendStore
	case QueueBackendStore:
	case QueueBackendRedis:
		if p.Queue.RedisAddr == "" {
			return fmt.Errorf("queue.redis_addr is required when queue.backend is 'redis'")
		}
	default:
		return fmt.Errorf("queue.backend: invalid backend %q (must be 'store' or 'redis')", p.Queue.Backend)
	}
	if p.Queue.Namespace == "" {
		p.Queue.Namespace = constants.AppName
	}
	return nil
}

// RevisionMode returns the parsed revision mode.
func (p *Policy) RevisionMode() constants.RevisionMode {
	return revision.ParseMode(p.Revision.Mode)
}

// WorkspaceDefaults returns the settings a workspace without stored settings
// is evaluated with.
func (p *Policy) WorkspaceDefaults(workspaceID string) models.WorkspaceSettings {
	s := models.DefaultWorkspaceSettings(workspaceID)
	s.Timezone = p.DefaultTimezone
	if p.ConfidenceThreshold != nil {
		s.ConfidenceThreshold = *p.ConfidenceThreshold
	}
	if p.Delay.MinSeconds != nil {
		s.DelayMinSeconds = *p.Delay.MinSeconds
	}
	if p.Delay.MaxSeconds != nil {
		s.DelayMaxSeconds = *p.Delay.MaxSeconds
	}
	if s.DelayMinSeconds > s.DelayMaxSeconds {
		s.DelayMaxSeconds = s.DelayMinSeconds
	}
	s.RevisionMaxIterations = p.Revision.MaxIterations
	if p.Revision.Model != "" {
		s.RevisionModel = p.Revision.Model
	}
	return s
}

const template = `# autosend policy
#
# Operator defaults. Per-workspace and per-campaign settings stored in the
# database take precedence.

# IANA timezone used when neither the lead nor the workspace has a valid one.
default_timezone: %s

# Minimum confidence required to send without review (0..1).
# confidence_threshold: 0.75

# Bounds of the deterministic dispatch delay.
delay:
  # min_seconds: 180
  # max_seconds: 900

revision:
  # off, auto (email only, when the workspace enables it) or force
  mode: auto
  max_iterations: %d
  model: %s

constraints:
  # Phrases a revised draft must never contain.
  forbidden_phrases: []

queue:
  # store keeps dispatch jobs in the database; redis uses a sorted set
  backend: store
  redis_addr: localhost:6379
  redis_db: 0
  namespace: %s
`

// WriteTemplate writes a commented default policy to path. An existing file
// is left alone unless force is set.
func WriteTemplate(path string, force bool) error {
	path = utils.ExpandHome(path)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("policy file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	content := fmt.Sprintf(template,
		constants.DefaultTimezone,
		constants.DefaultRevisionIterations,
		constants.DefaultAutoSendRevisionModel,
		constants.AppName)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write policy file: %w", err)
	}
	return nil
}
