package auditing

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/adscope/ad-audit-api/internal/domain"
)

// AuditConfig is the YAML audit definition: which rules run, at which level,
// over which windows, and how categories are weighted. Each rule definition
// is crossed with every window to produce the evaluated rule instances.
type AuditConfig struct {
	Level         domain.Level                 `yaml:"level"`
	Windows       []string                     `yaml:"windows"`
	PrimaryWindow string                       `yaml:"primary_window"`
	Weights       map[domain.RuleType]float64  `yaml:"weights"`
	Rules         []domain.AuditRule           `yaml:"rules"`
}

// LoadAuditConfig reads and validates the audit definition. Malformed
// documents and parameters are rejected here, before any evaluation begins.
func LoadAuditConfig(path string) (*AuditConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading audit config %s", path)
	}

	cfg := &AuditConfig{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing audit config YAML")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *AuditConfig) Validate() error {
	if !c.Level.Valid() {
		return &domain.ConfigurationError{Field: "level", Reason: "unknown level"}
	}
	if len(c.Windows) == 0 {
		return &domain.ConfigurationError{Field: "windows", Reason: "at least one window is required"}
	}
	if len(c.Rules) == 0 {
		return &domain.ConfigurationError{Field: "rules", Reason: "at least one rule is required"}
	}
	if c.PrimaryWindow != "" && !c.hasWindow(c.PrimaryWindow) {
		return &domain.ConfigurationError{Field: "primary_window", Reason: "must be one of the configured windows"}
	}

	for ruleType, weight := range c.Weights {
		if weight < 0 {
			return &domain.ConfigurationError{Field: "weights." + string(ruleType), Reason: "must not be negative"}
		}
	}

	// Validate each definition bound to a throwaway window/level so rule
	// parameter errors surface at load time.
	for _, rule := range c.Rules {
		probe := rule
		probe.Window = c.Windows[0]
		if probe.Level == "" {
			probe.Level = c.Level
		}
		if err := probe.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ResolvePrimaryWindow returns the configured primary window, falling back to
// the first window of the list.
func (c *AuditConfig) ResolvePrimaryWindow() string {
	if c.PrimaryWindow != "" {
		return c.PrimaryWindow
	}
	return c.Windows[0]
}

func (c *AuditConfig) hasWindow(token string) bool {
	for _, w := range c.Windows {
		if w == token {
			return true
		}
	}
	return false
}

// BuildRules crosses every rule definition with every configured window.
// A pacing rule is only instantiated for windows it has a spend target for.
func (c *AuditConfig) BuildRules() []domain.AuditRule {
	instances := make([]domain.AuditRule, 0, len(c.Rules)*len(c.Windows))

	for _, def := range c.Rules {
		for _, token := range c.Windows {
			if def.Type == domain.RulePacingVsTarget {
				if _, ok := def.PacingVsTarget.TargetSpendByWindow[token]; !ok {
					continue
				}
			}

			instance := def
			instance.Window = token
			if instance.Level == "" {
				instance.Level = c.Level
			}
			instances = append(instances, instance)
		}
	}

	return instances
}
