package domain

import "fmt"

// RuleType identifies an audit rule implementation.
type RuleType string

const (
	RuleCTRThreshold        RuleType = "ctr_threshold"
	RuleFrequencyThreshold  RuleType = "frequency_threshold"
	RuleBudgetConcentration RuleType = "budget_concentration"
	RuleCreativeDiversity   RuleType = "creative_diversity"
	RuleTrackingHealth      RuleType = "tracking_health"
	RulePacingVsTarget      RuleType = "pacing_vs_target"
)

type CTRThresholdParams struct {
	MinCTR float64 `yaml:"min_ctr"`
}

type FrequencyThresholdParams struct {
	MaxFrequency float64 `yaml:"max_frequency"`
	// OverageCap bounds the penalty band: frequency at MaxFrequency*(1+cap)
	// or beyond scores zero. Defaults to 1.
	OverageCap float64 `yaml:"overage_cap"`
}

type BudgetConcentrationParams struct {
	TopN     int     `yaml:"top_n"`
	MaxShare float64 `yaml:"max_share"`
}

type CreativeDiversityParams struct {
	MinVideoShare float64 `yaml:"min_video_share"`
	MinImageShare float64 `yaml:"min_image_share"`
}

type TrackingHealthParams struct {
	MinConvRate float64 `yaml:"min_conv_rate"`
	MinClicks   int64   `yaml:"min_clicks"`
}

type PacingVsTargetParams struct {
	TargetSpendByWindow map[string]float64 `yaml:"target_spend_by_window"`
	Tolerance           float64            `yaml:"tolerance"`
	TolCap              float64            `yaml:"tol_cap"`
}

// AuditRule is one configured rule instance, bound to a window and a level.
// Exactly one parameter variant must be set, matching Type; the rule engine
// dispatches on Type through a closed switch. Immutable once loaded.
type AuditRule struct {
	Type   RuleType `yaml:"type"`
	Window string   `yaml:"window"`
	Level  Level    `yaml:"level"`

	CTRThreshold        *CTRThresholdParams        `yaml:"ctr_threshold,omitempty"`
	FrequencyThreshold  *FrequencyThresholdParams  `yaml:"frequency_threshold,omitempty"`
	BudgetConcentration *BudgetConcentrationParams `yaml:"budget_concentration,omitempty"`
	CreativeDiversity   *CreativeDiversityParams   `yaml:"creative_diversity,omitempty"`
	TrackingHealth      *TrackingHealthParams      `yaml:"tracking_health,omitempty"`
	PacingVsTarget      *PacingVsTargetParams      `yaml:"pacing_vs_target,omitempty"`
}

// Validate rejects malformed rule definitions before any evaluation begins.
func (r *AuditRule) Validate() error {
	if !r.Level.Valid() {
		return &ConfigurationError{Field: "level", Reason: fmt.Sprintf("unknown level %q", r.Level)}
	}
	if r.Window == "" {
		return &ConfigurationError{Field: "window", Reason: "window token is required"}
	}

	switch r.Type {
	case RuleCTRThreshold:
		if r.CTRThreshold == nil {
			return missingParams(r.Type)
		}
		if r.CTRThreshold.MinCTR < 0 {
			return negativeThreshold("min_ctr")
		}
	case RuleFrequencyThreshold:
		if r.FrequencyThreshold == nil {
			return missingParams(r.Type)
		}
		if r.FrequencyThreshold.MaxFrequency < 0 {
			return negativeThreshold("max_frequency")
		}
		if r.FrequencyThreshold.OverageCap < 0 {
			return negativeThreshold("overage_cap")
		}
	case RuleBudgetConcentration:
		if r.BudgetConcentration == nil {
			return missingParams(r.Type)
		}
		if r.BudgetConcentration.TopN <= 0 {
			return &ConfigurationError{Field: "top_n", Reason: "must be positive"}
		}
		if r.BudgetConcentration.MaxShare < 0 || r.BudgetConcentration.MaxShare > 1 {
			return &ConfigurationError{Field: "max_share", Reason: "must be within [0, 1]"}
		}
	case RuleCreativeDiversity:
		if r.CreativeDiversity == nil {
			return missingParams(r.Type)
		}
		if r.CreativeDiversity.MinVideoShare < 0 || r.CreativeDiversity.MinImageShare < 0 {
			return negativeThreshold("min_video_share/min_image_share")
		}
	case RuleTrackingHealth:
		if r.TrackingHealth == nil {
			return missingParams(r.Type)
		}
		if r.TrackingHealth.MinConvRate < 0 {
			return negativeThreshold("min_conv_rate")
		}
		if r.TrackingHealth.MinClicks < 0 {
			return negativeThreshold("min_clicks")
		}
	case RulePacingVsTarget:
		if r.PacingVsTarget == nil {
			return missingParams(r.Type)
		}
		if r.PacingVsTarget.Tolerance < 0 {
			return negativeThreshold("tolerance")
		}
		if r.PacingVsTarget.TolCap <= r.PacingVsTarget.Tolerance {
			return &ConfigurationError{Field: "tol_cap", Reason: "must be greater than tolerance"}
		}
	default:
		return &ConfigurationError{Field: "type", Reason: fmt.Sprintf("unknown rule type %q", r.Type)}
	}

	return nil
}

func missingParams(t RuleType) error {
	return &ConfigurationError{Field: string(t), Reason: "missing rule parameters"}
}

func negativeThreshold(field string) error {
	return &ConfigurationError{Field: field, Reason: "must not be negative"}
}
