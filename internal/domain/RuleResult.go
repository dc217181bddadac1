package domain

// RuleStatus reports how a rule evaluation ended.
type RuleStatus string

const (
	// RuleStatusScored means the rule produced a 0-100 score.
	RuleStatusScored RuleStatus = "scored"
	// RuleStatusInsufficientData means zero metric records matched the
	// rule's window/level; no numeric score is assigned.
	RuleStatusInsufficientData RuleStatus = "insufficient_data"
	// RuleStatusFailed means the evaluation itself failed (e.g. a store
	// query error); the failure is carried in Findings, never dropped.
	RuleStatusFailed RuleStatus = "failed"
)

// RuleResult is the output of one rule evaluation. Findings carries the raw
// metric values and thresholds used, enough to reconstruct why the score was
// assigned. Created once per evaluation and never mutated.
type RuleResult struct {
	Rule        RuleType       `json:"rule"`
	Level       Level          `json:"level"`
	Window      string         `json:"window"`
	WindowRange DateRange      `json:"window_range"`
	Status      RuleStatus     `json:"status"`
	Score       *float64       `json:"score,omitempty"`
	Findings    map[string]any `json:"findings"`
}

// Scored reports whether the result carries a numeric score.
func (r *RuleResult) Scored() bool {
	return r.Status == RuleStatusScored && r.Score != nil
}
