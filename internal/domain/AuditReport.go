package domain

import "time"

// AuditReport is the final artifact of an audit run: every RuleResult, the
// per-category scores in the primary window, and the weighted overall score.
// Fully serializable; consumed as-is by external report renderers.
type AuditReport struct {
	AccountID      string               `json:"account_id"`
	GeneratedAt    time.Time            `json:"generated_at"`
	PrimaryWindow  string               `json:"primary_window"`
	Results        []RuleResult         `json:"results"`
	CategoryScores map[RuleType]float64 `json:"category_scores"`
	OverallScore   float64              `json:"overall_score"`
}
