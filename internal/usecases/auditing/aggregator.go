package auditing

import (
	"time"

	"github.com/adscope/ad-audit-api/internal/domain"
	"github.com/adscope/ad-audit-api/pkg/utils"
)

// Aggregate folds rule results into category scores and the weighted overall
// account score. Only scored results inside the primary window count; rule
// types with no scored instance there are excluded from the weighting
// entirely, never treated as zero.
func Aggregate(accountID, primaryWindow string, results []domain.RuleResult, weights map[domain.RuleType]float64) *domain.AuditReport {
	sums := make(map[domain.RuleType]float64)
	counts := make(map[domain.RuleType]int)

	for _, result := range results {
		if result.Window != primaryWindow || !result.Scored() {
			continue
		}
		sums[result.Rule] += *result.Score
		counts[result.Rule]++
	}

	categoryScores := make(map[domain.RuleType]float64, len(counts))
	for ruleType, count := range counts {
		categoryScores[ruleType] = utils.RoundWithTwoDecimalPlace(sums[ruleType] / float64(count))
	}

	var weightedSum, weightTotal float64
	for ruleType, score := range categoryScores {
		weight := 1.0
		if w, ok := weights[ruleType]; ok {
			weight = w
		}
		weightedSum += score * weight
		weightTotal += weight
	}

	overall := 0.0
	if weightTotal > 0 {
		overall = utils.RoundWithTwoDecimalPlace(weightedSum / weightTotal)
	}

	return &domain.AuditReport{
		AccountID:      accountID,
		GeneratedAt:    time.Now().UTC(),
		PrimaryWindow:  primaryWindow,
		Results:        results,
		CategoryScores: categoryScores,
		OverallScore:   overall,
	}
}
