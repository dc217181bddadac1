package auditing

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/adscope/ad-audit-api/infrastructure/repository"
	"github.com/adscope/ad-audit-api/internal/domain"
	"github.com/adscope/ad-audit-api/internal/window"
	"github.com/adscope/ad-audit-api/pkg/log"
)

// Engine evaluates configured rule instances against the metric store.
// Evaluation is read-only and runs rule instances in parallel; results come
// back in rule order.
type Engine struct {
	metricRepo repository.MetricRecordRepository
}

func NewEngine(metricRepo repository.MetricRecordRepository) *Engine {
	return &Engine{
		metricRepo: metricRepo,
	}
}

// Evaluate resolves every rule's window against refDate, then evaluates all
// rules concurrently. An unresolvable window fails the whole run before any
// store query; store errors during evaluation surface as failed RuleResults
// instead of aborting sibling rules.
func (e *Engine) Evaluate(ctx context.Context, accountID string, rules []domain.AuditRule, refDate time.Time) ([]domain.RuleResult, error) {
	ranges := make(map[string]domain.DateRange)
	for _, rule := range rules {
		if _, ok := ranges[rule.Window]; ok {
			continue
		}

		resolved, err := window.Resolve(rule.Window, refDate)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving window for rule %s", rule.Type)
		}
		ranges[rule.Window] = resolved
	}

	results := make([]domain.RuleResult, len(rules))

	var wg sync.WaitGroup
	for i, rule := range rules {
		wg.Add(1)

		go func(i int, rule domain.AuditRule) {
			defer wg.Done()
			results[i] = e.evaluateRule(ctx, accountID, rule, ranges[rule.Window])
		}(i, rule)
	}
	wg.Wait()

	return results, nil
}

func (e *Engine) evaluateRule(ctx context.Context, accountID string, rule domain.AuditRule, windowRange domain.DateRange) domain.RuleResult {
	result := domain.RuleResult{
		Rule:        rule.Type,
		Level:       rule.Level,
		Window:      rule.Window,
		WindowRange: windowRange,
	}

	filter := repository.AggregateFilter{
		AccountID: accountID,
		Level:     rule.Level,
		Range:     windowRange,
	}
	if rule.Type == domain.RuleCreativeDiversity {
		filter.BreakdownPrefix = "creative_type="
	}

	totals, err := e.metricRepo.AggregateTotals(ctx, filter)
	if err != nil {
		return failedResult(ctx, result, err)
	}
	if totals.Rows == 0 {
		result.Status = domain.RuleStatusInsufficientData
		result.Findings = map[string]any{
			"error": domain.ErrInsufficientData.Error(),
		}
		return result
	}

	var (
		score    float64
		findings map[string]any
	)

	switch rule.Type {
	case domain.RuleCTRThreshold:
		score, findings = evaluateCTRThreshold(totals, rule.CTRThreshold)

	case domain.RuleFrequencyThreshold:
		score, findings = evaluateFrequencyThreshold(totals, rule.FrequencyThreshold)

	case domain.RuleTrackingHealth:
		score, findings = evaluateTrackingHealth(totals, rule.TrackingHealth)

	case domain.RuleBudgetConcentration:
		topShare, err := e.metricRepo.TopSpendShare(ctx, filter, rule.BudgetConcentration.TopN)
		if err != nil {
			return failedResult(ctx, result, err)
		}
		score, findings = evaluateBudgetConcentration(topShare, rule.BudgetConcentration)

	case domain.RuleCreativeDiversity:
		videoShare, imageShare, err := e.metricRepo.CreativeSpendShares(ctx, accountID, rule.Level, windowRange)
		if err != nil {
			return failedResult(ctx, result, err)
		}
		score, findings = evaluateCreativeDiversity(videoShare, imageShare, rule.CreativeDiversity)

	case domain.RulePacingVsTarget:
		target := rule.PacingVsTarget.TargetSpendByWindow[rule.Window]
		score, findings = evaluatePacingVsTarget(totals.Spend, target, rule.PacingVsTarget)

	default:
		return failedResult(ctx, result, errors.Errorf("unknown rule type %q", rule.Type))
	}

	result.Status = domain.RuleStatusScored
	result.Score = &score
	result.Findings = findings
	return result
}

func failedResult(ctx context.Context, result domain.RuleResult, err error) domain.RuleResult {
	log.ForContext(ctx).WithError(err).
		WithField("rule", string(result.Rule)).
		WithField("window", result.Window).
		Error("Rule evaluation failed")

	result.Status = domain.RuleStatusFailed
	result.Findings = map[string]any{
		"error": err.Error(),
	}
	return result
}
