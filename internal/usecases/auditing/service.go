package auditing

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/adscope/ad-audit-api/infrastructure/repository"
	"github.com/adscope/ad-audit-api/internal/domain"
	"github.com/adscope/ad-audit-api/pkg/log"
)

// Auditor runs the configured audit over an account's stored metrics and
// keeps the produced reports.
type Auditor interface {
	RunAudit(ctx context.Context, accountID, primaryWindow string) (*domain.AuditReport, error)
	GetLatestReport(ctx context.Context, accountID string) (*domain.AuditReport, error)
}

type auditor struct {
	engine     *Engine
	cfg        *AuditConfig
	reportRepo repository.AuditReportRepository
	now        func() time.Time
}

func NewAuditor(engine *Engine, cfg *AuditConfig, reportRepo repository.AuditReportRepository) Auditor {
	return &auditor{
		engine:     engine,
		cfg:        cfg,
		reportRepo: reportRepo,
		now:        time.Now,
	}
}

// RunAudit evaluates every configured rule instance for the account and
// aggregates the results into a persisted report. primaryWindow overrides
// the configured headline window when non-empty.
func (s *auditor) RunAudit(ctx context.Context, accountID, primaryWindow string) (*domain.AuditReport, error) {
	if primaryWindow == "" {
		primaryWindow = s.cfg.ResolvePrimaryWindow()
	} else if !s.cfg.hasWindow(primaryWindow) {
		return nil, errors.Wrapf(domain.ErrInvalidWindow, "primary window %q is not audited", primaryWindow)
	}

	rules := s.cfg.BuildRules()

	results, err := s.engine.Evaluate(ctx, accountID, rules, s.now().UTC())
	if err != nil {
		return nil, err
	}

	report := Aggregate(accountID, primaryWindow, results, s.cfg.Weights)

	if err := s.reportRepo.Save(ctx, report); err != nil {
		log.ForContext(ctx).WithError(err).
			WithField("account_id", accountID).
			Error("Failed to persist audit report")
	}

	log.ForContext(ctx).WithField("account_id", accountID).
		WithField("primary_window", primaryWindow).
		Infof("Audit finished with overall score %.2f over %d rule instances", report.OverallScore, len(results))

	return report, nil
}

func (s *auditor) GetLatestReport(ctx context.Context, accountID string) (*domain.AuditReport, error) {
	return s.reportRepo.GetLatestByAccountID(ctx, accountID)
}
