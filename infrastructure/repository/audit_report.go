package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/adscope/ad-audit-api/infrastructure/database/postgres"
	"github.com/adscope/ad-audit-api/internal/domain"
)

const (
	auditReportsTable = "audit_reports"
)

type AuditReportRepository interface {
	Save(ctx context.Context, report *domain.AuditReport) error
	GetLatestByAccountID(ctx context.Context, accountID string) (*domain.AuditReport, error)
}

type auditReportRepository struct {
	conn postgres.Queryer
}

func NewAuditReportRepository(conn postgres.Queryer) AuditReportRepository {
	return &auditReportRepository{
		conn: conn,
	}
}

func (r *auditReportRepository) Save(ctx context.Context, report *domain.AuditReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return errors.Wrap(err, "serializing audit report to JSON")
	}

	query, args, err := squirrel.StatementBuilder.
		Insert(auditReportsTable).
		Columns("account_id", "primary_window", "overall_score", "generated_at", "payload").
		Values(
			report.AccountID,
			report.PrimaryWindow,
			report.OverallScore,
			report.GeneratedAt,
			payload,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building insert query")
	}

	_, err = r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "executing insert")
	}

	return nil
}

func (r *auditReportRepository) GetLatestByAccountID(ctx context.Context, accountID string) (*domain.AuditReport, error) {
	query, args, err := squirrel.
		Select("payload").
		From(auditReportsTable).
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("generated_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	var payload []byte
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "scanning audit report")
	}

	report := &domain.AuditReport{}
	if err := json.Unmarshal(payload, report); err != nil {
		return nil, errors.Wrap(err, "deserializing audit report payload")
	}

	return report, nil
}
