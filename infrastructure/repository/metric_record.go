package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/adscope/ad-audit-api/infrastructure/database/postgres"
	"github.com/adscope/ad-audit-api/internal/domain"
)

const (
	metricRecordsTable = "metric_records"
)

// AggregateFilter scopes store aggregations. Only unbroken-down records are
// aggregated unless BreakdownPrefix is set, so broken-down rows never double
// count against their parents.
type AggregateFilter struct {
	AccountID string
	Level     domain.Level
	Range     domain.DateRange
	// BreakdownPrefix selects records whose breakdown key starts with the
	// given dimension, e.g. "creative_type=". Empty selects only records
	// without breakdowns.
	BreakdownPrefix string
}

// MetricRecordRepository is the metric store: upsert-by-key plus the
// aggregate queries the rule engine needs.
type MetricRecordRepository interface {
	SaveOrUpdate(ctx context.Context, record *domain.MetricRecord) error
	SaveOrUpdateBatch(ctx context.Context, records []*domain.MetricRecord) (int, error)
	AggregateTotals(ctx context.Context, filter AggregateFilter) (*domain.MetricTotals, error)
	TopSpendShare(ctx context.Context, filter AggregateFilter, topN int) (float64, error)
	CreativeSpendShares(ctx context.Context, accountID string, level domain.Level, dateRange domain.DateRange) (videoShare, imageShare float64, err error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

type metricRecordRepository struct {
	conn postgres.Queryer
}

func NewMetricRecordRepository(conn postgres.Queryer) MetricRecordRepository {
	return &metricRecordRepository{
		conn: conn,
	}
}

// SaveOrUpdate upserts one record by its uniqueness key. A conflicting row is
// replaced wholesale and fetched_at advances, so concurrent partitions
// touching the same key resolve to last-write-wins.
func (r *metricRecordRepository) SaveOrUpdate(ctx context.Context, record *domain.MetricRecord) error {
	var rawJSON []byte
	var err error

	if record.Raw != nil {
		rawJSON, err = json.Marshal(record.Raw)
		if err != nil {
			return errors.Wrap(err, "serializing raw dimensions to JSON")
		}
	}

	query := squirrel.StatementBuilder.
		Insert(metricRecordsTable).
		Columns(
			"account_id", "entity_id", "level", "date", "breakdown_key",
			"impressions", "clicks", "spend", "conversions", "frequency",
			"raw_dimensions", "fetched_at",
		).
		Values(
			record.AccountID,
			record.EntityID,
			string(record.Level),
			record.Date.Format(time.DateOnly),
			string(record.BreakdownKey),
			record.Impressions,
			record.Clicks,
			record.Spend,
			record.Conversions,
			record.Frequency,
			rawJSON,
			record.FetchedAt,
		).
		Suffix(`
			ON CONFLICT (entity_id, level, date, breakdown_key) DO UPDATE SET
				account_id = EXCLUDED.account_id,
				impressions = EXCLUDED.impressions,
				clicks = EXCLUDED.clicks,
				spend = EXCLUDED.spend,
				conversions = EXCLUDED.conversions,
				frequency = EXCLUDED.frequency,
				raw_dimensions = EXCLUDED.raw_dimensions,
				fetched_at = EXCLUDED.fetched_at,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return errors.Wrap(err, "building upsert query")
	}

	_, err = r.conn.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return errors.Wrapf(err, "database error (code %s)", pqErr.Code)
		}
		return errors.Wrap(err, "executing upsert")
	}

	return nil
}

// SaveOrUpdateBatch upserts a page of records and returns how many were
// written. The batch is not transactional on purpose: committed records stand
// even if a later record of the same page fails.
func (r *metricRecordRepository) SaveOrUpdateBatch(ctx context.Context, records []*domain.MetricRecord) (int, error) {
	written := 0
	for _, record := range records {
		if err := r.SaveOrUpdate(ctx, record); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func (r *metricRecordRepository) AggregateTotals(ctx context.Context, filter AggregateFilter) (*domain.MetricTotals, error) {
	builder := squirrel.
		Select(
			"COALESCE(SUM(impressions), 0)",
			"COALESCE(SUM(clicks), 0)",
			"COALESCE(SUM(spend), 0)",
			"COALESCE(SUM(conversions), 0)",
			"COALESCE(SUM(frequency * impressions) / NULLIF(SUM(impressions), 0), 0)",
			"COUNT(*)",
		).
		From(metricRecordsTable)

	builder = applyAggregateFilter(builder, filter)

	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building aggregate query")
	}

	totals := &domain.MetricTotals{}
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&totals.Impressions,
		&totals.Clicks,
		&totals.Spend,
		&totals.Conversions,
		&totals.Frequency,
		&totals.Rows,
	)
	if err != nil {
		return nil, errors.Wrap(err, "scanning metric totals")
	}

	return totals, nil
}

const topSpendShareSQL = `
WITH per_entity AS (
	SELECT entity_id, SUM(spend) AS spend
	FROM metric_records
	WHERE account_id = $1
	  AND level = $2
	  AND date >= $3
	  AND date <= $4
	  AND breakdown_key = ''
	GROUP BY entity_id
),
total AS (
	SELECT SUM(spend) AS spend FROM per_entity
)
SELECT COALESCE(
	(SELECT SUM(spend) FROM (
		SELECT spend FROM per_entity ORDER BY spend DESC LIMIT $5
	) top) / NULLIF((SELECT spend FROM total), 0),
	0
)`

// TopSpendShare returns the cumulative spend share of the top-N entities by
// spend inside the filter's window.
func (r *metricRecordRepository) TopSpendShare(ctx context.Context, filter AggregateFilter, topN int) (float64, error) {
	var share float64

	err := r.conn.QueryRowContext(
		ctx,
		topSpendShareSQL,
		filter.AccountID,
		string(filter.Level),
		filter.Range.Since.Format(time.DateOnly),
		filter.Range.Until.Format(time.DateOnly),
		topN,
	).Scan(&share)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, errors.Wrap(err, "scanning top spend share")
	}

	return share, nil
}

const creativeSpendSharesSQL = `
SELECT
	COALESCE(SUM(spend) FILTER (WHERE raw_dimensions->>'creative_type' = 'video') / NULLIF(SUM(spend), 0), 0),
	COALESCE(SUM(spend) FILTER (WHERE raw_dimensions->>'creative_type' = 'image') / NULLIF(SUM(spend), 0), 0)
FROM metric_records
WHERE account_id = $1
  AND level = $2
  AND date >= $3
  AND date <= $4
  AND breakdown_key LIKE 'creative_type=%'`

// CreativeSpendShares returns the video and image spend shares from the
// creative_type breakdown records of the window.
func (r *metricRecordRepository) CreativeSpendShares(ctx context.Context, accountID string, level domain.Level, dateRange domain.DateRange) (float64, float64, error) {
	var videoShare, imageShare float64

	err := r.conn.QueryRowContext(
		ctx,
		creativeSpendSharesSQL,
		accountID,
		string(level),
		dateRange.Since.Format(time.DateOnly),
		dateRange.Until.Format(time.DateOnly),
	).Scan(&videoShare, &imageShare)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, 0, nil
		}
		return 0, 0, errors.Wrap(err, "scanning creative spend shares")
	}

	return videoShare, imageShare, nil
}

func (r *metricRecordRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoffDate := time.Now().AddDate(0, 0, -days).Format(time.DateOnly)

	query, args, err := squirrel.
		Delete(metricRecordsTable).
		Where(squirrel.Lt{"date": cutoffDate}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building delete query")
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "executing delete")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "reading affected rows")
	}

	return rowsAffected, nil
}

func applyAggregateFilter(builder squirrel.SelectBuilder, filter AggregateFilter) squirrel.SelectBuilder {
	builder = builder.
		Where(squirrel.Eq{"account_id": filter.AccountID, "level": string(filter.Level)}).
		Where(squirrel.GtOrEq{"date": filter.Range.Since.Format(time.DateOnly)}).
		Where(squirrel.LtOrEq{"date": filter.Range.Until.Format(time.DateOnly)})

	if filter.BreakdownPrefix == "" {
		builder = builder.Where(squirrel.Eq{"breakdown_key": ""})
	} else {
		builder = builder.Where(squirrel.Like{"breakdown_key": filter.BreakdownPrefix + "%"})
	}

	return builder
}
