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
	syncRunsTable = "sync_runs"
)

// SyncRunRepository persists sync manifests so partial failures stay
// inspectable after the run.
type SyncRunRepository interface {
	SaveManifest(ctx context.Context, result *domain.SyncResult) error
	GetByRunID(ctx context.Context, runID string) (*domain.SyncResult, error)
}

type syncRunRepository struct {
	conn postgres.Queryer
}

func NewSyncRunRepository(conn postgres.Queryer) SyncRunRepository {
	return &syncRunRepository{
		conn: conn,
	}
}

func (r *syncRunRepository) SaveManifest(ctx context.Context, result *domain.SyncResult) error {
	manifest, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, "serializing sync manifest to JSON")
	}

	query, args, err := squirrel.StatementBuilder.
		Insert(syncRunsTable).
		Columns("run_id", "account_id", "records_written", "failed_partitions", "started_at", "completed_at", "manifest").
		Values(
			result.RunID,
			result.AccountID,
			result.RecordsWritten,
			len(result.Failures),
			result.StartedAt,
			result.CompletedAt,
			manifest,
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

func (r *syncRunRepository) GetByRunID(ctx context.Context, runID string) (*domain.SyncResult, error) {
	query, args, err := squirrel.
		Select("manifest").
		From(syncRunsTable).
		Where(squirrel.Eq{"run_id": runID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	var manifest []byte
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&manifest)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "scanning sync manifest")
	}

	result := &domain.SyncResult{}
	if err := json.Unmarshal(manifest, result); err != nil {
		return nil, errors.Wrap(err, "deserializing sync manifest")
	}

	return result, nil
}
