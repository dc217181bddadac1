package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/adscope/ad-audit-api/infrastructure/database/postgres"
	"github.com/adscope/ad-audit-api/internal/domain"
)

const (
	adAccountsTable = "ad_accounts"
)

type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.AdAccount, error)
	ListAccounts(ctx context.Context, statuses []domain.AdAccountStatus) ([]*domain.AdAccount, error)
}

type accountRepository struct {
	conn postgres.Queryer
}

func NewAccountRepository(conn postgres.Queryer) AccountRepository {
	return &accountRepository{
		conn: conn,
	}
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.AdAccount, error) {
	query, args, err := squirrel.
		Select("id, external_id, name, status, created_at, updated_at").
		From(adAccountsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	account := &domain.AdAccount{}
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&account.ID,
		&account.ExternalID,
		&account.Name,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "scanning account")
	}

	return account, nil
}

func (r *accountRepository) ListAccounts(ctx context.Context, statuses []domain.AdAccountStatus) ([]*domain.AdAccount, error) {
	builder := squirrel.
		Select("id, external_id, name, status, created_at, updated_at").
		From(adAccountsTable).
		OrderBy("name ASC")

	if len(statuses) > 0 {
		values := make([]string, 0, len(statuses))
		for _, status := range statuses {
			values = append(values, string(status))
		}
		builder = builder.Where(squirrel.Eq{"status": values})
	}

	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "executing query")
	}
	defer rows.Close()

	accounts := make([]*domain.AdAccount, 0)
	for rows.Next() {
		account := &domain.AdAccount{}
		err := rows.Scan(
			&account.ID,
			&account.ExternalID,
			&account.Name,
			&account.Status,
			&account.CreatedAt,
			&account.UpdatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "scanning account")
		}
		accounts = append(accounts, account)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating account rows")
	}

	return accounts, nil
}
