package postgres

import (
	"context"
	"database/sql"
)

// Queryer is the subset of database/sql the repositories depend on.
// *Connection satisfies it through the embedded *sql.DB.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
