package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxConns        = 8
	maxConnIdleTime = 5 * time.Minute
)

// NewPool creates a pgx connection pool for the trade database. The pool is
// kept small: the bot serves one webhook update at a time per requester and
// the database is shared with the ERP.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse trade database config: %w", err)
	}
	config.MaxConns = maxConns
	config.MaxConnIdleTime = maxConnIdleTime
	return pgxpool.NewWithConfig(ctx, config)
}
