package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// TxQuerier is the query surface shared by pgxpool.Pool and pgx.Tx.
// Repository methods accept it so the same query can run standalone or
// inside a redeem/accept transaction.
type TxQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PoolConfig carries the connection settings NewPool needs. Zero values
// fall back to one attempt and a 1s initial backoff.
type PoolConfig struct {
	DSN        string
	MaxRetries int
	Backoff    time.Duration
}

// NewPool connects to PostgreSQL, retrying with exponential backoff so
// the API survives the database coming up after it (compose, k8s).
// Each attempt is verified with a ping; a pool that cannot ping is
// closed, not returned.
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	attempts := cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var pool *pgxpool.Pool
		pool, err = pgxpool.New(ctx, cfg.DSN)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				log.Info().Msg("database connection established")
				return pool, nil
			} else {
				pool.Close()
				err = fmt.Errorf("ping failed: %w", pingErr)
			}
		}

		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("attempts", attempts).
			Dur("retry_in", backoff).
			Msg("database connection failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, fmt.Errorf("connect after %d attempts: %w", attempts, err)
}
