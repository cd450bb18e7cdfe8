package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saylekxd/nightApp/internal/model"
	"github.com/saylekxd/nightApp/internal/service"
	"github.com/saylekxd/nightApp/pkg/database"
)

const passCodeColumns = `id, member_id, code, is_active, expires_at, created_at`

// PassCodeRepository provides data access for pass codes using pgx.
type PassCodeRepository struct {
	db database.TxQuerier
}

// NewPassCodeRepository creates a new PassCodeRepository with the given pool.
func NewPassCodeRepository(pool *pgxpool.Pool) *PassCodeRepository {
	return &PassCodeRepository{db: pool}
}

// NewPassCodeRepositoryWithDB creates a PassCodeRepository with a custom
// querier. This is primarily used for testing.
func NewPassCodeRepositoryWithDB(db database.TxQuerier) *PassCodeRepository {
	return &PassCodeRepository{db: db}
}

func scanPassCode(row pgx.Row) (*model.PassCode, error) {
	var p model.PassCode
	err := row.Scan(
		&p.ID,
		&p.MemberID,
		&p.Code,
		&p.IsActive,
		&p.ExpiresAt,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetActiveByMember retrieves the member's active pass, if any.
// The partial unique index guarantees at most one row. Accepts a TxQuerier
// so it can run inside the issue transaction or against the pool.
// Returns nil, nil when the member has no active pass.
func (r *PassCodeRepository) GetActiveByMember(ctx context.Context, q database.TxQuerier, memberID uuid.UUID) (*model.PassCode, error) {
	if q == nil {
		q = r.db
	}
	p, err := scanPassCode(q.QueryRow(ctx,
		`SELECT `+passCodeColumns+` FROM pass_codes WHERE member_id = $1 AND is_active`, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active pass for member %s: %w", memberID, err)
	}
	return p, nil
}

// GetByCode resolves a scanned code to a pass.
// Returns nil, nil when the code is unknown.
func (r *PassCodeRepository) GetByCode(ctx context.Context, q database.TxQuerier, code string) (*model.PassCode, error) {
	if q == nil {
		q = r.db
	}
	p, err := scanPassCode(q.QueryRow(ctx,
		`SELECT `+passCodeColumns+` FROM pass_codes WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pass by code: %w", err)
	}
	return p, nil
}

// Deactivate flips every active pass of the member to inactive.
// Must be called inside the issue transaction; the single-active-pass
// unique index arbitrates concurrent issuers, not a row lock.
func (r *PassCodeRepository) Deactivate(ctx context.Context, tx database.TxQuerier, memberID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE pass_codes SET is_active = FALSE WHERE member_id = $1 AND is_active`,
		memberID)
	if err != nil {
		return fmt.Errorf("deactivate passes for member %s: %w", memberID, err)
	}
	return nil
}

// Insert inserts a new pass code within a transaction.
// Returns service.ErrActivePassExists when the single-active-pass
// constraint rejects the row (a concurrent issue won the race).
func (r *PassCodeRepository) Insert(ctx context.Context, tx database.TxQuerier, p *model.PassCode) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO pass_codes (id, member_id, code, is_active, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.MemberID, p.Code, p.IsActive, p.ExpiresAt, p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrActivePassExists
		}
		return fmt.Errorf("insert pass code: %w", err)
	}
	return nil
}
