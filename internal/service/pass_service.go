package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saylekxd/nightApp/internal/model"
	"github.com/saylekxd/nightApp/internal/token"
	"github.com/saylekxd/nightApp/pkg/database"
)

// PassService owns the pass code lifecycle: issue, reuse, rotation.
type PassService struct {
	pool   TxBeginner
	db     database.TxQuerier
	passes PassCodeRepo
	ttl    time.Duration
	now    func() time.Time
}

// NewPassService creates a new PassService with the given pool and repository.
func NewPassService(pool *pgxpool.Pool, passes PassCodeRepo, ttl time.Duration) *PassService {
	return &PassService{
		pool:   pool,
		db:     pool,
		passes: passes,
		ttl:    ttl,
		now:    time.Now,
	}
}

// NewPassServiceWithTxBeginner creates a PassService with custom pool
// interfaces. Primarily used for testing.
func NewPassServiceWithTxBeginner(pool TxBeginner, db database.TxQuerier, passes PassCodeRepo, ttl time.Duration) *PassService {
	return &PassService{
		pool:   pool,
		db:     db,
		passes: passes,
		ttl:    ttl,
		now:    time.Now,
	}
}

// IssueOrReuse returns the member's active pass, rotating in a fresh one
// when none is valid. Idempotent: a member with a live pass gets the same
// code back unchanged.
//
// Concurrency: the single-active-pass partial unique index is the
// authority. A loser of a concurrent issue race re-reads and returns the
// winner's code instead of erroring.
func (s *PassService) IssueOrReuse(ctx context.Context, memberID uuid.UUID) (*model.PassCode, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	now := s.now()

	existing, err := s.passes.GetActiveByMember(ctx, tx, memberID)
	if err != nil {
		return nil, fmt.Errorf("get active pass: %w", err)
	}
	if existing != nil && existing.ValidAt(now) {
		// Nothing to write; the open transaction read a consistent row.
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit tx: %w", err)
		}
		return existing, nil
	}

	// Active-but-expired or no pass at all: rotate.
	if err := s.passes.Deactivate(ctx, tx, memberID); err != nil {
		return nil, fmt.Errorf("deactivate passes: %w", err)
	}

	code, err := token.New(token.KindPass)
	if err != nil {
		return nil, fmt.Errorf("generate pass code: %w", err)
	}

	expiresAt := now.Add(s.ttl)
	pass := &model.PassCode{
		ID:        uuid.New(),
		MemberID:  memberID,
		Code:      code,
		IsActive:  true,
		ExpiresAt: &expiresAt,
		CreatedAt: now,
	}

	if err := s.passes.Insert(ctx, tx, pass); err != nil {
		if errors.Is(err, ErrActivePassExists) {
			// A concurrent issue won; surface its code.
			_ = tx.Rollback(ctx)
			winner, werr := s.passes.GetActiveByMember(ctx, s.db, memberID)
			if werr != nil {
				return nil, fmt.Errorf("get winning pass after race: %w", werr)
			}
			if winner == nil {
				return nil, ErrActivePassExists
			}
			return winner, nil
		}
		return nil, fmt.Errorf("insert pass: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return pass, nil
}
