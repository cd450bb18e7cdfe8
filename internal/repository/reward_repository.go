package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saylekxd/nightApp/internal/model"
	"github.com/saylekxd/nightApp/internal/service"
	"github.com/saylekxd/nightApp/pkg/database"
)

const rewardColumns = `id, title, description, points_required, image_url, is_active, quantity, created_at`

// RewardRepository provides data access for the reward catalog using pgx.
type RewardRepository struct {
	db database.TxQuerier
}

// NewRewardRepository creates a new RewardRepository with the given pool.
func NewRewardRepository(pool *pgxpool.Pool) *RewardRepository {
	return &RewardRepository{db: pool}
}

// NewRewardRepositoryWithDB creates a RewardRepository with a custom querier.
// This is primarily used for testing.
func NewRewardRepositoryWithDB(db database.TxQuerier) *RewardRepository {
	return &RewardRepository{db: db}
}

func scanReward(row pgx.Row) (*model.Reward, error) {
	var rw model.Reward
	err := row.Scan(
		&rw.ID,
		&rw.Title,
		&rw.Description,
		&rw.PointsRequired,
		&rw.ImageURL,
		&rw.IsActive,
		&rw.Quantity,
		&rw.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rw, nil
}

// ListActive returns the active catalog ordered by cost ascending.
// On success, returns an empty slice (not nil) when the catalog is empty.
func (r *RewardRepository) ListActive(ctx context.Context) ([]model.Reward, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+rewardColumns+` FROM rewards WHERE is_active ORDER BY points_required ASC`)
	if err != nil {
		return nil, fmt.Errorf("list active rewards: %w", err)
	}
	defer rows.Close()

	rewards := []model.Reward{}
	for rows.Next() {
		rw, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, *rw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rewards rows: %w", err)
	}
	return rewards, nil
}

// GetByID retrieves a reward by id.
// Returns nil, nil if the reward is not found.
func (r *RewardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reward, error) {
	rw, err := scanReward(r.db.QueryRow(ctx,
		`SELECT `+rewardColumns+` FROM rewards WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reward by id %s: %w", id, err)
	}
	return rw, nil
}

// GetForUpdate retrieves a reward with a row lock (SELECT FOR UPDATE) so
// stock checks and decrements serialize.
// Returns service.ErrRewardNotFound if the reward doesn't exist.
func (r *RewardRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Reward, error) {
	rw, err := scanReward(tx.QueryRow(ctx,
		`SELECT `+rewardColumns+` FROM rewards WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrRewardNotFound
		}
		return nil, fmt.Errorf("get reward for update %s: %w", id, err)
	}
	return rw, nil
}

// DecrementQuantity reduces a limited reward's stock by 1.
// Must be called within a transaction after locking the reward row.
func (r *RewardRepository) DecrementQuantity(ctx context.Context, tx database.TxQuerier, id uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE rewards SET quantity = quantity - 1 WHERE id = $1 AND quantity IS NOT NULL`,
		id)
	if err != nil {
		return fmt.Errorf("decrement quantity for reward %s: %w", id, err)
	}
	return nil
}
