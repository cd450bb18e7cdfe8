package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saylekxd/nightApp/internal/model"
	"github.com/saylekxd/nightApp/internal/service"
	"github.com/saylekxd/nightApp/pkg/database"
)

// redemptionJoin selects redemption rows together with their reward so
// callers never need a second round trip.
const redemptionJoin = `
	SELECT rd.id, rd.member_id, rd.reward_id, rd.code, rd.status, rd.created_at, rd.expires_at, rd.used_at,
	       rw.id, rw.title, rw.description, rw.points_required, rw.image_url, rw.is_active, rw.quantity, rw.created_at
	FROM redemptions rd
	JOIN rewards rw ON rw.id = rd.reward_id`

// RedemptionRepository provides data access for redemptions using pgx.
type RedemptionRepository struct {
	db database.TxQuerier
}

// NewRedemptionRepository creates a new RedemptionRepository with the given pool.
func NewRedemptionRepository(pool *pgxpool.Pool) *RedemptionRepository {
	return &RedemptionRepository{db: pool}
}

// NewRedemptionRepositoryWithDB creates a RedemptionRepository with a custom
// querier. This is primarily used for testing.
func NewRedemptionRepositoryWithDB(db database.TxQuerier) *RedemptionRepository {
	return &RedemptionRepository{db: db}
}

func scanRedemption(row pgx.Row) (*model.Redemption, error) {
	var rd model.Redemption
	var rw model.Reward
	err := row.Scan(
		&rd.ID,
		&rd.MemberID,
		&rd.RewardID,
		&rd.Code,
		&rd.Status,
		&rd.CreatedAt,
		&rd.ExpiresAt,
		&rd.UsedAt,
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
	rd.Reward = &rw
	return &rd, nil
}

// Insert inserts a new redemption within a transaction.
// Returns service.ErrDuplicateActiveRedemption when the member already holds
// an active redemption for the same reward (partial unique index).
func (r *RedemptionRepository) Insert(ctx context.Context, tx database.TxQuerier, rd *model.Redemption) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO redemptions (id, member_id, reward_id, code, status, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rd.ID, rd.MemberID, rd.RewardID, rd.Code, rd.Status, rd.CreatedAt, rd.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrDuplicateActiveRedemption
		}
		return fmt.Errorf("insert redemption: %w", err)
	}
	return nil
}

// ExpireStale persists the expiry of the member's active-but-expired
// redemptions for one reward. An expired row left at status 'active'
// would still occupy the one-active slot in the partial unique index and
// block every later redeem of that reward, so the redeem transaction
// clears it first. Scan paths never need this; they check expires_at.
func (r *RedemptionRepository) ExpireStale(ctx context.Context, tx database.TxQuerier, memberID, rewardID uuid.UUID, now time.Time) error {
	_, err := tx.Exec(ctx,
		`UPDATE redemptions SET status = 'expired'
		 WHERE member_id = $1 AND reward_id = $2 AND status = 'active' AND expires_at <= $3`,
		memberID, rewardID, now)
	if err != nil {
		return fmt.Errorf("expire stale redemptions for member %s: %w", memberID, err)
	}
	return nil
}

// GetByCode resolves a scanned code to a redemption with its reward.
// Returns nil, nil when the code is unknown.
func (r *RedemptionRepository) GetByCode(ctx context.Context, q database.TxQuerier, code string) (*model.Redemption, error) {
	if q == nil {
		q = r.db
	}
	rd, err := scanRedemption(q.QueryRow(ctx, redemptionJoin+` WHERE rd.code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get redemption by code: %w", err)
	}
	return rd, nil
}

// GetByID retrieves a redemption with its reward.
// Returns nil, nil if the redemption is not found.
func (r *RedemptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Redemption, error) {
	rd, err := scanRedemption(r.db.QueryRow(ctx, redemptionJoin+` WHERE rd.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get redemption by id %s: %w", id, err)
	}
	return rd, nil
}

// ListByMember returns the member's redemptions, newest first.
// On success, returns an empty slice (not nil) when none exist.
func (r *RedemptionRepository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.Redemption, error) {
	rows, err := r.db.Query(ctx, redemptionJoin+` WHERE rd.member_id = $1 ORDER BY rd.created_at DESC`, memberID)
	if err != nil {
		return nil, fmt.Errorf("list redemptions for member %s: %w", memberID, err)
	}
	defer rows.Close()

	redemptions := []model.Redemption{}
	for rows.Next() {
		rd, err := scanRedemption(rows)
		if err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		redemptions = append(redemptions, *rd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate redemptions rows: %w", err)
	}
	return redemptions, nil
}

// MarkUsed performs the compare-and-set transition active -> used. The
// status and expiry preconditions live in the WHERE clause, so two
// concurrent accepts can never both succeed.
// Returns false when no row matched; the caller reads back to find out why.
func (r *RedemptionRepository) MarkUsed(ctx context.Context, q database.TxQuerier, code string, now time.Time) (bool, error) {
	if q == nil {
		q = r.db
	}
	tag, err := q.Exec(ctx,
		`UPDATE redemptions SET status = 'used', used_at = $2
		 WHERE code = $1 AND status = 'active' AND expires_at > $2`,
		code, now)
	if err != nil {
		return false, fmt.Errorf("mark redemption used: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CountActiveByMember counts the member's active, unexpired redemptions.
func (r *RedemptionRepository) CountActiveByMember(ctx context.Context, memberID uuid.UUID, now time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM redemptions WHERE member_id = $1 AND status = 'active' AND expires_at > $2`,
		memberID, now).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active redemptions for member %s: %w", memberID, err)
	}
	return count, nil
}

// CountUsedBetween counts redemptions consumed inside [from, to).
func (r *RedemptionRepository) CountUsedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM redemptions WHERE used_at >= $1 AND used_at < $2`,
		from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count used redemptions: %w", err)
	}
	return count, nil
}
