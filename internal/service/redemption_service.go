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
)

// RedemptionService owns claiming rewards: points debit, stock decrement
// and redemption insert happen in one transaction, so a redemption can
// never exist without its debit.
type RedemptionService struct {
	pool        TxBeginner
	members     MemberRepo
	rewards     RewardRepo
	redemptions RedemptionRepo
	ledger      TransactionRepo
	ttl         time.Duration
	now         func() time.Time
}

// NewRedemptionService creates a new RedemptionService with the given pool
// and repositories.
func NewRedemptionService(pool *pgxpool.Pool, members MemberRepo, rewards RewardRepo, redemptions RedemptionRepo, ledger TransactionRepo, ttl time.Duration) *RedemptionService {
	return NewRedemptionServiceWithTxBeginner(pool, members, rewards, redemptions, ledger, ttl)
}

// NewRedemptionServiceWithTxBeginner creates a RedemptionService with a
// custom TxBeginner. Primarily used for testing.
func NewRedemptionServiceWithTxBeginner(pool TxBeginner, members MemberRepo, rewards RewardRepo, redemptions RedemptionRepo, ledger TransactionRepo, ttl time.Duration) *RedemptionService {
	return &RedemptionService{
		pool:        pool,
		members:     members,
		rewards:     rewards,
		redemptions: redemptions,
		ledger:      ledger,
		ttl:         ttl,
		now:         time.Now,
	}
}

// Redeem claims a reward for a member, debiting its cost and issuing a
// one-time redemption code.
// Returns:
//   - ErrRewardNotFound / ErrRewardInactive / ErrOutOfStock for catalog problems
//   - ErrInsufficientPoints when the balance doesn't cover the cost
//   - ErrDuplicateActiveRedemption when an active redemption for the same
//     reward already exists
func (s *RedemptionService) Redeem(ctx context.Context, memberID, rewardID uuid.UUID) (*model.Redemption, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	// Lock member then reward; every multi-row flow uses this order.
	member, err := s.members.GetForUpdate(ctx, tx, memberID)
	if err != nil {
		return nil, fmt.Errorf("get member for update: %w", err)
	}

	reward, err := s.rewards.GetForUpdate(ctx, tx, rewardID)
	if err != nil {
		if errors.Is(err, ErrRewardNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, fmt.Errorf("get reward for update: %w", err)
	}

	now := s.now()

	// A redemption past its expiry still sits at status 'active' (reads
	// derive expiry lazily) and would hold the one-active unique index
	// slot forever. Persist its expiry here so the insert below can
	// succeed; only a genuinely live duplicate should conflict.
	if err := s.redemptions.ExpireStale(ctx, tx, memberID, rewardID, now); err != nil {
		return nil, fmt.Errorf("expire stale redemptions: %w", err)
	}

	if !reward.IsActive {
		return nil, ErrRewardInactive
	}
	if reward.Quantity != nil && *reward.Quantity <= 0 {
		return nil, ErrOutOfStock
	}
	if member.Points < reward.PointsRequired {
		return nil, ErrInsufficientPoints
	}

	// The repository re-checks the balance in the UPDATE guard, so the
	// debit can never overdraw even if this read went stale.
	if err := s.members.DebitPoints(ctx, tx, memberID, reward.PointsRequired); err != nil {
		if errors.Is(err, ErrInsufficientPoints) {
			return nil, ErrInsufficientPoints
		}
		return nil, fmt.Errorf("debit points: %w", err)
	}

	entry := &model.Transaction{
		ID:          uuid.New(),
		MemberID:    memberID,
		Amount:      reward.PointsRequired,
		Type:        model.TransactionSpend,
		Description: "Redeemed " + reward.Title,
	}
	if err := s.ledger.Insert(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("insert ledger entry: %w", err)
	}

	if reward.Quantity != nil {
		if err := s.rewards.DecrementQuantity(ctx, tx, rewardID); err != nil {
			return nil, fmt.Errorf("decrement reward quantity: %w", err)
		}
	}

	code, err := token.New(token.KindRedemption)
	if err != nil {
		return nil, fmt.Errorf("generate redemption code: %w", err)
	}

	redemption := &model.Redemption{
		ID:        uuid.New(),
		MemberID:  memberID,
		RewardID:  rewardID,
		Code:      code,
		Status:    model.RedemptionActive,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
		Reward:    reward,
	}
	if err := s.redemptions.Insert(ctx, tx, redemption); err != nil {
		if errors.Is(err, ErrDuplicateActiveRedemption) {
			return nil, ErrDuplicateActiveRedemption
		}
		return nil, fmt.Errorf("insert redemption: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return redemption, nil
}

// ListRewards returns the active catalog.
func (s *RedemptionService) ListRewards(ctx context.Context) ([]model.Reward, error) {
	return s.rewards.ListActive(ctx)
}

// ListForMember returns the member's redemptions with lazily derived
// statuses: an active row past its expiry presents as expired.
func (s *RedemptionService) ListForMember(ctx context.Context, memberID uuid.UUID) ([]model.Redemption, error) {
	redemptions, err := s.redemptions.ListByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}
	now := s.now()
	for i := range redemptions {
		redemptions[i].Status = redemptions[i].PresentedStatus(now)
	}
	return redemptions, nil
}

// GetForMember returns one redemption, restricted to its owner.
// Returns ErrCodeNotFound for unknown ids and for other members' rows (no
// existence leak).
func (s *RedemptionService) GetForMember(ctx context.Context, memberID, redemptionID uuid.UUID) (*model.Redemption, error) {
	redemption, err := s.redemptions.GetByID(ctx, redemptionID)
	if err != nil {
		return nil, fmt.Errorf("get redemption: %w", err)
	}
	if redemption == nil || redemption.MemberID != memberID {
		return nil, ErrCodeNotFound
	}
	redemption.Status = redemption.PresentedStatus(s.now())
	return redemption, nil
}
