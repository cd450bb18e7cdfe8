package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saylekxd/nightApp/internal/model"
	"github.com/saylekxd/nightApp/pkg/database"
)

// Repository contracts consumed by the services. Implemented by
// internal/repository; declared here so services can be exercised with
// lightweight mocks.

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// MemberRepo is the member data access contract.
type MemberRepo interface {
	Insert(ctx context.Context, m *model.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Member, error)
	GetByUsername(ctx context.Context, username string) (*model.Member, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Member, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateProfileRequest) (*model.Member, error)
	AddPoints(ctx context.Context, tx database.TxQuerier, id uuid.UUID, amount int) error
	DebitPoints(ctx context.Context, tx database.TxQuerier, id uuid.UUID, amount int) error
}

// PassCodeRepo is the pass code data access contract.
type PassCodeRepo interface {
	GetActiveByMember(ctx context.Context, q database.TxQuerier, memberID uuid.UUID) (*model.PassCode, error)
	GetByCode(ctx context.Context, q database.TxQuerier, code string) (*model.PassCode, error)
	Deactivate(ctx context.Context, tx database.TxQuerier, memberID uuid.UUID) error
	Insert(ctx context.Context, tx database.TxQuerier, p *model.PassCode) error
}

// RewardRepo is the reward catalog data access contract.
type RewardRepo interface {
	ListActive(ctx context.Context) ([]model.Reward, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reward, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Reward, error)
	DecrementQuantity(ctx context.Context, tx database.TxQuerier, id uuid.UUID) error
}

// RedemptionRepo is the redemption data access contract.
type RedemptionRepo interface {
	Insert(ctx context.Context, tx database.TxQuerier, rd *model.Redemption) error
	ExpireStale(ctx context.Context, tx database.TxQuerier, memberID, rewardID uuid.UUID, now time.Time) error
	GetByCode(ctx context.Context, q database.TxQuerier, code string) (*model.Redemption, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Redemption, error)
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.Redemption, error)
	MarkUsed(ctx context.Context, q database.TxQuerier, code string, now time.Time) (bool, error)
	CountActiveByMember(ctx context.Context, memberID uuid.UUID, now time.Time) (int, error)
	CountUsedBetween(ctx context.Context, from, to time.Time) (int, error)
}

// VisitRepo is the visit log data access contract.
type VisitRepo interface {
	Insert(ctx context.Context, tx database.TxQuerier, v *model.Visit) error
	CountByMember(ctx context.Context, memberID uuid.UUID) (int, error)
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.Visit, error)
	DailyTotals(ctx context.Context, from, to time.Time) (visits int, points int, err error)
}

// ActivityRepo is the activity catalog data access contract.
type ActivityRepo interface {
	List(ctx context.Context) ([]model.Activity, error)
	GetByName(ctx context.Context, q database.TxQuerier, name string) (*model.Activity, error)
}

// TransactionRepo is the point ledger data access contract.
type TransactionRepo interface {
	Insert(ctx context.Context, tx database.TxQuerier, t *model.Transaction) error
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.Transaction, error)
}

// EventRepo is the venue event data access contract.
type EventRepo interface {
	Insert(ctx context.Context, e *model.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]model.Event, error)
	ListAll(ctx context.Context) ([]model.Event, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateEventRequest) (*model.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
