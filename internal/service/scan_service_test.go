package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saylekxd/nightApp/internal/model"
	"github.com/saylekxd/nightApp/pkg/database"
)

func newScanService(members MemberRepo, passes PassCodeRepo, redemptions RedemptionRepo, activities ActivityRepo, visits VisitRepo, ledger TransactionRepo) *ScanService {
	if members == nil {
		members = &mockMemberRepo{}
	}
	if passes == nil {
		passes = &mockPassCodeRepo{}
	}
	if redemptions == nil {
		redemptions = &mockRedemptionRepo{}
	}
	if activities == nil {
		activities = &mockActivityRepo{}
	}
	if visits == nil {
		visits = &mockVisitRepo{}
	}
	if ledger == nil {
		ledger = &mockTransactionRepo{}
	}
	return NewScanServiceWithTxBeginner(&mockTxBeginner{}, nil, members, passes, redemptions, activities, visits, ledger)
}

func TestScanService_Validate_NonAdminFailsClosed(t *testing.T) {
	looked := false
	passes := &mockPassCodeRepo{
		getByCodeFn: func(ctx context.Context, q database.TxQuerier, code string) (*model.PassCode, error) {
			looked = true
			return nil, nil
		},
	}

	svc := newScanService(nil, passes, nil, nil, nil, nil)
	_, err := svc.Validate(context.Background(), memberCtx(), "pass_somecode", "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotAuthorized))
	assert.False(t, looked, "a non-admin must not trigger any code lookup")
}

func TestScanService_Validate_UnknownPrefixIsNotFound(t *testing.T) {
	svc := newScanService(nil, nil, nil, nil, nil, nil)
	result, err := svc.Validate(context.Background(), adminCtx(), "garbage-code", "")

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ErrCodeNotFound.Error(), result.Error)
}

func TestScanService_Validate_PassSuccess(t *testing.T) {
	memberID := uuid.New()
	expiresAt := time.Now().Add(6 * time.Hour)
	passes := &mockPassCodeRepo{
		getByCodeFn: func(ctx context.Context, q database.TxQuerier, code string) (*model.PassCode, error) {
			return &model.PassCode{
				ID:        uuid.New(),
				MemberID:  memberID,
				Code:      code,
				IsActive:  true,
				ExpiresAt: &expiresAt,
			}, nil
		},
	}
	members := &mockMemberRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Member, error) {
			return &model.Member{ID: memberID, FullName: "Ada Lovelace", Points: 120}, nil
		},
	}

	svc := newScanService(members, passes, nil, nil, nil, nil)
	result, err := svc.Validate(context.Background(), adminCtx(), "pass_validcode", "")

	require.NoError(t, err)
	require.True(t, result.Valid)
	require.NotNil(t, result.Data)
	assert.Equal(t, model.ScanKindVisit, result.Data.Type)
	assert.Equal(t, memberID, result.Data.Member.ID)
	assert.Equal(t, "Ada Lovelace", result.Data.Member.FullName)
	assert.Equal(t, 120, result.Data.Member.Points)
	assert.Nil(t, result.Data.Reward)
}

func TestScanService_Validate_PassWithActivity(t *testing.T) {
	memberID := uuid.New()
	passes := &mockPassCodeRepo{
		getByCodeFn: func(ctx context.Context, q database.TxQuerier, code string) (*model.PassCode, error) {
			return &model.PassCode{ID: uuid.New(), MemberID: memberID, Code: code, IsActive: true, ExpiresAt: timePtr(time.Now().Add(time.Hour))}, nil
		},
	}
	members := &mockMemberRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Member, error) {
			return &model.Member{ID: memberID}, nil
		},
	}
	activities := &mockActivityRepo{
		getByNameFn: func(ctx context.Context, q database.TxQuerier, name string) (*model.Activity, error) {
			return &model.Activity{ID: uuid.New(), Name: name, Points: 25}, nil
		},
	}

	svc := newScanService(members, passes, nil, activities, nil, nil)
	result, err := svc.Validate(context.Background(), adminCtx(), "pass_validcode", "event_night")

	require.NoError(t, err)
	require.True(t, result.Valid)
	require.NotNil(t, result.Data.Activity)
	assert.Equal(t, "event_night", result.Data.Activity.Name)
	assert.Equal(t, 25, result.Data.Activity.Points)
}

func TestScanService_Validate_PassUnknownActivity(t *testing.T) {
	memberID := uuid.New()
	passes := &mockPassCodeRepo{
		getByCodeFn: func(ctx context.Context, q database.TxQuerier, code string) (*model.PassCode, error) {
			return &model.PassCode{ID: uuid.New(), MemberID: memberID, Code: code, IsActive: true, ExpiresAt: timePtr(time.Now().Add(time.Hour))}, nil
		},
	}
	members := &mockMemberRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Member, error) {
			return &model.Member{ID: memberID}, nil
		},
	}

	svc := newScanService(members, passes, nil, nil, nil, nil)
	result, err := svc.Validate(context.Background(), adminCtx(), "pass_validcode", "nonexistent")

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ErrActivityNotFound.Error(), result.Error)
}

func TestScanService_Validate_PassExpired(t *testing.T) {
	passes := &mockPassCodeRepo{
		getByCodeFn: func(ctx context.Context, q database.TxQuerier, code string) (*model.PassCode, error) {
			return &model.PassCode{ID: uuid.New(), Code: code, IsActive: true, ExpiresAt: timePtr(time.Now().Add(-time.Minute))}, nil
		},
	}

	svc := newScanService(nil, passes, nil, nil, nil, nil)
	result, err := svc.Validate(context.Background(), adminCtx(), "pass_staleacode", "")

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ErrCodeExpired.Error(), result.Error)
}

func TestScanService_Validate_PassSuperseded(t *testing.T) {
	passes := &mockPassCodeRepo{
		getByCodeFn: func(ctx context.Context, q database.TxQuerier, code string) (*model.PassCode, error) {
			return &model.PassCode{ID: uuid.New(), Code: code, IsActive: false, ExpiresAt: timePtr(time.Now().Add(time.Hour))}, nil
		},
	}

	svc := newScanService(nil, passes, nil, nil, nil, nil)
	result, err := svc.Validate(context.Background(), adminCtx(), "pass_oldcode", "")

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ErrCodeInactive.Error(), result.Error)
}

func TestScanService_Validate_PassNotFound(t *testing.T) {
	svc := newScanService(nil, nil, nil, nil, nil, nil)
	result, err := svc.Validate(context.Background(), adminCtx(), "pass_neverissued", "")

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ErrCodeNotFound.Error(), result.Error)
}

func TestScanService_Validate_RedemptionSuccess(t *testing.T) {
	memberID := uuid.New()
	reward := &model.Reward{ID: uuid.New(), Title: "Free Drink", PointsRequired: 50}
	redemptions := &mockRedemptionRepo{
		getByCodeFn: func(ctx context.Context, q database.TxQuerier, code string) (*model.Redemption, error) {
			return &model.Redemption{
				ID:        uuid.New(),
				MemberID:  memberID,
				RewardID:  reward.ID,
				Code:      code,
				Status:    model.RedemptionActive,
				ExpiresAt: time.Now().Add(24 * time.Hour),
				Reward:    reward,
			}, nil
		},
	}
	members := &mockMemberRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Member, error) {
			return &model.Member{ID: memberID, FullName: "Grace Hopper"}, nil
		},
	}

	svc := newScanService(members, nil, redemptions, nil, nil, nil)
	result, err := svc.Validate(context.Background(), adminCtx(), "rdm_validcode", "")

	require.NoError(t, err)
	require.True(t, result.Valid)
	assert.Equal(t, model.ScanKindReward, result.Data.Type)
	require.NotNil(t, result.Data.Reward)
	assert.Equal(t, "Free Drink", result.Data.Reward.Title)
}

func TestScanService_Validate_RedemptionAlreadyUsed(t *testing.T) {
	redemptions := &mockRedemptionRepo{
		getByCodeFn: func(ctx context.Context, q database.TxQuerier, code string) (*model.Redemption, error) {
			return &model.Redemption{
				ID:        uuid.New(),
				Code:      code,
				Status:    model.RedemptionUsed,
				ExpiresAt: time.Now().Add(24 * time.Hour),
			}, nil
		},
	}

	svc := newScanService(nil, nil, redemptions, nil, nil, nil)
	result, err := svc.Validate(context.Background(), adminCtx(), "rdm_usedcode", "")

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ErrAlreadyConsumed.Error(), result.Error, "used must be reported distinctly from expired")
}

func TestScanService_Validate_RedemptionExpired(t *testing.T) {
	redemptions := &mockRedemptionRepo{
		getByCodeFn: func(ctx context.Context, q database.TxQuerier, code string) (*model.Redemption, error) {
			return &model.Redemption{
				ID:        uuid.New(),
				Code:      code,
				Status:    model.RedemptionActive,
				ExpiresAt: time.Now().Add(-time.Minute),
			}, nil
		},
	}

	svc := newScanService(nil, nil, redemptions, nil, nil, nil)
	result, err := svc.Validate(context.Background(), adminCtx(), "rdm_stalecode", "")

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ErrCodeExpired.Error(), result.Error)
}

func TestScanService_Validate_IsPureRead(t *testing.T) {
	memberID := uuid.New()
	passes := &mockPassCodeRepo{
		getByCodeFn: func(ctx context.Context, q database.TxQuerier, code string) (*model.PassCode, error) {
			return &model.PassCode{ID: uuid.New(), MemberID: memberID, Code: code, IsActive: true, ExpiresAt: timePtr(time.Now().Add(time.Hour))}, nil
		},
	}
	members := &mockMemberRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Member, error) {
			return &model.Member{ID: memberID}, nil
		},
	}
	mutated := false
	visits := &mockVisitRepo{
		insertFn: func(ctx context.Context, tx database.TxQuerier, v *model.Visit) error {
			mutated = true
			return nil
		},
	}

	svc := newScanService(members, passes, nil, nil, visits, nil)
	for i := 0; i < 3; i++ {
		result, err := svc.Validate(context.Background(), adminCtx(), "pass_validcode", "")
		require.NoError(t, err)
		assert.True(t, result.Valid)
	}
	assert.False(t, mutated, "validate must not write anything")
}

func TestScanService_Accept_NonAdminFailsClosed(t *testing.T) {
	svc := newScanService(nil, nil, nil, nil, nil, nil)
	err := svc.Accept(context.Background(), memberCtx(), "pass_somecode", "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotAuthorized))
}

func TestScanService_Accept_VisitAwardsPointsAndKeepsPass(t *testing.T) {
	memberID := uuid.New()
	passes := &mockPassCodeRepo{
		getByCodeFn: func(ctx context.Context, q database.TxQuerier, code string) (*model.PassCode, error) {
			return &model.PassCode{ID: uuid.New(), MemberID: memberID, Code: code, IsActive: true, ExpiresAt: timePtr(time.Now().Add(time.Hour))}, nil
		},
		deactivateFn: func(ctx context.Context, tx database.TxQuerier, id uuid.UUID) error {
			t.Fatal("accepting a visit must not deactivate the pass")
			return nil
		},
	}
	activities := &mockActivityRepo{
		getByNameFn: func(ctx context.Context, q database.TxQuerier, name string) (*model.Activity, error) {
			return &model.Activity{ID: uuid.New(), Name: name, Points: 10}, nil
		},
	}
	members := &mockMemberRepo{
		getForUpdateFn: func(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Member, error) {
			return &model.Member{ID: id, Points: 40}, nil
		},
		addPointsFn: func(ctx context.Context, tx database.TxQuerier, id uuid.UUID, amount int) error {
			assert.Equal(t, memberID, id)
			assert.Equal(t, 10, amount)
			return nil
		},
	}
	var insertedVisit *model.Visit
	visits := &mockVisitRepo{
		insertFn: func(ctx context.Context, tx database.TxQuerier, v *model.Visit) error {
			insertedVisit = v
			return nil
		},
	}
	var insertedEntry *model.Transaction
	ledger := &mockTransactionRepo{
		insertFn: func(ctx context.Context, tx database.TxQuerier, entry *model.Transaction) error {
			insertedEntry = entry
			return nil
		},
	}

	svc := newScanService(members, passes, nil, activities, visits, ledger)
	err := svc.Accept(context.Background(), adminCtx(), "pass_validcode", "")

	require.NoError(t, err)
	require.NotNil(t, insertedVisit)
	assert.Equal(t, memberID, insertedVisit.MemberID)
	assert.Equal(t, DefaultActivity, insertedVisit.ActivityName, "empty activity should default")
	assert.Equal(t, 10, insertedVisit.PointsAwarded)
	require.NotNil(t, insertedEntry)
	assert.Equal(t, model.TransactionEarn, insertedEntry.Type)
	assert.Equal(t, 10, insertedEntry.Amount)
}

func TestScanService_Accept_VisitZeroPointActivitySkipsLedger(t *testing.T) {
	memberID := uuid.New()
	passes := &mockPassCodeRepo{
		getByCodeFn: func(ctx context.Context, q database.TxQuerier, code string) (*model.PassCode, error) {
			return &model.PassCode{ID: uuid.New(), MemberID: memberID, Code: code, IsActive: true, ExpiresAt: timePtr(time.Now().Add(time.Hour))}, nil
		},
	}
	activities := &mockActivityRepo{
		getByNameFn: func(ctx context.Context, q database.TxQuerier, name string) (*model.Activity, error) {
			return &model.Activity{ID: uuid.New(), Name: name, Points: 0}, nil
		},
	}
	members := &mockMemberRepo{
		getForUpdateFn: func(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Member, error) {
			return &model.Member{ID: id}, nil
		},
		addPointsFn: func(ctx context.Context, tx database.TxQuerier, id uuid.UUID, amount int) error {
			t.Fatal("no points should be awarded for a zero-point activity")
			return nil
		},
	}
	ledgerWritten := false
	ledger := &mockTransactionRepo{
		insertFn: func(ctx context.Context, tx database.TxQuerier, entry *model.Transaction) error {
			ledgerWritten = true
			return nil
		},
	}

	svc := newScanService(members, passes, nil, activities, nil, ledger)
	err := svc.Accept(context.Background(), adminCtx(), "pass_validcode", "plain_entry")

	require.NoError(t, err)
	assert.False(t, ledgerWritten)
}

func TestScanService_Accept_VisitExpiredPass(t *testing.T) {
	passes := &mockPassCodeRepo{
		getByCodeFn: func(ctx context.Context, q database.TxQuerier, code string) (*model.PassCode, error) {
			return &model.PassCode{ID: uuid.New(), Code: code, IsActive: true, ExpiresAt: timePtr(time.Now().Add(-time.Minute))}, nil
		},
	}

	svc := newScanService(nil, passes, nil, nil, nil, nil)
	err := svc.Accept(context.Background(), adminCtx(), "pass_stalecode", "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCodeExpired))
}

func TestScanService_Accept_VisitUnknownActivity(t *testing.T) {
	passes := &mockPassCodeRepo{
		getByCodeFn: func(ctx context.Context, q database.TxQuerier, code string) (*model.PassCode, error) {
			return &model.PassCode{ID: uuid.New(), Code: code, IsActive: true, ExpiresAt: timePtr(time.Now().Add(time.Hour))}, nil
		},
	}

	svc := newScanService(nil, passes, nil, nil, nil, nil)
	err := svc.Accept(context.Background(), adminCtx(), "pass_validcode", "nonexistent")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrActivityNotFound))
}

func TestScanService_Accept_RewardSuccess(t *testing.T) {
	var markedCode string
	redemptions := &mockRedemptionRepo{
		markUsedFn: func(ctx context.Context, q database.TxQuerier, code string, now time.Time) (bool, error) {
			markedCode = code
			return true, nil
		},
	}

	svc := newScanService(nil, nil, redemptions, nil, nil, nil)
	err := svc.Accept(context.Background(), adminCtx(), "rdm_validcode", "")

	require.NoError(t, err)
	assert.Equal(t, "rdm_validcode", markedCode)
}

func TestScanService_Accept_RewardExactlyOnce(t *testing.T) {
	used := false
	redemptions := &mockRedemptionRepo{
		markUsedFn: func(ctx context.Context, q database.TxQuerier, code string, now time.Time) (bool, error) {
			if used {
				return false, nil // The conditional update matches nothing
			}
			used = true
			return true, nil
		},
		getByCodeFn: func(ctx context.Context, q database.TxQuerier, code string) (*model.Redemption, error) {
			return &model.Redemption{
				ID:        uuid.New(),
				Code:      code,
				Status:    model.RedemptionUsed,
				ExpiresAt: time.Now().Add(24 * time.Hour),
			}, nil
		},
	}

	svc := newScanService(nil, nil, redemptions, nil, nil, nil)

	err := svc.Accept(context.Background(), adminCtx(), "rdm_oncecode", "")
	require.NoError(t, err)

	err = svc.Accept(context.Background(), adminCtx(), "rdm_oncecode", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyConsumed), "the second accept must fail, never double-consume")
}

func TestScanService_Accept_RewardExpired(t *testing.T) {
	redemptions := &mockRedemptionRepo{
		markUsedFn: func(ctx context.Context, q database.TxQuerier, code string, now time.Time) (bool, error) {
			return false, nil
		},
		getByCodeFn: func(ctx context.Context, q database.TxQuerier, code string) (*model.Redemption, error) {
			return &model.Redemption{
				ID:        uuid.New(),
				Code:      code,
				Status:    model.RedemptionActive,
				ExpiresAt: time.Now().Add(-time.Minute),
			}, nil
		},
	}

	svc := newScanService(nil, nil, redemptions, nil, nil, nil)
	err := svc.Accept(context.Background(), adminCtx(), "rdm_stalecode", "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCodeExpired))
}

func TestScanService_Accept_RewardNotFound(t *testing.T) {
	svc := newScanService(nil, nil, &mockRedemptionRepo{}, nil, nil, nil)
	err := svc.Accept(context.Background(), adminCtx(), "rdm_neverissued", "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCodeNotFound))
}

func TestScanService_Accept_RewardRejectsActivity(t *testing.T) {
	marked := false
	redemptions := &mockRedemptionRepo{
		markUsedFn: func(ctx context.Context, q database.TxQuerier, code string, now time.Time) (bool, error) {
			marked = true
			return true, nil
		},
	}

	svc := newScanService(nil, nil, redemptions, nil, nil, nil)
	err := svc.Accept(context.Background(), adminCtx(), "rdm_validcode", "visit")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
	assert.False(t, marked, "a rejected accept must not consume the code")
}

func TestScanService_Accept_UnknownPrefix(t *testing.T) {
	svc := newScanService(nil, nil, nil, nil, nil, nil)
	err := svc.Accept(context.Background(), adminCtx(), "garbage-code", "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCodeNotFound))
}

func TestScanService_Activities_AdminOnly(t *testing.T) {
	activities := &mockActivityRepo{
		listFn: func(ctx context.Context) ([]model.Activity, error) {
			return []model.Activity{{Name: "visit", Points: 10}}, nil
		},
	}

	svc := newScanService(nil, nil, nil, activities, nil, nil)

	_, err := svc.Activities(context.Background(), memberCtx())
	assert.True(t, errors.Is(err, ErrNotAuthorized))

	list, err := svc.Activities(context.Background(), adminCtx())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "visit", list[0].Name)
}

// Walks a redemption code through its whole life: redeemed, validated,
// accepted, then scanned again. The stateful mock stands in for the
// conditional UPDATE so the second scan sees the used row.
func TestScanService_RedeemAcceptRescanLifecycle(t *testing.T) {
	memberID := uuid.New()
	rewardID := uuid.New()

	members := &mockMemberRepo{
		getForUpdateFn: func(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Member, error) {
			return &model.Member{ID: id, Username: "night@owl.club", Points: 100}, nil
		},
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Member, error) {
			return &model.Member{ID: id, Username: "night@owl.club", Points: 50}, nil
		},
	}
	rewards := &mockRewardRepo{
		getForUpdateFn: func(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Reward, error) {
			return &model.Reward{ID: id, Title: "Free Drink", PointsRequired: 50, IsActive: true}, nil
		},
	}

	var stored *model.Redemption
	redemptions := &mockRedemptionRepo{
		insertFn: func(ctx context.Context, tx database.TxQuerier, rd *model.Redemption) error {
			cp := *rd
			stored = &cp
			return nil
		},
		getByCodeFn: func(ctx context.Context, q database.TxQuerier, code string) (*model.Redemption, error) {
			if stored == nil || stored.Code != code {
				return nil, nil
			}
			cp := *stored
			cp.Reward = &model.Reward{ID: stored.RewardID, Title: "Free Drink"}
			return &cp, nil
		},
		markUsedFn: func(ctx context.Context, q database.TxQuerier, code string, now time.Time) (bool, error) {
			if stored == nil || stored.Code != code || !stored.ValidAt(now) {
				return false, nil
			}
			stored.Status = model.RedemptionUsed
			stored.UsedAt = &now
			return true, nil
		},
	}

	redeemSvc := NewRedemptionServiceWithTxBeginner(&mockTxBeginner{}, members, rewards, redemptions, &mockTransactionRepo{}, 72*time.Hour)
	redemption, err := redeemSvc.Redeem(context.Background(), memberID, rewardID)
	require.NoError(t, err)

	scanSvc := newScanService(members, nil, redemptions, nil, nil, nil)

	result, err := scanSvc.Validate(context.Background(), adminCtx(), redemption.Code, "")
	require.NoError(t, err)
	assert.True(t, result.Valid)

	require.NoError(t, scanSvc.Accept(context.Background(), adminCtx(), redemption.Code, ""))

	result, err = scanSvc.Validate(context.Background(), adminCtx(), redemption.Code, "")
	require.NoError(t, err)
	assert.False(t, result.Valid, "a consumed code must not scan as valid")
	assert.Equal(t, ErrAlreadyConsumed.Error(), result.Error)

	err = scanSvc.Accept(context.Background(), adminCtx(), redemption.Code, "")
	assert.True(t, errors.Is(err, ErrAlreadyConsumed))
}
