package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saylekxd/nightApp/internal/auth"
	"github.com/saylekxd/nightApp/internal/model"
	"github.com/saylekxd/nightApp/pkg/database"
)

// mockMemberRepo is a mock implementation of MemberRepo.
type mockMemberRepo struct {
	insertFn        func(ctx context.Context, m *model.Member) error
	getByIDFn       func(ctx context.Context, id uuid.UUID) (*model.Member, error)
	getByUsernameFn func(ctx context.Context, username string) (*model.Member, error)
	getForUpdateFn  func(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Member, error)
	updateProfileFn func(ctx context.Context, id uuid.UUID, req *model.UpdateProfileRequest) (*model.Member, error)
	addPointsFn     func(ctx context.Context, tx database.TxQuerier, id uuid.UUID, amount int) error
	debitPointsFn   func(ctx context.Context, tx database.TxQuerier, id uuid.UUID, amount int) error
}

func (m *mockMemberRepo) Insert(ctx context.Context, member *model.Member) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, member)
	}
	return nil
}

func (m *mockMemberRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockMemberRepo) GetByUsername(ctx context.Context, username string) (*model.Member, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockMemberRepo) GetForUpdate(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Member, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, tx, id)
	}
	return nil, ErrMemberNotFound
}

func (m *mockMemberRepo) UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateProfileRequest) (*model.Member, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, id, req)
	}
	return nil, nil
}

func (m *mockMemberRepo) AddPoints(ctx context.Context, tx database.TxQuerier, id uuid.UUID, amount int) error {
	if m.addPointsFn != nil {
		return m.addPointsFn(ctx, tx, id, amount)
	}
	return nil
}

func (m *mockMemberRepo) DebitPoints(ctx context.Context, tx database.TxQuerier, id uuid.UUID, amount int) error {
	if m.debitPointsFn != nil {
		return m.debitPointsFn(ctx, tx, id, amount)
	}
	return nil
}

// mockPassCodeRepo is a mock implementation of PassCodeRepo.
type mockPassCodeRepo struct {
	getActiveByMemberFn func(ctx context.Context, q database.TxQuerier, memberID uuid.UUID) (*model.PassCode, error)
	getByCodeFn         func(ctx context.Context, q database.TxQuerier, code string) (*model.PassCode, error)
	deactivateFn        func(ctx context.Context, tx database.TxQuerier, memberID uuid.UUID) error
	insertFn            func(ctx context.Context, tx database.TxQuerier, p *model.PassCode) error
}

func (m *mockPassCodeRepo) GetActiveByMember(ctx context.Context, q database.TxQuerier, memberID uuid.UUID) (*model.PassCode, error) {
	if m.getActiveByMemberFn != nil {
		return m.getActiveByMemberFn(ctx, q, memberID)
	}
	return nil, nil
}

func (m *mockPassCodeRepo) GetByCode(ctx context.Context, q database.TxQuerier, code string) (*model.PassCode, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, q, code)
	}
	return nil, nil
}

func (m *mockPassCodeRepo) Deactivate(ctx context.Context, tx database.TxQuerier, memberID uuid.UUID) error {
	if m.deactivateFn != nil {
		return m.deactivateFn(ctx, tx, memberID)
	}
	return nil
}

func (m *mockPassCodeRepo) Insert(ctx context.Context, tx database.TxQuerier, p *model.PassCode) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, p)
	}
	return nil
}

// mockRewardRepo is a mock implementation of RewardRepo.
type mockRewardRepo struct {
	listActiveFn        func(ctx context.Context) ([]model.Reward, error)
	getByIDFn           func(ctx context.Context, id uuid.UUID) (*model.Reward, error)
	getForUpdateFn      func(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Reward, error)
	decrementQuantityFn func(ctx context.Context, tx database.TxQuerier, id uuid.UUID) error
}

func (m *mockRewardRepo) ListActive(ctx context.Context) ([]model.Reward, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx)
	}
	return []model.Reward{}, nil
}

func (m *mockRewardRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Reward, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockRewardRepo) GetForUpdate(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Reward, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, tx, id)
	}
	return nil, ErrRewardNotFound
}

func (m *mockRewardRepo) DecrementQuantity(ctx context.Context, tx database.TxQuerier, id uuid.UUID) error {
	if m.decrementQuantityFn != nil {
		return m.decrementQuantityFn(ctx, tx, id)
	}
	return nil
}

// mockRedemptionRepo is a mock implementation of RedemptionRepo.
type mockRedemptionRepo struct {
	insertFn              func(ctx context.Context, tx database.TxQuerier, rd *model.Redemption) error
	expireStaleFn         func(ctx context.Context, tx database.TxQuerier, memberID, rewardID uuid.UUID, now time.Time) error
	getByCodeFn           func(ctx context.Context, q database.TxQuerier, code string) (*model.Redemption, error)
	getByIDFn             func(ctx context.Context, id uuid.UUID) (*model.Redemption, error)
	listByMemberFn        func(ctx context.Context, memberID uuid.UUID) ([]model.Redemption, error)
	markUsedFn            func(ctx context.Context, q database.TxQuerier, code string, now time.Time) (bool, error)
	countActiveByMemberFn func(ctx context.Context, memberID uuid.UUID, now time.Time) (int, error)
	countUsedBetweenFn    func(ctx context.Context, from, to time.Time) (int, error)
}

func (m *mockRedemptionRepo) Insert(ctx context.Context, tx database.TxQuerier, rd *model.Redemption) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, rd)
	}
	return nil
}

func (m *mockRedemptionRepo) ExpireStale(ctx context.Context, tx database.TxQuerier, memberID, rewardID uuid.UUID, now time.Time) error {
	if m.expireStaleFn != nil {
		return m.expireStaleFn(ctx, tx, memberID, rewardID, now)
	}
	return nil
}

func (m *mockRedemptionRepo) GetByCode(ctx context.Context, q database.TxQuerier, code string) (*model.Redemption, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, q, code)
	}
	return nil, nil
}

func (m *mockRedemptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Redemption, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockRedemptionRepo) ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.Redemption, error) {
	if m.listByMemberFn != nil {
		return m.listByMemberFn(ctx, memberID)
	}
	return []model.Redemption{}, nil
}

func (m *mockRedemptionRepo) MarkUsed(ctx context.Context, q database.TxQuerier, code string, now time.Time) (bool, error) {
	if m.markUsedFn != nil {
		return m.markUsedFn(ctx, q, code, now)
	}
	return false, nil
}

func (m *mockRedemptionRepo) CountActiveByMember(ctx context.Context, memberID uuid.UUID, now time.Time) (int, error) {
	if m.countActiveByMemberFn != nil {
		return m.countActiveByMemberFn(ctx, memberID, now)
	}
	return 0, nil
}

func (m *mockRedemptionRepo) CountUsedBetween(ctx context.Context, from, to time.Time) (int, error) {
	if m.countUsedBetweenFn != nil {
		return m.countUsedBetweenFn(ctx, from, to)
	}
	return 0, nil
}

// mockVisitRepo is a mock implementation of VisitRepo.
type mockVisitRepo struct {
	insertFn        func(ctx context.Context, tx database.TxQuerier, v *model.Visit) error
	countByMemberFn func(ctx context.Context, memberID uuid.UUID) (int, error)
	listByMemberFn  func(ctx context.Context, memberID uuid.UUID) ([]model.Visit, error)
	dailyTotalsFn   func(ctx context.Context, from, to time.Time) (int, int, error)
}

func (m *mockVisitRepo) Insert(ctx context.Context, tx database.TxQuerier, v *model.Visit) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, v)
	}
	return nil
}

func (m *mockVisitRepo) CountByMember(ctx context.Context, memberID uuid.UUID) (int, error) {
	if m.countByMemberFn != nil {
		return m.countByMemberFn(ctx, memberID)
	}
	return 0, nil
}

func (m *mockVisitRepo) ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.Visit, error) {
	if m.listByMemberFn != nil {
		return m.listByMemberFn(ctx, memberID)
	}
	return []model.Visit{}, nil
}

func (m *mockVisitRepo) DailyTotals(ctx context.Context, from, to time.Time) (int, int, error) {
	if m.dailyTotalsFn != nil {
		return m.dailyTotalsFn(ctx, from, to)
	}
	return 0, 0, nil
}

// mockActivityRepo is a mock implementation of ActivityRepo.
type mockActivityRepo struct {
	listFn      func(ctx context.Context) ([]model.Activity, error)
	getByNameFn func(ctx context.Context, q database.TxQuerier, name string) (*model.Activity, error)
}

func (m *mockActivityRepo) List(ctx context.Context) ([]model.Activity, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.Activity{}, nil
}

func (m *mockActivityRepo) GetByName(ctx context.Context, q database.TxQuerier, name string) (*model.Activity, error) {
	if m.getByNameFn != nil {
		return m.getByNameFn(ctx, q, name)
	}
	return nil, nil
}

// mockTransactionRepo is a mock implementation of TransactionRepo.
type mockTransactionRepo struct {
	insertFn       func(ctx context.Context, tx database.TxQuerier, t *model.Transaction) error
	listByMemberFn func(ctx context.Context, memberID uuid.UUID) ([]model.Transaction, error)
}

func (m *mockTransactionRepo) Insert(ctx context.Context, tx database.TxQuerier, t *model.Transaction) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, t)
	}
	return nil
}

func (m *mockTransactionRepo) ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.Transaction, error) {
	if m.listByMemberFn != nil {
		return m.listByMemberFn(ctx, memberID)
	}
	return []model.Transaction{}, nil
}

// mockEventRepo is a mock implementation of EventRepo.
type mockEventRepo struct {
	insertFn       func(ctx context.Context, e *model.Event) error
	getByIDFn      func(ctx context.Context, id uuid.UUID) (*model.Event, error)
	listUpcomingFn func(ctx context.Context, from time.Time, limit int) ([]model.Event, error)
	listAllFn      func(ctx context.Context) ([]model.Event, error)
	updateFn       func(ctx context.Context, id uuid.UUID, req *model.UpdateEventRequest) (*model.Event, error)
	deleteFn       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockEventRepo) Insert(ctx context.Context, e *model.Event) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, e)
	}
	return nil
}

func (m *mockEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockEventRepo) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]model.Event, error) {
	if m.listUpcomingFn != nil {
		return m.listUpcomingFn(ctx, from, limit)
	}
	return []model.Event{}, nil
}

func (m *mockEventRepo) ListAll(ctx context.Context) ([]model.Event, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return []model.Event{}, nil
}

func (m *mockEventRepo) Update(ctx context.Context, id uuid.UUID, req *model.UpdateEventRequest) (*model.Event, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, req)
	}
	return nil, ErrEventNotFound
}

func (m *mockEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return ErrEventNotFound
}

// mockTx is a mock implementation of pgx.Tx for testing transactions.
type mockTx struct {
	commitFn   func(ctx context.Context) error
	rollbackFn func(ctx context.Context) error
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("nested transactions not supported")
}

func (m *mockTx) Commit(ctx context.Context) error {
	if m.commitFn != nil {
		return m.commitFn(ctx)
	}
	return nil
}

func (m *mockTx) Rollback(ctx context.Context) error {
	if m.rollbackFn != nil {
		return m.rollbackFn(ctx)
	}
	return nil
}

func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (m *mockTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (m *mockTx) Conn() *pgx.Conn {
	return nil
}

// mockTxBeginner is a mock implementation of TxBeginner.
type mockTxBeginner struct {
	beginFn func(ctx context.Context) (pgx.Tx, error)
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.beginFn != nil {
		return m.beginFn(ctx)
	}
	return &mockTx{}, nil
}

func adminCtx() auth.Context {
	return auth.Context{MemberID: uuid.New(), Username: "door-admin", IsAdmin: true}
}

func memberCtx() auth.Context {
	return auth.Context{MemberID: uuid.New(), Username: "regular-member"}
}

func intPtr(i int) *int {
	return &i
}

func timePtr(t time.Time) *time.Time {
	return &t
}
