package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saylekxd/nightApp/internal/auth"
	"github.com/saylekxd/nightApp/internal/model"
	"github.com/saylekxd/nightApp/internal/token"
	"github.com/saylekxd/nightApp/pkg/database"
)

// DefaultActivity tags visits accepted without an explicit choice.
const DefaultActivity = "visit"

// ScanService is the admin scan surface: validation (pure read) and
// acceptance (the only state-mutating operation on a scanned code).
// Every method takes an explicit auth.Context and fails closed before
// looking at the code, so a non-admin never learns whether a code exists.
type ScanService struct {
	pool        TxBeginner
	db          database.TxQuerier
	members     MemberRepo
	passes      PassCodeRepo
	redemptions RedemptionRepo
	activities  ActivityRepo
	visits      VisitRepo
	ledger      TransactionRepo
	now         func() time.Time
}

// NewScanService creates a new ScanService with the given pool and repositories.
func NewScanService(pool *pgxpool.Pool, members MemberRepo, passes PassCodeRepo, redemptions RedemptionRepo, activities ActivityRepo, visits VisitRepo, ledger TransactionRepo) *ScanService {
	return NewScanServiceWithTxBeginner(pool, pool, members, passes, redemptions, activities, visits, ledger)
}

// NewScanServiceWithTxBeginner creates a ScanService with custom pool
// interfaces. Primarily used for testing.
func NewScanServiceWithTxBeginner(pool TxBeginner, db database.TxQuerier, members MemberRepo, passes PassCodeRepo, redemptions RedemptionRepo, activities ActivityRepo, visits VisitRepo, ledger TransactionRepo) *ScanService {
	return &ScanService{
		pool:        pool,
		db:          db,
		members:     members,
		passes:      passes,
		redemptions: redemptions,
		activities:  activities,
		visits:      visits,
		ledger:      ledger,
		now:         time.Now,
	}
}

func invalidResult(reason error) *model.ValidationResult {
	return &model.ValidationResult{Valid: false, Error: reason.Error()}
}

// Validate resolves a scanned code to a typed result without mutating
// anything. Re-scanning the same still-valid code yields the same result.
// State problems (unknown, expired, superseded, used) come back as an
// invalid result with a reason the operator can act on; authorization and
// storage failures come back as errors.
func (s *ScanService) Validate(ctx context.Context, ac auth.Context, code, activityName string) (*model.ValidationResult, error) {
	if !ac.IsAdmin {
		return nil, ErrNotAuthorized
	}

	switch token.KindOf(code) {
	case token.KindPass:
		return s.validatePass(ctx, code, activityName)
	case token.KindRedemption:
		return s.validateRedemption(ctx, code)
	default:
		return invalidResult(ErrCodeNotFound), nil
	}
}

func (s *ScanService) validatePass(ctx context.Context, code, activityName string) (*model.ValidationResult, error) {
	pass, err := s.passes.GetByCode(ctx, s.db, code)
	if err != nil {
		return nil, fmt.Errorf("get pass by code: %w", err)
	}
	if pass == nil {
		return invalidResult(ErrCodeNotFound), nil
	}

	now := s.now()
	if !pass.IsActive {
		return invalidResult(ErrCodeInactive), nil
	}
	if !pass.ValidAt(now) {
		return invalidResult(ErrCodeExpired), nil
	}

	member, err := s.members.GetByID(ctx, pass.MemberID)
	if err != nil {
		return nil, fmt.Errorf("get pass owner: %w", err)
	}
	if member == nil {
		return nil, fmt.Errorf("pass %s references missing member %s", pass.ID, pass.MemberID)
	}

	data := &model.ScanData{
		Type:      model.ScanKindVisit,
		Code:      code,
		Member:    member.Snapshot(),
		ExpiresAt: pass.ExpiresAt,
	}
	if activityName != "" {
		activity, err := s.activities.GetByName(ctx, s.db, activityName)
		if err != nil {
			return nil, fmt.Errorf("get activity: %w", err)
		}
		if activity == nil {
			return invalidResult(ErrActivityNotFound), nil
		}
		data.Activity = activity
	}
	return &model.ValidationResult{Valid: true, Data: data}, nil
}

func (s *ScanService) validateRedemption(ctx context.Context, code string) (*model.ValidationResult, error) {
	redemption, err := s.redemptions.GetByCode(ctx, s.db, code)
	if err != nil {
		return nil, fmt.Errorf("get redemption by code: %w", err)
	}
	if redemption == nil {
		return invalidResult(ErrCodeNotFound), nil
	}

	now := s.now()
	if redemption.Status == model.RedemptionUsed {
		return invalidResult(ErrAlreadyConsumed), nil
	}
	if !redemption.ValidAt(now) {
		return invalidResult(ErrCodeExpired), nil
	}

	member, err := s.members.GetByID(ctx, redemption.MemberID)
	if err != nil {
		return nil, fmt.Errorf("get redemption owner: %w", err)
	}
	if member == nil {
		return nil, fmt.Errorf("redemption %s references missing member %s", redemption.ID, redemption.MemberID)
	}

	return &model.ValidationResult{
		Valid: true,
		Data: &model.ScanData{
			Type:      model.ScanKindReward,
			Code:      code,
			Member:    member.Snapshot(),
			Reward:    redemption.Reward,
			ExpiresAt: &redemption.ExpiresAt,
		},
	}, nil
}

// Accept consumes a scanned code: a pass records a visit and awards the
// activity's points, a redemption flips to used. Always re-validates at
// accept time; an earlier Validate result is never trusted. Safe against
// double submission: the second accept of a redemption fails with
// ErrAlreadyConsumed, a visit accept is guarded by the pass checks inside
// its own transaction.
func (s *ScanService) Accept(ctx context.Context, ac auth.Context, code, activityName string) error {
	if !ac.IsAdmin {
		return ErrNotAuthorized
	}

	switch token.KindOf(code) {
	case token.KindPass:
		return s.acceptVisit(ctx, code, activityName)
	case token.KindRedemption:
		if activityName != "" {
			// Activities describe visits; a reward accept carries none.
			return ErrInvalidRequest
		}
		return s.acceptReward(ctx, code)
	default:
		return ErrCodeNotFound
	}
}

func (s *ScanService) acceptVisit(ctx context.Context, code, activityName string) error {
	if activityName == "" {
		activityName = DefaultActivity
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	pass, err := s.passes.GetByCode(ctx, tx, code)
	if err != nil {
		return fmt.Errorf("get pass by code: %w", err)
	}
	if pass == nil {
		return ErrCodeNotFound
	}

	now := s.now()
	if !pass.IsActive {
		return ErrCodeInactive
	}
	if !pass.ValidAt(now) {
		return ErrCodeExpired
	}

	activity, err := s.activities.GetByName(ctx, tx, activityName)
	if err != nil {
		return fmt.Errorf("get activity: %w", err)
	}
	if activity == nil {
		return ErrActivityNotFound
	}

	// Lock the member row so the award serializes with redeems.
	if _, err := s.members.GetForUpdate(ctx, tx, pass.MemberID); err != nil {
		return fmt.Errorf("get member for update: %w", err)
	}

	visit := &model.Visit{
		ID:            uuid.New(),
		MemberID:      pass.MemberID,
		ActivityName:  activity.Name,
		PointsAwarded: activity.Points,
		CheckIn:       now,
	}
	if err := s.visits.Insert(ctx, tx, visit); err != nil {
		return fmt.Errorf("insert visit: %w", err)
	}

	if activity.Points > 0 {
		if err := s.members.AddPoints(ctx, tx, pass.MemberID, activity.Points); err != nil {
			return fmt.Errorf("award points: %w", err)
		}
		entry := &model.Transaction{
			ID:          uuid.New(),
			MemberID:    pass.MemberID,
			Amount:      activity.Points,
			Type:        model.TransactionEarn,
			Description: activity.Name + " check-in",
		}
		if err := s.ledger.Insert(ctx, tx, entry); err != nil {
			return fmt.Errorf("insert ledger entry: %w", err)
		}
	}

	// The pass itself stays active: visits don't consume it.
	return tx.Commit(ctx)
}

func (s *ScanService) acceptReward(ctx context.Context, code string) error {
	// The whole transition is one conditional UPDATE; no surrounding
	// transaction is needed for atomicity.
	ok, err := s.redemptions.MarkUsed(ctx, s.db, code, s.now())
	if err != nil {
		return fmt.Errorf("mark redemption used: %w", err)
	}
	if ok {
		return nil
	}

	// Nothing matched; read back to report why.
	redemption, err := s.redemptions.GetByCode(ctx, s.db, code)
	if err != nil {
		return fmt.Errorf("get redemption after failed accept: %w", err)
	}
	switch {
	case redemption == nil:
		return ErrCodeNotFound
	case redemption.Status == model.RedemptionUsed:
		return ErrAlreadyConsumed
	default:
		return ErrCodeExpired
	}
}

// Activities lists the labels an admin can tag a visit with.
func (s *ScanService) Activities(ctx context.Context, ac auth.Context) ([]model.Activity, error) {
	if !ac.IsAdmin {
		return nil, ErrNotAuthorized
	}
	return s.activities.List(ctx)
}
