package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saylekxd/nightApp/internal/model"
)

// ProfileService serves the member-facing profile surface.
type ProfileService struct {
	members     MemberRepo
	visits      VisitRepo
	redemptions RedemptionRepo
	ledger      TransactionRepo
	now         func() time.Time
}

// NewProfileService creates a new ProfileService with the given repositories.
func NewProfileService(members MemberRepo, visits VisitRepo, redemptions RedemptionRepo, ledger TransactionRepo) *ProfileService {
	return &ProfileService{
		members:     members,
		visits:      visits,
		redemptions: redemptions,
		ledger:      ledger,
		now:         time.Now,
	}
}

// Get returns the member's own profile.
// Returns ErrMemberNotFound if the row is gone.
func (s *ProfileService) Get(ctx context.Context, memberID uuid.UUID) (*model.Member, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

// Update applies profile edits and returns the updated profile.
func (s *ProfileService) Update(ctx context.Context, memberID uuid.UUID, req *model.UpdateProfileRequest) (*model.Member, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	return s.members.UpdateProfile(ctx, memberID, req)
}

// Stats returns the counters shown on the profile screen.
func (s *ProfileService) Stats(ctx context.Context, memberID uuid.UUID) (*model.ProfileStats, error) {
	member, err := s.Get(ctx, memberID)
	if err != nil {
		return nil, err
	}

	visits, err := s.visits.CountByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("count visits: %w", err)
	}

	activeRewards, err := s.redemptions.CountActiveByMember(ctx, memberID, s.now())
	if err != nil {
		return nil, fmt.Errorf("count active redemptions: %w", err)
	}

	return &model.ProfileStats{
		VisitsCount:        visits,
		ActiveRewardsCount: activeRewards,
		Points:             member.Points,
	}, nil
}

// Transactions returns the member's point ledger, newest first.
func (s *ProfileService) Transactions(ctx context.Context, memberID uuid.UUID) ([]model.Transaction, error) {
	return s.ledger.ListByMember(ctx, memberID)
}

// Visits returns the member's visit history, newest first.
func (s *ProfileService) Visits(ctx context.Context, memberID uuid.UUID) ([]model.Visit, error) {
	return s.visits.ListByMember(ctx, memberID)
}
