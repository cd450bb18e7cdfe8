package service

import (
	"context"
	"fmt"
	"time"

	"github.com/saylekxd/nightApp/internal/auth"
	"github.com/saylekxd/nightApp/internal/model"
)

// StatsService derives daily operational counters from the visit log and
// redemption table written by the accept flow. Pure read.
type StatsService struct {
	visits      VisitRepo
	redemptions RedemptionRepo
	capacity    int
}

// NewStatsService creates a new StatsService. capacity is the configured
// venue capacity used for the percentage counter.
func NewStatsService(visits VisitRepo, redemptions RedemptionRepo, capacity int) *StatsService {
	return &StatsService{
		visits:      visits,
		redemptions: redemptions,
		capacity:    capacity,
	}
}

// Daily returns the counters for the UTC day containing date. Admin-only.
func (s *StatsService) Daily(ctx context.Context, ac auth.Context, date time.Time) (*model.DailyStats, error) {
	if !ac.IsAdmin {
		return nil, ErrNotAuthorized
	}

	date = date.UTC()
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	visits, points, err := s.visits.DailyTotals(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("visit totals: %w", err)
	}

	used, err := s.redemptions.CountUsedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("used redemptions: %w", err)
	}

	capacityPct := 0
	if s.capacity > 0 {
		capacityPct = visits * 100 / s.capacity
		if capacityPct > 100 {
			capacityPct = 100
		}
	}

	return &model.DailyStats{
		VisitsCount:        visits,
		RewardsUsed:        used,
		PointsAwarded:      points,
		CapacityPercentage: capacityPct,
	}, nil
}
