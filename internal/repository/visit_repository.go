package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saylekxd/nightApp/internal/model"
	"github.com/saylekxd/nightApp/pkg/database"
)

// VisitRepository provides data access for visit records using pgx.
type VisitRepository struct {
	db database.TxQuerier
}

// NewVisitRepository creates a new VisitRepository with the given pool.
func NewVisitRepository(pool *pgxpool.Pool) *VisitRepository {
	return &VisitRepository{db: pool}
}

// NewVisitRepositoryWithDB creates a VisitRepository with a custom querier.
// This is primarily used for testing.
func NewVisitRepositoryWithDB(db database.TxQuerier) *VisitRepository {
	return &VisitRepository{db: db}
}

// Insert records a visit within a transaction.
func (r *VisitRepository) Insert(ctx context.Context, tx database.TxQuerier, v *model.Visit) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO visits (id, member_id, activity_name, points_awarded, check_in)
		 VALUES ($1, $2, $3, $4, $5)`,
		v.ID, v.MemberID, v.ActivityName, v.PointsAwarded, v.CheckIn)
	if err != nil {
		return fmt.Errorf("insert visit: %w", err)
	}
	return nil
}

// CountByMember counts all visits of one member.
func (r *VisitRepository) CountByMember(ctx context.Context, memberID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM visits WHERE member_id = $1`, memberID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count visits for member %s: %w", memberID, err)
	}
	return count, nil
}

// ListByMember returns the member's visits, newest first.
// On success, returns an empty slice (not nil) when none exist.
func (r *VisitRepository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.Visit, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, member_id, activity_name, points_awarded, check_in, created_at
		 FROM visits WHERE member_id = $1 ORDER BY check_in DESC`, memberID)
	if err != nil {
		return nil, fmt.Errorf("list visits for member %s: %w", memberID, err)
	}
	defer rows.Close()

	visits := []model.Visit{}
	for rows.Next() {
		var v model.Visit
		if err := rows.Scan(&v.ID, &v.MemberID, &v.ActivityName, &v.PointsAwarded, &v.CheckIn, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visits rows: %w", err)
	}
	return visits, nil
}

// DailyTotals returns the visit count and points awarded inside [from, to).
func (r *VisitRepository) DailyTotals(ctx context.Context, from, to time.Time) (visits int, points int, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(points_awarded), 0)
		 FROM visits WHERE check_in >= $1 AND check_in < $2`,
		from, to).Scan(&visits, &points)
	if err != nil {
		return 0, 0, fmt.Errorf("visit daily totals: %w", err)
	}
	return visits, points, nil
}
