package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saylekxd/nightApp/internal/model"
	"github.com/saylekxd/nightApp/pkg/database"
)

// ActivityRepository provides data access for visit activities using pgx.
type ActivityRepository struct {
	db database.TxQuerier
}

// NewActivityRepository creates a new ActivityRepository with the given pool.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: pool}
}

// NewActivityRepositoryWithDB creates an ActivityRepository with a custom
// querier. This is primarily used for testing.
func NewActivityRepositoryWithDB(db database.TxQuerier) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// List returns all selectable activities ordered by name.
func (r *ActivityRepository) List(ctx context.Context) ([]model.Activity, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, points, description FROM activities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	activities := []model.Activity{}
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.Points, &a.Description); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities rows: %w", err)
	}
	return activities, nil
}

// GetByName resolves an activity name. Accepts a TxQuerier so the accept
// transaction can resolve the award inside its own snapshot.
// Returns nil, nil when the activity is unknown.
func (r *ActivityRepository) GetByName(ctx context.Context, q database.TxQuerier, name string) (*model.Activity, error) {
	if q == nil {
		q = r.db
	}
	var a model.Activity
	err := q.QueryRow(ctx,
		`SELECT id, name, points, description FROM activities WHERE name = $1`, name).
		Scan(&a.ID, &a.Name, &a.Points, &a.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get activity %s: %w", name, err)
	}
	return &a, nil
}
