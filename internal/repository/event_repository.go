package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saylekxd/nightApp/internal/model"
	"github.com/saylekxd/nightApp/internal/service"
	"github.com/saylekxd/nightApp/pkg/database"
)

const eventColumns = `id, title, description, date, image_url, is_active, created_at, updated_at`

// EventRepository provides data access for venue events using pgx.
type EventRepository struct {
	db database.TxQuerier
}

// NewEventRepository creates a new EventRepository with the given pool.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: pool}
}

// NewEventRepositoryWithDB creates an EventRepository with a custom querier.
// This is primarily used for testing.
func NewEventRepositoryWithDB(db database.TxQuerier) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Date,
		&e.ImageURL,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Insert inserts a new event.
func (r *EventRepository) Insert(ctx context.Context, e *model.Event) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO events (id, title, description, date, image_url, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.Title, e.Description, e.Date, e.ImageURL, e.IsActive)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by id.
// Returns nil, nil if the event is not found.
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event by id %s: %w", id, err)
	}
	return e, nil
}

// ListUpcoming returns active events on or after the given instant,
// soonest first, up to limit.
func (r *EventRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE is_active AND date >= $1 ORDER BY date ASC LIMIT $2`,
		from, limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return collectEvents(rows)
}

// ListAll returns every event ordered by date.
func (r *EventRepository) ListAll(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("list all events: %w", err)
	}
	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]model.Event, error) {
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events rows: %w", err)
	}
	return events, nil
}

// Update applies the non-nil fields of the request and returns the updated
// row. Returns service.ErrEventNotFound if the event doesn't exist.
func (r *EventRepository) Update(ctx context.Context, id uuid.UUID, req *model.UpdateEventRequest) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx,
		`UPDATE events SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			date = COALESCE($4, date),
			image_url = COALESCE($5, image_url),
			is_active = COALESCE($6, is_active),
			updated_at = now()
		 WHERE id = $1
		 RETURNING `+eventColumns,
		id, req.Title, req.Description, req.Date, req.ImageURL, req.IsActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event %s: %w", id, err)
	}
	return e, nil
}

// Delete removes an event.
// Returns service.ErrEventNotFound if the event doesn't exist.
func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrEventNotFound
	}
	return nil
}
