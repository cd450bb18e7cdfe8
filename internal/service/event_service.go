package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saylekxd/nightApp/internal/auth"
	"github.com/saylekxd/nightApp/internal/model"
)

const upcomingEventsLimit = 5

// EventService manages the venue event listings. Reads are member-facing;
// every mutation takes an explicit auth.Context and requires admin.
type EventService struct {
	events EventRepo
	now    func() time.Time
}

// NewEventService creates a new EventService with the given repository.
func NewEventService(events EventRepo) *EventService {
	return &EventService{events: events, now: time.Now}
}

// Upcoming returns the next active events for the home screen.
func (s *EventService) Upcoming(ctx context.Context) ([]model.Event, error) {
	return s.events.ListUpcoming(ctx, s.now(), upcomingEventsLimit)
}

// ListAll returns every event. Admin-only.
func (s *EventService) ListAll(ctx context.Context, ac auth.Context) ([]model.Event, error) {
	if !ac.IsAdmin {
		return nil, ErrNotAuthorized
	}
	return s.events.ListAll(ctx)
}

// Create adds a new event. Admin-only.
func (s *EventService) Create(ctx context.Context, ac auth.Context, req *model.CreateEventRequest) (*model.Event, error) {
	if !ac.IsAdmin {
		return nil, ErrNotAuthorized
	}
	if req == nil {
		return nil, ErrInvalidRequest
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	event := &model.Event{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		ImageURL:    req.ImageURL,
		IsActive:    active,
	}
	if err := s.events.Insert(ctx, event); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

// Update edits an event. Admin-only.
// Returns ErrEventNotFound for unknown ids.
func (s *EventService) Update(ctx context.Context, ac auth.Context, id uuid.UUID, req *model.UpdateEventRequest) (*model.Event, error) {
	if !ac.IsAdmin {
		return nil, ErrNotAuthorized
	}
	if req == nil {
		return nil, ErrInvalidRequest
	}
	return s.events.Update(ctx, id, req)
}

// Delete removes an event. Admin-only.
// Returns ErrEventNotFound for unknown ids.
func (s *EventService) Delete(ctx context.Context, ac auth.Context, id uuid.UUID) error {
	if !ac.IsAdmin {
		return ErrNotAuthorized
	}
	return s.events.Delete(ctx, id)
}
