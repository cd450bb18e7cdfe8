package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/saylekxd/nightApp/internal/auth"
	"github.com/saylekxd/nightApp/internal/middleware"
	"github.com/saylekxd/nightApp/internal/model"
	"github.com/saylekxd/nightApp/internal/service"
)

// EventServiceInterface defines the interface for event listings and management.
type EventServiceInterface interface {
	Upcoming(ctx context.Context) ([]model.Event, error)
	ListAll(ctx context.Context, ac auth.Context) ([]model.Event, error)
	Create(ctx context.Context, ac auth.Context, req *model.CreateEventRequest) (*model.Event, error)
	Update(ctx context.Context, ac auth.Context, id uuid.UUID, req *model.UpdateEventRequest) (*model.Event, error)
	Delete(ctx context.Context, ac auth.Context, id uuid.UUID) error
}

// EventHandler handles HTTP requests for venue events.
type EventHandler struct {
	service   EventServiceInterface
	validator *validator.Validate
}

// NewEventHandler creates a new EventHandler with the given service and validator.
func NewEventHandler(svc EventServiceInterface, v *validator.Validate) *EventHandler {
	return &EventHandler{service: svc, validator: v}
}

// Upcoming handles GET /api/events requests.
func (h *EventHandler) Upcoming(c *fiber.Ctx) error {
	events, err := h.service.Upcoming(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list upcoming events")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(events)
}

// ListAll handles GET /api/admin/events requests.
func (h *EventHandler) ListAll(c *fiber.Ctx) error {
	ac, ok := middleware.AuthFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	events, err := h.service.ListAll(c.Context(), ac)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
		}
		log.Error().Err(err).Msg("failed to list events")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(events)
}

// Create handles POST /api/admin/events requests.
func (h *EventHandler) Create(c *fiber.Ctx) error {
	ac, ok := middleware.AuthFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	var req model.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	event, err := h.service.Create(c.Context(), ac, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Msg("failed to create event")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

// Update handles PATCH /api/admin/events/:id requests.
func (h *EventHandler) Update(c *fiber.Ctx) error {
	ac, ok := middleware.AuthFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}

	var req model.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	event, err := h.service.Update(c.Context(), ac, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthorized):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
		case errors.Is(err, service.ErrEventNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("event_id", id.String()).
			Msg("failed to update event")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(event)
}

// Delete handles DELETE /api/admin/events/:id requests.
func (h *EventHandler) Delete(c *fiber.Ctx) error {
	ac, ok := middleware.AuthFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}

	if err := h.service.Delete(c.Context(), ac, id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthorized):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
		case errors.Is(err, service.ErrEventNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("event_id", id.String()).
			Msg("failed to delete event")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
