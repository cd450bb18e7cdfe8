package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/saylekxd/nightApp/internal/auth"
	"github.com/saylekxd/nightApp/internal/middleware"
	"github.com/saylekxd/nightApp/internal/model"
	"github.com/saylekxd/nightApp/internal/service"
)

// StatsServiceInterface defines the interface for daily venue statistics.
type StatsServiceInterface interface {
	Daily(ctx context.Context, ac auth.Context, date time.Time) (*model.DailyStats, error)
}

// StatsHandler handles HTTP requests for the admin dashboard.
type StatsHandler struct {
	service StatsServiceInterface
}

// NewStatsHandler creates a new StatsHandler with the given service.
func NewStatsHandler(svc StatsServiceInterface) *StatsHandler {
	return &StatsHandler{service: svc}
}

// Daily handles GET /api/admin/stats requests. The optional "date" query
// parameter selects the day (YYYY-MM-DD); it defaults to today.
func (h *StatsHandler) Daily(c *fiber.Ctx) error {
	ac, ok := middleware.AuthFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be formatted as YYYY-MM-DD"})
		}
		date = parsed
	}

	stats, err := h.service.Daily(c.Context(), ac, date)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Msg("failed to compute daily stats")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(stats)
}
