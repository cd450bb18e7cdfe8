package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/saylekxd/nightApp/internal/middleware"
	"github.com/saylekxd/nightApp/internal/model"
)

// PassServiceInterface defines the interface for pass code issuance.
type PassServiceInterface interface {
	IssueOrReuse(ctx context.Context, memberID uuid.UUID) (*model.PassCode, error)
}

// PassHandler handles HTTP requests for the member's QR pass.
type PassHandler struct {
	service PassServiceInterface
}

// NewPassHandler creates a new PassHandler with the given service.
func NewPassHandler(svc PassServiceInterface) *PassHandler {
	return &PassHandler{service: svc}
}

// Issue handles GET /api/pass requests. Returns the member's live pass,
// minting one only when none is valid; refreshing the screen never
// rotates a healthy code.
func (h *PassHandler) Issue(c *fiber.Ctx) error {
	ac, ok := middleware.AuthFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	pass, err := h.service.IssueOrReuse(c.Context(), ac.MemberID)
	if err != nil {
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("member_id", ac.MemberID.String()).
			Msg("failed to issue pass code")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(pass)
}
