package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/saylekxd/nightApp/internal/middleware"
	"github.com/saylekxd/nightApp/internal/model"
	"github.com/saylekxd/nightApp/internal/service"
)

// ProfileServiceInterface defines the interface for profile logic.
type ProfileServiceInterface interface {
	Get(ctx context.Context, memberID uuid.UUID) (*model.Member, error)
	Update(ctx context.Context, memberID uuid.UUID, req *model.UpdateProfileRequest) (*model.Member, error)
	Stats(ctx context.Context, memberID uuid.UUID) (*model.ProfileStats, error)
	Transactions(ctx context.Context, memberID uuid.UUID) ([]model.Transaction, error)
	Visits(ctx context.Context, memberID uuid.UUID) ([]model.Visit, error)
}

// ProfileHandler handles HTTP requests for the member's own profile.
type ProfileHandler struct {
	service   ProfileServiceInterface
	validator *validator.Validate
}

// NewProfileHandler creates a new ProfileHandler with the given service and validator.
func NewProfileHandler(svc ProfileServiceInterface, v *validator.Validate) *ProfileHandler {
	return &ProfileHandler{service: svc, validator: v}
}

// Get handles GET /api/profile requests.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	ac, ok := middleware.AuthFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	member, err := h.service.Get(c.Context(), ac.MemberID)
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "member not found"})
		}
		log.Error().Err(err).Str("member_id", ac.MemberID.String()).Msg("failed to get profile")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(member)
}

// Update handles PATCH /api/profile requests.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	ac, ok := middleware.AuthFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	var req model.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	member, err := h.service.Update(c.Context(), ac.MemberID, &req)
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "member not found"})
		}
		log.Error().Err(err).Str("member_id", ac.MemberID.String()).Msg("failed to update profile")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(member)
}

// Stats handles GET /api/profile/stats requests.
func (h *ProfileHandler) Stats(c *fiber.Ctx) error {
	ac, ok := middleware.AuthFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	stats, err := h.service.Stats(c.Context(), ac.MemberID)
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "member not found"})
		}
		log.Error().Err(err).Str("member_id", ac.MemberID.String()).Msg("failed to get profile stats")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(stats)
}

// Transactions handles GET /api/profile/transactions requests.
func (h *ProfileHandler) Transactions(c *fiber.Ctx) error {
	ac, ok := middleware.AuthFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	transactions, err := h.service.Transactions(c.Context(), ac.MemberID)
	if err != nil {
		log.Error().Err(err).Str("member_id", ac.MemberID.String()).Msg("failed to list transactions")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(transactions)
}

// Visits handles GET /api/profile/visits requests.
func (h *ProfileHandler) Visits(c *fiber.Ctx) error {
	ac, ok := middleware.AuthFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	visits, err := h.service.Visits(c.Context(), ac.MemberID)
	if err != nil {
		log.Error().Err(err).Str("member_id", ac.MemberID.String()).Msg("failed to list visits")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(visits)
}
