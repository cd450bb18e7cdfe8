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

// RedemptionServiceInterface defines the interface for reward redemption logic.
type RedemptionServiceInterface interface {
	ListRewards(ctx context.Context) ([]model.Reward, error)
	Redeem(ctx context.Context, memberID, rewardID uuid.UUID) (*model.Redemption, error)
	ListForMember(ctx context.Context, memberID uuid.UUID) ([]model.Redemption, error)
	GetForMember(ctx context.Context, memberID, redemptionID uuid.UUID) (*model.Redemption, error)
}

// RewardHandler handles HTTP requests for the reward catalog and redemptions.
type RewardHandler struct {
	service   RedemptionServiceInterface
	validator *validator.Validate
}

// NewRewardHandler creates a new RewardHandler with the given service and validator.
func NewRewardHandler(svc RedemptionServiceInterface, v *validator.Validate) *RewardHandler {
	return &RewardHandler{service: svc, validator: v}
}

// List handles GET /api/rewards requests.
func (h *RewardHandler) List(c *fiber.Ctx) error {
	rewards, err := h.service.ListRewards(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list rewards")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(rewards)
}

// Redeem handles POST /api/rewards/redeem requests to claim a reward.
func (h *RewardHandler) Redeem(c *fiber.Ctx) error {
	ac, ok := middleware.AuthFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	var req model.RedeemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.RewardID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: reward_id is required"})
	}

	redemption, err := h.service.Redeem(c.Context(), ac.MemberID, req.RewardID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRewardNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "reward not found"})
		case errors.Is(err, service.ErrRewardInactive):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "reward is not available"})
		case errors.Is(err, service.ErrOutOfStock):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "reward out of stock"})
		case errors.Is(err, service.ErrInsufficientPoints):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "insufficient points"})
		case errors.Is(err, service.ErrDuplicateActiveRedemption):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "reward already has an active redemption"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("member_id", ac.MemberID.String()).
			Str("reward_id", req.RewardID.String()).
			Msg("failed to redeem reward")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("member_id", ac.MemberID.String()).
		Str("reward_id", req.RewardID.String()).
		Str("redemption_id", redemption.ID.String()).
		Msg("reward redeemed")

	return c.Status(fiber.StatusCreated).JSON(redemption)
}

// ListRedemptions handles GET /api/redemptions requests.
func (h *RewardHandler) ListRedemptions(c *fiber.Ctx) error {
	ac, ok := middleware.AuthFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	redemptions, err := h.service.ListForMember(c.Context(), ac.MemberID)
	if err != nil {
		log.Error().Err(err).Str("member_id", ac.MemberID.String()).Msg("failed to list redemptions")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(redemptions)
}

// GetRedemption handles GET /api/redemptions/:id requests.
func (h *RewardHandler) GetRedemption(c *fiber.Ctx) error {
	ac, ok := middleware.AuthFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: id must be a uuid"})
	}

	redemption, err := h.service.GetForMember(c.Context(), ac.MemberID, id)
	if err != nil {
		if errors.Is(err, service.ErrCodeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "redemption not found"})
		}
		log.Error().Err(err).Str("member_id", ac.MemberID.String()).Msg("failed to get redemption")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(redemption)
}
