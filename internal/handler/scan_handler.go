package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/saylekxd/nightApp/internal/auth"
	"github.com/saylekxd/nightApp/internal/middleware"
	"github.com/saylekxd/nightApp/internal/model"
	"github.com/saylekxd/nightApp/internal/service"
)

// ScanServiceInterface defines the interface for the admin scan flow.
type ScanServiceInterface interface {
	Validate(ctx context.Context, ac auth.Context, code, activityName string) (*model.ValidationResult, error)
	Accept(ctx context.Context, ac auth.Context, code, activityName string) error
	Activities(ctx context.Context, ac auth.Context) ([]model.Activity, error)
}

// ScanHandler handles HTTP requests for the admin scanner.
type ScanHandler struct {
	service   ScanServiceInterface
	validator *validator.Validate
}

// NewScanHandler creates a new ScanHandler with the given service and validator.
func NewScanHandler(svc ScanServiceInterface, v *validator.Validate) *ScanHandler {
	return &ScanHandler{service: svc, validator: v}
}

// Validate handles POST /api/admin/scan/validate requests. A pure read:
// code-state problems come back as a 200 with valid=false and a reason,
// so the operator sees why a scan was rejected.
func (h *ScanHandler) Validate(c *fiber.Ctx) error {
	ac, ok := middleware.AuthFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	var req model.ValidateScanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	result, err := h.service.Validate(c.Context(), ac, req.Code, req.ActivityName)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("admin_id", ac.MemberID.String()).
			Msg("failed to validate scanned code")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(result)
}

// Accept handles POST /api/admin/scan/accept requests: the single
// state-mutating step of the scan flow.
func (h *ScanHandler) Accept(c *fiber.Ctx) error {
	ac, ok := middleware.AuthFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	var req model.AcceptScanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	if err := h.service.Accept(c.Context(), ac, req.Code, req.ActivityName); err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthorized):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
		case errors.Is(err, service.ErrCodeNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "code not found"})
		case errors.Is(err, service.ErrCodeInactive):
			return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "code no longer active"})
		case errors.Is(err, service.ErrCodeExpired):
			return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "code expired"})
		case errors.Is(err, service.ErrAlreadyConsumed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "code already used"})
		case errors.Is(err, service.ErrActivityNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown activity"})
		case errors.Is(err, service.ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("admin_id", ac.MemberID.String()).
			Msg("failed to accept scanned code")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("admin_id", ac.MemberID.String()).
		Str("activity", req.ActivityName).
		Msg("scanned code accepted")

	return c.Status(fiber.StatusOK).Send(nil)
}

// Activities handles GET /api/admin/activities requests.
func (h *ScanHandler) Activities(c *fiber.Ctx) error {
	ac, ok := middleware.AuthFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	activities, err := h.service.Activities(c.Context(), ac)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
		}
		log.Error().Err(err).Msg("failed to list activities")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(activities)
}
