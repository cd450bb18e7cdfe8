package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/saylekxd/nightApp/internal/model"
	"github.com/saylekxd/nightApp/internal/service"
)

// AuthServiceInterface defines the interface for sign-up/sign-in logic.
type AuthServiceInterface interface {
	SignUp(ctx context.Context, req *model.SignUpRequest) (*model.AuthResponse, error)
	SignIn(ctx context.Context, req *model.SignInRequest) (*model.AuthResponse, error)
}

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service   AuthServiceInterface
	validator *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given service and validator.
func NewAuthHandler(svc AuthServiceInterface, v *validator.Validate) *AuthHandler {
	return &AuthHandler{service: svc, validator: v}
}

// SignUp handles POST /api/auth/signup requests.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req model.SignUpRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.service.SignUp(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "username already taken"})
		}
		log.Error().Err(err).Str("username", req.Username).Msg("failed to sign up member")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().Str("member_id", resp.Member.ID.String()).Msg("member signed up")
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// SignIn handles POST /api/auth/signin requests.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req model.SignInRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.service.SignIn(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid username or password"})
		}
		log.Error().Err(err).Str("username", req.Username).Msg("failed to sign in member")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(resp)
}
