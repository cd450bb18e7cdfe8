package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/saylekxd/nightApp/internal/auth"
	"github.com/saylekxd/nightApp/internal/model"
)

const authLocalKey = "authContext"

// TokenParser verifies a session token and returns the member id.
type TokenParser interface {
	ParseToken(token string) (uuid.UUID, error)
}

// MemberLoader fetches the current members row for a verified id.
type MemberLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Member, error)
}

// RequireAuth validates the Bearer token and populates the request's
// auth.Context from a fresh members row. The admin flag therefore always
// reflects current database state, never a claim baked into the token.
func RequireAuth(parser TokenParser, members MemberLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
		}

		memberID, err := parser.ParseToken(strings.TrimPrefix(header, prefix))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
		}

		member, err := members.GetByID(c.Context(), memberID)
		if err != nil {
			log.Error().Err(err).Str("member_id", memberID.String()).Msg("failed to load member for auth")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		}
		if member == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
		}

		c.Locals(authLocalKey, auth.Context{
			MemberID: member.ID,
			Username: member.Username,
			IsAdmin:  member.IsAdmin,
		})
		return c.Next()
	}
}

// RequireAdmin checks that the authenticated member has the admin flag.
// Says nothing beyond "admin access required": admin-gated responses must
// not leak anything about the resource.
func RequireAdmin(c *fiber.Ctx) error {
	ac, ok := AuthFrom(c)
	if !ok || !ac.IsAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
	}
	return c.Next()
}

// AuthFrom extracts the auth context populated by RequireAuth.
func AuthFrom(c *fiber.Ctx) (auth.Context, bool) {
	ac, ok := c.Locals(authLocalKey).(auth.Context)
	return ac, ok
}
