package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saylekxd/nightApp/internal/auth"
)

// withAuth installs the auth context the way middleware.RequireAuth does,
// so handlers can be exercised without a real token flow.
func withAuth(ac auth.Context) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("authContext", ac)
		return c.Next()
	}
}

func adminAuth() auth.Context {
	return auth.Context{MemberID: uuid.New(), Username: "door-admin", IsAdmin: true}
}

func memberAuth() auth.Context {
	return auth.Context{MemberID: uuid.New(), Username: "regular-member"}
}
