package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hizamruljaen123/ppob-backend/internal/adapter/storage"
	"github.com/hizamruljaen123/ppob-backend/internal/core/security"
)

const codeBadToken = 108

// Protected verifies the Bearer token and loads the account it names.
// Handlers behind it can rely on c.Locals("user") being a *domain.User.
func Protected(users *storage.UserRepository, jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return unauthorized(c)
		}

		claims, err := security.ParseToken(jwtSecret, parts[1])
		if err != nil {
			return unauthorized(c)
		}

		user, err := users.FindByEmail(c.Context(), claims.Email)
		if err != nil {
			return unauthorized(c)
		}

		c.Locals("user", user)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
		"status":  codeBadToken,
		"message": "Token is invalid or expired",
		"data":    nil,
	})
}
