package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Kevingarzon94/coffe-shop-bck/utils"
)

// Protected rejects requests that do not carry a valid access token and
// stores the authenticated employee id for the handlers.
func Protected(maker *utils.JWTMaker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing token"})
		}

		claims, err := maker.ParseToken(strings.TrimPrefix(auth, "Bearer "), utils.TokenTypeAccess)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}

		c.Locals("employee_id", claims.EmployeeID)
		return c.Next()
	}
}
