package middleware

import (
	"log"
	"strings"

	"productapi/internal/models"
	"productapi/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Keys under which AuthRequired stores token claims in c.Locals.
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
	LocalRole     = "role"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return unauthorized(c, "Authorization header format must be 'Bearer <token>'")
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(LocalUserID, claims["user_id"])
		c.Locals(LocalUsername, claims["username"])
		c.Locals(LocalRole, claims["role"])

		return c.Next()
	}
}

// RequireRole lets the request through only when the authenticated user holds
// one of roles. It must run after AuthRequired.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalRole).(string)
		if !allowed[role] {
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse(
				services.CodeForbidden,
				"You do not have permission to perform this action",
				nil,
			))
		}
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse(services.CodeUnauthorized, message, nil))
}
