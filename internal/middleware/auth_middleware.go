package middleware

import (
	"context"
	"errors"
	"strings"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/service"
	"go-inventory-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// TokenValidator resolves a bearer token to its user.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*model.User, error)
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		// Browsers cannot set headers on websocket upgrades
		if token := c.Query("token"); token != "" {
			return token, nil
		}
		return "", jwt.ErrMissingToken
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization format. Use: Bearer <token>")
	}
	return parts[1], nil
}

// RequireAuth validates the JWT and stores the caller in the request locals.
func RequireAuth(auth TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}

		user, err := auth.ValidateToken(c.UserContext(), tokenString)
		switch {
		case err == nil:
		case errors.Is(err, jwt.ErrInvalidToken),
			errors.Is(err, jwt.ErrMissingToken),
			errors.Is(err, service.ErrSessionRevoked),
			errors.Is(err, service.ErrUserInactive):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		default:
			return err
		}

		// Set user info in context for downstream handlers
		c.Locals("user_id", user.ID)
		c.Locals("user_email", user.Email)
		c.Locals("user_name", user.Username)
		c.Locals("user_privileges", user.GetPrivilegeCodes())

		return c.Next()
	}
}

// ActorFrom returns the caller set by RequireAuth.
func ActorFrom(c *fiber.Ctx) model.Actor {
	id, _ := c.Locals("user_id").(uuid.UUID)
	name, _ := c.Locals("user_name").(string)
	email, _ := c.Locals("user_email").(string)
	return model.Actor{ID: id, Username: name, Email: email}
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals("user_privileges").([]string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, p := range privileges {
			if p == requiredPrivilege {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: requires '" + requiredPrivilege + "' privilege",
		})
	}
}
