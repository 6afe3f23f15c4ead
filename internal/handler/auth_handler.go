package handler

import (
	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a MEMBER account
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	user, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user.ToResponse())
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	response, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(response)
}

// Logout revokes the caller's current token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.ActorFrom(c).ID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// ChangePassword handles password change; every session is revoked
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req service.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	if err := h.authService.ChangePassword(c.UserContext(), middleware.ActorFrom(c), &req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}
