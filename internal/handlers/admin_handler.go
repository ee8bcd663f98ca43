package handlers

import (
	"productapi/internal/models"
	"productapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler exposes user administration endpoints.
type AdminHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(authService *services.AuthService) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// Claims are the custom claims an admin may assign to a user.
type Claims struct {
	Role string `json:"role" validate:"required"`
}

// SetCustomClaimsRequest is the body of POST /admin/setCustomClaims.
type SetCustomClaimsRequest struct {
	UID    string `json:"uid" validate:"required"`
	Claims Claims `json:"claims" validate:"required"`
}

// RegisterRoutes registers the admin routes behind guards.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	adminRoutes := router.Group("/admin")
	adminRoutes.Post("/setCustomClaims", guarded(guards, h.SetCustomClaims)...)
}

// SetCustomClaims assigns a role to a user.
func (h *AdminHandler) SetCustomClaims(c *fiber.Ctx) error {
	var req SetCustomClaimsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateStruct(h.validate, req); err != nil {
		return err
	}

	if err := h.authService.SetUserRole(c.UserContext(), req.UID, req.Claims.Role); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(models.SuccessResponse(
		"Custom claims set for user "+req.UID,
		fiber.Map{"uid": req.UID, "claims": req.Claims},
	))
}
