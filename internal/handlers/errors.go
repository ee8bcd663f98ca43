package handlers

import (
	"errors"
	"log"

	"productapi/internal/models"
	"productapi/internal/repositories"
	"productapi/internal/services"
	"productapi/internal/storage"
	"productapi/internal/upload"
	"productapi/internal/validation"

	"github.com/gofiber/fiber/v2"
)

var persistenceMessages = map[string]string{
	services.CodeFetchFailed:  "Failed to fetch products",
	services.CodeCreateFailed: "Failed to create product",
	services.CodeUpdateFailed: "Failed to update product",
	services.CodeDeleteFailed: "Failed to delete product",
}

// ErrorHandler renders every error returned by a handler as an error envelope.
// It is installed as the Fiber app's ErrorHandler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, body := errorResponse(err)
	log.Printf("[%v] %s %s -> %d %s: %v", c.Locals("requestid"), c.Method(), c.OriginalURL(), status, body.ErrorCode, err)
	return c.Status(status).JSON(body)
}

func errorResponse(err error) (int, models.Response) {
	var (
		verr  *validation.ValidationError
		ferr  *upload.FileError
		serr  *storage.StorageError
		perr  *services.PersistenceError
		fiErr *fiber.Error
	)

	switch {
	case errors.As(err, &verr):
		message := "Validation failed"
		if errors.Is(err, validation.ErrMissingRequiredFields) {
			message = "Missing required fields"
		}
		return fiber.StatusBadRequest, models.ErrorResponse(services.CodeValidation, message, verr.Fields)
	case errors.As(err, &ferr):
		return fiber.StatusBadRequest, models.ErrorResponse(services.CodeInvalidFile, ferr.Error(), map[string]string{"images": ferr.Error()})
	case errors.Is(err, repositories.ErrProductNotFound):
		return fiber.StatusNotFound, models.ErrorResponse(services.CodeProductNotFound, "Product not found", nil)
	case errors.Is(err, repositories.ErrUserNotFound):
		return fiber.StatusNotFound, models.ErrorResponse(services.CodeUserNotFound, "User not found", nil)
	case errors.Is(err, services.ErrUserExists):
		return fiber.StatusConflict, models.ErrorResponse(services.CodeUserExists, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, models.ErrorResponse(services.CodeInvalidCredentials, "Invalid credentials", nil)
	case errors.Is(err, services.ErrInvalidRole):
		return fiber.StatusBadRequest, models.ErrorResponse(services.CodeValidation, err.Error(), map[string]string{"role": err.Error()})
	case errors.As(err, &serr):
		return fiber.StatusInternalServerError, models.ErrorResponse(services.CodeStorage, "Failed to upload images", nil)
	case errors.As(err, &perr):
		message, ok := persistenceMessages[perr.Code]
		if !ok {
			message = "Failed to persist product"
		}
		return fiber.StatusInternalServerError, models.ErrorResponse(perr.Code, message, nil)
	case errors.As(err, &fiErr):
		return fiErr.Code, models.ErrorResponse(fiberErrorCode(fiErr.Code), fiErr.Message, nil)
	default:
		return fiber.StatusInternalServerError, models.ErrorResponse(services.CodeInternal, "Internal server error", nil)
	}
}

func fiberErrorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return services.CodeValidation
	case fiber.StatusRequestEntityTooLarge:
		return services.CodeInvalidFile
	case fiber.StatusUnauthorized:
		return services.CodeUnauthorized
	case fiber.StatusForbidden:
		return services.CodeForbidden
	case fiber.StatusNotFound:
		return services.CodeNotFound
	default:
		if status < fiber.StatusInternalServerError {
			return services.CodeValidation
		}
		return services.CodeInternal
	}
}
