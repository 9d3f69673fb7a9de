package middleware

import (
	"errors"

	"cityguide/utils"
	"cityguide/validators/rules"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ValidationMessage is the envelope message for itemised validation failures
const ValidationMessage = "Erreur de validation"

// Response is the envelope shared by every endpoint
type Response struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Data    interface{}        `json:"data,omitempty"`
	Errors  []rules.FieldError `json:"errors,omitempty"`
}

func JsonResponse(c *fiber.Ctx, statusCode int, success bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(Response{
		Success: success,
		Message: message,
		Data:    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors []rules.FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(Response{
		Success: false,
		Message: ValidationMessage,
		Errors:  errors,
	})
}

// Validate responds with the checker's errors when there are any
func Validate(c *fiber.Ctx, ch *rules.Checker) (bool, error) {
	if ch.Valid() {
		return true, nil
	}
	return false, ValidationErrorResponse(c, ch.Errors())
}

// ErrorResponse maps err onto the error taxonomy; unknown errors become a generic 500
func ErrorResponse(c *fiber.Ctx, err error) error {
	if appErr, ok := utils.AsAppError(err); ok {
		if appErr.Type == utils.ErrorTypeInternal || appErr.Type == utils.ErrorTypeExternal {
			utils.Logger.Error().Err(err).Str("path", c.Path()).Msg(appErr.Message)
		}
		return JsonResponse(c, appErr.StatusCode(), false, appErr.Message, nil)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return JsonResponse(c, fiber.StatusNotFound, false, "Resource not found!", nil)
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return JsonResponse(c, fiber.StatusConflict, false, "Resource already exists!", nil)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return JsonResponse(c, fiberErr.Code, false, fiberErr.Message, nil)
	}

	utils.Logger.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("unhandled error")
	return JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
}

// ErrorHandler plugs ErrorResponse into fiber.Config
func ErrorHandler(c *fiber.Ctx, err error) error {
	return ErrorResponse(c, err)
}

// NotFound answers unmatched routes
func NotFound(c *fiber.Ctx) error {
	return JsonResponse(c, fiber.StatusNotFound, false, "Route not found!", nil)
}
