package authValidator

import (
	"strings"

	"cityguide/middleware"
	commonValidator "cityguide/validators/common"
	"cityguide/validators/rules"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

type LoginRequest struct {
	Email    string
	Password string
}

// Register validator middleware
func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch, err := rules.FromBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		name := ch.String("name", "Name", rules.Required(), rules.MinLen(2), rules.MaxLen(100))
		email := ch.String("email", "Email", rules.Required(), rules.Email().WithMessage("Invalid email!"))
		password := ch.String("password", "Password", rules.Required(), rules.Raw(),
			rules.MinLen(8).WithMessage("Password must be at least 8 characters long!"),
			rules.MaxBytes(72),
		)

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals("validatedUser", &RegisterRequest{
			Name:     *name,
			Email:    strings.ToLower(*email),
			Password: *password,
		})
		return c.Next()
	}
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch, err := rules.FromBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		email := ch.String("email", "Email", rules.Required(), rules.Email().WithMessage("Invalid email!"))
		password := ch.String("password", "Password", rules.Required(), rules.Raw())

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals("validatedLogin", &LoginRequest{
			Email:    strings.ToLower(*email),
			Password: *password,
		})
		return c.Next()
	}
}

// LoginHistoryList validates the pagination of the login history
func LoginHistoryList() fiber.Handler {
	return commonValidator.Pagination()
}
