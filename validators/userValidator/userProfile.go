package userValidator

import (
	"strings"

	"cityguide/middleware"
	"cityguide/models"
	"cityguide/utils"
	commonValidator "cityguide/validators/common"
	"cityguide/validators/rules"

	"github.com/gofiber/fiber/v2"
)

type ListUsersRequest struct {
	utils.Page
	Search string
}

// UpdateUserRequest holds only the fields present in the body
type UpdateUserRequest struct {
	Name     *string
	Email    *string
	Password *string
}

type UpdateRoleRequest struct {
	Role string
}

func ListUsers() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch := rules.FromQuery(c)
		page := commonValidator.PageFrom(ch)
		search := ch.String("search", "Search", rules.MaxLen(100))

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals("validatedUserList", &ListUsersRequest{Page: page, Search: rules.Value(search)})
		return c.Next()
	}
}

func UpdateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch, err := rules.FromBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData := &UpdateUserRequest{
			Name:  ch.String("name", "Name", rules.MinLen(2), rules.MaxLen(100)),
			Email: ch.String("email", "Email", rules.Email().WithMessage("Invalid email!")),
			Password: ch.String("password", "Password", rules.Raw(),
				rules.MinLen(8).WithMessage("Password must be at least 8 characters long!"),
				rules.MaxBytes(72),
			),
		}

		if !ch.HasAny("name", "email", "password") {
			ch.Add("body", "At least one of name, email or password is required")
		}

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		if reqData.Email != nil {
			lower := strings.ToLower(*reqData.Email)
			reqData.Email = &lower
		}

		c.Locals("validatedUserUpdate", reqData)
		return c.Next()
	}
}

func UpdateRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch, err := rules.FromBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		role := ch.String("role", "Role", rules.Required(), rules.OneOf(models.RoleUser, models.RoleAdmin))

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals("validatedRole", &UpdateRoleRequest{Role: *role})
		return c.Next()
	}
}
