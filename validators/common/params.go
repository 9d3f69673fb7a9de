package commonValidator

import (
	"cityguide/middleware"
	"cityguide/utils"
	"cityguide/validators/rules"

	"github.com/gofiber/fiber/v2"
)

const paramPrefix = "param."

// ParamID validates that the named route parameter is a positive integer
func ParamID(name, label string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch := rules.FromParams(c)
		id := ch.Int(name, label, rules.Required(), rules.Min(1))
		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals(paramPrefix+name, uint(*id))
		return c.Next()
	}
}

// ID returns the route parameter validated by ParamID
func ID(c *fiber.Ctx, name string) uint {
	id, _ := c.Locals(paramPrefix + name).(uint)
	return id
}

// Pagination validates page and limit query parameters
func Pagination() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch := rules.FromQuery(c)
		page := PageFrom(ch)
		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals("validatedPage", page)
		return c.Next()
	}
}

// PageFrom reads page and limit from a query checker
func PageFrom(ch *rules.Checker) utils.Page {
	page, limit := ch.Pagination()
	return utils.Page{Page: page, Limit: limit}
}

// PageOf returns the pagination stored by Pagination, or the defaults
func PageOf(c *fiber.Ctx) utils.Page {
	if p, ok := c.Locals("validatedPage").(utils.Page); ok {
		return p
	}
	return utils.Page{Page: 1, Limit: 10}
}
