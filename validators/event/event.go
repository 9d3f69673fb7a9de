package eventValidator

import (
	"time"

	"cityguide/middleware"
	"cityguide/utils"
	commonValidator "cityguide/validators/common"
	"cityguide/validators/rules"

	"github.com/gofiber/fiber/v2"
)

type ListEventsRequest struct {
	utils.Page
	PlaceID  *uint
	Upcoming bool
	Date     *time.Time
}

// EventRequest carries create and update input; nil means the field was not sent
type EventRequest struct {
	Title       *string
	Description *string
	PlaceID     *uint
	StartAt     *time.Time
	EndAt       *time.Time
	Price       *float64
}

func ListEvents() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch := rules.FromQuery(c)
		reqData := &ListEventsRequest{
			Page:     commonValidator.PageFrom(ch),
			PlaceID:  optionalID(ch.Int("place_id", "Place ID", rules.Min(1))),
			Upcoming: rules.Value(ch.Bool("upcoming", "Upcoming")),
			Date:     ch.Date("date", "Date"),
		}

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals("validatedEventList", reqData)
		return c.Next()
	}
}

func CreateEvent() fiber.Handler {
	return eventBody(true)
}

func UpdateEvent() fiber.Handler {
	return eventBody(false)
}

func eventBody(create bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch, err := rules.FromBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		var required []rules.Rule
		if create {
			required = []rules.Rule{rules.Required()}
		}

		reqData := &EventRequest{
			Title:       ch.String("title", "Title", append(required, rules.MinLen(2), rules.MaxLen(150))...),
			Description: ch.String("description", "Description", rules.MaxLen(5000)),
			PlaceID:     optionalID(ch.Int("place_id", "Place ID", append(required, rules.Min(1))...)),
			StartAt:     ch.DateTime("start_at", "Start", required...),
			EndAt:       ch.DateTime("end_at", "End", required...),
			Price:       ch.Float("price", "Price", rules.Min(0), rules.Max(1000000)),
		}

		if reqData.StartAt != nil && reqData.EndAt != nil && !reqData.EndAt.After(*reqData.StartAt) {
			ch.Add("end_at", EndAfterStartMessage)
		}

		if !create && !ch.HasAny("title", "description", "place_id", "start_at", "end_at", "price") {
			ch.Add("body", "At least one field is required")
		}

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals("validatedEvent", reqData)
		return c.Next()
	}
}

const EndAfterStartMessage = "End must be after start"

func optionalID(n *int) *uint {
	if n == nil {
		return nil
	}
	id := uint(*n)
	return &id
}
