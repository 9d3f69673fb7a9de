package reservationValidator

import (
	"time"

	"cityguide/middleware"
	"cityguide/models"
	"cityguide/utils"
	commonValidator "cityguide/validators/common"
	"cityguide/validators/rules"

	"github.com/gofiber/fiber/v2"
)

type CreateReservationRequest struct {
	PlaceID   uint
	Date      time.Time
	StartTime time.Time
	EndTime   time.Time
	Guests    int
	Notes     string
}

type ListReservationsRequest struct {
	utils.Page
	Status  string
	PlaceID uint
}

type UpdateStatusRequest struct {
	Status string
}

func statusRule() rules.Rule {
	return rules.OneOf(models.ReservationStatuses...)
}

func CreateReservation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch, err := rules.FromBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		placeID := ch.Int("place_id", "Place ID", rules.Required(), rules.Min(1))
		date := ch.Date("date", "Date", rules.Required())
		start := ch.Time("start_time", "Start time", rules.Required())
		end := ch.Time("end_time", "End time", rules.Required())
		guests := ch.Int("guests", "Guests", rules.Min(1), rules.Max(50))
		notes := ch.String("notes", "Notes", rules.MaxLen(1000))

		today := time.Now().UTC().Truncate(24 * time.Hour)
		if date != nil && date.Before(today) {
			ch.Add("date", "Date must not be in the past")
		}
		if start != nil && end != nil && !end.After(*start) {
			ch.Add("end_time", "End time must be after start time")
		}

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		reqData := &CreateReservationRequest{
			PlaceID:   uint(*placeID),
			Date:      *date,
			StartTime: *start,
			EndTime:   *end,
			Guests:    1,
			Notes:     rules.Value(notes),
		}
		if guests != nil {
			reqData.Guests = *guests
		}

		c.Locals("validatedReservation", reqData)
		return c.Next()
	}
}

// ListReservations validates status and, for the admin listing, place_id
func ListReservations() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch := rules.FromQuery(c)
		reqData := &ListReservationsRequest{
			Page:   commonValidator.PageFrom(ch),
			Status: rules.Value(ch.String("status", "Status", statusRule())),
		}
		if placeID := ch.Int("place_id", "Place ID", rules.Min(1)); placeID != nil {
			reqData.PlaceID = uint(*placeID)
		}

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals("validatedReservationList", reqData)
		return c.Next()
	}
}

func UpdateStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch, err := rules.FromBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		status := ch.String("status", "Status", rules.Required(), statusRule())

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals("validatedReservationStatus", &UpdateStatusRequest{Status: *status})
		return c.Next()
	}
}
