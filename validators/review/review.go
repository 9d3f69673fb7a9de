package reviewValidator

import (
	"cityguide/middleware"
	"cityguide/validators/rules"

	"github.com/gofiber/fiber/v2"
)

type CreateReviewRequest struct {
	PlaceID uint
	Rating  int
	Comment string
}

type UpdateReviewRequest struct {
	Rating  *int
	Comment *string
}

func CreateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch, err := rules.FromBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		placeID := ch.Int("place_id", "Place ID", rules.Required(), rules.Min(1))
		rating := ch.Int("rating", "Rating", rules.Required(), rules.Min(0), rules.Max(5))
		comment := ch.String("comment", "Comment", rules.MaxLen(1000))

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals("validatedReview", &CreateReviewRequest{
			PlaceID: uint(*placeID),
			Rating:  *rating,
			Comment: rules.Value(comment),
		})
		return c.Next()
	}
}

func UpdateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch, err := rules.FromBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData := &UpdateReviewRequest{
			Rating:  ch.Int("rating", "Rating", rules.Min(0), rules.Max(5)),
			Comment: ch.String("comment", "Comment", rules.MaxLen(1000)),
		}

		if !ch.HasAny("rating", "comment") {
			ch.Add("body", "At least one of rating or comment is required")
		}

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals("validatedReviewUpdate", reqData)
		return c.Next()
	}
}
