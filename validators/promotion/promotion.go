package promotionValidator

import (
	"time"

	"cityguide/middleware"
	"cityguide/utils"
	commonValidator "cityguide/validators/common"
	"cityguide/validators/rules"

	"github.com/gofiber/fiber/v2"
)

const ValidToMessage = "Valid to must not be before valid from"

type ListPromotionsRequest struct {
	utils.Page
	PlaceID uint
	Active  bool
}

// PromotionRequest carries create and update input; nil means the field was not sent
type PromotionRequest struct {
	PlaceID         *uint
	Title           *string
	Description     *string
	DiscountPercent *float64
	ValidFrom       *time.Time
	ValidTo         *time.Time
}

func ListPromotions() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch := rules.FromQuery(c)
		reqData := &ListPromotionsRequest{
			Page:   commonValidator.PageFrom(ch),
			Active: rules.Value(ch.Bool("active", "Active")),
		}
		if placeID := ch.Int("place_id", "Place ID", rules.Min(1)); placeID != nil {
			reqData.PlaceID = uint(*placeID)
		}

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals("validatedPromotionList", reqData)
		return c.Next()
	}
}

func CreatePromotion() fiber.Handler {
	return promotionBody(true)
}

func UpdatePromotion() fiber.Handler {
	return promotionBody(false)
}

func promotionBody(create bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch, err := rules.FromBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		var required []rules.Rule
		if create {
			required = []rules.Rule{rules.Required()}
		}

		reqData := &PromotionRequest{
			Title:           ch.String("title", "Title", append(required, rules.MinLen(2), rules.MaxLen(150))...),
			Description:     ch.String("description", "Description", rules.MaxLen(5000)),
			DiscountPercent: ch.Float("discount_percent", "Discount percent", append(required, rules.Gt(0), rules.Max(100))...),
			ValidFrom:       ch.DateTime("valid_from", "Valid from", required...),
			ValidTo:         ch.DateTime("valid_to", "Valid to", required...),
		}
		if placeID := ch.Int("place_id", "Place ID", append(required, rules.Min(1))...); placeID != nil {
			id := uint(*placeID)
			reqData.PlaceID = &id
		}

		if reqData.ValidFrom != nil && reqData.ValidTo != nil && reqData.ValidTo.Before(*reqData.ValidFrom) {
			ch.Add("valid_to", ValidToMessage)
		}

		if !create && !ch.HasAny("place_id", "title", "description", "discount_percent", "valid_from", "valid_to") {
			ch.Add("body", "At least one field is required")
		}

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals("validatedPromotion", reqData)
		return c.Next()
	}
}
