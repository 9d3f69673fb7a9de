package placeValidator

import (
	"encoding/json"

	"cityguide/middleware"
	"cityguide/utils"
	commonValidator "cityguide/validators/common"
	"cityguide/validators/rules"

	"github.com/gofiber/fiber/v2"
)

const DefaultRadiusKm = 5.0

type ListPlacesRequest struct {
	utils.Page
	Category string
	Search   string
}

type NearbyRequest struct {
	utils.Page
	Lat      float64
	Lng      float64
	RadiusKm float64
}

// PlaceRequest carries create and update input; nil means the field was not sent
type PlaceRequest struct {
	Name         *string
	Description  *string
	Location     *string
	Latitude     *float64
	Longitude    *float64
	Category     *string
	OpeningHours json.RawMessage
}

func ListPlaces() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch := rules.FromQuery(c)
		reqData := &ListPlacesRequest{
			Page:     commonValidator.PageFrom(ch),
			Category: rules.Value(ch.String("category", "Category", rules.MaxLen(50))),
			Search:   rules.Value(ch.String("search", "Search", rules.MaxLen(100))),
		}

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals("validatedPlaceList", reqData)
		return c.Next()
	}
}

func Nearby() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch := rules.FromQuery(c)
		page := commonValidator.PageFrom(ch)
		lat := ch.Float("lat", "Latitude", rules.Required(), rules.Min(-90), rules.Max(90))
		lng := ch.Float("lng", "Longitude", rules.Required(), rules.Min(-180), rules.Max(180))
		radius := ch.Float("radius_km", "Radius", rules.Gt(0), rules.Max(100))

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		reqData := &NearbyRequest{Page: page, Lat: *lat, Lng: *lng, RadiusKm: DefaultRadiusKm}
		if radius != nil {
			reqData.RadiusKm = *radius
		}

		c.Locals("validatedNearby", reqData)
		return c.Next()
	}
}

func CreatePlace() fiber.Handler {
	return placeBody(true)
}

func UpdatePlace() fiber.Handler {
	return placeBody(false)
}

func placeBody(create bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch, err := rules.FromBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		nameRules := []rules.Rule{rules.MinLen(2), rules.MaxLen(150)}
		if create {
			nameRules = append([]rules.Rule{rules.Required()}, nameRules...)
		}

		reqData := &PlaceRequest{
			Name:         ch.String("name", "Name", nameRules...),
			Description:  ch.String("description", "Description", rules.MaxLen(5000)),
			Location:     ch.String("location", "Location", rules.MaxLen(255)),
			Latitude:     ch.Float("latitude", "Latitude", rules.Min(-90), rules.Max(90)),
			Longitude:    ch.Float("longitude", "Longitude", rules.Min(-180), rules.Max(180)),
			Category:     ch.String("category", "Category", rules.MaxLen(50)),
			OpeningHours: ch.Object("opening_hours", "Opening hours"),
		}

		// coordinates travel as a pair
		if ch.Has("latitude") && !ch.Has("longitude") {
			ch.Add("longitude", "Longitude is required when latitude is set")
		}
		if ch.Has("longitude") && !ch.Has("latitude") {
			ch.Add("latitude", "Latitude is required when longitude is set")
		}

		if !create && !ch.HasAny("name", "description", "location", "latitude", "longitude", "category", "opening_hours") {
			ch.Add("body", "At least one field is required")
		}

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals("validatedPlace", reqData)
		return c.Next()
	}
}
