package placeRoutes

import (
	placeController "cityguide/controllers/place"
	"cityguide/middleware"
	commonValidator "cityguide/validators/common"
	placeValidator "cityguide/validators/place"

	"github.com/gofiber/fiber/v2"
)

func SetupPlaceRoutes(app *fiber.App) {
	placeGroup := app.Group("/places")
	placeID := commonValidator.ParamID("id", "ID")

	placeGroup.Get("/", placeValidator.ListPlaces(), middleware.Cache(), placeController.ListPlaces)
	placeGroup.Get("/nearby", placeValidator.Nearby(), placeController.Nearby)
	placeGroup.Get("/:id", placeID, middleware.Cache(), placeController.GetPlace)
	placeGroup.Get("/:id/reviews", placeID, commonValidator.Pagination(), placeController.PlaceReviews)
	placeGroup.Get("/:id/events", placeID, commonValidator.Pagination(), placeController.PlaceEvents)
	placeGroup.Get("/:id/promotions", placeID, commonValidator.Pagination(), placeController.PlacePromotions)

	placeGroup.Post("/", placeValidator.CreatePlace(), middleware.JWTMiddleware, middleware.AdminOnly, placeController.CreatePlace)
	placeGroup.Put("/:id", placeID, placeValidator.UpdatePlace(), middleware.JWTMiddleware, middleware.AdminOnly, placeController.UpdatePlace)
	placeGroup.Delete("/:id", placeID, middleware.JWTMiddleware, middleware.AdminOnly, placeController.DeletePlace)
}
