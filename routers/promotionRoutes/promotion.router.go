package promotionRoutes

import (
	promotionController "cityguide/controllers/promotion"
	"cityguide/middleware"
	commonValidator "cityguide/validators/common"
	promotionValidator "cityguide/validators/promotion"

	"github.com/gofiber/fiber/v2"
)

func SetupPromotionRoutes(app *fiber.App) {
	promotionGroup := app.Group("/promotions")
	promotionID := commonValidator.ParamID("id", "ID")

	promotionGroup.Get("/", promotionValidator.ListPromotions(), promotionController.ListPromotions)
	promotionGroup.Get("/:id", promotionID, promotionController.GetPromotion)
	promotionGroup.Post("/", promotionValidator.CreatePromotion(), middleware.JWTMiddleware, middleware.AdminOnly, promotionController.CreatePromotion)
	promotionGroup.Put("/:id", promotionID, promotionValidator.UpdatePromotion(), middleware.JWTMiddleware, middleware.AdminOnly, promotionController.UpdatePromotion)
	promotionGroup.Delete("/:id", promotionID, middleware.JWTMiddleware, middleware.AdminOnly, promotionController.DeletePromotion)
}
