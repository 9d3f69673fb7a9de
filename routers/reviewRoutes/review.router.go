package reviewRoutes

import (
	reviewController "cityguide/controllers/review"
	"cityguide/middleware"
	commonValidator "cityguide/validators/common"
	reviewValidator "cityguide/validators/review"

	"github.com/gofiber/fiber/v2"
)

func SetupReviewRoutes(app *fiber.App) {
	reviewGroup := app.Group("/reviews")
	reviewID := commonValidator.ParamID("id", "ID")

	reviewGroup.Post("/", reviewValidator.CreateReview(), middleware.JWTMiddleware, reviewController.CreateReview)
	reviewGroup.Get("/:id", reviewID, reviewController.GetReview)
	reviewGroup.Put("/:id", reviewID, reviewValidator.UpdateReview(), middleware.JWTMiddleware, reviewController.UpdateReview)
	reviewGroup.Delete("/:id", reviewID, middleware.JWTMiddleware, reviewController.DeleteReview)
}
