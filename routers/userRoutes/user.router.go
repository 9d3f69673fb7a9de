package userRoutes

import (
	userController "cityguide/controllers/userControllers"
	"cityguide/middleware"
	commonValidator "cityguide/validators/common"
	userValidator "cityguide/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/users")

	userGroup.Get("/me", middleware.JWTMiddleware, userController.Me)
	userGroup.Get("/", userValidator.ListUsers(), middleware.JWTMiddleware, middleware.AdminOnly, userController.ListUsers)
	userGroup.Get("/:userId/reviews", commonValidator.ParamID("userId", "User ID"), commonValidator.Pagination(), userController.UserReviews)
	userGroup.Get("/:id", commonValidator.ParamID("id", "ID"), middleware.JWTMiddleware, userController.GetUser)
	userGroup.Put("/:id", commonValidator.ParamID("id", "ID"), userValidator.UpdateUser(), middleware.JWTMiddleware, userController.UpdateUser)
	userGroup.Patch("/:id/role", commonValidator.ParamID("id", "ID"), userValidator.UpdateRole(), middleware.JWTMiddleware, middleware.AdminOnly, userController.UpdateRole)
	userGroup.Delete("/:id", commonValidator.ParamID("id", "ID"), middleware.JWTMiddleware, userController.DeleteUser)
}
