package eventRoutes

import (
	eventController "cityguide/controllers/event"
	"cityguide/middleware"
	commonValidator "cityguide/validators/common"
	eventValidator "cityguide/validators/event"

	"github.com/gofiber/fiber/v2"
)

func SetupEventRoutes(app *fiber.App) {
	eventGroup := app.Group("/events")
	eventID := commonValidator.ParamID("id", "ID")

	eventGroup.Get("/", eventValidator.ListEvents(), eventController.ListEvents)
	eventGroup.Get("/:id", eventID, eventController.GetEvent)
	eventGroup.Post("/", eventValidator.CreateEvent(), middleware.JWTMiddleware, middleware.AdminOnly, eventController.CreateEvent)
	eventGroup.Put("/:id", eventID, eventValidator.UpdateEvent(), middleware.JWTMiddleware, middleware.AdminOnly, eventController.UpdateEvent)
	eventGroup.Delete("/:id", eventID, middleware.JWTMiddleware, middleware.AdminOnly, eventController.DeleteEvent)
}
