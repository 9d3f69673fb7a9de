package reservationRoutes

import (
	reservationController "cityguide/controllers/reservation"
	"cityguide/middleware"
	commonValidator "cityguide/validators/common"
	reservationValidator "cityguide/validators/reservation"

	"github.com/gofiber/fiber/v2"
)

func SetupReservationRoutes(app *fiber.App) {
	reservationGroup := app.Group("/reservations")
	reservationID := commonValidator.ParamID("id", "ID")

	reservationGroup.Post("/", reservationValidator.CreateReservation(), middleware.JWTMiddleware, reservationController.CreateReservation)
	reservationGroup.Get("/me", reservationValidator.ListReservations(), middleware.JWTMiddleware, reservationController.MyReservations)
	reservationGroup.Get("/", reservationValidator.ListReservations(), middleware.JWTMiddleware, middleware.AdminOnly, reservationController.ListReservations)
	reservationGroup.Get("/:id", reservationID, middleware.JWTMiddleware, reservationController.GetReservation)
	reservationGroup.Patch("/:id/status", reservationID, reservationValidator.UpdateStatus(), middleware.JWTMiddleware, reservationController.UpdateStatus)
	reservationGroup.Delete("/:id", reservationID, middleware.JWTMiddleware, reservationController.DeleteReservation)
}
