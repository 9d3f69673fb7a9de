package reservationController

import (
	"errors"
	"time"

	placeController "cityguide/controllers/place"
	"cityguide/database"
	"cityguide/middleware"
	"cityguide/models"
	"cityguide/utils"
	commonValidator "cityguide/validators/common"
	reservationValidator "cityguide/validators/reservation"
	"cityguide/validators/rules"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReservationEvent is the broker payload for reservation events
type ReservationEvent struct {
	ID        uint   `json:"id"`
	Reference string `json:"reference"`
	UserID    uint   `json:"user_id"`
	PlaceID   uint   `json:"place_id"`
	Date      string `json:"date"`
	Status    string `json:"status"`
}

func eventOf(r *models.Reservation) ReservationEvent {
	return ReservationEvent{
		ID:        r.ID,
		Reference: r.Reference,
		UserID:    r.UserID,
		PlaceID:   r.PlaceID,
		Date:      time.Time(r.Date).Format(rules.DateLayout),
		Status:    r.Status,
	}
}

func clock(t time.Time) datatypes.Time {
	return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0)
}

func CreateReservation(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedReservation").(*reservationValidator.CreateReservationRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, err := middleware.LoadUser(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	db := database.Database.Db

	if err := placeController.EnsureExists(db, reqData.PlaceID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	reservation := models.Reservation{
		Reference: uuid.NewString(),
		UserID:    user.ID,
		PlaceID:   reqData.PlaceID,
		Date:      datatypes.Date(reqData.Date),
		StartTime: clock(reqData.StartTime),
		EndTime:   clock(reqData.EndTime),
		Guests:    reqData.Guests,
		Status:    models.ReservationPending,
		Notes:     reqData.Notes,
	}
	if err := db.Create(&reservation).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if err := db.Preload("Place").First(&reservation, reservation.ID).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	notify(user, &reservation)
	utils.PublishAsync(utils.EventReservationCreated, eventOf(&reservation))

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Reservation created successfully", reservation)
}

func MyReservations(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedReservationList").(*reservationValidator.ListReservationsRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	return list(c, reqData, middleware.CurrentUserID(c))
}

func ListReservations(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedReservationList").(*reservationValidator.ListReservationsRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	return list(c, reqData, 0)
}

// list pages reservations, restricted to userID unless it is zero
func list(c *fiber.Ctx, reqData *reservationValidator.ListReservationsRequest, userID uint) error {
	db := database.Database.Db
	filter := func(tx *gorm.DB) *gorm.DB {
		if userID != 0 {
			tx = tx.Where("user_id = ?", userID)
		}
		if reqData.Status != "" {
			tx = tx.Where("status = ?", reqData.Status)
		}
		if reqData.PlaceID != 0 {
			tx = tx.Where("place_id = ?", reqData.PlaceID)
		}
		return tx
	}

	var total int64
	if err := db.Model(&models.Reservation{}).Scopes(filter).Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var reservations []models.Reservation
	if err := db.Scopes(filter).
		Preload("Place").
		Order("date DESC").
		Order("start_time DESC").
		Offset(reqData.Offset()).
		Limit(reqData.Limit).
		Find(&reservations).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reservations list fetched successfully",
		utils.Paginated("reservations", reservations, total, reqData.Page))
}

func GetReservation(c *fiber.Ctx) error {
	reservation, err := loadOwned(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reservation fetched successfully", reservation)
}

// UpdateStatus lets the owner cancel and an admin set any status
func UpdateStatus(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedReservationStatus").(*reservationValidator.UpdateStatusRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	reservation, err := loadOwned(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if !middleware.IsAdmin(c) && reqData.Status != models.ReservationCancelled {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only cancel your reservation!", nil)
	}

	previous := reservation.Status
	if err := database.Database.Db.Model(&models.Reservation{}).
		Where("id = ?", reservation.ID).
		Update("status", reqData.Status).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	reservation.Status = reqData.Status

	if previous != reservation.Status {
		var owner models.User
		if err := database.Database.Db.First(&owner, reservation.UserID).Error; err == nil {
			notify(&owner, reservation)
		}
		utils.PublishAsync(utils.EventReservationStatusChanged, eventOf(reservation))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reservation status updated successfully", reservation)
}

func DeleteReservation(c *fiber.Ctx) error {
	reservation, err := loadOwned(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if err := database.Database.Db.Delete(&models.Reservation{}, reservation.ID).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reservation deleted successfully", nil)
}

// loadOwned fetches the :id reservation for its owner or an admin
func loadOwned(c *fiber.Ctx) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := database.Database.Db.Preload("Place").First(&reservation, commonValidator.ID(c, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("Reservation not found!")
		}
		return nil, err
	}

	if !middleware.IsSelfOrAdmin(c, reservation.UserID) {
		return nil, utils.NewForbiddenError("You do not have access to this reservation!")
	}
	return &reservation, nil
}

func notify(user *models.User, r *models.Reservation) {
	placeName := ""
	if r.Place != nil {
		placeName = r.Place.Name
	}
	utils.SendReservationEmail(user.Email, user.Name, utils.ReservationEmail{
		Reference: r.Reference,
		PlaceName: placeName,
		Date:      time.Time(r.Date).Format(rules.DateLayout),
		StartTime: r.StartTime.String(),
		EndTime:   r.EndTime.String(),
		Guests:    r.Guests,
		Status:    r.Status,
	})
}
