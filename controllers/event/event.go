package eventController

import (
	"errors"
	"time"

	placeController "cityguide/controllers/place"
	"cityguide/database"
	"cityguide/middleware"
	"cityguide/models"
	"cityguide/utils"
	commonValidator "cityguide/validators/common"
	eventValidator "cityguide/validators/event"
	"cityguide/validators/rules"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

func ListEvents(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedEventList").(*eventValidator.ListEventsRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	current := time.Now().UTC()
	filter := func(tx *gorm.DB) *gorm.DB {
		if reqData.PlaceID != nil {
			tx = tx.Where("place_id = ?", *reqData.PlaceID)
		}
		if reqData.Upcoming {
			tx = tx.Where("start_at >= ?", current)
		}
		if reqData.Date != nil {
			day := now.With(*reqData.Date)
			tx = tx.Where("start_at BETWEEN ? AND ?", day.BeginningOfDay(), day.EndOfDay())
		}
		return tx
	}

	var total int64
	if err := db.Model(&models.Event{}).Scopes(filter).Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var events []models.Event
	if err := db.Scopes(filter).
		Order("start_at ASC").
		Offset(reqData.Offset()).
		Limit(reqData.Limit).
		Find(&events).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Events list fetched successfully",
		utils.Paginated("events", events, total, reqData.Page))
}

func GetEvent(c *fiber.Ctx) error {
	var event models.Event
	if err := database.Database.Db.Preload("Place").First(&event, commonValidator.ID(c, "id")).Error; err != nil {
		return middleware.ErrorResponse(c, notFound(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Event fetched successfully", event)
}

func CreateEvent(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedEvent").(*eventValidator.EventRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if err := placeController.EnsureExists(db, *reqData.PlaceID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	event := models.Event{}
	apply(&event, reqData)

	if err := db.Create(&event).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Event created successfully", event)
}

func UpdateEvent(c *fiber.Ctx) error {
	id := commonValidator.ID(c, "id")
	reqData, ok := c.Locals("validatedEvent").(*eventValidator.EventRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var event models.Event
	if err := db.First(&event, id).Error; err != nil {
		return middleware.ErrorResponse(c, notFound(err))
	}

	if reqData.PlaceID != nil && *reqData.PlaceID != event.PlaceID {
		if err := placeController.EnsureExists(db, *reqData.PlaceID); err != nil {
			return middleware.ErrorResponse(c, err)
		}
	}

	apply(&event, reqData)

	// a partial update may move one bound past the stored other
	if !event.EndAt.After(event.StartAt) {
		return middleware.ValidationErrorResponse(c, []rules.FieldError{
			{Field: "end_at", Message: eventValidator.EndAfterStartMessage},
		})
	}

	if err := db.Save(&event).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Event updated successfully", event)
}

func DeleteEvent(c *fiber.Ctx) error {
	result := database.Database.Db.Delete(&models.Event{}, commonValidator.ID(c, "id"))
	if result.Error != nil {
		return middleware.ErrorResponse(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Event not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Event deleted successfully", nil)
}

func apply(event *models.Event, reqData *eventValidator.EventRequest) {
	if reqData.Title != nil {
		event.Title = *reqData.Title
	}
	if reqData.Description != nil {
		event.Description = *reqData.Description
	}
	if reqData.PlaceID != nil {
		event.PlaceID = *reqData.PlaceID
	}
	if reqData.StartAt != nil {
		event.StartAt = *reqData.StartAt
	}
	if reqData.EndAt != nil {
		event.EndAt = *reqData.EndAt
	}
	if reqData.Price != nil {
		event.Price = *reqData.Price
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NewNotFoundError("Event not found!")
	}
	return err
}
