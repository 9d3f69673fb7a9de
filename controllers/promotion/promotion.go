package promotionController

import (
	"errors"
	"time"

	placeController "cityguide/controllers/place"
	"cityguide/database"
	"cityguide/middleware"
	"cityguide/models"
	"cityguide/utils"
	commonValidator "cityguide/validators/common"
	promotionValidator "cityguide/validators/promotion"
	"cityguide/validators/rules"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ListPromotions(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPromotionList").(*promotionValidator.ListPromotionsRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	current := time.Now().UTC()
	filter := func(tx *gorm.DB) *gorm.DB {
		if reqData.PlaceID != 0 {
			tx = tx.Where("place_id = ?", reqData.PlaceID)
		}
		if reqData.Active {
			tx = tx.Where("valid_from <= ? AND valid_to >= ?", current, current)
		}
		return tx
	}

	var total int64
	if err := db.Model(&models.Promotion{}).Scopes(filter).Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var promotions []models.Promotion
	if err := db.Scopes(filter).
		Order("valid_from DESC").
		Offset(reqData.Offset()).
		Limit(reqData.Limit).
		Find(&promotions).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Promotions list fetched successfully",
		utils.Paginated("promotions", promotions, total, reqData.Page))
}

func GetPromotion(c *fiber.Ctx) error {
	var promotion models.Promotion
	if err := database.Database.Db.First(&promotion, commonValidator.ID(c, "id")).Error; err != nil {
		return middleware.ErrorResponse(c, notFound(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Promotion fetched successfully", promotion)
}

func CreatePromotion(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPromotion").(*promotionValidator.PromotionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if err := placeController.EnsureExists(db, *reqData.PlaceID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	promotion := models.Promotion{}
	apply(&promotion, reqData)

	if err := db.Create(&promotion).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Promotion created successfully", promotion)
}

func UpdatePromotion(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPromotion").(*promotionValidator.PromotionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var promotion models.Promotion
	if err := db.First(&promotion, commonValidator.ID(c, "id")).Error; err != nil {
		return middleware.ErrorResponse(c, notFound(err))
	}

	if reqData.PlaceID != nil && *reqData.PlaceID != promotion.PlaceID {
		if err := placeController.EnsureExists(db, *reqData.PlaceID); err != nil {
			return middleware.ErrorResponse(c, err)
		}
	}

	apply(&promotion, reqData)

	if promotion.ValidTo.Before(promotion.ValidFrom) {
		return middleware.ValidationErrorResponse(c, []rules.FieldError{
			{Field: "valid_to", Message: promotionValidator.ValidToMessage},
		})
	}

	if err := db.Save(&promotion).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Promotion updated successfully", promotion)
}

func DeletePromotion(c *fiber.Ctx) error {
	result := database.Database.Db.Delete(&models.Promotion{}, commonValidator.ID(c, "id"))
	if result.Error != nil {
		return middleware.ErrorResponse(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Promotion not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Promotion deleted successfully", nil)
}

func apply(promotion *models.Promotion, reqData *promotionValidator.PromotionRequest) {
	if reqData.PlaceID != nil {
		promotion.PlaceID = *reqData.PlaceID
	}
	if reqData.Title != nil {
		promotion.Title = *reqData.Title
	}
	if reqData.Description != nil {
		promotion.Description = *reqData.Description
	}
	if reqData.DiscountPercent != nil {
		promotion.DiscountPercent = *reqData.DiscountPercent
	}
	if reqData.ValidFrom != nil {
		promotion.ValidFrom = *reqData.ValidFrom
	}
	if reqData.ValidTo != nil {
		promotion.ValidTo = *reqData.ValidTo
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NewNotFoundError("Promotion not found!")
	}
	return err
}
