package reviewController

import (
	"errors"

	placeController "cityguide/controllers/place"
	"cityguide/database"
	"cityguide/middleware"
	"cityguide/models"
	"cityguide/utils"
	commonValidator "cityguide/validators/common"
	reviewValidator "cityguide/validators/review"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func CreateReview(c *fiber.Ctx) error {
	userId := middleware.CurrentUserID(c)
	reqData, ok := c.Locals("validatedReview").(*reviewValidator.CreateReviewRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if err := placeController.EnsureExists(db, reqData.PlaceID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	// Check if user already reviewed this place
	var count int64
	if err := db.Model(&models.Review{}).
		Where("user_id = ? AND place_id = ?", userId, reqData.PlaceID).
		Count(&count).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already reviewed this place!", nil)
	}

	review := models.Review{
		UserID:  userId,
		PlaceID: reqData.PlaceID,
		Rating:  reqData.Rating,
		Comment: reqData.Comment,
	}
	if err := db.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already reviewed this place!", nil)
		}
		return middleware.ErrorResponse(c, err)
	}

	middleware.InvalidateCache(c.UserContext(), placeController.CachePrefix)

	if err := db.Preload("User").First(&review, review.ID).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review created successfully", review.View())
}

func GetReview(c *fiber.Ctx) error {
	var review models.Review
	if err := database.Database.Db.Preload("User").First(&review, commonValidator.ID(c, "id")).Error; err != nil {
		return middleware.ErrorResponse(c, notFound(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review fetched successfully", review.View())
}

func UpdateReview(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedReviewUpdate").(*reviewValidator.UpdateReviewRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var review models.Review
	if err := db.Preload("User").First(&review, commonValidator.ID(c, "id")).Error; err != nil {
		return middleware.ErrorResponse(c, notFound(err))
	}

	if review.UserID != middleware.CurrentUserID(c) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only update your own review!", nil)
	}

	updates := map[string]interface{}{}
	if reqData.Rating != nil {
		updates["rating"] = *reqData.Rating
		review.Rating = *reqData.Rating
	}
	if reqData.Comment != nil {
		updates["comment"] = *reqData.Comment
		review.Comment = *reqData.Comment
	}

	if err := db.Model(&models.Review{Base: models.Base{ID: review.ID}}).Updates(updates).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	middleware.InvalidateCache(c.UserContext(), placeController.CachePrefix)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review updated successfully", review.View())
}

func DeleteReview(c *fiber.Ctx) error {
	db := database.Database.Db

	var review models.Review
	if err := db.First(&review, commonValidator.ID(c, "id")).Error; err != nil {
		return middleware.ErrorResponse(c, notFound(err))
	}

	if !middleware.IsSelfOrAdmin(c, review.UserID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only delete your own review!", nil)
	}

	if err := db.Delete(&review).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	middleware.InvalidateCache(c.UserContext(), placeController.CachePrefix)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review deleted successfully", nil)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NewNotFoundError("Review not found!")
	}
	return err
}
