package userController

import (
	"errors"

	"cityguide/config"
	placeController "cityguide/controllers/place"
	"cityguide/database"
	"cityguide/middleware"
	"cityguide/models"
	"cityguide/utils"
	commonValidator "cityguide/validators/common"
	userValidator "cityguide/validators/userValidator"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Me(c *fiber.Ctx) error {
	user, err := middleware.LoadUser(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User profile.", user)
}

func ListUsers(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUserList").(*userValidator.ListUsersRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	filter := func(tx *gorm.DB) *gorm.DB {
		if reqData.Search != "" {
			like := "%" + reqData.Search + "%"
			tx = tx.Where("name LIKE ? OR email LIKE ?", like, like)
		}
		return tx
	}

	var total int64
	if err := db.Model(&models.User{}).Scopes(filter).Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var users []models.User
	if err := db.Scopes(filter).Order("id ASC").
		Offset(reqData.Offset()).
		Limit(reqData.Limit).
		Find(&users).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users list fetched successfully",
		utils.Paginated("users", users, total, reqData.Page))
}

func GetUser(c *fiber.Ctx) error {
	id := commonValidator.ID(c, "id")

	var user models.User
	if err := database.Database.Db.First(&user, id).Error; err != nil {
		return middleware.ErrorResponse(c, notFound(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully", user.Public())
}

func UpdateUser(c *fiber.Ctx) error {
	id := commonValidator.ID(c, "id")
	reqData, ok := c.Locals("validatedUserUpdate").(*userValidator.UpdateUserRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if !middleware.IsSelfOrAdmin(c, id) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only update your own profile!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return middleware.ErrorResponse(c, notFound(err))
	}

	if reqData.Email != nil && *reqData.Email != user.Email {
		var count int64
		if err := db.Model(&models.User{}).Where("email = ? AND id <> ?", *reqData.Email, id).Count(&count).Error; err != nil {
			return middleware.ErrorResponse(c, err)
		}
		if count > 0 {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
		}
		user.Email = *reqData.Email
	}
	if reqData.Name != nil {
		user.Name = *reqData.Name
	}
	if reqData.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*reqData.Password), config.AppConfig.SaltRound)
		if err != nil {
			return middleware.ErrorResponse(c, utils.NewInternalError("Failed to process your request!", err))
		}
		user.Password = string(hashedPassword)
	}

	if err := db.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
		}
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully", user)
}

func UpdateRole(c *fiber.Ctx) error {
	id := commonValidator.ID(c, "id")
	reqData, ok := c.Locals("validatedRole").(*userValidator.UpdateRoleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return middleware.ErrorResponse(c, notFound(err))
	}

	if err := db.Model(&user).Update("role", reqData.Role).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	user.Role = reqData.Role

	utils.Component("users").Info().
		Uint("user_id", user.ID).
		Uint("by", middleware.CurrentUserID(c)).
		Str("role", reqData.Role).
		Msg("role changed")

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User role updated successfully", user)
}

func DeleteUser(c *fiber.Ctx) error {
	id := commonValidator.ID(c, "id")

	if !middleware.IsSelfOrAdmin(c, id) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only delete your own account!", nil)
	}

	result := database.Database.Db.Delete(&models.User{}, id)
	if result.Error != nil {
		return middleware.ErrorResponse(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	// the user's reviews go with them, so cached ratings are stale
	middleware.InvalidateCache(c.UserContext(), placeController.CachePrefix)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully", nil)
}

func UserReviews(c *fiber.Ctx) error {
	userId := commonValidator.ID(c, "userId")
	page := commonValidator.PageOf(c)

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, userId).Error; err != nil {
		return middleware.ErrorResponse(c, notFound(err))
	}

	var total int64
	if err := db.Model(&models.Review{}).Where("user_id = ?", userId).Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var reviews []models.Review
	if err := db.Preload("User").
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&reviews).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews list fetched successfully",
		utils.Paginated("reviews", models.ReviewViews(reviews), total, page))
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NewNotFoundError("User not found!")
	}
	return err
}
