package middleware

import (
	"errors"

	"cityguide/database"
	"cityguide/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LoadUser fetches the authenticated user once per request
func LoadUser(c *fiber.Ctx) (*models.User, error) {
	if user, ok := c.Locals("user").(*models.User); ok {
		return user, nil
	}

	userID := CurrentUserID(c)
	if userID == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	c.Locals("user", &user)
	return &user, nil
}

// RequireRole allows the request through only when the stored role matches. The role is
// read from the database, not the token, so demotions apply immediately.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		user, err := LoadUser(c)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: user not found", nil)
			}
			return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while checking permissions!", nil)
		}

		if _, ok := allowed[user.Role]; !ok {
			return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
		}

		return c.Next()
	}
}

// AdminOnly restricts a route to administrators
var AdminOnly = RequireRole(models.RoleAdmin)

// IsAdmin reports whether the authenticated user is an administrator
func IsAdmin(c *fiber.Ctx) bool {
	user, err := LoadUser(c)
	return err == nil && user.IsAdmin()
}

// IsSelfOrAdmin reports whether the caller is ownerID or an administrator
func IsSelfOrAdmin(c *fiber.Ctx, ownerID uint) bool {
	return CurrentUserID(c) == ownerID || IsAdmin(c)
}
