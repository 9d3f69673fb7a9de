package authController

import (
	"errors"
	"time"

	"cityguide/config"
	"cityguide/database"
	"cityguide/middleware"
	"cityguide/models"
	"cityguide/utils"
	authValidator "cityguide/validators/auth"
	commonValidator "cityguide/validators/common"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLogins  = 3
	blockDuration    = 1 * time.Minute
	failedLoginReset = 15 * time.Minute
)

func Register(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.RegisterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", reqData.Email).Count(&count).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.ErrorResponse(c, utils.NewInternalError("Failed to process your request!", err))
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	}
	if err := db.Create(&newUser).Error; err != nil {
		// the unique index catches a registration that raced the count above
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
		}
		return middleware.ErrorResponse(c, utils.NewInternalError("Failed to register user!", err))
	}

	token, err := middleware.GenerateJWT(&newUser)
	if err != nil {
		return middleware.ErrorResponse(c, utils.NewInternalError("Failed to generate token", err))
	}

	utils.SendWelcomeEmail(newUser.Email, newUser.Name)
	utils.Component("auth").Info().Uint("user_id", newUser.ID).Msg("user registered")

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", fiber.Map{
		"user":  newUser,
		"token": token,
	})
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	log := utils.Component("auth")

	var user models.User
	if err := db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
		}
		return middleware.ErrorResponse(c, err)
	}

	now := time.Now().UTC()

	// Check if the user is blocked
	if user.BlockedUntil != nil && user.BlockedUntil.After(now) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account is temporarily blocked. Try again later.", nil)
	}

	if user.LastFailedLogin != nil && now.Sub(*user.LastFailedLogin) > failedLoginReset {
		user.FailedLoginAttempts = 0
		user.LastFailedLogin = nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		user.FailedLoginAttempts++
		user.LastFailedLogin = &now

		// Block user after 3 failed attempts
		if user.FailedLoginAttempts >= maxFailedLogins {
			unblockTime := now.Add(blockDuration)
			user.BlockedUntil = &unblockTime
			user.FailedLoginAttempts = 0
			log.Warn().Uint("user_id", user.ID).Time("blocked_until", unblockTime).Msg("account blocked after failed logins")
		}

		if err := db.Save(&user).Error; err != nil {
			log.Error().Err(err).Uint("user_id", user.ID).Msg("failed to record failed login")
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	user.FailedLoginAttempts = 0
	user.LastFailedLogin = nil
	user.BlockedUntil = nil
	if err := db.Save(&user).Error; err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("failed to reset login counters")
	}

	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	}

	loginTracking := models.LoginTracking{
		UserID:    user.ID,
		IPAddress: ip,
		Device:    c.Get("User-Agent"),
		Timestamp: now,
	}
	if err := db.Create(&loginTracking).Error; err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("failed to save login tracking")
	}

	token, err := middleware.GenerateJWT(&user)
	if err != nil {
		return middleware.ErrorResponse(c, utils.NewInternalError("Failed to generate token", err))
	}

	log.Info().Uint("user_id", user.ID).Str("ip", ip).Msg("login")

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

func LoginHistoryList(c *fiber.Ctx) error {
	userId := middleware.CurrentUserID(c)
	page := commonValidator.PageOf(c)

	db := database.Database.Db

	var loginTracking []models.LoginTracking
	var total int64

	if err := db.Model(&models.LoginTracking{}).Where("user_id = ?", userId).Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if err := db.Where("user_id = ?", userId).
		Order("timestamp DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&loginTracking).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login History List.",
		utils.Paginated("login_history", loginTracking, total, page))
}
