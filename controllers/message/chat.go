package messageController

import (
	"errors"
	"time"

	"cityguide/database"
	"cityguide/middleware"
	"cityguide/models"
	"cityguide/utils"
	commonValidator "cityguide/validators/common"
	messageValidator "cityguide/validators/message"
	"cityguide/validators/rules"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateSession returns the session for the caller and participantId, creating it on first use
func CreateSession(c *fiber.Ctx) error {
	userId := middleware.CurrentUserID(c)
	reqData, ok := c.Locals("validatedSession").(*messageValidator.CreateSessionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.ParticipantID == userId {
		return middleware.ValidationErrorResponse(c, []rules.FieldError{
			{Field: "participantId", Message: "You cannot open a chat with yourself"},
		})
	}

	db := database.Database.Db

	if err := ensureUser(db, reqData.ParticipantID, "Participant not found!"); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	a, b := models.OrderedPair(userId, reqData.ParticipantID)

	session, err := findSession(db, a, b)
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Chat session already exists", session.ViewFor(userId))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.ErrorResponse(c, err)
	}

	if err := db.Create(&models.ChatSession{UserAID: a, UserBID: b}).Error; err != nil {
		// a concurrent request may have created the pair first
		if existing, findErr := findSession(db, a, b); findErr == nil {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Chat session already exists", existing.ViewFor(userId))
		}
		return middleware.ErrorResponse(c, err)
	}

	session, err = findSession(db, a, b)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Chat session created successfully", session.ViewFor(userId))
}

func ListSessions(c *fiber.Ctx) error {
	userId := middleware.CurrentUserID(c)

	var sessions []models.ChatSession
	if err := database.Database.Db.
		Preload("UserA").
		Preload("UserB").
		Where("user_a_id = ? OR user_b_id = ?", userId, userId).
		Order("updated_at DESC").
		Find(&sessions).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	views := make([]models.ChatSessionView, 0, len(sessions))
	for i := range sessions {
		views = append(views, sessions[i].ViewFor(userId))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chat sessions fetched successfully", fiber.Map{"sessions": views})
}

// SessionMessages lists a session's messages, oldest first, for its participants
func SessionMessages(c *fiber.Ctx) error {
	page := commonValidator.PageOf(c)
	db := database.Database.Db

	session, err := loadParticipantSession(c, db, commonValidator.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var total int64
	if err := db.Model(&models.Message{}).Where("session_id = ?", session.ID).Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var messages []models.Message
	if err := db.Where("session_id = ?", session.ID).
		Order("sent_at ASC").
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&messages).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chat messages fetched successfully",
		utils.Paginated("messages", messages, total, page))
}

// PostChatMessage stores content from senderId to the other participant of sessionId
func PostChatMessage(c *fiber.Ctx) error {
	userId := middleware.CurrentUserID(c)
	reqData, ok := c.Locals("validatedChatMessage").(*messageValidator.ChatMessageRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.SenderID != userId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only send messages as yourself!", nil)
	}

	db := database.Database.Db

	session, err := loadParticipantSession(c, db, reqData.SessionID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	sessionID := session.ID
	message := models.Message{
		SenderID:    userId,
		RecipientID: session.Other(userId),
		SessionID:   &sessionID,
		Text:        reqData.Content,
		SentAt:      time.Now().UTC(),
	}
	if err := db.Create(&message).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if err := db.Model(&models.ChatSession{}).
		Where("id = ?", session.ID).
		Update("updated_at", message.SentAt).Error; err != nil {
		utils.Component("chat").Warn().Err(err).Uint("session_id", session.ID).Msg("failed to touch session")
	}

	publishSent(&message)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Message sent successfully", message)
}

func findSession(db *gorm.DB, a, b uint) (*models.ChatSession, error) {
	var session models.ChatSession
	if err := db.Preload("UserA").
		Preload("UserB").
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// loadParticipantSession returns 404 for a missing session and 403 for outsiders
func loadParticipantSession(c *fiber.Ctx, db *gorm.DB, id uint) (*models.ChatSession, error) {
	var session models.ChatSession
	if err := db.First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("Chat session not found!")
		}
		return nil, err
	}

	if !session.Includes(middleware.CurrentUserID(c)) {
		return nil, utils.NewForbiddenError("You are not a participant of this chat session!")
	}
	return &session, nil
}
