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

// MessageEvent is the broker payload for message.sent
type MessageEvent struct {
	ID          uint      `json:"id"`
	SenderID    uint      `json:"sender_id"`
	RecipientID uint      `json:"recipient_id"`
	SessionID   *uint     `json:"session_id,omitempty"`
	SentAt      time.Time `json:"sent_at"`
}

func publishSent(m *models.Message) {
	utils.PublishAsync(utils.EventMessageSent, MessageEvent{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		SessionID:   m.SessionID,
		SentAt:      m.SentAt,
	})
}

func SendMessage(c *fiber.Ctx) error {
	userId := middleware.CurrentUserID(c)
	reqData, ok := c.Locals("validatedMessage").(*messageValidator.SendMessageRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.RecipientID == userId {
		return middleware.ValidationErrorResponse(c, []rules.FieldError{
			{Field: "id_destinataire", Message: "You cannot send a message to yourself"},
		})
	}

	db := database.Database.Db

	if err := ensureUser(db, reqData.RecipientID, "Recipient not found!"); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	message := models.Message{
		SenderID:    userId,
		RecipientID: reqData.RecipientID,
		Text:        reqData.Text,
		SentAt:      time.Now().UTC(),
	}
	if err := db.Create(&message).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	publishSent(&message)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Message sent successfully", message)
}

func Inbox(c *fiber.Ctx) error {
	userId := middleware.CurrentUserID(c)
	reqData, ok := c.Locals("validatedInbox").(*messageValidator.InboxRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	filter := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("recipient_id = ?", userId)
		if reqData.Unread {
			tx = tx.Where("is_read = ?", false)
		}
		return tx
	}

	var total int64
	if err := db.Model(&models.Message{}).Scopes(filter).Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var messages []models.Message
	if err := db.Scopes(filter).
		Order("sent_at DESC").
		Order("id DESC").
		Offset(reqData.Offset()).
		Limit(reqData.Limit).
		Find(&messages).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Messages list fetched successfully",
		utils.Paginated("messages", messages, total, reqData.Page))
}

func UnreadCount(c *fiber.Ctx) error {
	var count int64
	if err := database.Database.Db.Model(&models.Message{}).
		Where("recipient_id = ? AND is_read = ?", middleware.CurrentUserID(c), false).
		Count(&count).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unread messages count", fiber.Map{"unread": count})
}

// Conversation returns the messages exchanged with :userId, oldest first
func Conversation(c *fiber.Ctx) error {
	userId := middleware.CurrentUserID(c)
	otherId := commonValidator.ID(c, "userId")
	page := commonValidator.PageOf(c)

	db := database.Database.Db

	if err := ensureUser(db, otherId, "User not found!"); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	filter := func(tx *gorm.DB) *gorm.DB {
		return tx.Where(
			"(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userId, otherId, otherId, userId,
		)
	}

	var total int64
	if err := db.Model(&models.Message{}).Scopes(filter).Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var messages []models.Message
	if err := db.Scopes(filter).
		Order("sent_at ASC").
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&messages).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Conversation fetched successfully",
		utils.Paginated("messages", messages, total, page))
}

// MarkRead is restricted to the recipient
func MarkRead(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedMarkRead").(*messageValidator.MarkReadRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	message, err := loadMessage(db, commonValidator.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if message.RecipientID != middleware.CurrentUserID(c) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only the recipient can change the read status!", nil)
	}

	if err := db.Model(&models.Message{}).
		Where("id = ?", message.ID).
		Update("is_read", reqData.Read).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	message.Read = reqData.Read

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Message updated successfully", message)
}

// DeleteMessage is restricted to the sender
func DeleteMessage(c *fiber.Ctx) error {
	db := database.Database.Db

	message, err := loadMessage(db, commonValidator.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if message.SenderID != middleware.CurrentUserID(c) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only the sender can delete a message!", nil)
	}

	if err := db.Delete(&models.Message{}, message.ID).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Message deleted successfully", nil)
}

func loadMessage(db *gorm.DB, id uint) (*models.Message, error) {
	var message models.Message
	if err := db.First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("Message not found!")
		}
		return nil, err
	}
	return &message, nil
}

func ensureUser(db *gorm.DB, id uint, message string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.NewNotFoundError(message)
	}
	return nil
}
