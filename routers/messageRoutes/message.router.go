package messageRoutes

import (
	messageController "cityguide/controllers/message"
	"cityguide/middleware"
	commonValidator "cityguide/validators/common"
	messageValidator "cityguide/validators/message"

	"github.com/gofiber/fiber/v2"
)

func SetupMessageRoutes(app *fiber.App) {
	messageGroup := app.Group("/messages")
	messageID := commonValidator.ParamID("id", "ID")

	messageGroup.Post("/", messageValidator.SendMessage(), middleware.JWTMiddleware, messageController.SendMessage)
	messageGroup.Get("/", messageValidator.Inbox(), middleware.JWTMiddleware, messageController.Inbox)
	messageGroup.Get("/unread-count", middleware.JWTMiddleware, messageController.UnreadCount)
	messageGroup.Get("/conversation/:userId", commonValidator.ParamID("userId", "User ID"), commonValidator.Pagination(), middleware.JWTMiddleware, messageController.Conversation)
	messageGroup.Patch("/:id/read", messageID, messageValidator.MarkRead(), middleware.JWTMiddleware, messageController.MarkRead)
	messageGroup.Delete("/:id", messageID, middleware.JWTMiddleware, messageController.DeleteMessage)
}

func SetupChatRoutes(app *fiber.App) {
	chatGroup := app.Group("/chat")

	chatGroup.Post("/sessions", messageValidator.CreateSession(), middleware.JWTMiddleware, messageController.CreateSession)
	chatGroup.Get("/sessions", middleware.JWTMiddleware, messageController.ListSessions)
	chatGroup.Get("/sessions/:id/messages", commonValidator.ParamID("id", "ID"), commonValidator.Pagination(), middleware.JWTMiddleware, messageController.SessionMessages)
	chatGroup.Post("/messages", messageValidator.ChatMessage(), middleware.JWTMiddleware, messageController.PostChatMessage)
}
