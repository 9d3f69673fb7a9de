package messageValidator

import (
	"cityguide/middleware"
	"cityguide/validators/rules"

	"github.com/gofiber/fiber/v2"
)

type CreateSessionRequest struct {
	ParticipantID uint
}

type ChatMessageRequest struct {
	SessionID uint
	SenderID  uint
	Content   string
}

func CreateSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch, err := rules.FromBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		participant := ch.Int("participantId", "Participant ID", rules.Required(), rules.Min(1))

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals("validatedSession", &CreateSessionRequest{ParticipantID: uint(*participant)})
		return c.Next()
	}
}

// ChatMessage validates {sessionId, senderId, content}
func ChatMessage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch, err := rules.FromBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		session := ch.Int("sessionId", "Session ID", rules.Required(), rules.Min(1))
		sender := ch.Int("senderId", "Sender ID", rules.Required(), rules.Min(1))
		content := ch.String("content", "Content", rules.Required(), rules.MaxLen(MaxTextLength))

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals("validatedChatMessage", &ChatMessageRequest{
			SessionID: uint(*session),
			SenderID:  uint(*sender),
			Content:   *content,
		})
		return c.Next()
	}
}
