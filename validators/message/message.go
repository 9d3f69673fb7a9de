package messageValidator

import (
	"cityguide/middleware"
	"cityguide/utils"
	commonValidator "cityguide/validators/common"
	"cityguide/validators/rules"

	"github.com/gofiber/fiber/v2"
)

// MaxTextLength bounds texte and content
const MaxTextLength = 1000

type SendMessageRequest struct {
	RecipientID uint
	Text        string
}

type InboxRequest struct {
	utils.Page
	Unread bool
}

type MarkReadRequest struct {
	Read bool
}

// SendMessage validates {id_destinataire, texte}
func SendMessage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch, err := rules.FromBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		recipient := ch.Int("id_destinataire", "Recipient ID", rules.Required(), rules.Min(1))
		text := ch.String("texte", "Text", rules.Required(), rules.MaxLen(MaxTextLength))

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals("validatedMessage", &SendMessageRequest{
			RecipientID: uint(*recipient),
			Text:        *text,
		})
		return c.Next()
	}
}

func Inbox() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch := rules.FromQuery(c)
		reqData := &InboxRequest{
			Page:   commonValidator.PageFrom(ch),
			Unread: rules.Value(ch.Bool("unread", "Unread")),
		}

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		c.Locals("validatedInbox", reqData)
		return c.Next()
	}
}

// MarkRead validates the optional read flag, defaulting to true
func MarkRead() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch, err := rules.FromBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		read := ch.Bool("read", "Read")

		if ok, err := middleware.Validate(c, ch); !ok {
			return err
		}

		reqData := &MarkReadRequest{Read: true}
		if read != nil {
			reqData.Read = *read
		}

		c.Locals("validatedMarkRead", reqData)
		return c.Next()
	}
}
