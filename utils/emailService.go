package utils

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer delivers transactional HTML email
type Mailer interface {
	Send(ctx context.Context, toEmail, toName, subject, htmlBody string) error
}

// Mail is nil when SENDGRID_API_KEY is not configured; sends are then skipped
var Mail Mailer

// SendGridMailer sends through the SendGrid v3 API
type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridMailer(apiKey, fromEmail, fromName string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

func (m *SendGridMailer) Send(ctx context.Context, toEmail, toName, subject, htmlBody string) error {
	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail(toName, toEmail), subject, htmlBody)
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return NewExternalError("sendgrid request failed", err)
	}
	if resp.StatusCode >= 300 {
		return NewExternalError("sendgrid rejected message", fmt.Errorf("status %d: %s", resp.StatusCode, resp.Body))
	}
	return nil
}

// sendAsync delivers in the background; failures are logged only
func sendAsync(toEmail, toName, subject, htmlBody string) {
	mailer := Mail
	if mailer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		log := Component("email")
		if err := mailer.Send(ctx, toEmail, toName, subject, htmlBody); err != nil {
			log.Error().Err(err).Str("to", toEmail).Str("subject", subject).Msg("send failed")
			return
		}
		log.Debug().Str("to", toEmail).Str("subject", subject).Msg("sent")
	}()
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1F4E5F; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1F4E5F; line-height: 1.6; }
			.info-box { background: #E8F4F1; padding: 15px; border-radius: 4px; border-left: 4px solid #F2A541; margin: 20px 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>CITYGUIDE</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				You receive this email because you have a CityGuide account.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// SendWelcomeEmail greets a newly registered user
func SendWelcomeEmail(email, name string) {
	title := "Welcome to CityGuide"
	body := fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>Your account is ready. Discover places, events and promotions around you.</p>
	`, html.EscapeString(name))
	sendAsync(email, name, title, getEmailTemplate(title, body))
}

// ReservationEmail carries what the reservation confirmation shows
type ReservationEmail struct {
	Reference string
	PlaceName string
	Date      string
	StartTime string
	EndTime   string
	Guests    int
	Status    string
}

// SendReservationEmail confirms a reservation request or a status change
func SendReservationEmail(email, name string, r ReservationEmail) {
	title := "Your reservation at " + r.PlaceName
	body := fmt.Sprintf(`
		<p>Hello %s,</p>
		<div class="info-box">
			<strong>Reference:</strong> %s<br>
			<strong>Date:</strong> %s, %s to %s<br>
			<strong>Guests:</strong> %d<br>
			<strong>Status:</strong> %s
		</div>
	`,
		html.EscapeString(name),
		r.Reference,
		r.Date, r.StartTime, r.EndTime,
		r.Guests,
		r.Status,
	)
	sendAsync(email, name, title, getEmailTemplate(title, body))
}
