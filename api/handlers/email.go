package handlers

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/miralles/wedding-rsvp-api/config"
	"github.com/miralles/wedding-rsvp-api/models"
	templates "github.com/miralles/wedding-rsvp-api/templates/html"
)

// sendEmail sends an email using SendGrid. A missing API key downgrades to a
// log line so local development works without an account.
func sendEmail(conf *config.Config, toEmail, toName, subject, htmlContent, plainText string) error {
	if conf == nil || conf.SendgridAPIKey == "" {
		zap.S().Infow("sendgrid not configured, skipping email", "to", toEmail, "subject", subject)
		return nil
	}
	from := mail.NewEmail(conf.EventName, conf.OwnerEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(conf.SendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		zap.S().Errorw("failed to send email", "error", err, "to", toEmail)
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", toEmail)
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	zap.S().Infow("email sent successfully", "to", toEmail, "subject", subject)
	return nil
}

// sendRSVPConfirmationEmail sends the guest-facing confirmation after an
// RSVP is recorded. Failures are logged and swallowed; the RSVP is already
// committed and must not look failed to the guest.
func sendRSVPConfirmationEmail(conf *config.Config, rsvp *models.RSVP) {
	if rsvp == nil || rsvp.Email == "" {
		return
	}
	eventName := "Our Wedding"
	if conf != nil && conf.EventName != "" {
		eventName = conf.EventName
	}

	subject := fmt.Sprintf("RSVP Received - %s", eventName)
	htmlContent := templates.RenderRSVPConfirmationEmail(eventName, rsvp.Name, rsvp.GuestsCount, rsvp.Attending())
	plainText := fmt.Sprintf("Hi %s, thank you for your RSVP. We have reserved %d seat(s) in your name.", rsvp.Name, rsvp.GuestsCount)
	if !rsvp.Attending() {
		plainText = fmt.Sprintf("Hi %s, thank you for letting us know you cannot make it. You will be missed!", rsvp.Name)
	}

	if err := sendEmail(conf, rsvp.Email, rsvp.Name, subject, htmlContent, plainText); err != nil {
		zap.S().Warnw("rsvp confirmation email failed", "error", err, "rsvp", rsvp.ID.Hex())
	}
}
