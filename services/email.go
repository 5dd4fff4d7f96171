package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"claim_flow_app_go/config"
	"claim_flow_app_go/models"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
	}
	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}
	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// SendEmailAsync sends an email asynchronously using a goroutine.
// Recommended in handlers to avoid blocking HTTP responses.
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}(cfg, emailCopy)
}

// logEmailToConsole logs email details in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (test mode - not actually sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n%s\n%s", email.TextBody, separator)
}

// BuildAppointmentScheduledEmail notifies the assigned assessor of a new
// site visit
func BuildAppointmentScheduledEmail(assessor *models.User, appointment *models.Appointment, assessmentNumber string) *Email {
	when := appointment.StartTime.Format(time.RFC1123)
	location := "to be confirmed"
	if appointment.Location != nil {
		location = *appointment.Location
	}

	text := fmt.Sprintf(
		"Hello %s,\n\nA site visit has been assigned to you.\n\nAppointment: %s\nAssessment: %s\nWhen: %s\nWhere: %s\n",
		assessor.Name, appointment.AppointmentNumber, assessmentNumber, when, location,
	)
	html := fmt.Sprintf(
		"<p>Hello %s,</p><p>A site visit has been assigned to you.</p><ul><li>Appointment: %s</li><li>Assessment: %s</li><li>When: %s</li><li>Where: %s</li></ul>",
		assessor.Name, appointment.AppointmentNumber, assessmentNumber, when, location,
	)

	return &Email{
		To:       []string{assessor.Email},
		Subject:  fmt.Sprintf("Site visit assigned: %s", appointment.AppointmentNumber),
		TextBody: text,
		HTMLBody: html,
	}
}

// BuildAppointmentCancelledEmail notifies the assigned assessor of a
// cancelled site visit
func BuildAppointmentCancelledEmail(assessor *models.User, appointment *models.Appointment, reason string) *Email {
	if reason == "" {
		reason = "No reason given"
	}

	text := fmt.Sprintf(
		"Hello %s,\n\nYour site visit %s has been cancelled.\nReason: %s\n",
		assessor.Name, appointment.AppointmentNumber, reason,
	)
	html := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your site visit <strong>%s</strong> has been cancelled.</p><p>Reason: %s</p>",
		assessor.Name, appointment.AppointmentNumber, reason,
	)

	return &Email{
		To:       []string{assessor.Email},
		Subject:  fmt.Sprintf("Site visit cancelled: %s", appointment.AppointmentNumber),
		TextBody: text,
		HTMLBody: html,
	}
}

// BuildRequestReceivedEmail confirms a claim submission to the claimant
func BuildRequestReceivedEmail(request *models.ClaimRequest) *Email {
	text := fmt.Sprintf(
		"Hello %s,\n\nYour damage claim has been received and assigned reference %s. We will be in touch once it has been reviewed.\n",
		request.ClaimantName, request.RequestNumber,
	)
	html := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your damage claim has been received and assigned reference <strong>%s</strong>. We will be in touch once it has been reviewed.</p>",
		request.ClaimantName, request.RequestNumber,
	)

	return &Email{
		To:       []string{request.ClaimantEmail},
		Subject:  fmt.Sprintf("Claim received: %s", request.RequestNumber),
		TextBody: text,
		HTMLBody: html,
	}
}
