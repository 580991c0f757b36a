// utils/email.go
package utils

import (
	"fmt"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"skillshare-api/models"
)

// Sender delivers a single HTML email
type Sender interface {
	Send(toEmail, subject, htmlContent string) error
}

// EmailOptions selects and configures the mail provider
type EmailOptions struct {
	Provider       string // "postmark", "sendgrid" or "" for log only
	PostmarkToken  string
	SendgridAPIKey string
	From           string
}

// NewSender returns the Sender for the configured provider
func NewSender(opts EmailOptions, logger *zap.Logger) Sender {
	switch opts.Provider {
	case "postmark":
		return &postmarkSender{client: postmark.NewClient(opts.PostmarkToken, ""), from: opts.From}
	case "sendgrid":
		return &sendgridSender{client: sendgrid.NewSendClient(opts.SendgridAPIKey), from: mail.NewEmail("SkillShare", opts.From)}
	default:
		return &logSender{logger: logger}
	}
}

type postmarkSender struct {
	client *postmark.Client
	from   string
}

func (s *postmarkSender) Send(toEmail, subject, htmlContent string) error {
	_, err := s.client.SendEmail(postmark.Email{
		From:     s.from,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("postmark: %w", err)
	}
	return nil
}

type sendgridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

func (s *sendgridSender) Send(toEmail, subject, htmlContent string) error {
	msg := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", toEmail), htmlContent, htmlContent)
	resp, err := s.client.Send(msg)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// logSender only records the message; used when no provider is configured
type logSender struct {
	logger *zap.Logger
}

func (s *logSender) Send(toEmail, subject, _ string) error {
	s.logger.Info("email not sent, no mail provider configured",
		zap.String("to", toEmail),
		zap.String("subject", subject))
	return nil
}

// EmailService sends the marketplace notifications
type EmailService struct {
	sender Sender
	logger *zap.Logger
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService(sender Sender, logger *zap.Logger) *EmailService {
	return &EmailService{sender: sender, logger: logger}
}

// SendEmail sends an email synchronously
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if err := es.sender.Send(toEmail, subject, htmlContent); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// sendAsync sends in the background; failures are logged, never returned
func (es *EmailService) sendAsync(toEmail, subject, htmlContent string) {
	if toEmail == "" {
		return
	}
	go func() {
		if err := es.SendEmail(toEmail, subject, htmlContent); err != nil {
			es.logger.Warn("notification failed",
				zap.String("to", toEmail),
				zap.String("subject", subject),
				zap.Error(err))
		}
	}()
}

// SendTeacherApprovedEmail tells an applicant they can now publish classes
func (es *EmailService) SendTeacherApprovedEmail(req models.TeacherRequest) {
	subject := "Your teacher request was approved"
	htmlContent := fmt.Sprintf(
		"<strong>Hi %s,</strong><br><br>Your request to teach on SkillShare has been approved. You can now add classes from your dashboard.",
		displayName(req.Name, req.Email),
	)
	es.sendAsync(req.Email, subject, htmlContent)
}

// SendTeacherRejectedEmail tells an applicant their request was declined
func (es *EmailService) SendTeacherRejectedEmail(req models.TeacherRequest) {
	subject := "Your teacher request was declined"
	htmlContent := fmt.Sprintf(
		"<strong>Hi %s,</strong><br><br>Unfortunately your request to teach on SkillShare was not approved. You are welcome to apply again.",
		displayName(req.Name, req.Email),
	)
	es.sendAsync(req.Email, subject, htmlContent)
}

// SendPaymentReceiptEmail confirms a recorded payment to the student
func (es *EmailService) SendPaymentReceiptEmail(payment models.Payment) {
	subject := "Payment received"
	htmlContent := fmt.Sprintf(
		"<strong>Thank you for your purchase!</strong><br><br>Class: <strong>%s</strong><br>Amount: <strong>$%.2f</strong><br>Transaction: <strong>%s</strong>",
		payment.ClassName,
		payment.Price,
		payment.TransactionID,
	)
	es.sendAsync(payment.Email, subject, htmlContent)
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
