package services

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/mitrahse/vendorhr-api/internal/config"
	"github.com/mitrahse/vendorhr-api/pkg/logger"
	"github.com/resend/resend-go/v2"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

// emailSender is the part of the Resend client used here
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type EmailService struct {
	config *config.Config
	sender emailSender
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config: cfg,
		sender: client.Emails,
	}
}

// checkEmailPreconditions reports whether mail can be sent to recipients.
// Missing configuration is an error; an empty recipient list is a skip.
func (s *EmailService) checkEmailPreconditions(recipients []string, operation string) (bool, error) {
	if s.config.ResendAPIKey == "" {
		return false, fmt.Errorf("cannot %s: RESEND_API_KEY is not set", operation)
	}
	if s.config.FromEmail == "" {
		return false, fmt.Errorf("cannot %s: FROM_EMAIL is not set", operation)
	}
	if len(recipients) == 0 {
		logger.Warn("Skipping email, no recipients", "operation", operation)
		return false, nil
	}
	for _, r := range recipients {
		if !strings.Contains(r, "@") {
			return false, fmt.Errorf("cannot %s: invalid recipient %q", operation, r)
		}
	}
	return true, nil
}

// SendReminderDigest mails the contract and certificate digest
func (s *EmailService) SendReminderDigest(ctx context.Context, recipients []string, digest *ReminderDigest) error {
	ok, err := s.checkEmailPreconditions(recipients, "send reminder digest")
	if !ok {
		return err
	}

	body, err := s.renderTemplate("reminder_digest.html", digest)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Pengingat Kontrak & HSE: %d kontrak, %d sertifikat", digest.ContractCount(), digest.CertificateCount())
	return s.send(ctx, recipients, subject, body)
}

// SendTestEmail verifies the mail configuration
func (s *EmailService) SendTestEmail(ctx context.Context, to string) error {
	recipients := []string{to}
	ok, err := s.checkEmailPreconditions(recipients, "send test email")
	if !ok {
		if err == nil {
			err = errors.New("no recipient")
		}
		return err
	}

	body, err := s.renderTemplate("test.html", struct{ Recipient string }{Recipient: to})
	if err != nil {
		return err
	}
	return s.send(ctx, recipients, "Email uji coba VendorHR", body)
}

func (s *EmailService) send(ctx context.Context, to []string, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      to,
		Subject: subject,
		Html:    body,
	}
	if _, err := s.sender.SendWithContext(ctx, params); err != nil {
		logger.FromContext(ctx).Error("Failed to send email", "to", to, "subject", subject, "error", err)
		return err
	}
	logger.FromContext(ctx).Info("Email sent", "to", to, "subject", subject)
	return nil
}

func (s *EmailService) renderTemplate(name string, data any) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
