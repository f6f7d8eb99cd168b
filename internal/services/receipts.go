package services

import (
	"context"
	"fmt"
	"log/slog"

	"activitysignup/internal/domain"
)

type receiptService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewReceiptService returns a ReceiptService that uses the given Mailer and template renderer.
func NewReceiptService(logger *slog.Logger, mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.ReceiptService {
	return &receiptService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendSignupReceipt sends the "signup_receipt" email to the new participant.
func (s *receiptService) SendSignupReceipt(ctx context.Context, data *domain.ReceiptEmailData) error {
	return s.send(ctx, "signup_receipt", data)
}

// SendUnregisterReceipt sends the "unregister_receipt" email to the removed participant.
func (s *receiptService) SendUnregisterReceipt(ctx context.Context, data *domain.ReceiptEmailData) error {
	return s.send(ctx, "unregister_receipt", data)
}

func (s *receiptService) send(ctx context.Context, templateName string, data *domain.ReceiptEmailData) error {
	if data == nil {
		return fmt.Errorf("%s data is nil", templateName)
	}
	subject, htmlBody, textBody, err := s.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", templateName, err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", templateName, err)
	}
	s.logger.InfoContext(ctx, "receipt sent", "template", templateName, "activity", data.Activity)
	return nil
}
