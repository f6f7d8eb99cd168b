package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ReceiptEmailData holds data for signup and removal receipts.
type ReceiptEmailData struct {
	Email    string
	Activity string
	Message  string
}

// ReceiptService sends participant receipts after successful mutations.
type ReceiptService interface {
	SendSignupReceipt(ctx context.Context, data *ReceiptEmailData) error
	SendUnregisterReceipt(ctx context.Context, data *ReceiptEmailData) error
}
