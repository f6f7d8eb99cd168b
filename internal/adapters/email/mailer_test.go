package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewMailer_Providers(t *testing.T) {
	logger := discardLogger()

	m, err := NewMailer(MailerConfig{Provider: "noop"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)

	m, err = NewMailer(MailerConfig{Provider: "carrier-pigeon"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)

	_, err = NewMailer(MailerConfig{Provider: "ses"}, logger)
	require.Error(t, err)

	m, err = NewMailer(MailerConfig{
		Provider:    "ses",
		FromAddress: "activities@example.com",
		SES:         SESConfig{Region: "eu-west-1", AccessKeyID: "AKID", SecretAccessKey: "secret"},
	}, logger)
	require.NoError(t, err)
	assert.IsType(t, &sesMailer{}, m)
}

func TestSESMailer_Send(t *testing.T) {
	fake := &fakeSES{}
	m := &sesMailer{client: fake, fromAddress: "activities@example.com", fromName: "Activities", logger: discardLogger()}

	err := m.Send(context.Background(), "emma@mergington.edu", "Subject", "<p>hi</p>", "hi")
	require.NoError(t, err)
	require.NotNil(t, fake.input)
	assert.Equal(t, "Activities <activities@example.com>", aws.ToString(fake.input.Source))
	assert.Equal(t, []string{"emma@mergington.edu"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, "Subject", aws.ToString(fake.input.Message.Subject.Data))
	assert.Equal(t, "<p>hi</p>", aws.ToString(fake.input.Message.Body.Html.Data))
	assert.Equal(t, "hi", aws.ToString(fake.input.Message.Body.Text.Data))
}

func TestSESMailer_SendTextOnly(t *testing.T) {
	fake := &fakeSES{}
	m := &sesMailer{client: fake, fromAddress: "activities@example.com", logger: discardLogger()}

	require.NoError(t, m.Send(context.Background(), "a@b.co", "S", "", "plain"))
	assert.Equal(t, "activities@example.com", aws.ToString(fake.input.Source))
	assert.Nil(t, fake.input.Message.Body.Html)
}

func TestSESMailer_SendError(t *testing.T) {
	fake := &fakeSES{err: errors.New("throttled")}
	m := &sesMailer{client: fake, fromAddress: "activities@example.com", logger: discardLogger()}

	err := m.Send(context.Background(), "a@b.co", "S", "h", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}
