package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Message struct {
	To        string
	Subject   string
	HTML      string
	PlainText string
}

// Sender delivers a single transactional email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SendGridSender delivers through the SendGrid v3 API.
type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridSender(apiKey, fromEmail, fromName string) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	to := mail.NewEmail("", msg.To)
	m := mail.NewSingleEmail(s.from, msg.Subject, to, msg.PlainText, msg.HTML)
	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// NoopSender stands in when no provider credentials are configured. It
// logs the subject and reports success.
type NoopSender struct{}

func (NoopSender) Send(_ context.Context, msg Message) error {
	log.Info().Str("component", "mailer").Str("to", msg.To).Str("subject", msg.Subject).
		Msg("email notification skipped (no API key)")
	return nil
}

// New picks the SendGrid sender when an API key is present, the no-op
// sender otherwise.
func New(apiKey, fromEmail, fromName string) Sender {
	if apiKey == "" {
		log.Warn().Str("component", "mailer").Msg("SENDGRID_API_KEY not set - email notifications will be disabled")
		return NoopSender{}
	}
	return NewSendGridSender(apiKey, fromEmail, fromName)
}
