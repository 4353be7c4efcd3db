package mailer

import (
	"context"
	"errors"
	"fmt"

	mailjet "github.com/mailjet/mailjet-apiv3-go/v4"

	"github.com/TMS-2025/proposal-service/internal/config"
)

// Message is one outbound email.
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers transactional mail. Callers on the recovery path must not
// let a send failure change their response (see the forgot-password flow).
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ===== MAILJET =====

type mailjetSender struct {
	client *mailjet.Client
	cfg    config.MailjetConfig
}

// NewMailjetSender wires the Mailjet Send API v3.1.
func NewMailjetSender(cfg config.MailjetConfig) (Sender, error) {
	if cfg.APIKeyPublic == "" || cfg.APIKeyPrivate == "" {
		return nil, errors.New("mailjet api keys are required")
	}
	if cfg.SenderEmail == "" {
		return nil, errors.New("mailjet sender email is required")
	}
	return &mailjetSender{
		client: mailjet.NewMailjetClient(cfg.APIKeyPublic, cfg.APIKeyPrivate),
		cfg:    cfg,
	}, nil
}

func (s *mailjetSender) Send(_ context.Context, msg Message) error {
	toName := msg.ToName
	if toName == "" {
		toName = msg.ToEmail
	}

	messages := mailjet.MessagesV31{
		Info: []mailjet.InfoMessagesV31{
			{
				From: &mailjet.RecipientV31{
					Email: s.cfg.SenderEmail,
					Name:  s.cfg.SenderName,
				},
				To: &mailjet.RecipientsV31{
					{Email: msg.ToEmail, Name: toName},
				},
				Subject:  msg.Subject,
				TextPart: msg.Text,
				HTMLPart: msg.HTML,
			},
		},
	}

	if _, err := s.client.SendMailV31(&messages); err != nil {
		return fmt.Errorf("mailjet send failed: %w", err)
	}
	return nil
}

// ===== NOOP =====

// NoopSender is used when mail delivery is not configured (local
// development); the reset flow still works, the link just goes nowhere.
type NoopSender struct{}

func (NoopSender) Send(context.Context, Message) error { return nil }
