package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/wolfman30/reluguard-site/pkg/logging"
)

// DefaultFromName is used when no sender display name is configured.
const DefaultFromName = "ReluGuard"

// EmailSender delivers one lead notification. NOTIFY_PROVIDER picks the
// implementation.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is a single outbound notification.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string
	HTML    string // optional
}

type sendGridAPI interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender delivers lead notifications through SendGrid.
type SendGridSender struct {
	client    sendGridAPI
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewSendGridSender returns nil without an API key.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = DefaultFromName
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

func (s *SendGridSender) message(msg EmailMessage) *mail.SGMailV3 {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)
	if msg.HTML == "" {
		return mail.NewSingleEmailPlainText(from, msg.Subject, to, msg.Body)
	}
	return mail.NewSingleEmail(from, msg.Subject, to, msg.Body, msg.HTML)
}

// Send hands the notification to SendGrid. Statuses of 400 and above come
// back as *StatusError.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.client == nil {
		return fmt.Errorf("notify: sendgrid sender has no client")
	}

	resp, err := s.client.SendWithContext(ctx, s.message(msg))
	if err != nil {
		return fmt.Errorf("notify: sendgrid unreachable: %w", err)
	}
	if resp.StatusCode >= 400 {
		return newStatusError("sendgrid", resp.StatusCode, resp.Body)
	}

	s.logger.Info("lead notification delivered", "provider", "sendgrid", "to", msg.To, "status", resp.StatusCode)
	return nil
}

// LogSender only records the notification in the log. NOTIFY_PROVIDER=log
// selects it for local development.
type LogSender struct {
	logger *logging.Logger
}

func NewLogSender(logger *logging.Logger) *LogSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg EmailMessage) error {
	s.logger.Info("lead notification not sent", "provider", "log", "to", msg.To, "subject", msg.Subject, "body_chars", len(msg.Body))
	return nil
}

var (
	_ EmailSender = (*SendGridSender)(nil)
	_ EmailSender = (*LogSender)(nil)
)
