package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/wolfman30/reluguard-site/pkg/logging"
)

// DefaultResendBaseURL is the public Resend API.
const DefaultResendBaseURL = "https://api.resend.com"

// ResendSender delivers lead notifications through the Resend API.
type ResendSender struct {
	client    *resend.Client
	fromEmail string
	logger    *logging.Logger
}

// ResendConfig holds configuration for Resend.
type ResendConfig struct {
	APIKey     string
	BaseURL    string
	FromEmail  string
	HTTPClient *http.Client
}

// NewResendSender creates a Resend sender, or nil without an API key or
// with an unparseable base URL.
func NewResendSender(cfg ResendConfig, logger *logging.Logger) *ResendSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultResendBaseURL
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	if err != nil {
		logger.Error("invalid resend base url", "base_url", cfg.BaseURL, "error", err)
		return nil
	}

	var hc http.Client
	if cfg.HTTPClient != nil {
		hc = *cfg.HTTPClient
	}
	next := hc.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	hc.Transport = statusRecorder{next: next}

	client := resend.NewCustomClient(&hc, cfg.APIKey)
	client.BaseURL = base
	return &ResendSender{
		client:    client,
		fromEmail: cfg.FromEmail,
		logger:    logger,
	}
}

// Send delivers the message through Resend.
func (s *ResendSender) Send(ctx context.Context, msg EmailMessage) error {
	status := new(int)
	ctx = context.WithValue(ctx, statusKey{}, status)

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Body,
		Html:    msg.HTML,
	})
	if err != nil {
		if *status >= 300 {
			return newStatusError("resend", *status, err.Error())
		}
		return fmt.Errorf("notify: resend send failed: %w", err)
	}

	s.logger.Info("lead notification delivered", "provider", "resend", "to", msg.To, "message_id", sent.Id)
	return nil
}

type statusKey struct{}

// statusRecorder stores the upstream status code in the request context so a
// rejected send can be reported as a StatusError.
type statusRecorder struct {
	next http.RoundTripper
}

func (t statusRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if resp != nil {
		if status, ok := req.Context().Value(statusKey{}).(*int); ok {
			*status = resp.StatusCode
		}
	}
	return resp, err
}

var _ EmailSender = (*ResendSender)(nil)
