package leads

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/reluguard-site/internal/apierr"
	"github.com/wolfman30/reluguard-site/internal/notify"
	"github.com/wolfman30/reluguard-site/internal/observability/metrics"
	"github.com/wolfman30/reluguard-site/pkg/logging"
)

var leadTracer = otel.Tracer("reluguard.internal.leads")

// Delivery is the outcome of a notification attempt.
type Delivery string

const (
	DeliverySent    Delivery = "sent"
	DeliverySkipped Delivery = "skipped"
	DeliveryFailed  Delivery = "failed"
)

// Forwarder hands a validated lead on for follow-up. Implementations never fail
// the caller; the outcome is informational.
type Forwarder interface {
	Forward(ctx context.Context, lead Lead) Delivery
}

// EmailForwarder logs every lead and emails it to the sales inbox.
type EmailForwarder struct {
	sender  notify.EmailSender
	to      string
	logger  *logging.Logger
	metrics *metrics.SiteMetrics
}

// NewEmailForwarder creates a forwarder. A nil sender or empty recipient turns
// delivery off while still logging leads.
func NewEmailForwarder(sender notify.EmailSender, to string, logger *logging.Logger, m *metrics.SiteMetrics) *EmailForwarder {
	if logger == nil {
		logger = logging.Default()
	}
	return &EmailForwarder{
		sender:  sender,
		to:      to,
		logger:  logger.With("component", "leads.forwarder"),
		metrics: m,
	}
}

// Forward logs the lead and attempts delivery.
func (f *EmailForwarder) Forward(ctx context.Context, lead Lead) Delivery {
	ctx, span := leadTracer.Start(ctx, "leads.forward")
	defer span.End()

	f.logger.Info("lead captured",
		"email", lead.Email,
		"org_name", lead.OrgName,
		"role", lead.Role,
		"company_size", lead.CompanySize,
		"use_case", lead.UseCase,
		"answers", lead.Answers,
		"page", lead.Page,
		"ts", lead.Timestamp,
		"ip", lead.IP,
		"ua", lead.UserAgent,
	)

	delivery := f.deliver(ctx, lead)
	span.SetAttributes(attribute.String("reluguard.lead.delivery", string(delivery)))
	if delivery == DeliveryFailed {
		span.SetStatus(codes.Error, "lead notification failed")
	}
	f.metrics.ObserveNotification(string(delivery))
	return delivery
}

func (f *EmailForwarder) deliver(ctx context.Context, lead Lead) Delivery {
	if f.sender == nil || f.to == "" {
		f.logger.Warn("lead notification skipped: missing email credentials or LEAD_NOTIFY_TO")
		return DeliverySkipped
	}

	err := f.sender.Send(ctx, notify.EmailMessage{
		To:      f.to,
		Subject: Subject(lead),
		Body:    Body(lead),
	})
	if err != nil {
		f.logger.Warn("lead notification failed",
			"error", apierr.Truncate(err.Error(), apierr.MaxUpstreamDetail),
			"email", lead.Email,
		)
		return DeliveryFailed
	}
	return DeliverySent
}

var _ Forwarder = (*EmailForwarder)(nil)
