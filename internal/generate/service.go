package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/reluguard-site/internal/apierr"
	"github.com/wolfman30/reluguard-site/internal/observability/metrics"
	"github.com/wolfman30/reluguard-site/pkg/logging"
)

var generateTracer = otel.Tracer("reluguard.internal.generate")

// ErrEmptyOutput is returned when the model answered without usable text.
var ErrEmptyOutput = apierr.New(apierr.KindEmptyOutput, "No output returned from model.")

// Service produces policy artefacts through a Completer.
type Service struct {
	completer  Completer
	credential string
	maxChars   int
	logger     *logging.Logger
	metrics    *metrics.SiteMetrics
}

// ServiceConfig wires a Service.
type ServiceConfig struct {
	Completer Completer
	// Credential names the setting reported when Completer is nil.
	Credential string
	MaxChars   int
	Logger     *logging.Logger
	Metrics    *metrics.SiteMetrics
}

// NewService creates a generation service. A nil Completer is allowed; every
// call then fails with a missing credentials error.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Credential == "" {
		cfg.Credential = "OPENAI_API_KEY"
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = DefaultMaxChars
	}
	return &Service{
		completer:  cfg.Completer,
		credential: cfg.Credential,
		maxChars:   cfg.MaxChars,
		logger:     cfg.Logger.With("component", "generate"),
		metrics:    cfg.Metrics,
	}
}

// Ready reports whether a provider is configured.
func (s *Service) Ready() error {
	if s == nil || s.completer == nil {
		name := "OPENAI_API_KEY"
		if s != nil {
			name = s.credential
		}
		return apierr.New(apierr.KindMissingCredentials, "Server missing "+name)
	}
	return nil
}

// MaxChars is the configured source text ceiling.
func (s *Service) MaxChars() int { return s.maxChars }

// MaxBodyBytes bounds the request body: four bytes per character of text plus
// room for the other fields and JSON escaping overhead.
func (s *Service) MaxBodyBytes() int64 { return int64(s.maxChars)*4 + 4096 }

// Generate returns the model's text verbatim.
func (s *Service) Generate(ctx context.Context, req Request) (string, error) {
	if err := s.Ready(); err != nil {
		return "", err
	}

	provider := s.completer.Provider()
	ctx, span := generateTracer.Start(ctx, "generate.policy")
	defer span.End()
	span.SetAttributes(
		attribute.String("reluguard.generate.provider", provider),
		attribute.String("reluguard.generate.task", req.Task),
		attribute.String("reluguard.generate.format", req.Format),
		attribute.Int("reluguard.generate.text_chars", len([]rune(req.Text))),
	)

	start := time.Now()
	out, err := s.completer.Complete(ctx, BuildPrompt(req))
	s.metrics.ObserveGenerateLatency(strings.ToLower(provider), time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")

		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			s.logger.Warn("generation upstream error", "provider", provider, "status", upstream.Status)
			s.metrics.ObserveGenerate("upstream_error")
			return "", apierr.Wrap(apierr.KindUpstream, fmt.Sprintf("%s error (%d)", upstream.Provider, upstream.Status), err).
				WithDetail(upstream.Body)
		}

		s.logger.Error("generation failed", "provider", provider, "error", err)
		s.metrics.ObserveGenerate("exception")
		return "", apierr.Wrap(apierr.KindUnexpected, "Server exception", err).
			WithDetail(apierr.Truncate(err.Error(), apierr.MaxExceptionDetail))
	}

	span.SetAttributes(attribute.String("reluguard.generate.output_kind", out.Kind.String()))
	if out.IsEmpty() {
		s.logger.Warn("generation returned no text", "provider", provider, "output_kind", out.Kind.String())
		s.metrics.ObserveGenerate("empty_output")
		return "", ErrEmptyOutput
	}

	s.metrics.ObserveGenerate("ok")
	return out.Text(), nil
}
