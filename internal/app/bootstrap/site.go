package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/reluguard-site/internal/api/router"
	appconfig "github.com/wolfman30/reluguard-site/internal/config"
	"github.com/wolfman30/reluguard-site/internal/generate"
	"github.com/wolfman30/reluguard-site/internal/leads"
	"github.com/wolfman30/reluguard-site/internal/notify"
	"github.com/wolfman30/reluguard-site/internal/observability/metrics"
	"github.com/wolfman30/reluguard-site/pkg/logging"
)

// Site is the assembled HTTP surface plus the resources it owns.
type Site struct {
	Handler http.Handler
	Redis   *redis.Client

	closers []func() error
}

// Close releases clients opened by BuildSite.
func (s *Site) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BuildSite wires configuration into the router used by both binaries.
func BuildSite(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*Site, error) {
	if logger == nil {
		logger = logging.Default()
	}
	site := &Site{}

	var (
		siteMetrics    *metrics.SiteMetrics
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		siteMetrics = metrics.NewSiteMetrics(reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	site.Redis = BuildRedisClient(ctx, cfg, logger, true)
	if site.Redis != nil {
		site.closers = append(site.closers, site.Redis.Close)
	}
	limiter := BuildLeadLimiter(ctx, cfg, site.Redis, logger, siteMetrics)

	sender, err := BuildEmailSender(ctx, cfg, logger)
	if err != nil {
		_ = site.Close()
		return nil, err
	}
	forwarder := leads.NewEmailForwarder(sender, cfg.LeadNotifyTo, logger, siteMetrics)

	completer, credential, err := BuildCompleter(ctx, cfg, logger)
	if err != nil {
		_ = site.Close()
		return nil, err
	}
	if closer, ok := completer.(interface{ Close() error }); ok {
		site.closers = append(site.closers, closer.Close)
	}
	service := generate.NewService(generate.ServiceConfig{
		Completer:  completer,
		Credential: credential,
		MaxChars:   cfg.MaxChars,
		Logger:     logger,
		Metrics:    siteMetrics,
	})

	site.Handler = router.New(&router.Config{
		Logger: logger,
		LeadsHandler: leads.NewHandler(leads.HandlerConfig{
			Limiter:      limiter,
			Forwarder:    forwarder,
			MaxBodyBytes: cfg.LeadMaxBodyBytes,
			Logger:       logger,
			Metrics:      siteMetrics,
		}),
		GenerateHandler:       generate.NewHandler(service, logger),
		MetricsHandler:        metricsHandler,
		CORSAllowedOrigins:    cfg.CORSAllowedOrigins,
		GenerateRatePerMinute: cfg.GenerateRatePerMinute,
		StaticDir:             cfg.StaticDir,
	})
	return site, nil
}

// BuildEmailSender returns the sender for NOTIFY_PROVIDER, or nil when the
// provider has no credentials (leads are then logged only).
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (notify.EmailSender, error) {
	switch provider := strings.ToLower(strings.TrimSpace(cfg.NotifyProvider)); provider {
	case "", "resend":
		sender := notify.NewResendSender(notify.ResendConfig{
			APIKey:     cfg.ResendAPIKey,
			BaseURL:    cfg.ResendBaseURL,
			FromEmail:  cfg.LeadNotifyFrom,
			HTTPClient: upstreamHTTPClient(cfg),
		}, logger)
		if sender == nil {
			return nil, nil
		}
		return sender, nil
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.LeadNotifyFrom,
			FromName:  cfg.LeadNotifyFromName,
		}, logger)
		if sender == nil {
			return nil, nil
		}
		return sender, nil
	case "ses":
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load aws config for ses: %w", err)
		}
		return notify.NewSESSender(NewSESClient(awsCfg, cfg), notify.SESConfig{
			FromEmail: cfg.LeadNotifyFrom,
			FromName:  cfg.LeadNotifyFromName,
		}, logger), nil
	case "log":
		return notify.NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown NOTIFY_PROVIDER %q", provider)
	}
}

// BuildCompleter returns the model client for GENERATE_PROVIDER and the name of
// the setting that is missing when the client is nil.
func BuildCompleter(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (generate.Completer, string, error) {
	if logger == nil {
		logger = logging.Default()
	}
	switch provider := strings.ToLower(strings.TrimSpace(cfg.GenerateProvider)); provider {
	case "", "openai":
		client := generate.NewOpenAIClient(generate.OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.OpenAIModel,
			BaseURL:    cfg.OpenAIBaseURL,
			HTTPClient: upstreamHTTPClient(cfg),
		})
		if client == nil {
			logger.Warn("OPENAI_API_KEY not set, /api/generate will return 500")
			return nil, "OPENAI_API_KEY", nil
		}
		return client, "OPENAI_API_KEY", nil
	case "bedrock":
		if strings.TrimSpace(cfg.BedrockModelID) == "" {
			logger.Warn("BEDROCK_MODEL_ID not set, /api/generate will return 500")
			return nil, "BEDROCK_MODEL_ID", nil
		}
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("bootstrap: load aws config for bedrock: %w", err)
		}
		return generate.NewBedrockClient(NewBedrockRuntimeClient(awsCfg, cfg), cfg.BedrockModelID), "BEDROCK_MODEL_ID", nil
	case "gemini":
		client, err := generate.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, "", err
		}
		if client == nil {
			logger.Warn("GEMINI_API_KEY not set, /api/generate will return 500")
			return nil, "GEMINI_API_KEY", nil
		}
		return client, "GEMINI_API_KEY", nil
	default:
		return nil, "", fmt.Errorf("bootstrap: unknown GENERATE_PROVIDER %q", provider)
	}
}

func upstreamHTTPClient(cfg *appconfig.Config) *http.Client {
	return &http.Client{Timeout: cfg.UpstreamTimeout}
}
