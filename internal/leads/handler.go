package leads

import (
	"context"
	"net/http"
	"time"

	"github.com/wolfman30/reluguard-site/internal/apierr"
	"github.com/wolfman30/reluguard-site/internal/intake"
	"github.com/wolfman30/reluguard-site/internal/observability/metrics"
	"github.com/wolfman30/reluguard-site/internal/ratelimit"
	"github.com/wolfman30/reluguard-site/pkg/logging"
)

// DefaultMaxBodyBytes is the lead payload ceiling.
const DefaultMaxBodyBytes int64 = 20000

type okResponse struct {
	OK bool `json:"ok"`
}

// Handler serves the lead capture endpoint.
type Handler struct {
	limiter      ratelimit.Limiter
	forwarder    Forwarder
	maxBodyBytes int64
	now          func() time.Time
	logger       *logging.Logger
	metrics      *metrics.SiteMetrics
}

// HandlerConfig wires the handler's collaborators.
type HandlerConfig struct {
	Limiter      ratelimit.Limiter
	Forwarder    Forwarder
	MaxBodyBytes int64
	Now          func() time.Time
	Logger       *logging.Logger
	Metrics      *metrics.SiteMetrics
}

// NewHandler creates a lead handler. Without a limiter, the default in-memory
// store is used.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Limiter == nil {
		cfg.Limiter = ratelimit.NewMemoryStore(ratelimit.DefaultConfig())
	}
	if cfg.Forwarder == nil {
		cfg.Forwarder = NewEmailForwarder(nil, "", cfg.Logger, cfg.Metrics)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Handler{
		limiter:      cfg.Limiter,
		forwarder:    cfg.Forwarder,
		maxBodyBytes: cfg.MaxBodyBytes,
		now:          cfg.Now,
		logger:       cfg.Logger.With("component", "leads"),
		metrics:      cfg.Metrics,
	}
}

// Capture handles /api/lead.
func (h *Handler) Capture(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Warn("lead handler panic", "panic", rec)
			h.metrics.ObserveLead("error")
			apierr.WriteStatus(w, http.StatusBadRequest, "Bad request", "")
		}
	}()

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		h.reject(w, ErrMethodNotAllowed)
		return
	}

	raw, err := intake.ReadBody(w, r, h.maxBodyBytes)
	if err != nil {
		h.reject(w, err)
		return
	}
	fields, err := intake.Decode(raw)
	if err != nil {
		h.reject(w, err)
		return
	}

	// Bots fill the hidden field; answer exactly like a real success.
	if intake.Filled(fields.Value("website")) {
		h.metrics.ObserveLead("honeypot")
		apierr.WriteJSON(w, http.StatusOK, okResponse{OK: true})
		return
	}

	if !ValidEmail(fields.String("email", MaxEmail)) {
		h.reject(w, ErrInvalidEmail)
		return
	}

	ip := ratelimit.ClientKey(r)
	ctx := context.WithoutCancel(r.Context())
	if !h.limiter.Admit(ctx, "lead:"+ip) {
		h.reject(w, ErrTooManyRequests)
		return
	}

	lead := BuildLead(fields, ip, r.UserAgent(), h.now())
	h.forwarder.Forward(ctx, lead)

	h.metrics.ObserveLead("accepted")
	apierr.WriteJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *Handler) reject(w http.ResponseWriter, err error) {
	h.metrics.ObserveLead(string(apierr.KindOf(err)))
	apierr.Write(w, err)
}
