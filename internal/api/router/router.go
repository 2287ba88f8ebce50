package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/reluguard-site/internal/apierr"
	"github.com/wolfman30/reluguard-site/internal/generate"
	httpmiddleware "github.com/wolfman30/reluguard-site/internal/http/middleware"
	"github.com/wolfman30/reluguard-site/internal/leads"
	"github.com/wolfman30/reluguard-site/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	LeadsHandler       *leads.Handler
	GenerateHandler    *generate.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Optional process-wide cap on /api/generate, requests per minute.
	GenerateRatePerMinute int

	// Optional directory of static site files served at /.
	StaticDir string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.Recover(cfg.Logger))
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		apierr.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Endpoints answer every method themselves (OPTIONS, 405 bodies).
	r.Route("/api", func(api chi.Router) {
		if cfg.LeadsHandler != nil {
			api.HandleFunc("/lead", cfg.LeadsHandler.Capture)
		}
		if cfg.GenerateHandler != nil {
			api.With(httpmiddleware.Throttle(cfg.GenerateRatePerMinute, burstFor(cfg.GenerateRatePerMinute))).
				HandleFunc("/generate", cfg.GenerateHandler.Generate)
		}
	})

	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}

func burstFor(perMinute int) int {
	if perMinute < 10 {
		return 1
	}
	return perMinute / 10
}
