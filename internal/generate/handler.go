package generate

import (
	"context"
	"net/http"

	"github.com/wolfman30/reluguard-site/internal/apierr"
	"github.com/wolfman30/reluguard-site/internal/intake"
	"github.com/wolfman30/reluguard-site/pkg/logging"
)

// ErrUsePost is returned for anything but POST and OPTIONS.
var ErrUsePost = apierr.New(apierr.KindInvalidMethod, "Use POST")

type outputResponse struct {
	Output string `json:"output"`
}

// Handler serves the policy generation endpoint.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a generate handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Generate handles /api/generate.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("generate handler panic", "panic", rec)
			apierr.WriteStatus(w, http.StatusInternalServerError, "Server exception", "")
		}
	}()

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		apierr.Write(w, ErrUsePost)
		return
	}
	if err := h.service.Ready(); err != nil {
		apierr.Write(w, err)
		return
	}

	raw, err := intake.ReadBody(w, r, h.service.MaxBodyBytes())
	if err != nil {
		apierr.Write(w, err)
		return
	}
	fields, err := intake.Decode(raw)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	req, err := ParseRequest(fields, h.service.MaxChars())
	if err != nil {
		apierr.Write(w, err)
		return
	}

	output, err := h.service.Generate(context.WithoutCancel(r.Context()), req)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	apierr.WriteJSON(w, http.StatusOK, outputResponse{Output: output})
}
