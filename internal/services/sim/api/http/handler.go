// Package httpapi exposes the operations surface of a running session.
//
// The surface covers inspection, persistence control and the two
// player-initiated purchases (mission rewards and licenses). Gameplay events
// such as sales, restocking, experience grants, price changes and furniture
// placement come from the embedding program: it holds the *app.Session and
// applies them through Session.Do, which serializes them with the tick loop
// and these handlers.
//
// Saves requested here run with a context detached from the request, so a
// client disconnect or the route timeout never aborts a slot write.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apperrors "github.com/louisbranch/shelfsim/internal/platform/errors"
	"github.com/louisbranch/shelfsim/internal/platform/logging"
	"github.com/louisbranch/shelfsim/internal/services/sim/app"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Session is the part of app.Session the handlers use.
type Session interface {
	View() app.View
	Checkpoint(ctx context.Context, reason app.Reason) error
	Pause(ctx context.Context) error
	Resume()
	AdvanceMission() error
	PurchaseLicense(name string) error
}

// Handler serves the operations endpoints.
type Handler struct {
	session  Session
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

// New creates a Handler. A nil gatherer serves the default registry.
func New(session Session, gatherer prometheus.Gatherer, logger *zap.Logger) *Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handler{session: session, gatherer: gatherer, logger: logging.OrNop(logger)}
}

// Router builds the chi router with every route mounted.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	r.Route("/v1", func(r chi.Router) {
		r.Get("/state", h.handleState)
		r.Post("/checkpoint", h.handleCheckpoint)
		r.Post("/pause", h.handlePause)
		r.Post("/resume", h.handleResume)
		r.Post("/missions/advance", h.handleAdvanceMission)
		r.Post("/licenses/{name}/purchase", h.handlePurchaseLicense)
	})
	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.session.View())
}

func (h *Handler) handleCheckpoint(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Checkpoint(context.WithoutCancel(r.Context()), app.ReasonRequest); err != nil {
		h.writeError(w, r, "checkpoint", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handlePause(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Pause(context.WithoutCancel(r.Context())); err != nil {
		h.writeError(w, r, "pause", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleResume(w http.ResponseWriter, _ *http.Request) {
	h.session.Resume()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAdvanceMission(w http.ResponseWriter, r *http.Request) {
	if err := h.session.AdvanceMission(); err != nil {
		h.writeError(w, r, "advance mission", err)
		return
	}
	writeJSON(w, http.StatusOK, h.session.View())
}

func (h *Handler) handlePurchaseLicense(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.session.PurchaseLicense(name); err != nil {
		h.writeError(w, r, "purchase license", err)
		return
	}
	writeJSON(w, http.StatusOK, h.session.View())
}

type errorResponse struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	code := apperrors.GetCode(err)
	status := code.HTTPStatus()
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("code", string(code)),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
	} else {
		h.logger.Warn("request rejected", fields...)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
