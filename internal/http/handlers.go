package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/migcruzz/Ipma-Expert/internal/chat"
	"github.com/migcruzz/Ipma-Expert/internal/observability"
	"github.com/migcruzz/Ipma-Expert/internal/validation"
)

// ChatService handles one free-text message end to end.
type ChatService interface {
	HandleMessage(ctx context.Context, text string) (chat.Result, error)
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	chatService  ChatService
	logger       *zap.Logger
	maxMessage   int
	upstreamPing func(ctx context.Context) error
	shuttingDown atomic.Bool
}

// NewHandler returns a new Handler. upstreamPing, when set, is used by the
// health endpoint to check IPMA reachability.
func NewHandler(chatService ChatService, logger *zap.Logger, maxMessage int, upstreamPing func(ctx context.Context) error) *Handler {
	return &Handler{
		chatService:  chatService,
		logger:       logger,
		maxMessage:   maxMessage,
		upstreamPing: upstreamPing,
	}
}

// SetShuttingDown flips the drain flag reported by the health endpoint.
// Call when SIGTERM/SIGINT is received.
func (h *Handler) SetShuttingDown(v bool) {
	h.shuttingDown.Store(v)
}

// PostChat handles POST /chat. The message arrives as form field "mensagem".
// An empty message is a valid request answered with the canned apology.
func (h *Handler) PostChat(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_FORM", "could not parse form body")
		return
	}

	message, err := validation.ValidateMessage(r.PostFormValue("mensagem"), h.maxMessage)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_MESSAGE", err.Error())
		return
	}

	result, err := h.chatService.HandleMessage(r.Context(), message)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	if h.shuttingDown.Load() {
		writeJSON(w, http.StatusServiceUnavailable, healthBody("shutting-down", "unknown"))
		return
	}

	upstream := "healthy"
	status := "healthy"
	code := http.StatusOK
	if h.upstreamPing != nil {
		if err := h.upstreamPing(r.Context()); err != nil {
			upstream = "unhealthy"
			status = "degraded"
			code = http.StatusServiceUnavailable
			h.logger.Warn("health check: IPMA unreachable", zap.Error(err))
		}
	}
	writeJSON(w, code, healthBody(status, upstream))
}

func healthBody(status, upstream string) map[string]interface{} {
	return map[string]interface{}{
		"status":    status,
		"service":   "ipma-expert",
		"checks":    map[string]string{"ipma": upstream},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard envelope with code,
// message and requestId (correlation id) if available in request context.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": observability.CorrelationIDFromContext(r.Context()),
		},
	})
}

// writeServiceError maps pipeline failures to responses. Every pipeline error
// is an upstream fault (IPMA or the narrative backend); expected unresolved
// outcomes never reach here. Timeouts surface as 504.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if logger := observability.LoggerFromContext(r.Context()); logger != nil {
		logger.Debug("upstream error", zap.Error(err))
	}
	if errors.Is(err, context.DeadlineExceeded) {
		writeError(w, r, http.StatusGatewayTimeout, "REQUEST_TIMEOUT", "request timed out")
		return
	}
	writeError(w, r, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "Unable to answer right now")
}
