package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/eugenenazirov/ui-config/internal/uiconfig"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler serves a single immutable UI configuration snapshot.
type Handler struct {
	snapshot *uiconfig.Snapshot

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler for the provided snapshot.
func NewHandler(snapshot *uiconfig.Snapshot, opts ...HandlerOption) *Handler {
	h := &Handler{
		snapshot: snapshot,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	_ = r
	writeJSON(w, http.StatusOK, h.snapshot)
}

func (h *Handler) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	value, ok := h.snapshot.Value(key)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown setting", "no setting named "+key, "GET /api/config lists every setting")
		return
	}

	writeJSON(w, http.StatusOK, settingResponse{Key: key, Value: value})
}

func (h *Handler) handleEnvironment(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := environmentResponse{
		IsProduction:      h.snapshot.IsProduction(),
		IsReleaseBuild:    h.snapshot.Bool(uiconfig.KeyIsReleaseBuild),
		LogErrorsToSentry: h.snapshot.Bool(uiconfig.KeyLogErrorsToSentry),
		OverrideKeys:      h.snapshot.OverrideKeys(),
		CreatedAt:         h.snapshot.CreatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleConfigScript(w http.ResponseWriter, r *http.Request) {
	_ = r
	payload, err := json.Marshal(h.snapshot)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("window.dremioConfig = "))
	_, _ = w.Write(payload)
	_, _ = w.Write([]byte(";\n"))
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type settingResponse struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type environmentResponse struct {
	IsProduction      bool      `json:"isProduction"`
	IsReleaseBuild    bool      `json:"isReleaseBuild"`
	LogErrorsToSentry bool      `json:"logErrorsToSentry"`
	OverrideKeys      []string  `json:"overrideKeys"`
	CreatedAt         time.Time `json:"createdAt"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
