package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/eugenenazirov/wpenv/internal/export"
	"github.com/eugenenazirov/wpenv/internal/wpconfig"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Constants is the read-only view of published constants the handler serves.
type Constants interface {
	Snapshot() map[string]any
	Lookup(name string) (any, bool)
}

// Installation describes the configured installation.
type Installation struct {
	BasePath   string
	PublicPath string
	Layout     string
}

// Handler serves the resolved configuration over HTTP.
type Handler struct {
	constants    Constants
	installation Installation

	clock      func() time.Time
	resolvedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(constants Constants, installation Installation, opts ...HandlerOption) *Handler {
	h := &Handler{
		constants:    constants,
		installation: installation,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.resolvedAt = h.clock()
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

func (h *Handler) handleGetConstants(w http.ResponseWriter, r *http.Request) {
	req := wpconfig.RequestFromHTTP(r)
	wpconfig.ApplyForwardedProto(req)

	resp := constantsResponse{
		BasePath:   h.installation.BasePath,
		PublicPath: h.installation.PublicPath,
		Layout:     h.installation.Layout,
		Constants:  h.constants.Snapshot(),
		Server:     req.Server,
		ResolvedAt: h.resolvedAt,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetConstant(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	value, ok := h.constants.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown constant", name+" is not defined")
		return
	}
	writeJSON(w, http.StatusOK, constantResponse{Name: name, Value: value})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(export.PHP)
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid format", err.Error(), "Use one of php, dotenv, json or yaml")
		return
	}

	var buf bytes.Buffer
	if err := export.Render(&buf, format, h.constants.Snapshot()); err != nil {
		if errors.Is(err, export.ErrUnknownFormat) {
			writeError(w, http.StatusBadRequest, "Invalid format", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type constantsResponse struct {
	BasePath   string            `json:"basePath"`
	PublicPath string            `json:"publicPath"`
	Layout     string            `json:"layout"`
	Constants  map[string]any    `json:"constants"`
	Server     map[string]string `json:"server"`
	ResolvedAt time.Time         `json:"resolvedAt"`
}

type constantResponse struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
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
