package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/checktree"
	"github.com/aretw0/checktree/internal/logging"
	"github.com/aretw0/checktree/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
)

//go:embed openapi.yaml
var rawSpec []byte

// Browser is the part of checktree.Browser the API serves.
type Browser interface {
	Rows() []checktree.Node
	Node(id domain.NodeID) (checktree.Node, error)
	Dispatch(ctx context.Context, ev domain.InputEvent) (bool, error)
	Toggle(ctx context.Context, id domain.NodeID) error
	SetChecked(ctx context.Context, id domain.NodeID, checked bool) error
	SetEnabled(id domain.NodeID, enable bool) error
	SetPreset(ctx context.Context, id domain.NodeID, category, name string) error
	SetFilter(filter string)
	Filter() string
	Snapshot() *domain.Snapshot
	Watch(ctx context.Context) (<-chan string, error)
}

// Server serves a Browser over JSON.
type Server struct {
	Browser Browser
	logger  *slog.Logger
	metrics http.Handler
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// Spec parses the embedded OpenAPI document.
func Spec() (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	return doc, nil
}

// NewHandler creates the HTTP handler. Requests for documented routes are
// validated against the OpenAPI document before they reach the browser.
func NewHandler(b Browser, opts ...Option) (http.Handler, error) {
	s := &Server{Browser: b, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	doc, err := Spec()
	if err != nil {
		return nil, err
	}
	validate, err := s.validator(doc)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(validate)
		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)
		r.Get("/tree", s.GetTree)
		r.Put("/filter", s.SetFilter)
		r.Get("/snapshot", s.GetSnapshot)
		r.Post("/events", s.DispatchEvent)
		r.Get("/watch", s.Watch)
		r.Get("/nodes/{id}", s.GetNode)
		r.Post("/nodes/{id}/toggle", s.ToggleNode)
		r.Put("/nodes/{id}/check", s.CheckNode)
		r.Put("/nodes/{id}/enabled", s.EnableNode)
		r.Put("/nodes/{id}/preset", s.SetPreset)
	})

	return enableCORS(r), nil
}

func (s *Server) validator(doc *openapi3.T) (func(http.Handler) http.Handler, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI router: %w", err)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, params, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			err = openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: params,
				Route:      route,
			})
			if err != nil {
				s.logger.Warn("request rejected", "path", r.URL.Path, "err", err)
				writeError(w, http.StatusBadRequest, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>checktree API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// TreeResponse is the body of GET /tree.
type TreeResponse struct {
	Filter string           `json:"filter"`
	Rows   []checktree.Node `json:"rows"`
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := Spec(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "checktree-http",
		"version":     strings.TrimSpace(checktree.Version),
		"api_version": apiVersion,
	})
}

// GetTree handles GET /tree.
func (s *Server) GetTree(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, TreeResponse{Filter: s.Browser.Filter(), Rows: s.Browser.Rows()})
}

// SetFilter handles PUT /filter.
func (s *Server) SetFilter(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Filter string `json:"filter"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	s.Browser.SetFilter(body.Filter)
	s.GetTree(w, r)
}

// GetSnapshot handles GET /snapshot.
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Browser.Snapshot())
}

// DispatchEvent handles POST /events.
func (s *Server) DispatchEvent(w http.ResponseWriter, r *http.Request) {
	var ev domain.InputEvent
	if !s.decode(w, r, &ev) {
		return
	}
	skip, err := s.Browser.Dispatch(r.Context(), ev)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"skip": skip})
}

// GetNode handles GET /nodes/{id}.
func (s *Server) GetNode(w http.ResponseWriter, r *http.Request) {
	s.respondNode(w, domain.NodeID(chi.URLParam(r, "id")))
}

// ToggleNode handles POST /nodes/{id}/toggle.
func (s *Server) ToggleNode(w http.ResponseWriter, r *http.Request) {
	id := domain.NodeID(chi.URLParam(r, "id"))
	if err := s.Browser.Toggle(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	s.respondNode(w, id)
}

// CheckNode handles PUT /nodes/{id}/check.
func (s *Server) CheckNode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Checked bool `json:"checked"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	id := domain.NodeID(chi.URLParam(r, "id"))
	if err := s.Browser.SetChecked(r.Context(), id, body.Checked); err != nil {
		s.fail(w, err)
		return
	}
	s.respondNode(w, id)
}

// EnableNode handles PUT /nodes/{id}/enabled.
func (s *Server) EnableNode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	id := domain.NodeID(chi.URLParam(r, "id"))
	if err := s.Browser.SetEnabled(id, body.Enabled); err != nil {
		s.fail(w, err)
		return
	}
	s.respondNode(w, id)
}

// SetPreset handles PUT /nodes/{id}/preset.
func (s *Server) SetPreset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Category string `json:"category"`
		Name     string `json:"name"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	id := domain.NodeID(chi.URLParam(r, "id"))
	if err := s.Browser.SetPreset(r.Context(), id, body.Category, body.Name); err != nil {
		s.fail(w, err)
		return
	}
	s.respondNode(w, id)
}

// Watch handles GET /watch (SSE): one event per changed pack document.
func (s *Server) Watch(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	events, err := s.Browser.Watch(r.Context())
	if err != nil {
		writeError(w, http.StatusNotImplemented, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case id, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", id)
			flusher.Flush()
		}
	}
}

func (s *Server) respondNode(w http.ResponseWriter, id domain.NodeID) {
	n, err := s.Browser.Node(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, n)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNodeNotFound), errors.Is(err, domain.ErrPackNotFound),
		errors.Is(err, domain.ErrPresetNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNodeDisabled), errors.Is(err, domain.ErrNotCommitted):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUnknownEvent):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeError(w, status, err)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
