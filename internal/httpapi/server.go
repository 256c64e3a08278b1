// Package httpapi exposes the platform over HTTP: listing search and
// submission, the chat assistant, identity document extraction, and a
// websocket endpoint for voice capture.
//
// Routing uses Go 1.22 method patterns on the standard mux. Every handler
// writes JSON; errors carry a single "error" field so the web client can
// display them verbatim.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/akwaba-labs/djobi/internal/chat"
	"github.com/akwaba-labs/djobi/internal/health"
	"github.com/akwaba-labs/djobi/internal/job"
	"github.com/akwaba-labs/djobi/internal/observe"
	"github.com/akwaba-labs/djobi/internal/search"
	"github.com/akwaba-labs/djobi/pkg/provider/ocr"
	"github.com/akwaba-labs/djobi/pkg/provider/stt"
)

// Server holds the handler dependencies. Optional components left nil make
// their endpoints answer 503 instead of panicking, so a partially configured
// deployment (no LLM key, no STT) still serves the rest of the API.
type Server struct {
	store     job.Store
	pipeline  *search.Pipeline
	assistant *chat.Assistant
	ocr       ocr.Provider
	sttProv   stt.Provider
	health    *health.Handler
	metrics   *observe.Metrics

	silenceTimeout time.Duration
	sampleRate     int
}

// ServerOption configures a [Server].
type ServerOption func(*Server)

// WithSearch wires the search pipeline behind GET /api/jobs.
func WithSearch(p *search.Pipeline) ServerOption {
	return func(s *Server) { s.pipeline = p }
}

// WithAssistant wires the chat assistant behind POST /api/chat.
func WithAssistant(a *chat.Assistant) ServerOption {
	return func(s *Server) { s.assistant = a }
}

// WithOCR wires the document extraction provider behind /api/identity.
func WithOCR(p ocr.Provider) ServerOption {
	return func(s *Server) { s.ocr = p }
}

// WithSTT wires the speech provider behind GET /api/voice.
func WithSTT(p stt.Provider) ServerOption {
	return func(s *Server) { s.sttProv = p }
}

// WithHealth mounts the health endpoints.
func WithHealth(h *health.Handler) ServerOption {
	return func(s *Server) { s.health = h }
}

// WithVoiceSettings sets the silence timeout and sample rate handed to voice
// sessions.
func WithVoiceSettings(silenceTimeout time.Duration, sampleRate int) ServerOption {
	return func(s *Server) {
		s.silenceTimeout = silenceTimeout
		s.sampleRate = sampleRate
	}
}

// WithServerMetrics records HTTP metrics on m instead of the default
// instrument set.
func WithServerMetrics(m *observe.Metrics) ServerOption {
	return func(s *Server) { s.metrics = m }
}

// NewServer creates the API server over store.
func NewServer(store job.Store, opts ...ServerOption) *Server {
	s := &Server{
		store:          store,
		silenceTimeout: 5 * time.Second,
		sampleRate:     16000,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	if s.pipeline == nil {
		s.pipeline = search.NewPipeline(store)
	}
	return s
}

// Handler returns the routed handler wrapped in the observability middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/jobs", s.handleListJobs)
	mux.HandleFunc("POST /api/jobs", s.handleCreateJob)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/identity/extract", s.handleIdentityExtract)
	mux.HandleFunc("POST /api/identity/validate", s.handleIdentityValidate)
	mux.HandleFunc("GET /api/voice", s.handleVoice)
	mux.HandleFunc("GET /api/languages", s.handleLanguages)

	if s.health != nil {
		s.health.Register(mux)
	}

	return observe.Middleware(s.metrics)(mux)
}

// writeJSON encodes v with the given status. Encoding failures surface as a
// plain 500 after logging.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// errorBody is the uniform error payload.
type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
