// Package api exposes the scenario over HTTP: session bootstrap for the
// realtime transport, tool invocation, conversation handoffs and the
// clinic reference tables.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Hrhcoolshegs/openai-realtime-agents/agent/agents/orchestrator"
	"github.com/Hrhcoolshegs/openai-realtime-agents/pkg/realtime"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Addr              string        `envconfig:"ADDR" default:":8080"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" split_words:"true" default:"10s"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" split_words:"true" default:"15s"`
}

// SessionBootstrapper mints realtime transport sessions.
type SessionBootstrapper interface {
	Bootstrap(ctx context.Context) (*realtime.Session, error)
}

type Server struct {
	cfg      Config
	sessions SessionBootstrapper
	service  *orchestrator.Service
}

func NewServer(cfg Config, sessions SessionBootstrapper, service *orchestrator.Service) *Server {
	return &Server{cfg: cfg, sessions: sessions, service: service}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.health)

	// Realtime transport
	mux.HandleFunc("GET /api/session", s.bootstrapSession)

	// Scenario and stateless tool calls
	mux.HandleFunc("GET /api/agents", s.describeScenario)
	mux.HandleFunc("POST /api/agents/{agent}/tools/{tool}", s.invokeAgentTool)

	// Conversations
	mux.HandleFunc("POST /api/conversations", s.startConversation)
	mux.HandleFunc("GET /api/conversations/{id}", s.getConversation)
	mux.HandleFunc("DELETE /api/conversations/{id}", s.deleteConversation)
	mux.HandleFunc("POST /api/conversations/{id}/handoff", s.handoffConversation)
	mux.HandleFunc("POST /api/conversations/{id}/tools/{tool}", s.invokeConversationTool)

	// Reference data
	mux.HandleFunc("GET /api/reference/{table}", s.referenceTable)

	return withRequestLog(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	log.Info().Msg("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}
