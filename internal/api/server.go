// Package api exposes the message protocol to UI surfaces over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tabzoom/zoomd/internal/app/messaging"
	"github.com/tabzoom/zoomd/internal/application/port"
	"github.com/tabzoom/zoomd/internal/application/usecase"
	"github.com/tabzoom/zoomd/internal/domain/entity"
	"github.com/tabzoom/zoomd/internal/logging"
)

// maxMessageBytes bounds inbound message bodies.
const maxMessageBytes = 1 << 20

// StateReader supplies the read-only daemon state served by GET /state.
type StateReader interface {
	Get(ctx context.Context) (entity.GlobalSettings, bool, error)
}

// Server serves the message endpoint and a few read-only views.
type Server struct {
	handler  *messaging.Handler
	settings StateReader
	transfer *usecase.TransferSettingsUseCase
	host     port.BrowserHost
	httpSrv  *http.Server
}

// NewServer creates the HTTP surface.
func NewServer(
	addr string,
	handler *messaging.Handler,
	settings StateReader,
	transfer *usecase.TransferSettingsUseCase,
	host port.BrowserHost,
) *Server {
	s := &Server{
		handler:  handler,
		settings: settings,
		transfer: transfer,
		host:     host,
	}
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, for serving and for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/message", s.handleMessage)
	r.Get("/health", s.handleHealth)
	r.Get("/state", s.handleState)
	r.Get("/tabs", s.handleTabs)

	return r
}

// ListenAndServe blocks until the server stops or ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	log := logging.FromContext(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()

	log.Info().Str("addr", s.httpSrv.Addr).Msg("http surface listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxMessageBytes))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	reply, err := s.handler.Handle(r.Context(), body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(reply)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	settings, _, err := s.settings.Get(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	summary, err := s.transfer.Summary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"settings": settings,
		"summary":  summary,
	})
}

func (s *Server) handleTabs(w http.ResponseWriter, r *http.Request) {
	tabs, err := s.host.ListTabs(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, tabs)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
