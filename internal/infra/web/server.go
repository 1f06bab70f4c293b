package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"spodown-client/internal/domain/ports/repository"
	"spodown-client/internal/infra/logging"
	"spodown-client/internal/usecase"
)

// Server exposes a small status surface: active flow snapshots, the download
// history and the Prometheus registry. It reads state only; all mutation goes
// through the use cases.
type Server struct {
	downloadUC usecase.DownloadUseCase
	history    repository.HistoryRepository // optional
	apiKey     string
	log        *zerolog.Logger
	server     *http.Server
}

func NewServer(downloadUC usecase.DownloadUseCase, history repository.HistoryRepository, apiKey string, logger *zerolog.Logger) *Server {
	webLog := logger.With().Str("component", "StatusServer").Logger()
	return &Server{
		downloadUC: downloadUC,
		history:    history,
		apiKey:     apiKey,
		log:        &webLog,
	}
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/sessions", s.handleSessions)
		r.Get("/history", s.handleHistory)
	})
	return r
}

func (s *Server) Start(port int) error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Router(),
	}
	s.log.Info().Int("port", port).Msg("status server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// requestLogger tags every request with a trace id and logs it on the way
// out; downstream handlers inherit the id through the context.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithTraceID(r.Context(), uuid.NewString())
		lg := logging.With(ctx, s.log)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		lg.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("duration", time.Since(start)).Msg("request served")
	})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.downloadUC.Snapshots())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "history not configured", http.StatusNotFound)
		return
	}
	ctx := r.Context()

	if r.URL.Query().Get("recent") != "" {
		recs, err := s.history.RecentSince(ctx, time.Now().Add(-24*time.Hour))
		if err != nil {
			s.log.Error().Err(err).Msg("recent history query failed")
			http.Error(w, "history unavailable", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, recs)
		return
	}

	recs, err := s.history.List(ctx, 50)
	if err != nil {
		s.log.Error().Err(err).Msg("history query failed")
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}
