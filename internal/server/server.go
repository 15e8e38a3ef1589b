// Package server exposes a Source over HTTP for hosts that run out of process.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"weebdex/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const (
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 60 * time.Second
)

type Server struct {
	src        domain.Source
	log        zerolog.Logger
	router     *chi.Mux
	httpServer *http.Server
}

func New(src domain.Source, log zerolog.Logger, host string, port int) *Server {
	s := &Server{
		src:    src,
		log:    log,
		router: chi.NewRouter(),
	}

	s.routes()

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}

	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.logRequests)

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/info", s.handleInfo)
		r.Get("/search", s.handleSearch)
		r.Get("/manga/{mangaID}", s.handleMangaDetails)
		r.Get("/manga/{mangaID}/chapters", s.handleChapters)
		r.Get("/manga/{mangaID}/chapters/{chapterID}", s.handleChapterDetails)
	})
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ListenAndServe blocks until the server stops. A graceful Shutdown returns nil.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("starting http server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.src.Info())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	tiles, err := s.src.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tiles)
}

func (s *Server) handleMangaDetails(w http.ResponseWriter, r *http.Request) {
	manga, err := s.src.GetMangaDetails(r.Context(), chi.URLParam(r, "mangaID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, manga)
}

func (s *Server) handleChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := s.src.GetChapters(r.Context(), chi.URLParam(r, "mangaID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, chapters)
}

func (s *Server) handleChapterDetails(w http.ResponseWriter, r *http.Request) {
	details, err := s.src.GetChapterDetails(r.Context(), chi.URLParam(r, "mangaID"), chi.URLParam(r, "chapterID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// StatusCode maps a source error onto the status the bridge answers with.
func StatusCode(err error) (int, string) {
	var transportErr *domain.TransportError

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.As(err, &transportErr):
		if transportErr.Timeout() {
			return http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT"
		}
		if transportErr.StatusCode >= 400 && transportErr.StatusCode < 600 {
			return transportErr.StatusCode, "UPSTREAM_STATUS"
		}
		return http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"
	case errors.Is(err, domain.ErrParse):
		return http.StatusBadGateway, "UPSTREAM_MALFORMED"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := StatusCode(err)

	s.log.Error().
		Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Int("status", status).
		Msg("request failed")

	writeJSON(w, status, errorResponse{Code: code, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("handled request")
	})
}
