// Package http serves the federated search JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Server is the HTTP server for the search API.
type Server struct {
	search driving.SearchService
	addr   string
}

// NewServer creates a new HTTP server.
func NewServer(search driving.SearchService, addr string) (*Server, error) {
	if search == nil {
		return nil, errors.New("http: search service is required")
	}
	return &Server{search: search, addr: addr}, nil
}

// Handler returns the API routes wrapped in CORS and logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return corsMiddleware(loggingMiddleware(mux))
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP shutdown: %v", err)
		}
	}()

	logger.Info("HTTP server starting on %s", s.addr)
	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// handleSearch runs one federated search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req domain.SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		err = fmt.Errorf("%w: decoding body: %w", domain.ErrInvalidInput, err)
		writeJSON(w, http.StatusBadRequest, domain.DegradedResponse("", err))
		return
	}

	resp, err := s.search.Search(r.Context(), req)
	writeJSON(w, statusFor(err), resp)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.search.Health(r.Context()))
}

// statusFor maps a search error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Writing response: %v", err)
	}
}
