// Package api serves the read-only HTTP surface: health and latest detected
// setups per symbol.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Brxzee/scalping-bot/internal/cache"
	"github.com/Brxzee/scalping-bot/internal/database"
	"github.com/Brxzee/scalping-bot/internal/messaging"
	"github.com/Brxzee/scalping-bot/pkg/config"
)

// Server represents the HTTP API server
type Server struct {
	cfg        *config.Config
	logger     *logrus.Logger
	router     *mux.Router
	httpServer *http.Server

	influxDB   *database.InfluxClient
	redisCache *cache.RedisClient
	natsClient *messaging.NATSClient
}

// NewServer creates a new API server
func NewServer(
	cfg *config.Config,
	logger *logrus.Logger,
	influxDB *database.InfluxClient,
	redisCache *cache.RedisClient,
	natsClient *messaging.NATSClient,
) *Server {
	s := &Server{
		cfg:        cfg,
		logger:     logger,
		influxDB:   influxDB,
		redisCache: redisCache,
		natsClient: natsClient,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.recoveryMiddleware)
	s.router.Use(s.corsMiddleware)

	apiV1 := s.router.PathPrefix("/api/v1").Subrouter()

	apiV1.HandleFunc("/health", s.handleHealth).Methods("GET")
	apiV1.HandleFunc("/symbols", s.handleGetSymbols).Methods("GET")
	apiV1.HandleFunc("/setups/{symbol}", s.handleGetSetups).Methods("GET")
}

// Start starts the HTTP server and blocks until it exits
func (s *Server) Start() error {
	addr := s.cfg.GetAPIAddr()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.API.ReadTimeout,
		WriteTimeout: s.cfg.API.WriteTimeout,
	}

	s.logger.WithField("address", addr).Info("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("Stopping HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Middleware functions

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   wrapped.statusCode,
			"duration": time.Since(start),
			"remote":   r.RemoteAddr,
		}).Debug("HTTP request")
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.WithFields(logrus.Fields{
					"error": err,
					"path":  r.URL.Path,
				}).Error("Panic recovered")

				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(next)
}

// Handler functions

// handleHealth reports the health of every connected component
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	influxOK := false
	if s.influxDB != nil {
		influxOK = s.influxDB.Health(ctx) == nil
	}
	redisOK := false
	if s.redisCache != nil {
		redisOK = s.redisCache.Health(ctx) == nil
	}

	health := map[string]interface{}{
		"status": "healthy",
		"services": map[string]bool{
			"influx": influxOK,
			"redis":  redisOK,
			"nats":   s.natsClient != nil && s.natsClient.IsConnected(),
		},
		"timestamp": time.Now().Unix(),
	}

	s.writeJSON(w, http.StatusOK, health)
}

// handleGetSymbols returns the configured scan universe
func (s *Server) handleGetSymbols(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbols":   s.cfg.Scan.Symbols,
		"timeframe": s.cfg.Scan.TimeframePrimary,
	})
}

// handleGetSetups returns the latest setups detected for a symbol
func (s *Server) handleGetSetups(w http.ResponseWriter, r *http.Request) {
	if s.redisCache == nil {
		http.Error(w, "Cache not available", http.StatusServiceUnavailable)
		return
	}

	symbol := mux.Vars(r)["symbol"]

	setups, err := s.redisCache.GetLatestSetups(r.Context(), symbol)
	if err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Error("Failed to get setups")
		http.Error(w, "Failed to retrieve setups", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"count":  len(setups),
		"setups": setups,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

// responseWriter captures the status code for request logging
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
