// Package server exposes the nutrition query operations over HTTP. Each
// request loads its own dataset copy from the configured source, runs one
// query and returns JSON; no dataset state is shared between requests.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/nutrilens/nutrilens/internal/storage"
)

// Config holds the server configuration
type Config struct {
	Host            string
	Port            int
	Source          string
	EnableMetrics   bool
	EnableCORS      bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a default server configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            "localhost",
		Port:            8080,
		EnableMetrics:   true,
		EnableCORS:      true,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Metrics holds the server's Prometheus instruments.
type Metrics struct {
	queriesTotal *prometheus.CounterVec
	loadDuration prometheus.Histogram
	datasetRows  prometheus.Gauge
	exportsTotal prometheus.Counter
}

// NewMetrics registers the server metrics with the default registerer.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry registers the server metrics with a custom
// registerer. Tests pass nil to skip registration entirely.
func NewMetricsWithRegistry(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nutrilens_queries_total",
			Help: "Total queries served, by operation and status",
		}, []string{"operation", "status"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "nutrilens_dataset_load_duration_seconds",
			Help: "Time spent fetching and cleaning the dataset",
		}),
		datasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nutrilens_dataset_rows",
			Help: "Row count of the most recently loaded dataset",
		}),
		exportsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nutrilens_exports_total",
			Help: "Total results persisted to a sink",
		}),
	}

	if registerer != nil {
		registerer.MustRegister(m.queriesTotal)
		registerer.MustRegister(m.loadDuration)
		registerer.MustRegister(m.datasetRows)
		registerer.MustRegister(m.exportsTotal)
	}

	return m
}

// Server represents the nutrilens HTTP server
type Server struct {
	config   *Config
	provider storage.Provider
	metrics  *Metrics
	server   *http.Server
}

// New creates a new server over the configured dataset source.
func New(config *Config) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}

	provider, err := storage.ParseSource(config.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dataset source: %w", err)
	}

	return &Server{
		config:   config,
		provider: provider,
	}, nil
}

// initializeMetrics initializes the metrics if not already set
func (s *Server) initializeMetrics() {
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.initializeMetrics()

	router := mux.NewRouter()

	if s.config.EnableCORS {
		router.Use(s.corsMiddleware)
	}

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.loggingMiddleware)

	api.HandleFunc("/summary", s.handleSummary).Methods("GET")
	api.HandleFunc("/macronutrients", s.handleMacronutrients).Methods("GET")
	api.HandleFunc("/comparison", s.handleComparison).Methods("GET")
	api.HandleFunc("/top-recipes", s.handleTopRecipes).Methods("GET")
	api.HandleFunc("/cuisine-distribution", s.handleCuisineDistribution).Methods("GET")
	api.HandleFunc("/nutrient-ranges", s.handleNutrientRanges).Methods("GET")
	api.HandleFunc("/recipes/{dietType}", s.handleRecipesByDiet).Methods("GET")
	api.HandleFunc("/search", s.handleSearch).Methods("GET")
	api.HandleFunc("/export", s.handleExport).Methods("POST")

	if s.config.EnableCORS {
		api.Methods("OPTIONS").HandlerFunc(s.handleOptions)
	}

	if s.config.EnableMetrics {
		router.Handle("/metrics", promhttp.Handler())
	}

	router.HandleFunc("/health", s.healthCheck)
	router.HandleFunc("/", s.handleIndex)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	log.Info().
		Str("addr", addr).
		Str("source", s.provider.String()).
		Bool("metrics", s.config.EnableMetrics).
		Msg("Starting nutrilens server")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	return nil
}

// Stop stops the HTTP server gracefully
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	log.Info().Msg("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// StartWithGracefulShutdown starts the server and handles graceful shutdown
func (s *Server) StartWithGracefulShutdown() error {
	if err := s.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer shutdownCancel()

		if err := s.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}

		cancel()
	}()

	<-ctx.Done()
	log.Info().Msg("Server shutdown complete")
	return nil
}

// GetAddr returns the server address
func (s *Server) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// handleOptions handles CORS preflight requests
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	// CORS headers are already set by middleware
	w.WriteHeader(http.StatusOK)
}
