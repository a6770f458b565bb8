// Package http exposes deck generation, export and live session previews
// over HTTP and websockets.
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/fredcamaral/promptdeck/internal/adapters/secondary/export"
	"github.com/fredcamaral/promptdeck/internal/adapters/secondary/session"
	"github.com/fredcamaral/promptdeck/internal/domain/entities"
	"github.com/fredcamaral/promptdeck/internal/domain/ports"
	"github.com/fredcamaral/promptdeck/internal/domain/services"
)

// SessionHeader carries the optional session id on generate and export calls
const SessionHeader = "X-Session-ID"

// limiterIdle is how long a client stays in the rate limiter after its last request
const limiterIdle = 5 * time.Minute

// Server implements ports.HTTPServer
type Server struct {
	server      *http.Server
	connMgr     *ConnectionManager
	config      *entities.ServerConfig
	decks       ports.DeckService
	exporter    ports.DeckExporter
	store       ports.DeckStore
	catalog     *services.TemplateCatalog
	preview     *export.HTMLRenderer
	metrics     *Metrics
	metricsPath string
	limiter     *rateLimiter
	clock       ports.TimeProvider
	logger      *zap.Logger
	cancel      context.CancelFunc
	addr        net.Addr
	mu          sync.RWMutex
	running     bool
}

// NewServer creates a new HTTP server. Sessions are not stored until a deck
// store is set.
func NewServer(decks ports.DeckService, config *entities.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		connMgr: NewConnectionManager(),
		config:  config,
		decks:   decks,
		store:   session.NoopStore{},
		catalog: services.NewTemplateCatalog(),
		preview: export.NewHTMLRenderer(),
		clock:   ports.NewRealTimeProvider(),
		logger:  logger.Named("http"),
	}

	if config.RateLimit > 0 {
		s.limiter = newRateLimiter(config.RateLimit, time.Minute)
	}

	return s
}

// SetExportService sets the exporter behind /api/export
func (s *Server) SetExportService(exporter ports.DeckExporter) {
	s.exporter = exporter
}

// SetDeckStore sets the store used for X-Session-ID sessions
func (s *Server) SetDeckStore(store ports.DeckStore) {
	if store == nil {
		store = session.NoopStore{}
	}
	s.store = store
}

// SetCatalog replaces the catalog listed by /api/templates
func (s *Server) SetCatalog(catalog *services.TemplateCatalog) {
	s.catalog = catalog
}

// SetMetrics enables request metrics and serves them at path
func (s *Server) SetMetrics(metrics *Metrics, path string) {
	s.metrics = metrics
	s.metricsPath = path
}

// SetTimeProvider overrides the clock used for event timestamps
func (s *Server) SetTimeProvider(clock ports.TimeProvider) {
	s.clock = clock
}

// Start binds the listener and serves in the background. Bind errors are
// returned directly.
func (s *Server) Start(ctx context.Context, port int, host string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server already running")
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.connMgr.Run(runCtx)
	if s.limiter != nil {
		go s.sweepLimiter(runCtx)
	}

	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.GetReadTimeout(),
		WriteTimeout: s.config.GetWriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}
	s.addr = listener.Addr()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", zap.Error(err))
		}
	}()

	s.running = true
	s.logger.Info("server started", zap.String("addr", s.addr.String()))

	return nil
}

// Stop closes websocket clients and shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return errors.New("server not running")
	}

	s.connMgr.CloseAll()
	s.cancel()

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.GetShutdownTimeout())
	defer cancel()

	s.running = false
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// NotifyClients sends an event to connected websocket clients
func (s *Server) NotifyClients(event ports.UpdateEvent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return errors.New("server is not running")
	}

	s.publish(event)
	return nil
}

// IsRunning returns true if the server is running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the bound address, or nil before Start
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

func (s *Server) publish(event ports.UpdateEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	s.connMgr.Broadcast(event)
}

func (s *Server) sweepLimiter(ctx context.Context) {
	ticker := time.NewTicker(limiterIdle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.limiter.sweep(limiterIdle); n > 0 {
				s.logger.Debug("rate limiter sweep", zap.Int("removed", n))
			}
		}
	}
}

// Handler builds the routed handler with the full middleware chain
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/api/generate", s.handleGenerate).Methods(http.MethodPost)
	router.HandleFunc("/api/export", s.handleExport).Methods(http.MethodPost)
	router.HandleFunc("/api/export/formats", s.handleExportFormats).Methods(http.MethodGet)
	router.HandleFunc("/api/sessions", s.handleCreateSession).Methods(http.MethodPost)
	router.HandleFunc("/api/sessions/{id}", s.handleGetSession).Methods(http.MethodGet)
	router.HandleFunc("/api/sessions/{id}", s.handleDeleteSession).Methods(http.MethodDelete)
	router.HandleFunc("/api/sessions/{id}/preview", s.handleSessionPreview).Methods(http.MethodGet)
	router.HandleFunc("/api/templates", s.handleTemplates).Methods(http.MethodGet)

	router.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if s.metrics != nil {
		router.Handle(s.metricsPath, s.metrics.Handler()).Methods(http.MethodGet)
	}

	var handler http.Handler = router
	handler = recoveryMiddleware(s.logger)(handler)
	handler = loggingMiddleware(s.logger, s.metrics)(handler)
	if s.limiter != nil {
		handler = s.limiter.middleware(handler)
	}
	handler = securityHeadersMiddleware(handler)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.GetCORSOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", SessionHeader},
		ExposedHeaders:   []string{"Content-Disposition", "X-Export-Warnings"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	return c.Handler(handler)
}

var _ ports.HTTPServer = (*Server)(nil)
