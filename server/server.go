package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kbukum/discoverykit/config"
	"github.com/kbukum/discoverykit/logger"
	"github.com/kbukum/discoverykit/server/middleware"
)

// Server serves the instance's HTTP endpoints, such as the status and health
// pages a discovery registry polls.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger

	mu     sync.Mutex
	mounts []func(gin.IRoutes)
	addr   string
}

var setGinMode sync.Once

// New creates a Server. Call ApplyMiddleware before serving to install
// the standard middleware stack. Gin's debug route dump is only enabled
// when zerolog logs at debug level.
func New(cfg Config, log *logger.Logger) *Server {
	setGinMode.Do(func() {
		if gin.Mode() != gin.TestMode && zerolog.GlobalLevel() > zerolog.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}
	})

	engine := gin.New()
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		engine: engine,
		config: cfg,
		log:    log.WithComponent("server"),
		addr:   addr,
	}
}

// FromConfig builds a Server from the server branch of tree.
func FromConfig(tree config.Tree, log *logger.Logger) (*Server, error) {
	cfg := NewConfig()
	if tree != nil && tree.IsSet(ConfigKey) {
		if err := tree.UnmarshalKey(ConfigKey, &cfg); err != nil {
			return nil, fmt.Errorf("server config: %w", err)
		}
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(cfg, log), nil
}

// Mount defers route registration until Start, for routes whose owner is
// only available once earlier components have started.
func (s *Server) Mount(fn func(r gin.IRoutes)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounts = append(s.mounts, fn)
}

// Start applies pending mounts, binds the port and begins serving. It
// returns once the listener is bound; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	mounts := s.mounts
	s.mounts = nil
	s.mu.Unlock()
	for _, fn := range mounts {
		fn(s.engine)
	}

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}

	s.mu.Lock()
	s.addr = listener.Addr().String()
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server stopped serving", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", s.Addr()))
	return nil
}

// Stop drains in-flight requests, giving up after the configured shutdown
// timeout or when ctx ends, whichever comes first.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server", logger.Fields("timeout", s.config.ShutdownTimeout.String()))

	shutdownCtx, cancel := ctx, context.CancelFunc(func() {})
	if s.config.ShutdownTimeout > 0 {
		shutdownCtx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
	}
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("HTTP server shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// ApplyMiddleware installs recovery, request-ID and request logging.
// Requests to quietPaths are not logged.
func (s *Server) ApplyMiddleware(quietPaths ...string) {
	s.engine.Use(middleware.Recovery(s.log))
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.RequestLogger(s.log, quietPaths...))
}
