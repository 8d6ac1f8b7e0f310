package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"attrition-relay/internal/handler"
	"attrition-relay/internal/metrics"
	"attrition-relay/internal/middleware"
	"attrition-relay/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Server wires the relay routes onto a gin engine.
type Server struct {
	router  *gin.Engine
	metrics *metrics.Manager
	logger  *zap.Logger
}

// NewServer builds the router with middleware and all routes registered.
func NewServer(relay *service.Relay, metricsManager *metrics.Manager, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(logger.Named("http")),
		middleware.Metrics(metricsManager),
		middleware.CORS(),
	)

	s := &Server{
		router:  router,
		metrics: metricsManager,
		logger:  logger,
	}
	s.setupRoutes(relay)

	return s
}

func (s *Server) setupRoutes(relay *service.Relay) {
	apiHandler := handler.NewHandler(relay, s.logger.Named("handler"))
	apiHandler.RegisterRoutes(s.router)

	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
}

// Router exposes the engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves on port until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("Server exited")
	return nil
}
