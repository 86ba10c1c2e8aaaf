package server

import (
	"context"
	_ "crypto-price-bot/docs"
	"crypto-price-bot/internal/domain/interfaces"
	"crypto-price-bot/internal/infrastructure/config"
	"crypto-price-bot/internal/infrastructure/logging"
	"crypto-price-bot/internal/infrastructure/metrics"
	"crypto-price-bot/internal/infrastructure/ratelimit"
	"crypto-price-bot/internal/infrastructure/web/handlers"
	"crypto-price-bot/internal/infrastructure/web/middleware"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Server encapsulates HTTP server configuration
type Server struct {
	httpServer *http.Server
	port       int
}

// NewServer creates a new server instance
func NewServer(handler http.Handler, port int) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		port: port,
	}
}

// NewRouter arma el router con los endpoints del bot, los probes, /metrics y la documentación.
// Orden de middlewares: tracing, logging, métricas, rate limiting y autenticación.
func NewRouter(service interfaces.BotService, cfg *config.Config) http.Handler {
	router := mux.NewRouter()

	handlers.NewHealthHandler(service).RegisterRoutes(router)
	handlers.NewBotHandler(service).RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	registerDocs(router)

	limiter := ratelimit.NewRateLimitMiddleware(cfg.RateLimit)
	auth := middleware.NewAuthMiddleware(cfg.Auth)

	router.Use(
		middleware.RequestTracingMiddleware,
		middleware.LoggingMiddleware,
		metrics.HTTPMetricsMiddleware,
		limiter.Handler,
		auth.Handler,
	)

	return router
}

// registerDocs publica Swagger UI en /swagger/ y redirige /docs hacia ella
func registerDocs(router *mux.Router) {
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	)).Methods(http.MethodGet)

	redirect := func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	}
	router.HandleFunc("/docs", redirect).Methods(http.MethodGet)
	router.HandleFunc("/docs/", redirect).Methods(http.MethodGet)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	ctx := context.Background()

	logging.Info(ctx, "HTTP server starting", logging.Fields{
		"port": s.port,
	})

	logging.Info(ctx, "Available endpoints", logging.Fields{
		"endpoints": []string{
			fmt.Sprintf("GET  http://localhost:%d/health", s.port),
			fmt.Sprintf("GET  http://localhost:%d/ready", s.port),
			fmt.Sprintf("GET  http://localhost:%d/metrics", s.port),
			fmt.Sprintf("POST http://localhost:%d/api/v1/query", s.port),
			fmt.Sprintf("GET  http://localhost:%d/api/v1/price/BTC?currency=EUR", s.port),
			fmt.Sprintf("GET  http://localhost:%d/api/v1/assets", s.port),
			fmt.Sprintf("GET  http://localhost:%d/api/v1/currencies", s.port),
			fmt.Sprintf("GET  http://localhost:%d/api/v1/usage", s.port),
			fmt.Sprintf("GET  http://localhost:%d/api/v1/status", s.port),
		},
	})

	return s.httpServer.ListenAndServe()
}

// Stop stops the HTTP server gracefully
func (s *Server) Stop(ctx context.Context) error {
	logging.Info(ctx, "Stopping HTTP server gracefully", logging.Fields{
		"port": s.port,
	})

	return s.httpServer.Shutdown(ctx)
}

// GetPort returns the configured port
func (s *Server) GetPort() int {
	return s.port
}
