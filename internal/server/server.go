package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/nvoronin/passport/internal/auth"
	"github.com/nvoronin/passport/internal/server/handlers"
	"github.com/nvoronin/passport/internal/server/middleware"
)

// Options настройки HTTP сервера
type Options struct {
	Version         string
	RateLimit       int
	RateLimitWindow time.Duration
}

// NewHandler собирает роутер со всеми эндпоинтами и middleware
func NewHandler(logger *slog.Logger, service *auth.Service, opts Options) http.Handler {
	authHandler := handlers.NewAuthHandler(logger, service)
	healthHandler := handlers.NewHealthHandler(logger, opts.Version)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /api/v1/access", authHandler.Access)
	mux.HandleFunc("GET /api/v1/me", authHandler.Me)
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)

	// Порядок: recovery снаружи, затем логирование, CORS и rate limit
	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(opts.RateLimit, opts.RateLimitWindow, logger)(handler)
	handler = middleware.CORSMiddleware()(handler)
	handler = middleware.LoggingMiddleware(logger)(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	return handler
}
