// Package server собирает HTTP API сервера снапшотов: маршруты,
// middleware и выпуск токенов. Хранилище передается интерфейсами,
// в проде это SQLite.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/gophjournal/internal/server/handlers"
	"github.com/iudanet/gophjournal/internal/server/jwt"
	"github.com/iudanet/gophjournal/internal/server/middleware"
	"github.com/iudanet/gophjournal/internal/server/storage"
)

// Config параметры сервера
type Config struct {
	JWTSecret       string
	Version         string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Лимиты запросов на IP. Auth endpoints получают отдельный,
	// более строгий лимит: по ним перебирают credentials.
	RequestRate   int
	RequestWindow time.Duration
	AuthRate      int
	AuthWindow    time.Duration
}

// DefaultConfig возвращает конфигурацию с разумными значениями
func DefaultConfig() Config {
	return Config{
		Version:         "dev",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
		RequestRate:     300,
		RequestWindow:   time.Minute,
		AuthRate:        10,
		AuthWindow:      time.Minute,
	}
}

// Storages объединяет серверные хранилища
type Storages struct {
	Users   storage.UserStorage
	Tokens  storage.TokenStorage
	Backups storage.BackupStorage
}

// Server инкапсулирует HTTP handler и фоновые ресурсы middleware
type Server struct {
	Handler http.Handler

	limiters []*middleware.RateLimiter
}

// New собирает сервер: маршруты, JWT, rate limiting, логирование
func New(logger *slog.Logger, storages Storages, cfg Config) *Server {
	jwtService := jwt.NewService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	authHandler := handlers.NewAuthHandler(logger, storages.Users, storages.Tokens, jwtService)
	backupHandler := handlers.NewBackupHandler(logger, storages.Backups)
	healthHandler := handlers.NewHealthHandler(logger, cfg.Version)

	authLimiter := middleware.NewRateLimiter(cfg.AuthRate, cfg.AuthWindow, logger)
	generalLimiter := middleware.NewRateLimiter(cfg.RequestRate, cfg.RequestWindow, logger)

	requireAuth := middleware.AuthMiddleware(logger, jwtService)

	mux := http.NewServeMux()

	// Открытые endpoints: нужны до получения токена
	mux.Handle("POST /api/v1/auth/register", authLimiter.Middleware(http.HandlerFunc(authHandler.Register)))
	mux.Handle("GET /api/v1/auth/user/{username}", authLimiter.Middleware(http.HandlerFunc(authHandler.GetUser)))
	mux.Handle("POST /api/v1/auth/login", authLimiter.Middleware(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /api/v1/auth/refresh", authLimiter.Middleware(http.HandlerFunc(authHandler.Refresh)))
	mux.HandleFunc("POST /api/v1/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)

	// Снапшоты доступны только с валидным access token
	mux.Handle("GET /api/v1/backup", requireAuth(http.HandlerFunc(backupHandler.GetBackup)))
	mux.Handle("PUT /api/v1/backup", requireAuth(http.HandlerFunc(backupHandler.PutBackup)))

	var handler http.Handler = mux
	handler = generalLimiter.Middleware(handler)
	handler = middleware.LoggingMiddleware(logger, "/api/v1/health")(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	return &Server{
		Handler:  handler,
		limiters: []*middleware.RateLimiter{authLimiter, generalLimiter},
	}
}

// Close останавливает фоновые goroutines middleware
func (s *Server) Close() {
	for _, limiter := range s.limiters {
		limiter.Stop()
	}
}
