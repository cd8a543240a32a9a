package app

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// setupRouter создает служебный роутер с health-эндпоинтами
func setupRouter(db *pgxpool.Pool, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware())
	r.Use(loggingMiddleware(logger))
	r.Use(recoveryMiddleware(logger))
	r.Use(middleware.Compress(5))

	r.Get("/health", healthHandler(db, logger))
	r.Get("/ready", readyHandler(db, logger))

	return r
}

// healthResponse представляет ответ health check
type healthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

// healthHandler возвращает статус приложения.
// При файловом хранилище db равен nil и проверяется только сам процесс.
func healthHandler(db *pgxpool.Pool, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := healthResponse{Status: "ok", Storage: "ok"}

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := db.Ping(ctx); err != nil {
				response.Status = "degraded"
				response.Storage = "unavailable"
				logger.Warn("health check: database unavailable", zap.Error(err))
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if response.Status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Error("failed to encode health response", zap.Error(err))
		}
	}
}

// readyHandler возвращает готовность приложения
func readyHandler(db *pgxpool.Pool, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := db.Ping(ctx); err != nil {
				logger.Warn("readiness check failed: database unavailable", zap.Error(err))
				http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
