// Package app собирает приложение: конфигурацию, хранилище токенов,
// клиенты МойСклад и Telegram, диспетчер диалогов, расписание сводок
// и служебный HTTP-сервер.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rozabot/skladstat/internal/config"
	"go.uber.org/zap"
)

// App представляет приложение
type App struct {
	config *config.Config
	logger *zap.Logger
	db     *pgxpool.Pool
	router *chi.Mux
	deps   *dependencies
	server *http.Server
}

// NewApp создает новое приложение
func NewApp() (*App, error) {
	ctx := context.Background()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализация логгера
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	// База данных опциональна: без DATABASE_URI токены живут в файле
	var dbPool *pgxpool.Pool
	if cfg.DatabaseURI != "" {
		dbPool, err = initDatabase(ctx, cfg.DatabaseURI)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to database")

		if err := runMigrations(ctx, dbPool, logger); err != nil {
			return nil, err
		}
		logger.Info("migrations completed successfully")
	}

	// Инициализация зависимостей
	deps, err := initDependencies(cfg, dbPool, logger)
	if err != nil {
		return nil, err
	}

	// Настройка роутера
	router := setupRouter(dbPool, logger)

	// Создание HTTP сервера
	server := createServer(cfg.RunAddress, router)

	return &App{
		config: cfg,
		logger: logger,
		db:     dbPool,
		router: router,
		deps:   deps,
		server: server,
	}, nil
}

// Run запускает приложение
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск опроса Telegram
	go a.deps.poller.Run(ctx)

	// Запуск расписания ежедневной сводки
	a.deps.scheduler.Start(ctx)

	// Запуск HTTP сервера и ожидание сигнала завершения
	if err := a.runServer(ctx); err != nil {
		return err
	}

	// Graceful shutdown
	a.shutdown(cancel)

	return nil
}
