package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rozabot/skladstat/internal/repository/postgres"
	"go.uber.org/zap"
)

// initDatabase создает пул подключений к PostgreSQL и проверяет доступность
func initDatabase(ctx context.Context, databaseURI string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURI)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// runMigrations выполняет миграции базы данных
func runMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if err := postgres.RunMigrations(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
