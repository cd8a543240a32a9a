package app

import (
	"fmt"

	"go.uber.org/zap"
)

// initLogger выбирает конфигурацию zap по значению LOG_LEVEL.
// "production" дает JSON-вывод, любое другое значение — консольный для разработки.
func initLogger(logLevel string) (*zap.Logger, error) {
	build := zap.NewDevelopment
	if logLevel == "production" {
		build = zap.NewProduction
	}

	logger, err := build()
	if err != nil {
		return nil, fmt.Errorf("app: failed to build logger: %w", err)
	}
	return logger, nil
}
