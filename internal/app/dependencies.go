package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rozabot/skladstat/internal/bot"
	"github.com/rozabot/skladstat/internal/config"
	"github.com/rozabot/skladstat/internal/domain"
	"github.com/rozabot/skladstat/internal/moysklad"
	"github.com/rozabot/skladstat/internal/repository/postgres"
	"github.com/rozabot/skladstat/internal/repository/tokenfile"
	"github.com/rozabot/skladstat/internal/service"
	"github.com/rozabot/skladstat/internal/telegram"
	"github.com/rozabot/skladstat/internal/worker"
	"go.uber.org/zap"
)

// dependencies содержит все зависимости приложения
type dependencies struct {
	store      domain.TokenRepository
	tokens     *service.TokenService
	reports    *service.ReportService
	dispatcher *bot.Dispatcher
	tgClient   *telegram.Client
	poller     *telegram.Poller
	scheduler  *worker.Scheduler
}

// initDependencies создает все зависимости приложения.
// dbPool равен nil при файловом хранилище токенов.
func initDependencies(cfg *config.Config, dbPool *pgxpool.Pool, logger *zap.Logger) (*dependencies, error) {
	// Хранилище токенов: PostgreSQL при заданном DATABASE_URI, иначе файл
	var store domain.TokenRepository
	if dbPool != nil {
		store = postgres.NewTokenRepository(dbPool)
		logger.Info("using postgres token storage")
	} else {
		store = tokenfile.NewStore(cfg.TokensFile, logger)
		logger.Info("using file token storage", zap.String("path", cfg.TokensFile))
	}

	// Источник данных МойСклад создается на токен пользователя
	sources := func(token string) domain.DataSource {
		return moysklad.NewClient(cfg.MoySkladAPIURL, token, logger)
	}

	tokens := service.NewTokenService(store, sources, cfg.MoySkladToken, logger)
	reports := service.NewReportService(tokens, logger)

	tgClient := telegram.NewClient(cfg.TelegramAPIURL, cfg.TelegramBotToken, logger)
	dispatcher := bot.NewDispatcher(tokens, reports, tgClient, logger)
	poller := telegram.NewPoller(tgClient, dispatcher, logger)

	hour, minute, err := cfg.ReportTime()
	if err != nil {
		return nil, err
	}
	scheduler := worker.NewScheduler(reports, tgClient, cfg.AdminChatID, hour, minute, logger)

	return &dependencies{
		store:      store,
		tokens:     tokens,
		reports:    reports,
		dispatcher: dispatcher,
		tgClient:   tgClient,
		poller:     poller,
		scheduler:  scheduler,
	}, nil
}
