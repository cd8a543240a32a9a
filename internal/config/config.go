package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит конфигурацию приложения
type Config struct {
	TelegramBotToken string // Токен бота Telegram
	TelegramAPIURL   string // Адрес Bot API, переопределяется в тестах

	MoySkladToken  string // Общий токен МойСклад для пользователей без своего
	MoySkladAPIURL string // Адрес API МойСклад, переопределяется в тестах

	TokensFile  string // Путь к файловому хранилищу токенов
	DatabaseURI string // URI PostgreSQL; если задан, используется вместо файла

	AdminChatID     int64  // Чат для ежедневной сводки, 0 отключает рассылку
	DailyReportTime string // Время ежедневной сводки в формате ЧЧ:ММ

	RunAddress string // Адрес и порт служебного HTTP-сервера
	LogLevel   string // Уровень логирования
}

// Load загружает конфигурацию из переменных окружения и флагов
// Приоритет: env переменные > флаги > дефолтные значения
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:        "info",
		DailyReportTime: "23:00",
	}

	// Определяем флаги
	flag.StringVar(&cfg.RunAddress, "a", ":8080", "address and port to run service endpoints")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.TokensFile, "f", "user_tokens.json", "path to token storage file")
	flag.Parse()

	// Переменные окружения имеют приоритет над флагами
	if envRunAddr, ok := os.LookupEnv("RUN_ADDRESS"); ok {
		cfg.RunAddress = envRunAddr
	}

	if envDBURI, ok := os.LookupEnv("DATABASE_URI"); ok {
		cfg.DatabaseURI = envDBURI
	}

	if envTokensFile, ok := os.LookupEnv("TOKENS_FILE"); ok {
		cfg.TokensFile = envTokensFile
	}

	// Токены только из env, не из флагов
	if envBotToken, ok := os.LookupEnv("TELEGRAM_BOT_TOKEN"); ok {
		cfg.TelegramBotToken = envBotToken
	}

	if envMSToken, ok := os.LookupEnv("MOYSKLAD_TOKEN"); ok {
		cfg.MoySkladToken = envMSToken
	}

	if envTGURL, ok := os.LookupEnv("TELEGRAM_API_URL"); ok {
		cfg.TelegramAPIURL = envTGURL
	}

	if envMSURL, ok := os.LookupEnv("MOYSKLAD_API_URL"); ok {
		cfg.MoySkladAPIURL = envMSURL
	}

	if envAdminChat, ok := os.LookupEnv("ADMIN_CHAT_ID"); ok {
		id, err := strconv.ParseInt(envAdminChat, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_CHAT_ID %q: %w", envAdminChat, err)
		}
		cfg.AdminChatID = id
	}

	if envReportTime, ok := os.LookupEnv("DAILY_REPORT_TIME"); ok {
		cfg.DailyReportTime = envReportTime
	}

	if envLogLevel, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = envLogLevel
	}

	// Валидация обязательных параметров
	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("telegram bot token is required (TELEGRAM_BOT_TOKEN env)")
	}

	if _, _, err := cfg.ReportTime(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ReportTime разбирает время ежедневной сводки на часы и минуты
func (c *Config) ReportTime() (hour, minute int, err error) {
	parsed, err := time.Parse("15:04", c.DailyReportTime)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid DAILY_REPORT_TIME %q: expected HH:MM", c.DailyReportTime)
	}
	return parsed.Hour(), parsed.Minute(), nil
}
