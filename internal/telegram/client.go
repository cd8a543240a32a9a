package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rozabot/skladstat/internal/bot"
	"go.uber.org/zap"
)

// DefaultBaseURL определяет адрес Bot API по умолчанию
const DefaultBaseURL = "https://api.telegram.org"

// таймаут обычных вызовов; длинный опрос получает запас поверх своего timeout
const callTimeout = 10 * time.Second

// Client вызывает методы Bot API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient создает клиент Bot API.
// Пустой baseURL означает адрес по умолчанию.
func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

type apiEnvelope struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// call выполняет метод Bot API с JSON-телом и раскрывает конверт ответа
func (c *Client) call(ctx context.Context, method string, payload any, timeout time.Duration, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: failed to marshal %s payload: %w", method, err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: %s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("telegram: failed to read %s response: %w", method, err)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("telegram: failed to parse %s response: %w", method, err)
	}
	if !envelope.OK {
		return fmt.Errorf("telegram: %s failed: %s", method, envelope.Description)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("telegram: failed to parse %s result: %w", method, err)
		}
	}
	return nil
}

// GetUpdates выполняет длинный опрос обновлений начиная с offset
func (c *Client) GetUpdates(ctx context.Context, offset int64, pollTimeout time.Duration) ([]Update, error) {
	payload := map[string]any{
		"offset":          offset,
		"timeout":         int(pollTimeout.Seconds()),
		"allowed_updates": []string{"message", "callback_query"},
	}

	var updates []Update
	if err := c.call(ctx, "getUpdates", payload, pollTimeout+callTimeout, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// AnswerCallbackQuery подтверждает нажатие кнопки, чтобы убрать индикатор ожидания
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	return c.call(ctx, "answerCallbackQuery", map[string]any{"callback_query_id": callbackID}, callTimeout, nil)
}

// Reply отправляет новое сообщение в чат
func (c *Client) Reply(ctx context.Context, chatID int64, text string, menu bot.Menu) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	if markup := toMarkup(menu); markup != nil {
		payload["reply_markup"] = markup
	}
	return c.call(ctx, "sendMessage", payload, callTimeout, nil)
}

// Edit заменяет текст сообщения. Повтор того же текста не считается ошибкой.
func (c *Client) Edit(ctx context.Context, chatID int64, messageID int, text string, menu bot.Menu) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	if markup := toMarkup(menu); markup != nil {
		payload["reply_markup"] = markup
	}

	err := c.call(ctx, "editMessageText", payload, callTimeout, nil)
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		c.logger.Debug("edit skipped, message unchanged",
			zap.Int64("chat_id", chatID), zap.Int("message_id", messageID))
		return nil
	}
	return err
}

func toMarkup(menu bot.Menu) *inlineKeyboardMarkup {
	if len(menu) == 0 {
		return nil
	}
	markup := &inlineKeyboardMarkup{}
	for _, row := range menu {
		var buttons []inlineKeyboardButton
		for _, b := range row {
			buttons = append(buttons, inlineKeyboardButton{Text: b.Label, CallbackData: b.Data})
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, buttons)
	}
	return markup
}
