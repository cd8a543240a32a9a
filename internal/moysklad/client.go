// Package moysklad реализует клиент JSON API 1.2 МойСклад.
//
// Выборки документов деградируют до пустого результата при любой ошибке
// источника: отчеты считают это нулевой активностью. Проверка токена,
// напротив, всегда возвращает типизированную ошибку.
package moysklad

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rozabot/skladstat/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultBaseURL — адрес продакшен-API МойСклад
const DefaultBaseURL = "https://api.moysklad.ru/api/remap/1.2"

const (
	listTimeout   = 30 * time.Second
	entityTimeout = 10 * time.Second

	ordersPageLimit   = 1000
	retailPageLimit   = 1000
	paymentsPageLimit = 100
)

// TokenRejectedError представляет отказ МойСклад при проверке токена
type TokenRejectedError struct {
	Status int
}

func (e *TokenRejectedError) Error() string {
	return fmt.Sprintf("moysklad rejected token: status %d", e.Status)
}

// Client реализует domain.DataSource поверх HTTP API МойСклад
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient создает клиент для указанного токена
func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: listTimeout,
		},
		logger: logger,
	}
}

// Ответ списочного эндпоинта МойСклад
type listResponse struct {
	Meta struct {
		Size int `json:"size"`
	} `json:"meta"`
	Rows []documentRow `json:"rows"`
}

type documentRow struct {
	ID          string        `json:"id"`
	Moment      string        `json:"moment"`
	Sum         int64         `json:"sum"` // в копейках
	Agent       *agentSummary `json:"agent"`
	PaymentType *struct {
		Name string `json:"name"`
	} `json:"paymentType"`
}

// Частичная сводка контрагента из expand=agent
type agentSummary struct {
	Meta struct {
		Href string `json:"href"`
	} `json:"meta"`
	Name  *string `json:"name"`
	Phone string  `json:"phone"`
	Email string  `json:"email"`
}

// Полная сущность контрагента со вторичного запроса
type agentEntity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LegalTitle  string `json:"legalTitle"`
	CompanyType string `json:"companyType"`
	Code        string `json:"code"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

type companyResponse struct {
	Name  string `json:"name"`
	INN   string `json:"inn"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CustomerOrders возвращает заказы покупателей за диапазон.
// Списочный эндпоинт отдает только сводку контрагента, поэтому для каждого
// уникального href выполняется вторичная загрузка полной сущности;
// при ее неудаче заказ получает синтезированного контрагента.
func (c *Client) CustomerOrders(ctx context.Context, rng domain.DateRange) ([]domain.TransactionRecord, error) {
	rows := c.fetchRows(ctx, "entity/customerorder", rng, ordersPageLimit, true)

	// Кэш вторичных загрузок в пределах одного вызова
	resolved := make(map[string]*domain.Counterparty)

	records := make([]domain.TransactionRecord, 0, len(rows))
	for _, row := range rows {
		if row.Sum == 0 {
			continue
		}
		records = append(records, domain.TransactionRecord{
			ID:     row.ID,
			Moment: parseMoment(row.Moment),
			Sum:    decimal.New(row.Sum, -2),
			Agent:  c.resolveOrderAgent(ctx, row.Agent, resolved),
			Kind:   domain.KindCustomerOrder,
		})
	}
	return records, nil
}

// RetailSales возвращает розничные продажи за диапазон.
// У розницы нет устойчивого контрагента, подставляется синтетический.
func (c *Client) RetailSales(ctx context.Context, rng domain.DateRange) ([]domain.TransactionRecord, error) {
	rows := c.fetchRows(ctx, "entity/retaildemand", rng, retailPageLimit, false)

	records := make([]domain.TransactionRecord, 0, len(rows))
	for _, row := range rows {
		if row.Sum == 0 {
			continue
		}
		records = append(records, domain.TransactionRecord{
			ID:     row.ID,
			Moment: parseMoment(row.Moment),
			Sum:    decimal.New(row.Sum, -2),
			Agent:  domain.RetailCounterparty(),
			Kind:   domain.KindRetailSale,
		})
	}
	return records, nil
}

// IncomingPayments возвращает входящие платежи за диапазон.
// Контрагент берется из сводки expand=agent без вторичных запросов.
func (c *Client) IncomingPayments(ctx context.Context, rng domain.DateRange) ([]domain.TransactionRecord, error) {
	rows := c.fetchRows(ctx, "entity/paymentin", rng, paymentsPageLimit, true)

	records := make([]domain.TransactionRecord, 0, len(rows))
	for _, row := range rows {
		if row.Sum == 0 {
			continue
		}
		rec := domain.TransactionRecord{
			ID:          row.ID,
			Moment:      parseMoment(row.Moment),
			Sum:         decimal.New(row.Sum, -2),
			Agent:       summaryCounterparty(row.Agent),
			Kind:        domain.KindIncomingPayment,
			PaymentType: domain.NotSpecified,
		}
		if row.PaymentType != nil && row.PaymentType.Name != "" {
			rec.PaymentType = row.PaymentType.Name
		}
		records = append(records, rec)
	}
	return records, nil
}

// OrganizationInfo возвращает данные организации владельца токена
func (c *Client) OrganizationInfo(ctx context.Context) (*domain.Organization, error) {
	var company companyResponse
	status, err := c.getJSON(ctx, c.baseURL+"/entity/company", entityTimeout, &company)
	if err != nil {
		return nil, fmt.Errorf("moysklad: failed to get organization info: %w", err)
	}
	if status != http.StatusOK {
		return nil, &TokenRejectedError{Status: status}
	}
	return &domain.Organization{
		Name:  orDefault(company.Name, "Неизвестно"),
		INN:   orDefault(company.INN, domain.NotSpecified),
		Email: orDefault(company.Email, domain.NotSpecified),
		Phone: orDefault(company.Phone, domain.NotSpecified),
	}, nil
}

// CheckToken выполняет дешевую проверку токена и возвращает название организации
func (c *Client) CheckToken(ctx context.Context) (string, error) {
	var company companyResponse
	status, err := c.getJSON(ctx, c.baseURL+"/entity/company", entityTimeout, &company)
	if err != nil {
		return "", fmt.Errorf("moysklad: token check failed: %w", err)
	}
	if status != http.StatusOK {
		return "", &TokenRejectedError{Status: status}
	}
	return orDefault(company.Name, "Неизвестно"), nil
}

// fetchRows выбирает все строки эндпоинта за диапазон, следуя за meta.size
// постранично. Любая ошибка источника дает пустой результат.
func (c *Client) fetchRows(ctx context.Context, endpoint string, rng domain.DateRange, limit int, expandAgent bool) []documentRow {
	var rows []documentRow

	// Смещение растет на фактически полученное число строк, а не на limit:
	// неполная промежуточная страница не должна приводить к пропуску строк
	for offset := 0; ; offset = len(rows) {
		params := url.Values{}
		params.Set("filter", rng.Filter())
		params.Set("limit", strconv.Itoa(limit))
		if offset > 0 {
			params.Set("offset", strconv.Itoa(offset))
		}
		if expandAgent {
			params.Set("expand", "agent")
		}

		var page listResponse
		status, err := c.getJSON(ctx, c.baseURL+"/"+endpoint+"?"+params.Encode(), listTimeout, &page)
		if err != nil {
			c.logger.Warn("moysklad request failed, treating as zero activity",
				zap.String("endpoint", endpoint),
				zap.Error(err),
			)
			return nil
		}
		if status != http.StatusOK {
			c.logger.Warn("moysklad returned non-OK status, treating as zero activity",
				zap.String("endpoint", endpoint),
				zap.Int("status", status),
			)
			return nil
		}

		rows = append(rows, page.Rows...)
		if len(rows) >= page.Meta.Size || len(page.Rows) == 0 {
			return rows
		}
	}
}

// resolveOrderAgent превращает сводку агента заказа в полного контрагента.
// Сбой вторичной загрузки деградирует до плейсхолдера со стабильным id,
// чтобы группировка не ломалась.
func (c *Client) resolveOrderAgent(ctx context.Context, agent *agentSummary, cache map[string]*domain.Counterparty) *domain.Counterparty {
	if agent == nil {
		return &domain.Counterparty{
			ID:    "no_agent",
			Name:  domain.UnnamedCounterparty,
			Phone: domain.NotSpecified,
			Email: domain.NotSpecified,
		}
	}

	href := agent.Meta.Href
	if href == "" {
		return &domain.Counterparty{
			ID:    "no_href",
			Name:  domain.UnnamedCounterparty,
			Phone: domain.NotSpecified,
			Email: domain.NotSpecified,
		}
	}

	if cached, ok := cache[href]; ok {
		return cached
	}

	resolved := c.fetchFullAgent(ctx, href)
	cache[href] = resolved
	return resolved
}

func (c *Client) fetchFullAgent(ctx context.Context, href string) *domain.Counterparty {
	fallback := &domain.Counterparty{
		ID:    hrefSuffix(href),
		Name:  domain.UnnamedCounterparty,
		Phone: domain.NotSpecified,
		Email: domain.NotSpecified,
	}

	var full agentEntity
	status, err := c.getJSON(ctx, href, entityTimeout, &full)
	if err != nil {
		c.logger.Warn("failed to load counterparty", zap.String("href", href), zap.Error(err))
		return fallback
	}
	if status != http.StatusOK {
		c.logger.Warn("counterparty request returned non-OK status",
			zap.String("href", href),
			zap.Int("status", status),
		)
		return fallback
	}

	return &domain.Counterparty{
		ID:    orDefault(full.ID, hrefSuffix(href)),
		Name:  agentDisplayName(full),
		Phone: orDefault(full.Phone, domain.NotSpecified),
		Email: orDefault(full.Email, domain.NotSpecified),
	}
}

// agentDisplayName выбирает имя по цепочке кандидатов полной сущности
func agentDisplayName(a agentEntity) string {
	for _, candidate := range []string{a.Name, a.LegalTitle, a.CompanyType, a.Code} {
		if candidate != "" {
			return candidate
		}
	}
	if a.ID != "" {
		id := a.ID
		if len(id) > 8 {
			id = id[:8]
		}
		return "Клиент " + id
	}
	return domain.UnnamedCounterparty
}

// summaryCounterparty строит контрагента из сводки expand=agent
func summaryCounterparty(agent *agentSummary) *domain.Counterparty {
	if agent == nil {
		return nil
	}
	name := domain.UnnamedCounterparty
	if agent.Name != nil && *agent.Name != "" {
		name = *agent.Name
	}
	return &domain.Counterparty{
		ID:    hrefSuffix(agent.Meta.Href),
		Name:  name,
		Phone: orDefault(agent.Phone, domain.NotSpecified),
		Email: orDefault(agent.Email, domain.NotSpecified),
	}
}

func (c *Client) getJSON(ctx context.Context, rawURL string, timeout time.Duration, out any) (int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// Форматы поля moment, встречающиеся в ответах источника
var momentLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
}

func parseMoment(s string) time.Time {
	for _, layout := range momentLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

func hrefSuffix(href string) string {
	if href == "" {
		return "no_href"
	}
	parts := strings.Split(href, "/")
	return parts[len(parts)-1]
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
