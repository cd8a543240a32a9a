package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rozabot/skladstat/internal/domain"
	"github.com/rozabot/skladstat/internal/moysklad"
	"github.com/rozabot/skladstat/internal/period"
	"github.com/rozabot/skladstat/internal/service"
	"go.uber.org/zap"
)

// Dispatcher маршрутизует события чата к отчетам и диалогам
type Dispatcher struct {
	flows   *FlowStore
	tokens  *service.TokenService
	reports *service.ReportService
	sink    Interactor
	logger  *zap.Logger
	now     func() time.Time
}

// NewDispatcher создает новый Dispatcher
func NewDispatcher(tokens *service.TokenService, reports *service.ReportService, sink Interactor, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		flows:   NewFlowStore(),
		tokens:  tokens,
		reports: reports,
		sink:    sink,
		logger:  logger,
		now:     time.Now,
	}
}

// HandleEvent обрабатывает одно входящее событие чата
func (d *Dispatcher) HandleEvent(ctx context.Context, ev Event) {
	log := d.logger.With(
		zap.String("event_id", uuid.NewString()),
		zap.Int64("chat_id", ev.ChatID),
		zap.Int64("user_id", ev.UserID),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while handling event", zap.Any("panic", r))
			d.out(ctx, ev, ReportError("обработку запроса"), nil, log)
		}
	}()

	if err := d.tokens.Touch(ctx, ev.UserID, ev.Username, ev.FirstName, ev.LastName); err != nil {
		log.Warn("failed to touch user profile", zap.Error(err))
	}

	switch {
	case ev.IsCallback():
		log.Debug("callback received", zap.String("data", ev.CallbackData))
		d.handleCallback(ctx, ev, log)
	case ev.Command() != "":
		log.Debug("command received", zap.String("command", ev.Command()))
		d.handleCommand(ctx, ev, log)
	default:
		d.handleText(ctx, ev, log)
	}
}

func (d *Dispatcher) handleCommand(ctx context.Context, ev Event, log *zap.Logger) {
	switch ev.Command() {
	case "start":
		d.flows.Clear(ev.ChatID)
		text, menu := Welcome()
		d.out(ctx, ev, text, menu, log)
	case "help":
		d.out(ctx, ev, Help(), nil, log)
	case "today":
		d.sendSales(ctx, ev, string(period.Today), log)
	case "week":
		d.sendSales(ctx, ev, string(period.Week), log)
	case "month":
		d.sendSales(ctx, ev, string(period.Month), log)
	case "period":
		d.flows.Begin(ev.ChatID, StateAwaitStartDate)
		text, menu := EnterPeriodPrompt()
		d.out(ctx, ev, text, menu, log)
	case "top":
		d.sendTopCustomers(ctx, ev, string(period.Month), log)
	case "customers":
		text, menu := CustomersMenu()
		d.out(ctx, ev, text, menu, log)
	case "payments":
		text, menu := PaymentsMenu()
		d.out(ctx, ev, text, menu, log)
	case "payments_today":
		d.sendPayments(ctx, ev, string(period.Today), log)
	case "payments_week":
		d.sendPayments(ctx, ev, string(period.Week), log)
	case "payments_month":
		d.sendPayments(ctx, ev, string(period.Month), log)
	case "daily":
		d.sendDaily(ctx, ev, log)
	case "token":
		d.flows.Begin(ev.ChatID, StateAwaitToken)
		var orgName string
		if rec, err := d.tokens.Profile(ctx, ev.UserID); err == nil && rec.Token != "" {
			orgName = rec.OrgName
		}
		d.out(ctx, ev, TokenPrompt(orgName), nil, log)
	case "logout":
		if err := d.tokens.Unlink(ctx, ev.UserID); err != nil {
			log.Error("failed to unlink token", zap.Error(err))
			d.out(ctx, ev, ReportError("отключение токена"), nil, log)
			return
		}
		d.out(ctx, ev, TokenUnlinked(), nil, log)
	case "status":
		d.sendStatus(ctx, ev, log)
	case "cancel":
		d.flows.Clear(ev.ChatID)
		d.out(ctx, ev, PeriodCancelled(), nil, log)
	default:
		d.out(ctx, ev, UnknownInput(), nil, log)
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, ev Event, log *zap.Logger) {
	data := ev.CallbackData

	switch {
	case data == "main_menu":
		d.flows.Clear(ev.ChatID)
		text, menu := Welcome()
		d.out(ctx, ev, text, menu, log)
	case data == "period_menu":
		text, menu := PeriodMenu()
		d.out(ctx, ev, text, menu, log)
	case data == "enter_period":
		d.flows.Begin(ev.ChatID, StateAwaitStartDate)
		text, menu := EnterPeriodPrompt()
		d.out(ctx, ev, text, menu, log)
	case data == "quick_periods":
		text, menu := QuickPeriodsMenu(d.now())
		d.out(ctx, ev, text, menu, log)
	case data == "customers_menu":
		text, menu := CustomersMenu()
		d.out(ctx, ev, text, menu, log)
	case data == "payments_menu":
		text, menu := PaymentsMenu()
		d.out(ctx, ev, text, menu, log)
	case data == "daily_summary":
		d.sendDaily(ctx, ev, log)
	case data == "today" || data == "week" || data == "month":
		d.sendSales(ctx, ev, data, log)
	case data == "top":
		d.sendTopCustomers(ctx, ev, string(period.Month), log)
	case strings.HasPrefix(data, "quick_period_"):
		d.sendSales(ctx, ev, customKeyFromDates(strings.TrimPrefix(data, "quick_period_")), log)
	case strings.HasPrefix(data, "period_custom_"):
		d.sendSales(ctx, ev, customKeyFromDates(strings.TrimPrefix(data, "period_custom_")), log)
	case strings.HasPrefix(data, "payments_top_"):
		d.sendPayments(ctx, ev, strings.TrimPrefix(data, "payments_top_"), log)
	case strings.HasPrefix(data, "payments_"):
		d.sendPayments(ctx, ev, strings.TrimPrefix(data, "payments_"), log)
	case strings.HasPrefix(data, "customers_"):
		d.sendCustomers(ctx, ev, strings.TrimPrefix(data, "customers_"), log)
	case strings.HasPrefix(data, "top_"):
		d.sendTopCustomers(ctx, ev, strings.TrimPrefix(data, "top_"), log)
	default:
		log.Warn("unknown callback data", zap.String("data", data))
		d.out(ctx, ev, UnknownInput(), nil, log)
	}
}

func (d *Dispatcher) handleText(ctx context.Context, ev Event, log *zap.Logger) {
	input := strings.TrimSpace(ev.Text)

	switch d.flows.State(ev.ChatID) {
	case StateAwaitStartDate:
		date, err := period.ParseDate(input)
		if err != nil {
			d.flows.Touch(ev.ChatID)
			d.out(ctx, ev, InvalidDate(), nil, log)
			return
		}
		d.flows.AcceptStartDate(ev.ChatID, date)
		d.out(ctx, ev, StartDateAccepted(date), nil, log)

	case StateAwaitEndDate:
		end, err := period.ParseDate(input)
		if err != nil {
			d.flows.Touch(ev.ChatID)
			d.out(ctx, ev, InvalidDate(), nil, log)
			return
		}
		start, ok := d.flows.StartDate(ev.ChatID)
		if !ok {
			d.flows.Clear(ev.ChatID)
			d.out(ctx, ev, PeriodCancelled(), nil, log)
			return
		}
		if _, err := period.Explicit(start, end); err != nil {
			d.flows.Touch(ev.ChatID)
			d.out(ctx, ev, EndBeforeStart(start, end), nil, log)
			return
		}
		d.flows.Clear(ev.ChatID)
		key := "custom_" + start.Format(domain.DisplayDateLayout) + "_" + end.Format(domain.DisplayDateLayout)
		d.sendSales(ctx, ev, key, log)

	case StateAwaitToken:
		d.linkToken(ctx, ev, input, log)

	default:
		d.out(ctx, ev, UnknownInput(), nil, log)
	}
}

func (d *Dispatcher) linkToken(ctx context.Context, ev Event, input string, log *zap.Logger) {
	org, err := d.tokens.Link(ctx, ev.UserID, input)
	if err != nil {
		var rejected *moysklad.TokenRejectedError
		switch {
		case errors.Is(err, domain.ErrTokenTooShort):
			d.out(ctx, ev, TokenTooShort(), nil, log)
		case errors.Is(err, domain.ErrTokenMalformed):
			d.out(ctx, ev, TokenMalformed(), nil, log)
		case errors.As(err, &rejected):
			log.Info("token rejected by moysklad", zap.Int("status", rejected.Status))
			d.out(ctx, ev, TokenRejected(), nil, log)
		default:
			log.Error("token verification failed", zap.Error(err))
			d.out(ctx, ev, TokenCheckFailed(), nil, log)
		}
		return
	}
	d.flows.Clear(ev.ChatID)
	d.out(ctx, ev, TokenLinked(org), MainMenu(), log)
}

func (d *Dispatcher) sendStatus(ctx context.Context, ev Event, log *zap.Logger) {
	rec, err := d.tokens.Profile(ctx, ev.UserID)
	if err != nil || rec.Token == "" {
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			log.Error("failed to load profile", zap.Error(err))
		}
		d.out(ctx, ev, NoToken(), nil, log)
		return
	}
	d.out(ctx, ev, StatusLinked(rec), nil, log)
}

// resolveKey переводит ключ периода из callback-данных в диапазон и заголовок
func (d *Dispatcher) resolveKey(key string) (domain.DateRange, string, error) {
	if strings.HasPrefix(key, "custom_") {
		parts := strings.SplitN(strings.TrimPrefix(key, "custom_"), "_", 2)
		if len(parts) != 2 {
			return domain.DateRange{}, "", domain.ErrInvalidDateFormat
		}
		start, err := period.ParseDate(parts[0])
		if err != nil {
			return domain.DateRange{}, "", err
		}
		end, err := period.ParseDate(parts[1])
		if err != nil {
			return domain.DateRange{}, "", err
		}
		rng, err := period.Explicit(start, end)
		if err != nil {
			return domain.DateRange{}, "", err
		}
		return rng, parts[0] + " - " + parts[1], nil
	}

	k := period.Keyword(key)
	return period.Resolve(k, d.now()), k.Title(), nil
}

func customKeyFromDates(dates string) string {
	return "custom_" + dates
}

func (d *Dispatcher) sendSales(ctx context.Context, ev Event, key string, log *zap.Logger) {
	rng, title, err := d.resolveKey(key)
	if err != nil {
		d.out(ctx, ev, InvalidDate(), nil, log)
		return
	}
	d.out(ctx, ev, Loading("статистику за "+title), nil, log)

	summary, err := d.reports.Sales(ctx, ev.UserID, rng)
	if err != nil {
		d.reportError(ctx, ev, title, err, log)
		return
	}
	text, menu := SalesReport(title, key, rng, summary, d.now())
	d.out(ctx, ev, text, menu, log)
}

func (d *Dispatcher) sendCustomers(ctx context.Context, ev Event, key string, log *zap.Logger) {
	rng, title, err := d.resolveKey(key)
	if err != nil {
		d.out(ctx, ev, InvalidDate(), nil, log)
		return
	}
	d.out(ctx, ev, Loading("статистику покупателей за "+title), nil, log)

	summary, err := d.reports.Sales(ctx, ev.UserID, rng)
	if err != nil {
		d.reportError(ctx, ev, title, err, log)
		return
	}
	text, menu := CustomersReport(title, key, rng, summary, d.now())
	d.out(ctx, ev, text, menu, log)
}

func (d *Dispatcher) sendTopCustomers(ctx context.Context, ev Event, key string, log *zap.Logger) {
	rng, title, err := d.resolveKey(key)
	if err != nil {
		d.out(ctx, ev, InvalidDate(), nil, log)
		return
	}
	d.out(ctx, ev, Loading("топ покупателей за "+title), nil, log)

	summary, err := d.reports.Sales(ctx, ev.UserID, rng)
	if err != nil {
		d.reportError(ctx, ev, title, err, log)
		return
	}
	text, menu := TopCustomersReport(title, key, rng, summary, d.now())
	d.out(ctx, ev, text, menu, log)
}

func (d *Dispatcher) sendPayments(ctx context.Context, ev Event, key string, log *zap.Logger) {
	rng, title, err := d.resolveKey(key)
	if err != nil {
		d.out(ctx, ev, InvalidDate(), nil, log)
		return
	}
	d.out(ctx, ev, Loading("платежи за "+title), nil, log)

	summary, err := d.reports.Payments(ctx, ev.UserID, rng)
	if err != nil {
		d.reportError(ctx, ev, title, err, log)
		return
	}
	text, menu := PaymentsReport(title, key, rng, summary)
	d.out(ctx, ev, text, menu, log)
}

func (d *Dispatcher) sendDaily(ctx context.Context, ev Event, log *zap.Logger) {
	d.out(ctx, ev, Loading("итоги дня"), nil, log)

	summary, err := d.reports.Daily(ctx, ev.UserID, d.now())
	if err != nil {
		d.reportError(ctx, ev, "итоги дня", err, log)
		return
	}
	text, menu := DailyReport(summary, d.now())
	d.out(ctx, ev, text, menu, log)
}

func (d *Dispatcher) reportError(ctx context.Context, ev Event, title string, err error, log *zap.Logger) {
	var rejected *moysklad.TokenRejectedError
	switch {
	case errors.Is(err, domain.ErrNoToken):
		d.out(ctx, ev, NoToken(), nil, log)
	case errors.As(err, &rejected):
		log.Warn("data source rejected token", zap.Int("status", rejected.Status))
		d.out(ctx, ev, TokenRejected(), nil, log)
	default:
		log.Error("report failed", zap.String("period", title), zap.Error(err))
		d.out(ctx, ev, ReportError(title), nil, log)
	}
}

// out отправляет ответ: редактирует сообщение с кнопками при callback,
// иначе отвечает новым сообщением
func (d *Dispatcher) out(ctx context.Context, ev Event, text string, menu Menu, log *zap.Logger) {
	var err error
	if ev.IsCallback() {
		err = d.sink.Edit(ctx, ev.ChatID, ev.MessageID, text, menu)
	} else {
		err = d.sink.Reply(ctx, ev.ChatID, text, menu)
	}
	if err != nil {
		log.Error("failed to deliver message", zap.Error(err))
	}
}
