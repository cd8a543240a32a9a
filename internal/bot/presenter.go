package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/rozabot/skladstat/internal/domain"
	"github.com/rozabot/skladstat/internal/period"
	"github.com/rozabot/skladstat/internal/stats"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// русская локаль для денежных сумм: пробел между разрядами, запятая в дробной части
var ruPrinter = message.NewPrinter(language.Russian)

// в развернутых списках покупателей показывается не больше пяти строк
const customersListMax = 5

func money(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return ruPrinter.Sprintf("%.2f ₽", f)
}

func ordersWord(n int) string {
	if n == 1 {
		return "заказ"
	}
	return "заказа"
}

func paymentsWord(n int) string {
	if n == 1 {
		return "платеж"
	}
	return "платежа"
}

func phoneSuffix(phone string) string {
	if phone == "" || phone == domain.NotSpecified {
		return ""
	}
	return " 📞 " + phone
}

// periodKey кодирует период для callback-данных навигационных кнопок:
// символьный период как есть, произвольный как custom_<ДД.ММ.ГГГГ>_<ДД.ММ.ГГГГ>
func customKey(rng domain.DateRange) string {
	start, end := rng.Display()
	return "custom_" + start + "_" + end
}

func statsData(periodKey string) string {
	if strings.HasPrefix(periodKey, "custom_") {
		return "period_" + periodKey
	}
	return periodKey
}

// Welcome возвращает приветствие и главное меню
func Welcome() (string, Menu) {
	text := `🤖 *Бот статистики МойСклад*

📊 *Доступные команды:*
/today - Статистика за сегодня
/week - Статистика за неделю
/month - Статистика за месяц
/period - Статистика за указанный период
/top - Топ покупателей за месяц
/customers - Меню статистики покупателей
/payments - Входящие платежи
/daily - Итоги дня
/token - Подключить токен МойСклад
/status - Статус подключения
/help - Справка`
	return text, MainMenu()
}

// MainMenu возвращает главную клавиатуру
func MainMenu() Menu {
	return Menu{
		{{"📅 Сегодня", "today"}, {"📆 Неделя", "week"}},
		{{"📈 Месяц", "month"}, {"🏆 Топ", "top"}},
		{{"📊 Произвольный период", "period_menu"}},
		{{"👥 Покупатели", "customers_menu"}, {"💰 Платежи", "payments_menu"}},
		{{"📊 Итоги дня", "daily_summary"}},
	}
}

// Help возвращает текст справки
func Help() string {
	return `📚 *Справка по боту*

*Основные команды:*
/start - Главное меню с кнопками
/today - Статистика за сегодня
/week - Статистика за неделю
/month - Статистика за месяц
/period - Статистика за произвольный период
/top - Топ покупателей за месяц
/customers - Меню статистики покупателей
/payments - Входящие платежи
/payments_today, /payments_week, /payments_month - Платежи за период
/daily - Итоги дня
/token - Подключить токен МойСклад
/logout - Отключить токен
/status - Статус подключения
/cancel - Отменить текущий ввод
/help - Эта справка

*Что показывается:*
📊 *Статистика продаж:*
• Количество и сумма продаж
• Средний чек
• Уникальные покупатели
• Новые/постоянные покупатели

💰 *Входящие платежи:*
• Количество и сумма платежей
• Средний платеж
• Статистика по типам платежей
• Топ плательщиков
• Последние платежи

🏆 *Топ покупателей:*
• Топ-10 по сумме заказов
• Количество заказов
• Контактные данные

📊 *Итоги дня:*
• Продажи и платежи за день
• Топ-3 покупателя и плательщика
• Общая выручка и конверсия`
}

// PeriodMenu возвращает меню выбора произвольного периода
func PeriodMenu() (string, Menu) {
	text := `📊 *Статистика за произвольный период*

Выберите вариант:`
	menu := Menu{
		{{"📅 Ввести период", "enter_period"}, {"📆 Быстрый выбор", "quick_periods"}},
		{{"📅 Сегодня", "today"}, {"📆 Неделя", "week"}, {"📈 Месяц", "month"}},
		{{"🔙 Главное меню", "main_menu"}},
	}
	return text, menu
}

// QuickPeriodsMenu возвращает меню готовых периодов с уже вычисленными датами
func QuickPeriodsMenu(now time.Time) (string, Menu) {
	quick := func(k period.Keyword) string {
		start, end := period.Resolve(k, now).Display()
		return "quick_period_" + start + "_" + end
	}
	text := `📆 *Быстрый выбор периода*

Выберите один из готовых периодов:`
	menu := Menu{
		{{"📅 Последние 7 дней", quick(period.Last7Days)}, {"📅 Последние 30 дней", quick(period.Last30Days)}},
		{{"📅 Текущий квартал", quick(period.Quarter)}, {"📅 Текущий год", quick(period.Year)}},
		{{"📝 Ввести вручную", "enter_period"}, {"🔙 Назад", "period_menu"}},
	}
	return text, menu
}

// EnterPeriodPrompt возвращает инструкцию ручного ввода периода
func EnterPeriodPrompt() (string, Menu) {
	text := `📊 *Статистика за произвольный период*

📝 *Как указать период:*
1. Напишите начальную дату в формате *ДД.ММ.ГГГГ*
   Например: *01.01.2024*

2. Затем напишите конечную дату в том же формате
   Например: *31.01.2024*

💡 *Совет:* Вы можете указать любой период от 1 дня до нескольких лет.

*Отправьте начальную дату:*`
	return text, Menu{{{"🔙 Главное меню", "main_menu"}}}
}

// CustomersMenu возвращает меню статистики покупателей
func CustomersMenu() (string, Menu) {
	menu := Menu{
		{{"👥 Сегодня", "customers_today"}, {"👥 Неделя", "customers_week"}},
		{{"👥 Месяц", "customers_month"}, {"🏆 Топ месяца", "top_month"}},
		{{"💰 Платежи", "payments_menu"}, {"📊 Итоги дня", "daily_summary"}},
		{{"🔙 Главное меню", "main_menu"}},
	}
	return "📊 *Статистика покупателей*\n\nВыберите период:", menu
}

// PaymentsMenu возвращает меню входящих платежей
func PaymentsMenu() (string, Menu) {
	menu := Menu{
		{{"💰 Сегодня", "payments_today"}, {"💰 Неделя", "payments_week"}},
		{{"💰 Месяц", "payments_month"}, {"🏆 Топ плательщиков", "payments_top_month"}},
		{{"📊 Продажи", "customers_menu"}, {"📊 Итоги дня", "daily_summary"}},
		{{"🔙 Главное меню", "main_menu"}},
	}
	return "💰 *Входящие платежи*\n\nВыберите период:", menu
}

// SalesReport строит отчет продаж за период
func SalesReport(title, periodKey string, rng domain.DateRange, s *domain.SalesSummary, now time.Time) (string, Menu) {
	start, end := rng.Display()
	days := rng.Days()

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Статистика продаж за %s*\n\n", title)
	fmt.Fprintf(&b, "📅 Период: *%s - %s*\n", start, end)
	fmt.Fprintf(&b, "⏱️ Длительность: *%d* дней\n", days)

	b.WriteString("\n🛒 *ЗАКАЗЫ ПОКУПАТЕЛЕЙ:*\n")
	fmt.Fprintf(&b, "• Количество заказов: *%d*\n", s.Orders.Count)
	fmt.Fprintf(&b, "• Общая сумма: *%s*\n", money(s.Orders.Total))
	fmt.Fprintf(&b, "• Средний чек: *%s*\n", money(s.Orders.Average))
	fmt.Fprintf(&b, "• Уникальных покупателей: *%d*\n", s.CustomerCount)

	b.WriteString("\n🏪 *РОЗНИЧНЫЕ ПРОДАЖИ:*\n")
	fmt.Fprintf(&b, "• Количество продаж: *%d*\n", s.Retail.Count)
	fmt.Fprintf(&b, "• Общая сумма: *%s*\n", money(s.Retail.Total))
	fmt.Fprintf(&b, "• Средний чек: *%s*\n", money(s.Retail.Average))

	b.WriteString("\n📈 *ОБЩАЯ СТАТИСТИКА ПРОДАЖ:*\n")
	fmt.Fprintf(&b, "• Всего продаж: *%d*\n", s.TotalSales.Count)
	fmt.Fprintf(&b, "• Общая сумма: *%s*\n", money(s.TotalSales.Total))
	fmt.Fprintf(&b, "• Средний чек: *%s*\n", money(s.TotalSales.Average))

	writeCustomerAnalysis(&b, s)

	if days > 0 {
		perDay := func(count int) string {
			return ruPrinter.Sprintf("%.1f", float64(count)/float64(days))
		}
		b.WriteString("\n📊 *Средние показатели в день:*\n")
		fmt.Fprintf(&b, "• Заказы покупателей: *%s* в день\n", perDay(s.Orders.Count))
		fmt.Fprintf(&b, "• Розничные продажи: *%s* в день\n", perDay(s.Retail.Count))
		fmt.Fprintf(&b, "• Всего продаж: *%s* в день\n", perDay(s.TotalSales.Count))
		fmt.Fprintf(&b, "• Средняя выручка: *%s* в день\n",
			money(s.TotalSales.Total.Div(decimal.NewFromInt(int64(days)))))
	}

	fmt.Fprintf(&b, "\n⏰ Обновлено: %s", now.Format("15:04:05"))

	menu := Menu{
		{{"👥 Детали по покупателям", "customers_" + periodKey}, {"🏆 Топ покупателей", "top_" + periodKey}},
		{{"💰 Платежи за период", "payments_" + periodKey}, {"📊 Итоги дня", "daily_summary"}},
		{{"📅 Новый период", "period_menu"}, {"🔙 Главное меню", "main_menu"}},
	}
	return b.String(), menu
}

func writeCustomerAnalysis(b *strings.Builder, s *domain.SalesSummary) {
	if s.CustomerCount == 0 {
		b.WriteString("\n👤 *Анализ покупателей:*\n")
		b.WriteString("• Заказов покупателей нет - статистика недоступна\n")
		return
	}
	b.WriteString("\n👤 *Анализ покупателей (по заказам):*\n")
	fmt.Fprintf(b, "• Новые покупатели (1 заказ): *%d*\n", len(s.NewCustomers))
	fmt.Fprintf(b, "• Постоянные покупатели (>1 заказа): *%d*\n", len(s.ReturningCustomers))
	fmt.Fprintf(b, "• Соотношение новых/постоянных: *%s*\n",
		stats.Ratio(len(s.NewCustomers), len(s.ReturningCustomers)))
}

// CustomersReport строит детальный отчет по покупателям
func CustomersReport(title, periodKey string, rng domain.DateRange, s *domain.SalesSummary, now time.Time) (string, Menu) {
	start, end := rng.Display()

	var b strings.Builder
	fmt.Fprintf(&b, "👥 *Статистика по покупателям (по заказам) за %s*\n\n", title)
	fmt.Fprintf(&b, "📅 Период: %s - %s\n", start, end)

	b.WriteString("\n📊 *Общая статистика по заказам:*\n")
	fmt.Fprintf(&b, "• Количество заказов: *%d*\n", s.Orders.Count)
	fmt.Fprintf(&b, "• Общая сумма: *%s*\n", money(s.Orders.Total))
	fmt.Fprintf(&b, "• Средний чек: *%s*\n", money(s.Orders.Average))
	fmt.Fprintf(&b, "• Уникальных покупателей: *%d*\n", s.CustomerCount)

	fmt.Fprintf(&b, "\n🏪 *Розничные продажи за %s:*\n", title)
	fmt.Fprintf(&b, "• Количество продаж: *%d*\n", s.Retail.Count)
	fmt.Fprintf(&b, "• Общая сумма: *%s*\n", money(s.Retail.Total))

	writeCustomerAnalysis(&b, s)

	writeCustomerList(&b, "🆕 *Новые покупатели", s.NewCustomers, false)
	writeCustomerList(&b, "🎯 *Постоянные покупатели", s.ReturningCustomers, true)

	fmt.Fprintf(&b, "\n⏰ Обновлено: %s", now.Format("15:04:05"))

	menu := Menu{
		{{"📊 Статистика за период", statsData(periodKey)}, {"🏆 Топ покупателей", "top_" + periodKey}},
		{{"💰 Платежи за период", "payments_" + periodKey}, {"📊 Итоги дня", "daily_summary"}},
		{{"🔙 Меню покупателей", "customers_menu"}},
	}
	return b.String(), menu
}

func writeCustomerList(b *strings.Builder, header string, list []domain.Rollup, withOrders bool) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s (%d):*\n", header, len(list))
	for i, c := range list {
		if i == customersListMax {
			fmt.Fprintf(b, "... и ещё %d покупателей\n", len(list)-customersListMax)
			break
		}
		if withOrders {
			fmt.Fprintf(b, "%d. *%s* - %d %s, %s%s\n",
				i+1, c.Name, c.Count, ordersWord(c.Count), money(c.Total), phoneSuffix(c.Phone))
		} else {
			fmt.Fprintf(b, "%d. *%s* - %s%s\n", i+1, c.Name, money(c.Total), phoneSuffix(c.Phone))
		}
	}
}

// TopCustomersReport строит топ покупателей по заказам
func TopCustomersReport(title, periodKey string, rng domain.DateRange, s *domain.SalesSummary, now time.Time) (string, Menu) {
	start, end := rng.Display()

	var b strings.Builder
	fmt.Fprintf(&b, "🏆 *Топ покупателей по заказам за %s*\n\n", title)
	fmt.Fprintf(&b, "📅 Период: %s - %s\n", start, end)

	if len(s.TopCustomers) > 0 {
		b.WriteString("\n📊 *Топ-10 покупателей по сумме заказов:*\n")
		for i, c := range s.TopCustomers {
			fmt.Fprintf(&b, "\n%d. *%s*%s\n", i+1, c.Name, phoneSuffix(c.Phone))
			fmt.Fprintf(&b, "   💰 *%s* (%d %s)\n", money(c.Total), c.Count, ordersWord(c.Count))
		}
	} else {
		b.WriteString("\n📭 *Заказов покупателей не найдено за выбранный период*\n")
	}

	fmt.Fprintf(&b, "\n📈 *Общая статистика за %s:*\n", title)
	fmt.Fprintf(&b, "• Заказы покупателей: *%s* (%d заказов)\n", money(s.Orders.Total), s.Orders.Count)
	fmt.Fprintf(&b, "• Розничные продажи: *%s* (%d продаж)\n", money(s.Retail.Total), s.Retail.Count)
	fmt.Fprintf(&b, "• Всего продаж: *%s* (%d шт.)\n", money(s.TotalSales.Total), s.TotalSales.Count)

	if s.CustomerCount > 0 {
		fmt.Fprintf(&b, "• Уникальных покупателей (по заказам): *%d*\n", s.CustomerCount)
		fmt.Fprintf(&b, "• Новые покупатели: *%d*\n", len(s.NewCustomers))
		fmt.Fprintf(&b, "• Постоянные покупатели: *%d*\n", len(s.ReturningCustomers))
	}

	fmt.Fprintf(&b, "\n⏰ Обновлено: %s", now.Format("15:04:05"))

	menu := Menu{
		{{"📊 Статистика за период", statsData(periodKey)}, {"👥 Все покупатели", "customers_" + periodKey}},
		{{"💰 Платежи за период", "payments_" + periodKey}, {"📊 Итоги дня", "daily_summary"}},
		{{"🔙 Главное меню", "main_menu"}},
	}
	return b.String(), menu
}

// PaymentsReport строит отчет входящих платежей
func PaymentsReport(title, periodKey string, rng domain.DateRange, s *domain.PaymentsSummary) (string, Menu) {
	start, end := rng.Display()

	var b strings.Builder
	fmt.Fprintf(&b, "💰 *Входящие платежи за %s*\n\n", title)
	fmt.Fprintf(&b, "📅 Период: %s - %s\n", start, end)

	b.WriteString("\n📈 *Основные показатели:*\n")
	fmt.Fprintf(&b, "• Количество платежей: *%d*\n", s.Payments.Count)
	fmt.Fprintf(&b, "• Общая сумма: *%s*\n", money(s.Payments.Total))
	fmt.Fprintf(&b, "• Средний платеж: *%s*\n", money(s.Payments.Average))
	fmt.Fprintf(&b, "• Уникальных плательщиков: *%d*\n", s.PayerCount)

	if len(s.PaymentTypes) > 0 {
		b.WriteString("\n💳 *Статистика по типам платежей:*\n")
		for i, pt := range s.PaymentTypes {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "%d. *%s*: %s (%d платежей)\n", i+1, pt.Type, money(pt.Total), pt.Count)
		}
	}

	if len(s.TopPayers) > 0 {
		b.WriteString("\n🏆 *Топ-5 плательщиков:*\n\n")
		for i, p := range s.TopPayers {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "%d. *%s*%s\n", i+1, p.Name, phoneSuffix(p.Phone))
			fmt.Fprintf(&b, "   💰 *%s* (%d платежей)\n\n", money(p.Total), p.Count)
		}
	}

	if len(s.Recent) > 0 {
		b.WriteString("\n🕒 *Последние платежи:*\n")
		for i, p := range s.Recent {
			name := domain.UnnamedCounterparty
			if p.Agent != nil {
				name = p.Agent.Name
			}
			stamp := "--.-- --:--"
			if !p.Moment.IsZero() {
				stamp = p.Moment.Format("02.01 15:04")
			}
			fmt.Fprintf(&b, "%d. %s: *%s*\n %s\n\n", i+1, name, money(p.Sum), stamp)
		}
	}

	menu := Menu{
		{{"📊 Статистика за период", statsData(periodKey)}, {"🏆 Топ плательщиков", "payments_top_" + periodKey}},
		{{"📅 Другие периоды", "payments_menu"}, {"📊 Итоги дня", "daily_summary"}},
		{{"🔙 Главное меню", "main_menu"}},
	}
	return b.String(), menu
}

// DailyReport строит итоги дня
func DailyReport(s *domain.DailySummary, now time.Time) (string, Menu) {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *ИТОГИ ДНЯ — %s*\n\n", s.Date.Format(domain.DisplayDateLayout))
	fmt.Fprintf(&b, "🕐 *Время формирования:* %s\n", now.Format("15:04"))

	b.WriteString("\n🛒 *ЗАКАЗЫ ПОКУПАТЕЛЕЙ:*\n")
	fmt.Fprintf(&b, "• Количество заказов: *%d*\n", s.Orders.Count)
	fmt.Fprintf(&b, "• Общая сумма: *%s*\n", money(s.Orders.Total))
	fmt.Fprintf(&b, "• Средний чек: *%s*\n", money(s.Orders.Average))
	fmt.Fprintf(&b, "• Уникальных покупателей: *%d*\n", s.UniqueCustomers)

	b.WriteString("\n🏪 *РОЗНИЧНЫЕ ПРОДАЖИ:*\n")
	fmt.Fprintf(&b, "• Количество продаж: *%d*\n", s.Retail.Count)
	fmt.Fprintf(&b, "• Общая сумма: *%s*\n", money(s.Retail.Total))
	fmt.Fprintf(&b, "• Средний чек: *%s*\n", money(s.Retail.Average))

	b.WriteString("\n📈 *ОБЩАЯ СТАТИСТИКА ПРОДАЖ:*\n")
	fmt.Fprintf(&b, "• Всего продаж: *%d*\n", s.TotalSales.Count)
	fmt.Fprintf(&b, "• Общая сумма: *%s*\n", money(s.TotalSales.Total))
	fmt.Fprintf(&b, "• Средний чек: *%s*\n", money(s.TotalSales.Average))

	b.WriteString("\n💰 *ПЛАТЕЖИ:*\n")
	fmt.Fprintf(&b, "• Количество платежей: *%d*\n", s.Payments.Count)
	fmt.Fprintf(&b, "• Общая сумма: *%s*\n", money(s.Payments.Total))
	fmt.Fprintf(&b, "• Средний платеж: *%s*\n", money(s.Payments.Average))
	fmt.Fprintf(&b, "• Уникальных плательщиков: *%d*\n", s.UniquePayers)

	if len(s.TopCustomers) > 0 {
		b.WriteString("\n🏆 *ТОП-3 ПОКУПАТЕЛЯ ДНЯ (по заказам):*\n")
		for i, c := range s.TopCustomers {
			fmt.Fprintf(&b, "%d. *%s*%s\n", i+1, c.Name, phoneSuffix(c.Phone))
			fmt.Fprintf(&b, "   💰 *%s* (%d %s)\n", money(c.Total), c.Count, ordersWord(c.Count))
		}
	} else {
		b.WriteString("\n📭 *Заказов покупателей за сегодня нет*\n")
	}

	if len(s.TopPayers) > 0 {
		b.WriteString("\n💰 *ТОП-3 ПЛАТЕЛЬЩИКА ДНЯ:*\n")
		for i, p := range s.TopPayers {
			fmt.Fprintf(&b, "%d. *%s*%s\n", i+1, p.Name, phoneSuffix(p.Phone))
			fmt.Fprintf(&b, "   💸 *%s* (%d %s)\n", money(p.Total), p.Count, paymentsWord(p.Count))
		}
	} else {
		b.WriteString("\n📭 *Платежей за сегодня нет*\n")
	}

	fmt.Fprintf(&b, "\n💵 *ОБЩАЯ ВЫРУЧКА ДНЯ:* *%s*\n", money(s.TotalSales.Total.Add(s.Payments.Total)))
	if s.Conversion != nil {
		f, _ := s.Conversion.Round(1).Float64()
		fmt.Fprintf(&b, "📈 *Конверсия платежей:* %.1f%%\n", f)
	}

	fmt.Fprintf(&b, "\n⏰ *Обновлено:* %s", now.Format("15:04:05"))

	menu := Menu{
		{{"📊 Подробная статистика", "today"}, {"💰 Платежи сегодня", "payments_today"}},
		{{"🔄 Обновить", "daily_summary"}, {"🔙 Главное меню", "main_menu"}},
	}
	return b.String(), menu
}

// Подсказки и тексты диалогов

func Loading(what string) string {
	return fmt.Sprintf("⏳ *Загружаю %s...*", what)
}

func StartDateAccepted(date time.Time) string {
	return fmt.Sprintf("✅ *Начальная дата принята:* %s\n\n📅 Теперь введите конечную дату в том же формате:\nНапример: 31.01.2024",
		date.Format(domain.DisplayDateLayout))
}

func InvalidDate() string {
	return "❌ *Неверный формат даты!*\n\nПожалуйста, введите дату в формате ДД.ММ.ГГГГ\nНапример: 01.01.2024\n\nПопробуйте снова:"
}

func EndBeforeStart(start, end time.Time) string {
	return fmt.Sprintf("❌ *Конечная дата не может быть раньше начальной!*\n\nНачальная дата: %s\nКонечная дата: %s\n\nПожалуйста, введите конечную дату заново:",
		start.Format(domain.DisplayDateLayout), end.Format(domain.DisplayDateLayout))
}

func PeriodCancelled() string {
	return "❌ *Ввод отменен.*\n\nДля ввода нового периода используйте команду /period"
}

func ReportError(title string) string {
	return fmt.Sprintf("❌ Ошибка при получении статистики за %s. Попробуйте снова или выберите другую команду.", title)
}

func UnknownInput() string {
	return "❌ Неизвестная команда. Используйте меню или /help."
}

// Тексты подключения токена

// TokenPrompt просит прислать токен; orgName — подключенная организация,
// пустая строка если токен не привязан
func TokenPrompt(orgName string) string {
	var b strings.Builder
	b.WriteString("🔑 *Подключение МойСклад*\n\n")
	if orgName != "" {
		fmt.Fprintf(&b, "Сейчас подключена организация: *%s*\nНовый токен заменит текущий.\n\n", orgName)
	}
	b.WriteString("Отправьте токен доступа к JSON API 1.2.\nТокен можно получить в настройках МойСклад.\n\nДля отмены используйте /cancel")
	return b.String()
}

func TokenLinked(org *domain.Organization) string {
	return fmt.Sprintf("✅ *Токен подключен!*\n\n🏢 Организация: *%s*\n📋 ИНН: %s\n📧 Email: %s",
		org.Name, org.INN, org.Email)
}

func TokenTooShort() string {
	return "❌ *Токен слишком короткий.*\n\nПроверьте, что скопировали токен целиком, и отправьте его снова:"
}

func TokenMalformed() string {
	return "❌ *Неверный формат токена.*\n\nТокен должен состоять из трех частей, разделенных точками. Проверьте и отправьте снова:"
}

func TokenRejected() string {
	return "❌ *МойСклад не принял токен.*\n\nПроверьте токен в настройках МойСклад и отправьте снова, либо /cancel"
}

func TokenCheckFailed() string {
	return "❌ Не удалось проверить токен: МойСклад недоступен. Попробуйте позже."
}

func TokenUnlinked() string {
	return "✅ Токен отключен. Для повторного подключения используйте /token"
}

func NoToken() string {
	return "🔑 Токен МойСклад не подключен.\n\nИспользуйте /token, чтобы подключить свой токен."
}

func StatusLinked(rec *domain.UserRecord) string {
	return fmt.Sprintf("✅ *МойСклад подключен*\n\n🏢 Организация: *%s*\n📋 ИНН: %s\n📧 Email: %s",
		rec.OrgName, rec.OrgINN, rec.OrgEmail)
}
