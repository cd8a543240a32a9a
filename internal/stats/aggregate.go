// Package stats превращает списки нормализованных документов в статистические
// сводки. Все функции чистые: результат зависит только от аргументов.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/rozabot/skladstat/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	topPeriod = 10 // топ контрагентов в отчетах за период
	topDaily  = 3  // топ контрагентов в итогах дня
	recentMax = 3  // последние платежи в отчете
)

var hundred = decimal.NewFromInt(100)

// SummarizeSales агрегирует заказы покупателей и розничные продажи за период.
// Анализ новых/постоянных покупателей и топ ведутся только по заказам.
func SummarizeSales(orders, retail []domain.TransactionRecord) domain.SalesSummary {
	s := domain.SalesSummary{
		Orders: subset(orders),
		Retail: subset(retail),
	}
	s.TotalSales = combine(s.Orders, s.Retail)

	customers := groupByAgent(orders)
	s.CustomerCount = len(customers)
	s.TopCustomers = rank(customers, topPeriod)

	for _, c := range sortedRollups(customers) {
		if c.Count == 1 {
			s.NewCustomers = append(s.NewCustomers, c)
		} else {
			s.ReturningCustomers = append(s.ReturningCustomers, c)
		}
	}

	return s
}

// SummarizePayments агрегирует входящие платежи за период
func SummarizePayments(payments []domain.TransactionRecord) domain.PaymentsSummary {
	s := domain.PaymentsSummary{
		Payments: subset(payments),
	}

	payers := groupByAgent(payments)
	s.PayerCount = len(payers)
	s.TopPayers = rank(payers, topPeriod)
	s.PaymentTypes = paymentTypes(payments)

	if len(payments) > recentMax {
		s.Recent = append(s.Recent, payments[:recentMax]...)
	} else {
		s.Recent = append(s.Recent, payments...)
	}

	return s
}

// SummarizeDaily строит сводку итогов дня: те же правила группировки,
// но топ-3 вместо топ-10 плюс конверсия платежей в продажи
func SummarizeDaily(date time.Time, orders, retail, payments []domain.TransactionRecord) domain.DailySummary {
	s := domain.DailySummary{
		Date:     date,
		Orders:   subset(orders),
		Retail:   subset(retail),
		Payments: subset(payments),
	}
	s.TotalSales = combine(s.Orders, s.Retail)

	customers := groupByAgent(orders)
	payers := groupByAgent(payments)

	s.UniqueCustomers = len(customers)
	s.UniquePayers = len(payers)
	s.TopCustomers = rank(customers, topDaily)
	s.TopPayers = rank(payers, topDaily)

	// Конверсия определена только при ненулевых продажах
	if s.TotalSales.Count > 0 && s.TotalSales.Total.IsPositive() {
		conv := s.Payments.Total.Div(s.TotalSales.Total).Mul(hundred)
		s.Conversion = &conv
	}

	return s
}

// Ratio возвращает соотношение новых и постоянных покупателей в процентах
func Ratio(newCount, returningCount int) string {
	total := newCount + returningCount
	if total == 0 {
		return "0% / 0%"
	}
	newPct := float64(newCount) / float64(total) * 100
	return fmt.Sprintf("%.1f%% / %.1f%%", newPct, 100-newPct)
}

// subset считает количество, сумму и средний чек подмножества документов
func subset(records []domain.TransactionRecord) domain.SubsetStats {
	s := domain.SubsetStats{Total: decimal.Zero, Average: decimal.Zero}
	for _, r := range records {
		s.Count++
		s.Total = s.Total.Add(r.Sum)
	}
	if s.Count > 0 {
		s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count)))
	}
	return s
}

func combine(a, b domain.SubsetStats) domain.SubsetStats {
	s := domain.SubsetStats{
		Count:   a.Count + b.Count,
		Total:   a.Total.Add(b.Total),
		Average: decimal.Zero,
	}
	if s.Count > 0 {
		s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count)))
	}
	return s
}

// groupByAgent накапливает статистику по контрагентам за один проход.
// Документы без контрагента в группировку не попадают.
func groupByAgent(records []domain.TransactionRecord) map[string]domain.Rollup {
	grouped := make(map[string]domain.Rollup)
	for _, r := range records {
		if r.Agent == nil {
			continue
		}
		roll, ok := grouped[r.Agent.ID]
		if !ok {
			roll = domain.Rollup{Counterparty: *r.Agent, Total: decimal.Zero}
		}
		roll.Count++
		roll.Total = roll.Total.Add(r.Sum)
		grouped[r.Agent.ID] = roll
	}
	return grouped
}

// rank возвращает до n контрагентов по убыванию суммы,
// при равенстве сумм — по возрастанию идентификатора
func rank(grouped map[string]domain.Rollup, n int) []domain.Rollup {
	all := sortedRollups(grouped)
	if len(all) > n {
		all = all[:n]
	}
	return all
}

func sortedRollups(grouped map[string]domain.Rollup) []domain.Rollup {
	all := make([]domain.Rollup, 0, len(grouped))
	for _, r := range grouped {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Total.Equal(all[j].Total) {
			return all[i].Total.GreaterThan(all[j].Total)
		}
		return all[i].ID < all[j].ID
	})
	return all
}

// paymentTypes суммирует платежи по типам, по убыванию суммы
func paymentTypes(payments []domain.TransactionRecord) []domain.PaymentTypeStats {
	byType := make(map[string]domain.PaymentTypeStats)
	for _, p := range payments {
		label := p.PaymentType
		if label == "" {
			label = domain.NotSpecified
		}
		pt, ok := byType[label]
		if !ok {
			pt = domain.PaymentTypeStats{Type: label, Total: decimal.Zero}
		}
		pt.Count++
		pt.Total = pt.Total.Add(p.Sum)
		byType[label] = pt
	}

	all := make([]domain.PaymentTypeStats, 0, len(byType))
	for _, pt := range byType {
		all = append(all, pt)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Total.Equal(all[j].Total) {
			return all[i].Total.GreaterThan(all[j].Total)
		}
		return all[i].Type < all[j].Type
	})
	return all
}
