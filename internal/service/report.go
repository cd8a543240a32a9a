package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rozabot/skladstat/internal/domain"
	"github.com/rozabot/skladstat/internal/stats"
	"go.uber.org/zap"
)

// ReportService собирает сводки по продажам и платежам для пользователя
type ReportService struct {
	tokens *TokenService
	logger *zap.Logger
}

// NewReportService создает новый ReportService
func NewReportService(tokens *TokenService, logger *zap.Logger) *ReportService {
	return &ReportService{tokens: tokens, logger: logger}
}

// Sales возвращает сводку продаж за диапазон
func (s *ReportService) Sales(ctx context.Context, userID int64, rng domain.DateRange) (*domain.SalesSummary, error) {
	source, err := s.tokens.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	orders, err := source.CustomerOrders(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch orders: %w", err)
	}
	retail, err := source.RetailSales(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch retail sales: %w", err)
	}

	summary := stats.SummarizeSales(orders, retail)
	s.logger.Debug("sales summary built",
		zap.Int64("user_id", userID),
		zap.Time("start", rng.Start),
		zap.Time("end", rng.End),
		zap.Int("orders", summary.Orders.Count),
		zap.Int("retail", summary.Retail.Count),
	)
	return &summary, nil
}

// Payments возвращает сводку входящих платежей за диапазон
func (s *ReportService) Payments(ctx context.Context, userID int64, rng domain.DateRange) (*domain.PaymentsSummary, error) {
	source, err := s.tokens.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	payments, err := source.IncomingPayments(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch payments: %w", err)
	}

	summary := stats.SummarizePayments(payments)
	s.logger.Debug("payments summary built",
		zap.Int64("user_id", userID),
		zap.Time("start", rng.Start),
		zap.Time("end", rng.End),
		zap.Int("payments", summary.Payments.Count),
	)
	return &summary, nil
}

// Daily возвращает сводку одного дня: продажи, платежи и конверсия
func (s *ReportService) Daily(ctx context.Context, userID int64, date time.Time) (*domain.DailySummary, error) {
	source, err := s.tokens.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	rng := domain.DateRange{
		Start: day,
		End:   day.Add(24*time.Hour - time.Second),
	}

	orders, err := source.CustomerOrders(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch orders: %w", err)
	}
	retail, err := source.RetailSales(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch retail sales: %w", err)
	}
	payments, err := source.IncomingPayments(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch payments: %w", err)
	}

	summary := stats.SummarizeDaily(day, orders, retail, payments)
	return &summary, nil
}
