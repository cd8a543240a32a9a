// Package worker содержит фоновые задачи: ежедневную сводку по расписанию.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rozabot/skladstat/internal/bot"
	"github.com/rozabot/skladstat/internal/service"
	"go.uber.org/zap"
)

// Scheduler отправляет итоги дня в админский чат в заданное время
type Scheduler struct {
	reports     *service.ReportService
	sink        bot.Interactor
	adminChatID int64
	hour        int
	minute      int
	logger      *zap.Logger
	wg          sync.WaitGroup
	now         func() time.Time
}

// NewScheduler создает новый Scheduler
func NewScheduler(reports *service.ReportService, sink bot.Interactor, adminChatID int64, hour, minute int, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		reports:     reports,
		sink:        sink,
		adminChatID: adminChatID,
		hour:        hour,
		minute:      minute,
		logger:      logger,
		now:         time.Now,
	}
}

// Start запускает расписание. При adminChatID == 0 рассылка отключена.
func (s *Scheduler) Start(ctx context.Context) {
	if s.adminChatID == 0 {
		s.logger.Info("daily summary disabled, no admin chat configured")
		return
	}
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop дожидается завершения расписания
func (s *Scheduler) Stop() {
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	for {
		next := NextRun(s.now(), s.hour, s.minute)
		s.logger.Info("daily summary scheduled",
			zap.Time("next_run", next),
			zap.Int64("admin_chat_id", s.adminChatID),
		)

		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.sendDigest(ctx)
		}
	}
}

// NextRun возвращает ближайший момент ЧЧ:ММ строго после now
func NextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *Scheduler) sendDigest(ctx context.Context) {
	now := s.now()
	summary, err := s.reports.Daily(ctx, s.adminChatID, now)
	if err != nil {
		s.logger.Error("failed to build daily summary", zap.Error(err))
		return
	}

	text, menu := bot.DailyReport(summary, now)
	if err := s.sink.Reply(ctx, s.adminChatID, text, menu); err != nil {
		s.logger.Error("failed to send daily summary", zap.Error(err))
		return
	}
	s.logger.Info("daily summary sent", zap.Int64("admin_chat_id", s.adminChatID))
}
