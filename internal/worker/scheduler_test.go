package worker

import (
	"context"
	"testing"
	"time"

	"github.com/rozabot/skladstat/internal/bot"
	"github.com/rozabot/skladstat/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rozabot/skladstat/internal/service"
)

func TestNextRun(t *testing.T) {
	loc := time.Local

	t.Run("Later today", func(t *testing.T) {
		now := time.Date(2024, 3, 13, 12, 0, 0, 0, loc)
		next := NextRun(now, 23, 0)
		assert.Equal(t, time.Date(2024, 3, 13, 23, 0, 0, 0, loc), next)
	})

	t.Run("Already passed moves to tomorrow", func(t *testing.T) {
		now := time.Date(2024, 3, 13, 23, 30, 0, 0, loc)
		next := NextRun(now, 23, 0)
		assert.Equal(t, time.Date(2024, 3, 14, 23, 0, 0, 0, loc), next)
	})

	t.Run("Exact moment moves to tomorrow", func(t *testing.T) {
		now := time.Date(2024, 3, 13, 23, 0, 0, 0, loc)
		next := NextRun(now, 23, 0)
		assert.Equal(t, time.Date(2024, 3, 14, 23, 0, 0, 0, loc), next)
	})
}

// фиксирующий Interactor
type recordingSink struct {
	chatIDs []int64
	texts   []string
}

func (r *recordingSink) Reply(_ context.Context, chatID int64, text string, _ bot.Menu) error {
	r.chatIDs = append(r.chatIDs, chatID)
	r.texts = append(r.texts, text)
	return nil
}

func (r *recordingSink) Edit(_ context.Context, _ int64, _ int, _ string, _ bot.Menu) error {
	return nil
}

type stubStore struct{}

func (stubStore) Get(_ context.Context, _ int64) (*domain.UserRecord, error) {
	return nil, domain.ErrUserNotFound
}
func (stubStore) Set(_ context.Context, _ int64, _ *domain.UserRecord) error   { return nil }
func (stubStore) Delete(_ context.Context, _ int64) error                      { return nil }
func (stubStore) Touch(_ context.Context, _ int64, _, _, _ string) error       { return nil }
func (stubStore) ListLinked(_ context.Context) ([]domain.LinkedUser, error)    { return nil, nil }

type stubSource struct{}

func (stubSource) CustomerOrders(_ context.Context, _ domain.DateRange) ([]domain.TransactionRecord, error) {
	agent := &domain.Counterparty{ID: "a", Name: "ООО Альфа"}
	return []domain.TransactionRecord{
		{ID: "o1", Kind: domain.KindCustomerOrder, Agent: agent, Sum: decimal.RequireFromString("1000.00")},
	}, nil
}

func (stubSource) RetailSales(_ context.Context, _ domain.DateRange) ([]domain.TransactionRecord, error) {
	return nil, nil
}

func (stubSource) IncomingPayments(_ context.Context, _ domain.DateRange) ([]domain.TransactionRecord, error) {
	return nil, nil
}

func (stubSource) OrganizationInfo(_ context.Context) (*domain.Organization, error) {
	return &domain.Organization{}, nil
}

func TestScheduler_SendDigest(t *testing.T) {
	sink := &recordingSink{}
	tokens := service.NewTokenService(stubStore{}, func(string) domain.DataSource { return stubSource{} }, "g.l.t", zap.NewNop())
	reports := service.NewReportService(tokens, zap.NewNop())

	s := NewScheduler(reports, sink, -100200300, 23, 0, zap.NewNop())
	s.now = func() time.Time { return time.Date(2024, 3, 13, 23, 0, 0, 0, time.Local) }

	s.sendDigest(context.Background())

	require.Len(t, sink.texts, 1)
	assert.Equal(t, int64(-100200300), sink.chatIDs[0])
	assert.Contains(t, sink.texts[0], "ИТОГИ ДНЯ — 13.03.2024")
	assert.Contains(t, sink.texts[0], "ООО Альфа")
}

func TestScheduler_DisabledWithoutAdminChat(t *testing.T) {
	sink := &recordingSink{}
	tokens := service.NewTokenService(stubStore{}, func(string) domain.DataSource { return stubSource{} }, "", zap.NewNop())
	reports := service.NewReportService(tokens, zap.NewNop())

	s := NewScheduler(reports, sink, 0, 23, 0, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()
	s.Stop()

	assert.Empty(t, sink.texts)
}
