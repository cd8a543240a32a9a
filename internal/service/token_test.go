package service

import (
	"context"
	"strings"
	"testing"

	"github.com/rozabot/skladstat/internal/domain"
	"github.com/rozabot/skladstat/internal/moysklad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore реализует domain.TokenRepository в памяти для тестов
type memStore struct {
	records map[int64]*domain.UserRecord
}

func newMemStore() *memStore {
	return &memStore{records: make(map[int64]*domain.UserRecord)}
}

func (m *memStore) Get(_ context.Context, userID int64) (*domain.UserRecord, error) {
	rec, ok := m.records[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *rec
	return &copied, nil
}

func (m *memStore) Set(_ context.Context, userID int64, rec *domain.UserRecord) error {
	copied := *rec
	m.records[userID] = &copied
	return nil
}

func (m *memStore) Delete(_ context.Context, userID int64) error {
	if rec, ok := m.records[userID]; ok {
		rec.Token = ""
		rec.OrgName = ""
		rec.OrgINN = ""
		rec.OrgEmail = ""
	}
	return nil
}

func (m *memStore) Touch(_ context.Context, userID int64, username, firstName, lastName string) error {
	rec, ok := m.records[userID]
	if !ok {
		rec = &domain.UserRecord{}
		m.records[userID] = rec
	}
	if username != "" {
		rec.Username = username
	}
	if firstName != "" {
		rec.FirstName = firstName
	}
	if lastName != "" {
		rec.LastName = lastName
	}
	return nil
}

func (m *memStore) ListLinked(_ context.Context) ([]domain.LinkedUser, error) {
	var linked []domain.LinkedUser
	for id, rec := range m.records {
		if rec.Token != "" {
			linked = append(linked, domain.LinkedUser{UserID: id, OrgName: rec.OrgName})
		}
	}
	return linked, nil
}

// fakeSource реализует domain.DataSource с фиксированными ответами
type fakeSource struct {
	token     string
	orgCalls  *int
	orgErr    error
	orders    []domain.TransactionRecord
	retail    []domain.TransactionRecord
	payments  []domain.TransactionRecord
	lastRange *domain.DateRange
}

func (f *fakeSource) CustomerOrders(_ context.Context, rng domain.DateRange) ([]domain.TransactionRecord, error) {
	if f.lastRange != nil {
		*f.lastRange = rng
	}
	return f.orders, nil
}

func (f *fakeSource) RetailSales(_ context.Context, _ domain.DateRange) ([]domain.TransactionRecord, error) {
	return f.retail, nil
}

func (f *fakeSource) IncomingPayments(_ context.Context, _ domain.DateRange) ([]domain.TransactionRecord, error) {
	return f.payments, nil
}

func (f *fakeSource) OrganizationInfo(_ context.Context) (*domain.Organization, error) {
	if f.orgCalls != nil {
		*f.orgCalls++
	}
	if f.orgErr != nil {
		return nil, f.orgErr
	}
	return &domain.Organization{Name: "ООО Роза", INN: "7701234567", Email: "roza@example.ru"}, nil
}

// validToken собирает токен правильной формы достаточной длины
func validToken() string {
	return strings.Repeat("a", 20) + "." + strings.Repeat("b", 20) + "." + strings.Repeat("c", 20)
}

func TestCleanToken(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"Valid", validToken(), nil},
		{"Surrounded by junk", "  [\"" + validToken() + "\"]  ", nil},
		{"Backticks stripped", "`" + validToken() + "`", nil},
		{"Interior line break removed", strings.Repeat("a", 20) + ".\n" + strings.Repeat("b", 20) + "." + strings.Repeat("c", 10) + " " + strings.Repeat("c", 10), nil},
		{"Too short", "ab.cd", domain.ErrTokenTooShort},
		{"Empty", "", domain.ErrTokenTooShort},
		{"Two segments", strings.Repeat("a", 30) + "." + strings.Repeat("b", 30), domain.ErrTokenMalformed},
		{"Four segments", strings.Repeat("a", 20) + "." + strings.Repeat("b", 20) + "." + strings.Repeat("c", 20) + ".d", domain.ErrTokenMalformed},
		{"Empty segment", strings.Repeat("a", 30) + ".." + strings.Repeat("b", 30), domain.ErrTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := CleanToken(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, validToken(), token)
		})
	}
}

func TestTokenService_Link(t *testing.T) {
	ctx := context.Background()

	t.Run("Success persists token and organization", func(t *testing.T) {
		store := newMemStore()
		var orgCalls int
		svc := NewTokenService(store, func(token string) domain.DataSource {
			return &fakeSource{token: token, orgCalls: &orgCalls}
		}, "", zap.NewNop())

		org, err := svc.Link(ctx, 42, validToken())
		require.NoError(t, err)
		assert.Equal(t, "ООО Роза", org.Name)
		assert.Equal(t, 1, orgCalls)

		rec, err := store.Get(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, validToken(), rec.Token)
		assert.Equal(t, "ООО Роза", rec.OrgName)
		assert.Equal(t, "7701234567", rec.OrgINN)
	})

	t.Run("Malformed token never reaches the network", func(t *testing.T) {
		var orgCalls int
		svc := NewTokenService(newMemStore(), func(token string) domain.DataSource {
			return &fakeSource{orgCalls: &orgCalls}
		}, "", zap.NewNop())

		_, err := svc.Link(ctx, 42, "ab.cd")
		assert.ErrorIs(t, err, domain.ErrTokenTooShort)
		assert.Zero(t, orgCalls)
	})

	t.Run("Rejected token keeps remote status", func(t *testing.T) {
		svc := NewTokenService(newMemStore(), func(token string) domain.DataSource {
			return &fakeSource{orgErr: &moysklad.TokenRejectedError{Status: 401}}
		}, "", zap.NewNop())

		_, err := svc.Link(ctx, 42, validToken())
		var rejected *moysklad.TokenRejectedError
		require.ErrorAs(t, err, &rejected)
		assert.Equal(t, 401, rejected.Status)
	})

	t.Run("Existing profile survives relink", func(t *testing.T) {
		store := newMemStore()
		require.NoError(t, store.Touch(ctx, 42, "roza_admin", "Анна", ""))

		svc := NewTokenService(store, func(token string) domain.DataSource {
			return &fakeSource{}
		}, "", zap.NewNop())

		_, err := svc.Link(ctx, 42, validToken())
		require.NoError(t, err)

		rec, err := store.Get(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "roza_admin", rec.Username)
		assert.Equal(t, validToken(), rec.Token)
	})
}

func TestTokenService_Resolve(t *testing.T) {
	ctx := context.Background()
	factory := func(token string) domain.DataSource {
		return &fakeSource{token: token}
	}

	t.Run("Own token wins", func(t *testing.T) {
		store := newMemStore()
		require.NoError(t, store.Set(ctx, 42, &domain.UserRecord{Token: "own.token.value"}))
		svc := NewTokenService(store, factory, "global.token.value", zap.NewNop())

		source, err := svc.Resolve(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "own.token.value", source.(*fakeSource).token)
	})

	t.Run("Global fallback", func(t *testing.T) {
		svc := NewTokenService(newMemStore(), factory, "global.token.value", zap.NewNop())

		source, err := svc.Resolve(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "global.token.value", source.(*fakeSource).token)
	})

	t.Run("No token anywhere", func(t *testing.T) {
		svc := NewTokenService(newMemStore(), factory, "", zap.NewNop())

		_, err := svc.Resolve(ctx, 42)
		assert.ErrorIs(t, err, domain.ErrNoToken)
	})
}

func TestTokenService_Unlink(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.Set(ctx, 42, &domain.UserRecord{Token: "a.b.c", Username: "roza_admin", OrgName: "ООО Роза"}))

	svc := NewTokenService(store, func(string) domain.DataSource { return &fakeSource{} }, "", zap.NewNop())
	require.NoError(t, svc.Unlink(ctx, 42))

	rec, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, rec.Token)
	assert.Empty(t, rec.OrgName)
	assert.Equal(t, "roza_admin", rec.Username)
}
