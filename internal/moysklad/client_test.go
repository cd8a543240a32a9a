package moysklad

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rozabot/skladstat/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRange() domain.DateRange {
	return domain.DateRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
		End:   time.Date(2024, 1, 31, 23, 59, 59, 0, time.Local),
	}
}

func TestClient_CustomerOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("Resolves full counterparty once per href", func(t *testing.T) {
		var agentFetches int64

		mux := http.NewServeMux()
		var server *httptest.Server
		mux.HandleFunc("/entity/counterparty/abc", func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt64(&agentFetches, 1)
			fmt.Fprint(w, `{"id":"abc","name":"ООО Альфа","phone":"+7 900 000-00-00"}`)
		})
		mux.HandleFunc("/entity/customerorder", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			assert.Contains(t, r.URL.Query().Get("filter"), "moment>=2024-01-01 00:00:00")
			assert.Equal(t, "agent", r.URL.Query().Get("expand"))
			fmt.Fprintf(w, `{
				"meta": {"size": 2},
				"rows": [
					{"id":"o1","moment":"2024-01-05 12:00:00.000","sum":15000,
					 "agent":{"meta":{"href":"%[1]s/entity/counterparty/abc"}}},
					{"id":"o2","moment":"2024-01-06 13:00:00.000","sum":5000,
					 "agent":{"meta":{"href":"%[1]s/entity/counterparty/abc"}}}
				]
			}`, server.URL)
		})
		server = httptest.NewServer(mux)
		defer server.Close()

		client := NewClient(server.URL, "test-token", zap.NewNop())
		records, err := client.CustomerOrders(ctx, testRange())
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, int64(1), agentFetches)
		assert.True(t, records[0].Sum.Equal(decimal.RequireFromString("150.00")))
		assert.Equal(t, "abc", records[0].Agent.ID)
		assert.Equal(t, "ООО Альфа", records[0].Agent.Name)
		assert.Equal(t, "+7 900 000-00-00", records[0].Agent.Phone)
		assert.Equal(t, domain.NotSpecified, records[0].Agent.Email)
		assert.Equal(t, domain.KindCustomerOrder, records[0].Kind)
	})

	t.Run("Counterparty fetch failure degrades to placeholder", func(t *testing.T) {
		mux := http.NewServeMux()
		var server *httptest.Server
		mux.HandleFunc("/entity/counterparty/def", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		mux.HandleFunc("/entity/customerorder", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{
				"meta": {"size": 1},
				"rows": [{"id":"o1","moment":"2024-01-05 12:00:00","sum":10000,
					"agent":{"meta":{"href":"%s/entity/counterparty/def"}}}]
			}`, server.URL)
		})
		server = httptest.NewServer(mux)
		defer server.Close()

		client := NewClient(server.URL, "test-token", zap.NewNop())
		records, err := client.CustomerOrders(ctx, testRange())
		require.NoError(t, err)
		require.Len(t, records, 1)

		assert.Equal(t, "def", records[0].Agent.ID)
		assert.Equal(t, domain.UnnamedCounterparty, records[0].Agent.Name)
	})

	t.Run("Order without agent gets stable synthetic id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"meta":{"size":1},"rows":[{"id":"o1","moment":"2024-01-05 12:00:00","sum":100}]}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-token", zap.NewNop())
		records, err := client.CustomerOrders(ctx, testRange())
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "no_agent", records[0].Agent.ID)
	})

	t.Run("Non-OK status means zero activity", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-token", zap.NewNop())
		records, err := client.CustomerOrders(ctx, testRange())
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("Follows pagination until meta size", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("offset") == "" {
				fmt.Fprint(w, `{"meta":{"size":3},"rows":[
					{"id":"o1","moment":"2024-01-05 12:00:00","sum":100},
					{"id":"o2","moment":"2024-01-05 13:00:00","sum":200}]}`)
				return
			}
			// Смещение равно числу уже полученных строк, короткая
			// промежуточная страница не приводит к пропуску
			assert.Equal(t, "2", r.URL.Query().Get("offset"))
			fmt.Fprint(w, `{"meta":{"size":3},"rows":[
				{"id":"o3","moment":"2024-01-05 14:00:00","sum":300}]}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-token", zap.NewNop())
		records, err := client.CustomerOrders(ctx, testRange())
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("Rows without sum are skipped", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"meta":{"size":2},"rows":[
				{"id":"o1","moment":"2024-01-05 12:00:00","sum":0},
				{"id":"o2","moment":"2024-01-05 13:00:00","sum":250}]}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-token", zap.NewNop())
		records, err := client.CustomerOrders(ctx, testRange())
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "o2", records[0].ID)
	})
}

func TestClient_RetailSales(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/entity/retaildemand", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("expand"))
		fmt.Fprint(w, `{"meta":{"size":1},"rows":[{"id":"r1","moment":"2024-01-05 12:00:00","sum":9900}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", zap.NewNop())
	records, err := client.RetailSales(context.Background(), testRange())
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.True(t, records[0].Sum.Equal(decimal.RequireFromString("99.00")))
	assert.Equal(t, domain.RetailCounterpartyID, records[0].Agent.ID)
	assert.Equal(t, domain.RetailCounterpartyName, records[0].Agent.Name)
}

func TestClient_IncomingPayments(t *testing.T) {
	ctx := context.Background()

	t.Run("Summary counterparty and payment type", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/entity/paymentin", r.URL.Path)
			assert.Equal(t, "100", r.URL.Query().Get("limit"))
			fmt.Fprint(w, `{"meta":{"size":3},"rows":[
				{"id":"p1","moment":"2024-01-06T14:30:00.000","sum":50000,
				 "agent":{"meta":{"href":"https://api/entity/counterparty/xyz"},"name":"ИП Бета"},
				 "paymentType":{"name":"Наличные"}},
				{"id":"p2","moment":"2024-01-06 15:00:00","sum":10000,
				 "agent":{"meta":{"href":"https://api/entity/counterparty/qqq"},"name":null}},
				{"id":"p3","moment":"2024-01-06 16:00:00","sum":5000}
			]}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-token", zap.NewNop())
		records, err := client.IncomingPayments(ctx, testRange())
		require.NoError(t, err)
		require.Len(t, records, 3)

		assert.Equal(t, "xyz", records[0].Agent.ID)
		assert.Equal(t, "ИП Бета", records[0].Agent.Name)
		assert.Equal(t, "Наличные", records[0].PaymentType)
		assert.Equal(t, 6, records[0].Moment.Day())
		assert.Equal(t, 14, records[0].Moment.Hour())

		assert.Equal(t, domain.UnnamedCounterparty, records[1].Agent.Name)
		assert.Equal(t, domain.NotSpecified, records[1].PaymentType)

		assert.Nil(t, records[2].Agent)
	})
}

func TestClient_CheckToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid token returns organization name", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/entity/company", r.URL.Path)
			fmt.Fprint(w, `{"name":"ООО Роза","inn":"7701234567"}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-token", zap.NewNop())
		org, err := client.CheckToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ООО Роза", org)
	})

	t.Run("Rejected token keeps remote status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient(server.URL, "bad-token", zap.NewNop())
		_, err := client.CheckToken(ctx)

		var rejected *TokenRejectedError
		require.ErrorAs(t, err, &rejected)
		assert.Equal(t, http.StatusUnauthorized, rejected.Status)
	})
}

func TestClient_OrganizationInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"ООО Роза","inn":"7701234567","email":"roza@example.ru"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", zap.NewNop())
	org, err := client.OrganizationInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ООО Роза", org.Name)
	assert.Equal(t, "7701234567", org.INN)
	assert.Equal(t, "roza@example.ru", org.Email)
	assert.Equal(t, domain.NotSpecified, org.Phone)
}
