package warera

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivnrby/warera-dashboard/internal/logger"
)

func testClient(t *testing.T, baseURL string, cfg Config) *Client {
	t.Helper()
	cfg.BaseURL = baseURL
	if cfg.APIKey == "" {
		cfg.APIKey = "test-key"
	}
	if cfg.RateDelay == 0 {
		cfg.RateDelay = time.Millisecond
	}
	c := NewClient(cfg, logger.New("error"))
	c.sleep = func(time.Duration) {}
	return c
}

func TestRequestSendsProtocolEnvelope(t *testing.T) {
	var gotQuery url.Values
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotKey = r.Header.Get("X-API-Key")
		w.Write([]byte(`[{"result":{"data":{"name":"Berlin"}}}]`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, Config{})
	raw, err := c.Request(context.Background(), "region.getById", map[string]any{"regionId": "r1"})
	require.NoError(t, err)

	assert.Equal(t, "1", gotQuery.Get("batch"))
	assert.Equal(t, "test-key", gotKey)
	assert.JSONEq(t, `{"0":{"regionId":"r1"}}`, gotQuery.Get("input"))
	assert.JSONEq(t, `{"name":"Berlin"}`, string(raw))
}

func TestRequestWithoutParamsOmitsInput(t *testing.T) {
	var hasInput bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasInput = r.URL.Query().Has("input")
		w.Write([]byte(`[{"result":{"data":{}}}]`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, Config{})
	_, err := c.Request(context.Background(), "gameConfig.getGameConfig", nil)
	require.NoError(t, err)
	assert.False(t, hasInput)
}

func TestRateLimitRetryHonorsResetHint(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("ratelimit-reset", "5")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[{"result":{"data":42}}]`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, Config{})
	var waits []time.Duration
	c.sleep = func(d time.Duration) { waits = append(waits, d) }

	raw, err := c.Request(context.Background(), "itemTrading.getPrices", nil)
	require.NoError(t, err)
	assert.Equal(t, "42", string(raw))

	require.Len(t, waits, 1)
	assert.GreaterOrEqual(t, waits[0], 5*time.Second, "must wait at least the reset hint")
}

func TestRateLimitFallbackBackoffIsTwiceDelay(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[{"result":{"data":1}}]`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, Config{RateDelay: 10 * time.Millisecond})
	var waits []time.Duration
	c.sleep = func(d time.Duration) { waits = append(waits, d) }

	_, err := c.Request(context.Background(), "itemTrading.getPrices", nil)
	require.NoError(t, err)
	require.Len(t, waits, 1)
	assert.Equal(t, 20*time.Millisecond, waits[0])
}

func TestRetryCountIsBounded(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, Config{MaxRetries: 3})
	_, err := c.Request(context.Background(), "itemTrading.getPrices", nil)
	require.Error(t, err)
	assert.EqualValues(t, 4, atomic.LoadInt32(&calls), "initial attempt plus three retries")
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, Config{})
	_, err := c.Request(context.Background(), "company.getById", map[string]any{"companyId": "x"})
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestServerErrorsAreRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[{"result":{"data":"ok"}}]`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, Config{})
	raw, err := c.Request(context.Background(), "itemTrading.getPrices", nil)
	require.NoError(t, err)
	assert.Equal(t, `"ok"`, string(raw))
}

func TestBatchRequestRejectsOversizedBatch(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, Config{MaxBatchSize: 100})
	oversized := make([]Call, 101)
	for i := range oversized {
		oversized[i] = Call{Endpoint: "tradingOrder.getTopOrders"}
	}

	_, err := c.BatchRequest(context.Background(), oversized)
	require.ErrorIs(t, err, ErrBatchTooLarge)
	assert.EqualValues(t, 0, atomic.LoadInt32(&calls), "fail fast without a network call")
}

func TestBatchRequestKeyedObjectResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"1":{"result":{"data":"b"}},"0":{"result":{"data":"a"}}}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, Config{})
	results, err := c.BatchRequest(context.Background(), []Call{
		{Endpoint: "tradingOrder.getTopOrders", Params: map[string]any{"itemCode": "iron"}},
		{Endpoint: "tradingOrder.getTopOrders", Params: map[string]any{"itemCode": "wood"}},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, `"a"`, string(results[0]))
	assert.Equal(t, `"b"`, string(results[1]))
}

func TestRequestsAreSpacedByRateDelay(t *testing.T) {
	var stamps []time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stamps = append(stamps, time.Now())
		w.Write([]byte(`[{"result":{"data":1}}]`))
	}))
	defer srv.Close()

	delay := 30 * time.Millisecond
	c := testClient(t, srv.URL, Config{RateDelay: delay})

	for i := 0; i < 2; i++ {
		_, err := c.Request(context.Background(), "itemTrading.getPrices", nil)
		require.NoError(t, err)
	}

	require.Len(t, stamps, 2)
	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), delay-5*time.Millisecond)
}

func TestGetCompanyIDsPagination(t *testing.T) {
	var inputs []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		input := r.URL.Query().Get("input")
		inputs = append(inputs, input)

		var decoded map[string]map[string]any
		require.NoError(t, json.Unmarshal([]byte(input), &decoded))
		if _, ok := decoded["0"]["cursor"]; !ok {
			w.Write([]byte(`[{"result":{"data":{"items":["c1","c2"],"nextCursor":"p2"}}}]`))
			return
		}
		w.Write([]byte(`[{"result":{"data":{"items":["c3"]}}}]`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, Config{})
	ids, err := c.GetCompanyIDs(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2", "c3"}, ids)
	assert.Len(t, inputs, 2)
}
