package plot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itqwq/chartkite/model"
	"github.com/itqwq/chartkite/storage"
)

type stubFeeder struct {
	calls   int
	candles []model.Candle
	err     error
}

func (s *stubFeeder) Name() string { return "stub" }

func (s *stubFeeder) Daily(_ context.Context, symbol string, _ int) ([]model.Candle, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.candles, nil
}

func ascendingCandles(symbol string, n int) []model.Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, n)
	for i := 0; i < n; i++ {
		close := 100 + float64(i)
		candles[i] = model.Candle{
			Symbol: symbol,
			Time:   base.AddDate(0, 0, i),
			Open:   close - 0.5,
			High:   close + 1,
			Low:    close - 1,
			Close:  close,
			Volume: 1000,
		}
	}
	return candles
}

func TestHandleDataServesSnapshot(t *testing.T) {
	feeder := &stubFeeder{candles: ascendingCandles("AAPL", 60)}
	chart, err := NewChart(feeder, WithSymbols("AAPL"))
	require.NoError(t, err)

	server := httptest.NewServer(chart.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/data?symbol=AAPL")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Symbol   string   `json:"symbol"`
		Candles  []Candle `json:"candles"`
		Snapshot struct {
			SMA struct {
				Values []float64 `json:"values"`
			} `json:"sma"`
			Fibonacci []struct {
				Price float64 `json:"price"`
			} `json:"fibonacci"`
		} `json:"snapshot"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))

	assert.Equal(t, "AAPL", payload.Symbol)
	assert.Len(t, payload.Candles, 60)
	assert.Len(t, payload.Snapshot.SMA.Values, 60-20+1)
	assert.Len(t, payload.Snapshot.Fibonacci, 7)
}

func TestHandleDataWithoutSymbol(t *testing.T) {
	chart, err := NewChart(&stubFeeder{})
	require.NoError(t, err)

	server := httptest.NewServer(chart.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/data")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleDataFeedFailure(t *testing.T) {
	chart, err := NewChart(&stubFeeder{err: errors.New("boom")})
	require.NoError(t, err)

	server := httptest.NewServer(chart.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/data?symbol=AAPL")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestHandleIndexRedirectsToFirstSymbol(t *testing.T) {
	chart, err := NewChart(&stubFeeder{}, WithSymbols("MSFT", "AAPL"))
	require.NoError(t, err)

	server := httptest.NewServer(chart.Handler())
	defer server.Close()

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Get(server.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	// 标的按字母序排,重定向到第一个。
	assert.Equal(t, "/?symbol=AAPL", resp.Header.Get("Location"))
}

func TestHandleHealth(t *testing.T) {
	chart, err := NewChart(&stubFeeder{})
	require.NoError(t, err)

	server := httptest.NewServer(chart.Handler())
	defer server.Close()

	// 还没拉到过数据不算不健康,可能只是刚启动。
	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandleHealthStale(t *testing.T) {
	chart, err := NewChart(&stubFeeder{})
	require.NoError(t, err)

	// 最近一次成功拉取远超容忍窗口,实例该被摘掉了。
	chart.Lock()
	chart.lastUpdate = time.Now().Add(-3 * time.Hour)
	chart.Unlock()

	server := httptest.NewServer(chart.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandleHealthFresh(t *testing.T) {
	chart, err := NewChart(&stubFeeder{})
	require.NoError(t, err)

	chart.Lock()
	chart.lastUpdate = time.Now().Add(-10 * time.Minute)
	chart.Unlock()

	server := httptest.NewServer(chart.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDataUsesCache(t *testing.T) {
	cache, err := storage.FromMemory()
	require.NoError(t, err)
	defer cache.Close()

	feeder := &stubFeeder{candles: ascendingCandles("AAPL", 30)}
	chart, err := NewChart(feeder, WithSymbols("AAPL"), WithCache(cache, time.Minute))
	require.NoError(t, err)

	ctx := context.Background()
	_, _, err = chart.Snapshot(ctx, "AAPL")
	require.NoError(t, err)
	_, _, err = chart.Snapshot(ctx, "AAPL")
	require.NoError(t, err)

	// 第二次命中缓存,数据源只被打了一次。
	assert.Equal(t, 1, feeder.calls)
}
