package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yahooAgainst(server *httptest.Server) *Yahoo {
	return &Yahoo{client: resty.New().SetBaseURL(server.URL)}
}

func chartJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestYahooDailyParsesBars(t *testing.T) {
	server := httptest.NewServer(chartJSON(`{"chart":{"result":[{
		"timestamp":[1704153600,1704240000],
		"indicators":{"quote":[{
			"open":[100,101],"high":[102,103],"low":[99,100],
			"close":[101,102],"volume":[1000,2000]
		}]}}]}}`))
	defer server.Close()

	candles, err := yahooAgainst(server).Daily(context.Background(), "AAPL", 30)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, 101.0, candles[0].Close)
	assert.Equal(t, 2000.0, candles[1].Volume)
	assert.True(t, candles[0].Time.Before(candles[1].Time))
}

func TestYahooDailySkipsNullBars(t *testing.T) {
	server := httptest.NewServer(chartJSON(`{"chart":{"result":[{
		"timestamp":[1704153600,1704240000],
		"indicators":{"quote":[{
			"open":[100,null],"high":[102,null],"low":[99,null],
			"close":[101,null],"volume":[1000,null]
		}]}}]}}`))
	defer server.Close()

	candles, err := yahooAgainst(server).Daily(context.Background(), "AAPL", 30)
	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.Equal(t, 101.0, candles[0].Close)
}

func TestYahooDailyRaggedColumns(t *testing.T) {
	// 兄弟数组比时间轴短的畸形响应:只取对齐的部分,不崩。
	server := httptest.NewServer(chartJSON(`{"chart":{"result":[{
		"timestamp":[1704153600,1704240000,1704326400],
		"indicators":{"quote":[{
			"open":[100],"high":[102,103,104],"low":[99],
			"close":[101,102,103],"volume":[1000]
		}]}}]}}`))
	defer server.Close()

	candles, err := yahooAgainst(server).Daily(context.Background(), "AAPL", 30)
	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.Equal(t, 100.0, candles[0].Open)
}

func TestYahooDailyAPIError(t *testing.T) {
	server := httptest.NewServer(chartJSON(`{"chart":{"result":null,
		"error":{"code":"Not Found","description":"No data found"}}}`))
	defer server.Close()

	_, err := yahooAgainst(server).Daily(context.Background(), "NOPE", 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not Found")
}

func TestYahooDailyHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := yahooAgainst(server).Daily(context.Background(), "AAPL", 30)
	assert.Error(t, err)
}
