package download

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itqwq/chartkite/feed"
	"github.com/itqwq/chartkite/model"
)

type stubFeeder struct {
	candles []model.Candle
	err     error
}

func (s stubFeeder) Name() string { return "stub" }

func (s stubFeeder) Daily(_ context.Context, symbol string, _ int) ([]model.Candle, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]model.Candle, len(s.candles))
	for i, c := range s.candles {
		c.Symbol = symbol
		out[i] = c
	}
	return out, nil
}

func fixtureCandles(n int) []model.Candle {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, n)
	for i := range candles {
		price := 100 + float64(i)
		candles[i] = model.Candle{
			Time: day.AddDate(0, 0, i),
			Open: price, Close: price + 0.5,
			Low: price - 1, High: price + 1,
			Volume:   1000,
			Complete: true,
		}
	}
	return candles
}

func TestDownloadWritesCSVReadableByCSVFeed(t *testing.T) {
	output := filepath.Join(t.TempDir(), "AAPL.csv")
	downloader := NewDownloader(stubFeeder{candles: fixtureCandles(5)})

	err := downloader.Download(context.Background(), "AAPL", output, WithDays(5))
	require.NoError(t, err)

	csvFeed, err := feed.NewCSVFeed(feed.SymbolFile{Symbol: "AAPL", File: output})
	require.NoError(t, err)

	candles, err := csvFeed.Daily(context.Background(), "AAPL", 5)
	require.NoError(t, err)
	require.Len(t, candles, 5)
	assert.Equal(t, 100.0, candles[0].Open)
	assert.Equal(t, 100.5, candles[0].Close)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), candles[0].Time.UTC())
}

func TestDownloadFeederFailure(t *testing.T) {
	output := filepath.Join(t.TempDir(), "AAPL.csv")
	downloader := NewDownloader(stubFeeder{err: feed.ErrNoData})

	err := downloader.Download(context.Background(), "AAPL", output)
	assert.Error(t, err)
}

func TestDownloadAllSanitizesSymbols(t *testing.T) {
	dir := t.TempDir()
	downloader := NewDownloader(stubFeeder{candles: fixtureCandles(3)})

	err := downloader.DownloadAll(context.Background(), []string{"AAPL", "^GSPC"}, dir, WithDays(3))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "AAPL.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "_GSPC.csv"))
	assert.NoError(t, err)
}

func TestWithLookbackParsesDays(t *testing.T) {
	parameters := &Parameters{Days: 365}
	WithLookback("90d")(parameters)
	assert.Equal(t, 90, parameters.Days)

	// 非法时长保留原值
	WithLookback("bogus")(parameters)
	assert.Equal(t, 90, parameters.Days)
}
