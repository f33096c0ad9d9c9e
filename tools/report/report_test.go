package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itqwq/chartkite/model"
)

func dataframeFor(symbol string, closes []float64) *model.Dataframe {
	df := &model.Dataframe{Symbol: symbol, Metadata: make(map[string]model.Series[float64])}
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		df.Push(model.Candle{
			Symbol: symbol,
			Time:   day.AddDate(0, 0, i),
			Open:   c, Close: c, High: c + 1, Low: c - 1,
			Volume:   1000,
			Complete: true,
		})
	}
	return df
}

func TestSummaryWritesTableAndIntervals(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	var buffer bytes.Buffer
	err := Summary(&buffer, []*model.Dataframe{
		dataframeFor("AAPL", closes),
		dataframeFor("MSFT", []float64{50, 51, 49, 52}),
	})
	require.NoError(t, err)

	out := buffer.String()
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "MSFT")
	assert.Contains(t, out, "SYMBOL")
	assert.Contains(t, out, "DAILY RETURN DISTRIBUTION")
	assert.Contains(t, out, "CONFIDENCE INTERVAL")
}

func TestSummarySkipsEmptyDataframes(t *testing.T) {
	var buffer bytes.Buffer
	err := Summary(&buffer, []*model.Dataframe{
		{Symbol: "EMPTY", Metadata: make(map[string]model.Series[float64])},
	})
	require.NoError(t, err)
	assert.NotContains(t, buffer.String(), "EMPTY")
	assert.NotContains(t, buffer.String(), "DISTRIBUTION")
}
