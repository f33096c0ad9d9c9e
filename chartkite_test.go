package chartkite

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itqwq/chartkite/model"
)

type stubFeeder struct {
	calls int
}

func (s *stubFeeder) Name() string { return "stub" }

func (s *stubFeeder) Daily(_ context.Context, symbol string, _ int) ([]model.Candle, error) {
	s.calls++
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, 40)
	for i := range candles {
		price := 100 + float64(i)
		candles[i] = model.Candle{
			Symbol: symbol,
			Time:   base.AddDate(0, 0, i),
			Open:   price - 0.5, Close: price,
			High: price + 1, Low: price - 1,
			Volume:   1000,
			Complete: true,
		}
	}
	return candles, nil
}

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(text string) { r.messages = append(r.messages, text) }
func (r *recordingNotifier) OnError(err error)  {}

func TestNewChartkiteRequiresSymbols(t *testing.T) {
	_, err := NewChartkite(context.Background(), Settings{}, &stubFeeder{})
	assert.Error(t, err)
}

func TestNewChartkiteAppliesDefaults(t *testing.T) {
	app, err := NewChartkite(context.Background(), Settings{Symbols: []string{"AAPL"}}, &stubFeeder{})
	require.NoError(t, err)
	assert.Equal(t, 365, app.settings.Days)
	assert.Equal(t, 8080, app.settings.Port)
	assert.NotNil(t, app.cache)
	assert.NotNil(t, app.Chart())
}

func TestSummaryWritesReport(t *testing.T) {
	app, err := NewChartkite(context.Background(), Settings{Symbols: []string{"AAPL"}}, &stubFeeder{})
	require.NoError(t, err)

	var buffer bytes.Buffer
	require.NoError(t, app.Summary(context.Background(), &buffer))
	assert.Contains(t, buffer.String(), "AAPL")
	assert.Contains(t, buffer.String(), "CONFIDENCE INTERVAL")
}

func TestAlertsFireAfterRefresh(t *testing.T) {
	notifier := &recordingNotifier{}

	app, err := NewChartkite(context.Background(), Settings{Symbols: []string{"AAPL"}}, &stubFeeder{},
		WithNotifier(notifier),
		WithAlert("AAPL",
			func(df *model.Dataframe) bool { return df.Close.Last(0) > 100 },
			func(df *model.Dataframe) string { return "new high" },
		),
	)
	require.NoError(t, err)

	app.refresh(context.Background())

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "AAPL")
	assert.Contains(t, notifier.messages[0], "new high")
}

func TestRunRejectsInvalidCron(t *testing.T) {
	settings := Settings{Symbols: []string{"AAPL"}, Refresh: "not a cron expr"}
	app, err := NewChartkite(context.Background(), settings, &stubFeeder{})
	require.NoError(t, err)

	err = app.Run(context.Background())
	assert.Error(t, err)
}
