package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itqwq/chartkite/model"
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

func fastChain(feeders ...Feeder) *Chain {
	return NewChain(feeders, WithRetries(2), WithBackoff(time.Millisecond, time.Millisecond))
}

func TestChainFirstFeederWins(t *testing.T) {
	primary := &stubFeeder{candles: []model.Candle{{Symbol: "AAPL", Close: 100}}}
	fallback := &stubFeeder{candles: []model.Candle{{Symbol: "AAPL", Close: 999}}}

	got, err := fastChain(primary, fallback).Daily(context.Background(), "AAPL", 365)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 100.0, got[0].Close)
	assert.Zero(t, fallback.calls)
}

func TestChainFallsBackAfterRetries(t *testing.T) {
	primary := &stubFeeder{err: errors.New("rate limited")}
	fallback := &stubFeeder{candles: []model.Candle{{Symbol: "AAPL", Close: 100}}}

	got, err := fastChain(primary, fallback).Daily(context.Background(), "AAPL", 365)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// 主源重试耗尽后才降级到备用源。
	assert.Equal(t, 2, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestChainEmptyResultTreatedAsFailure(t *testing.T) {
	empty := &stubFeeder{}
	fallback := &stubFeeder{candles: []model.Candle{{Symbol: "AAPL", Close: 100}}}

	got, err := fastChain(empty, fallback).Daily(context.Background(), "AAPL", 365)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestChainAllFailed(t *testing.T) {
	bad := &stubFeeder{err: errors.New("boom")}

	_, err := fastChain(bad).Daily(context.Background(), "AAPL", 365)
	require.Error(t, err)
	assert.ErrorContains(t, err, "boom")
}

func TestChainRespectsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bad := &stubFeeder{err: errors.New("boom")}
	_, err := fastChain(bad).Daily(ctx, "AAPL", 365)
	assert.ErrorIs(t, err, context.Canceled)
}
