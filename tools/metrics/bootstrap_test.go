package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestDailyReturns(t *testing.T) {
	returns := DailyReturns([]float64{100, 110, 99, 99})
	require.Len(t, returns, 3)
	assert.InDelta(t, 0.10, returns[0], 1e-12)
	assert.InDelta(t, -0.10, returns[1], 1e-12)
	assert.InDelta(t, 0.0, returns[2], 1e-12)
}

func TestDailyReturnsShortInput(t *testing.T) {
	assert.Nil(t, DailyReturns(nil))
	assert.Nil(t, DailyReturns([]float64{100}))
}

func TestDailyReturnsSkipsZeroBase(t *testing.T) {
	returns := DailyReturns([]float64{100, 0, 50})
	require.Len(t, returns, 1)
	assert.InDelta(t, -1.0, returns[0], 1e-12)
}

func TestMaxDrawdown(t *testing.T) {
	// 高点120,随后跌到90: 回撤 (120-90)/120 = 0.25
	dd := MaxDrawdown([]float64{100, 120, 110, 90, 115})
	assert.InDelta(t, 0.25, dd, 1e-12)
}

func TestMaxDrawdownMonotonicRise(t *testing.T) {
	assert.Zero(t, MaxDrawdown([]float64{1, 2, 3, 4}))
	assert.Zero(t, MaxDrawdown(nil))
}

func TestBootstrapConstantSample(t *testing.T) {
	values := []float64{0.01, 0.01, 0.01, 0.01}
	interval := Bootstrap(values, func(samples []float64) float64 {
		return stat.Mean(samples, nil)
	}, 200, 0.95)

	// 常数样本不管怎么重抽,均值都是同一个数,区间收缩成一个点
	assert.InDelta(t, 0.01, interval.Mean, 1e-12)
	assert.InDelta(t, 0.01, interval.Lower, 1e-12)
	assert.InDelta(t, 0.01, interval.Upper, 1e-12)
	assert.InDelta(t, 0.0, interval.StdDev, 1e-12)
}

func TestBootstrapIntervalOrdering(t *testing.T) {
	values := []float64{-0.02, 0.01, 0.03, -0.01, 0.02, 0.0, 0.015, -0.005}
	interval := Bootstrap(values, func(samples []float64) float64 {
		return stat.Mean(samples, nil)
	}, 500, 0.95)

	assert.LessOrEqual(t, interval.Lower, interval.Mean)
	assert.LessOrEqual(t, interval.Mean, interval.Upper)
	// 样本值都在[-0.02, 0.03]内,任何重抽样的均值也必然在这个范围内
	assert.GreaterOrEqual(t, interval.Lower, -0.02)
	assert.LessOrEqual(t, interval.Upper, 0.03)
}
