package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itqwq/chartkite/model"
)

// ascendingDataframe 30 根确定性上涨行情:close = 100+i,
// high = close+1,low = close-1,成交量恒为 1000。
func ascendingDataframe(t *testing.T, n int) *model.Dataframe {
	t.Helper()
	times := days(n)
	candles := make([]model.Candle, n)
	for i := 0; i < n; i++ {
		close := 100 + float64(i)
		candles[i] = model.Candle{
			Symbol: "TEST",
			Time:   times[i],
			Open:   close - 0.5,
			High:   close + 1,
			Low:    close - 1,
			Close:  close,
			Volume: 1000,
		}
	}
	return model.NewDataframe("TEST", candles)
}

func TestComputeEndToEnd(t *testing.T) {
	df := ascendingDataframe(t, 30)
	s := Compute(df, Params{SMAPeriod: 5, EMAPeriod: 5})

	// SMA(5) 在第 i 根的值是 (close[i-4]+...+close[i])/5 = 98+i;
	// 线性输入下 EMA(5) 与之完全一致(恒定滞后 2)。
	// 派生序列右对齐:原始下标 i 对应输出下标 i-4。
	checkpoints := []int{14, 20, 29}
	for _, i := range checkpoints {
		want := 98 + float64(i)
		assert.InDelta(t, want, s.SMA.Values[i-4], 1e-9, "SMA at bar %d", i)
		assert.InDelta(t, want, s.EMA.Values[i-4], 1e-9, "EMA at bar %d", i)
		assert.Equal(t, df.Time[i], s.SMA.Time[i-4])

		// 一路上涨没有亏损,RSI(14) 恒为 100(首个有效点在第 14 根)。
		assert.Equal(t, 100.0, s.RSI.Values[i-14], "RSI at bar %d", i)

		// 每根都收涨:OBV[i] = i*1000。
		assert.Equal(t, float64(i)*1000, s.OBV.Values[i], "OBV at bar %d", i)

		// close 恰好落在高低区间正中,系数为 0,ADL 恒为 0。
		assert.Equal(t, 0.0, s.ADL.Values[i], "ADL at bar %d", i)
	}
}

func TestComputeDefaultsApplied(t *testing.T) {
	df := ascendingDataframe(t, 60)
	s := Compute(df, Params{})

	// 默认参数下所有序列都齐备,且统一右对齐。
	assert.Len(t, s.SMA.Values, 60-20+1)
	assert.Len(t, s.RSI.Values, 60-14)
	assert.Len(t, s.MACD.MACD, 60-(26+9-2))
	assert.Len(t, s.ATR.Values, 60-14+1)
	assert.Len(t, s.Bollinger.Middle, 60-20+1)
	assert.Len(t, s.CMF.Values, 60-20+1)
	assert.Len(t, s.Fibonacci, 7)
	assert.NotEmpty(t, s.Pivots)
	require.Contains(t, s.HV, 20)
	assert.Len(t, s.HVTrend.Values, len(s.HV[20].Values))
	assert.Equal(t, 60, s.HeikinAshi.Len())

	// 两条 VWAP:一条锚在起点覆盖全程,一条只看最近 100 根,
	// 数据不足 100 根时锚收缩到起点。
	assert.Len(t, s.VWAPFull.Values, 60)
	assert.Len(t, s.VWAPNear.Values, 60)
}

func TestComputeShortInputYieldsEmptySeries(t *testing.T) {
	df := ascendingDataframe(t, 5)
	s := Compute(df, Params{})

	// 数据远不够预热:各指标返回空序列而不是报错。
	assert.Empty(t, s.RSI.Values)
	assert.Empty(t, s.MACD.MACD)
	assert.Empty(t, s.Bollinger.Middle)
	assert.Empty(t, s.Regression.Middle)
	assert.Empty(t, s.Pivots)

	// 不需要预热的累计型指标依然全长输出。
	assert.Len(t, s.OBV.Values, 5)
	assert.Len(t, s.ADL.Values, 5)
	assert.Len(t, s.Fibonacci, 7)
}
