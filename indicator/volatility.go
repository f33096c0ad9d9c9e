package indicator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TrueRange 真实波幅。
// 单根 K 线的波动不能只看最高减最低:跳空开盘时,昨收到今天的
// 高低点之间同样是持仓者承受的波动。TR 取三者中的最大值:
//
//	max(H-L, |H-prevC|, |L-prevC|)
//
// 第一根没有昨收,退化为 H-L。返回序列与输入等长。
func TrueRange(high, low, close []float64) []float64 {
	n := len(close)
	if n == 0 || len(high) != n || len(low) != n {
		return nil
	}

	out := make([]float64, n)
	out[0] = high[0] - low[0]
	for i := 1; i < n; i++ {
		tr := high[i] - low[i]
		if d := math.Abs(high[i] - close[i-1]); d > tr {
			tr = d
		}
		if d := math.Abs(low[i] - close[i-1]); d > tr {
			tr = d
		}
		out[i] = tr
	}

	return out
}

// ATR 平均真实波幅(Average True Range)。
// 对 TR 序列做 Wilder 平滑:前 period 个 TR 的简单平均做种子,
// 之后 ATR(t) = (ATR(t-1)*(period-1) + TR(t)) / period。
// ATR 越大说明近期波动越剧烈,常用来设定止损距离。
// 第一个有效值对应第 period-1 根,长度 len(close)-period+1。
func ATR(high, low, close []float64, period int) []float64 {
	tr := TrueRange(high, low, close)
	if period <= 0 || len(tr) < period {
		return nil
	}

	out := make([]float64, 0, len(tr)-period+1)

	var seed float64
	for _, v := range tr[:period] {
		seed += v
	}
	seed /= float64(period)
	out = append(out, seed)

	prev := seed
	for _, v := range tr[period:] {
		prev = (prev*float64(period-1) + v) / float64(period)
		out = append(out, prev)
	}

	return out
}

// BB 布林带(Bollinger Bands)。
// 中轨是 period 期简单均线,上下轨在中轨基础上加减 k 倍的
// 窗口内总体标准差(population std dev)。价格触及上轨说明
// 相对近期均值已偏高,触及下轨则偏低;带宽收窄往往预示变盘。
// 三条序列等长且右对齐,第一个值对应第 period-1 根。
func BB(input []float64, period int, k float64) (upper, middle, lower []float64) {
	middle = SMA(input, period)
	if middle == nil {
		return nil, nil, nil
	}

	upper = make([]float64, len(middle))
	lower = make([]float64, len(middle))
	for i := range middle {
		window := input[i : i+period]
		dev := stat.PopStdDev(window, nil)
		upper[i] = middle[i] + k*dev
		lower[i] = middle[i] - k*dev
	}

	return upper, middle, lower
}

// Keltner 肯特纳通道。
// 与布林带类似,但通道宽度用 ATR 而不是标准差来衡量:
// 中轨为 EMA(emaPeriod),上下轨为中轨 ± mult*ATR(atrPeriod)。
// 三条序列对齐到两个指标都就绪的位置,即第
// max(emaPeriod, atrPeriod)-1 根,数据不足时返回空。
func Keltner(high, low, close []float64, emaPeriod, atrPeriod int, mult float64) (upper, middle, lower []float64) {
	ema := EMA(close, emaPeriod)
	atr := ATR(high, low, close, atrPeriod)
	if ema == nil || atr == nil {
		return nil, nil, nil
	}

	size := len(ema)
	if len(atr) < size {
		size = len(atr)
	}
	ema = ema[len(ema)-size:]
	atr = atr[len(atr)-size:]

	upper = make([]float64, size)
	lower = make([]float64, size)
	for i := 0; i < size; i++ {
		upper[i] = ema[i] + mult*atr[i]
		lower[i] = ema[i] - mult*atr[i]
	}

	return upper, ema, lower
}

// KeltnerOnSeries 在一条没有高低价的派生序列上叠肯特纳通道。
// 把序列值同时当作高、低、收使用:TR 退化为相邻两点的差的
// 绝对值,ATR 衡量的就是这条序列自身的平均变动幅度。
func KeltnerOnSeries(values []float64, emaPeriod, atrPeriod int, mult float64) (upper, middle, lower []float64) {
	return Keltner(values, values, values, emaPeriod, atrPeriod, mult)
}

// HV 历史波动率(Historical Volatility),年化百分比。
// 先取对数收益率 ln(C(t)/C(t-1)),再对最近 period 个收益率求
// 样本标准差(除 n-1),乘以 sqrt(252) 年化、乘 100 转成百分数。
// 股票一年约 252 个交易日,这是期权定价里最常用的年化约定。
// 第一个有效值对应第 period 根,长度 len(close)-period。
func HV(close []float64, period int) []float64 {
	n := len(close)
	if period <= 1 || n < period+1 {
		return nil
	}

	returns := make([]float64, n-1)
	for i := 1; i < n; i++ {
		returns[i-1] = math.Log(close[i] / close[i-1])
	}

	out := make([]float64, 0, n-period)
	for i := period; i <= len(returns); i++ {
		window := returns[i-period : i]
		out = append(out, stat.StdDev(window, nil)*math.Sqrt(252)*100)
	}

	return out
}

// TrendLine 对整条序列做一次最小二乘直线拟合,返回拟合值序列。
// 用在波动率等派生序列上,可以一眼看出它整体是在抬升还是回落。
// 输入少于两个点时无法确定一条直线,返回空。
func TrendLine(input []float64) []float64 {
	if len(input) < 2 {
		return nil
	}

	xs := make([]float64, len(input))
	for i := range xs {
		xs[i] = float64(i)
	}

	alpha, beta := stat.LinearRegression(xs, input, nil, false)
	out := make([]float64, len(input))
	for i := range out {
		out[i] = alpha + beta*xs[i]
	}

	return out
}
