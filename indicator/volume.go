package indicator

// OBV 能量潮(On-Balance Volume)。
// 把成交量按收盘涨跌记上符号累加:收涨加当日量,收跌减当日量,
// 平盘不变。量在价先,OBV 与价格的背离常被视为趋势衰竭的征兆。
// 首日取 0,返回序列与输入等长。
func OBV(close, volume []float64) []float64 {
	n := len(close)
	if n == 0 || len(volume) != n {
		return nil
	}

	out := make([]float64, n)
	for i := 1; i < n; i++ {
		switch {
		case close[i] > close[i-1]:
			out[i] = out[i-1] + volume[i]
		case close[i] < close[i-1]:
			out[i] = out[i-1] - volume[i]
		default:
			out[i] = out[i-1]
		}
	}

	return out
}

// moneyFlowMultiplier 收盘位置系数:衡量收盘价落在当日高低区间的
// 哪一侧,收在最高点为 +1,收在最低点为 -1,正中间为 0。
// 高低点相同(一字线)时区间为零,约定系数取 0。
func moneyFlowMultiplier(high, low, close float64) float64 {
	if high == low {
		return 0
	}
	return ((close - low) - (high - close)) / (high - low)
}

// ADL 累积/派发线(Accumulation/Distribution Line)。
// 每日把"收盘位置系数 × 成交量"累加起来:收在区间上半部算
// 吸筹,下半部算派发。与 OBV 相比,ADL 关心的是收盘的位置
// 而不只是涨跌方向。返回序列与输入等长,从 0 起算。
func ADL(high, low, close, volume []float64) []float64 {
	n := len(close)
	if n == 0 || len(high) != n || len(low) != n || len(volume) != n {
		return nil
	}

	out := make([]float64, n)
	var cum float64
	for i := 0; i < n; i++ {
		cum += moneyFlowMultiplier(high[i], low[i], close[i]) * volume[i]
		out[i] = cum
	}

	return out
}

// CMF 蔡金资金流(Chaikin Money Flow)。
// 在 period 窗口内,把"收盘位置系数 × 成交量"的和除以成交量
// 总和,得到 -1~+1 之间的读数:持续为正说明资金在流入。
// 窗口内成交量合计为零时约定取 0。
// 第一个有效值对应第 period-1 根,长度 len(close)-period+1。
func CMF(high, low, close, volume []float64, period int) []float64 {
	n := len(close)
	if period <= 0 || n < period || len(high) != n || len(low) != n || len(volume) != n {
		return nil
	}

	out := make([]float64, 0, n-period+1)

	var flowSum, volSum float64
	for i := 0; i < n; i++ {
		flowSum += moneyFlowMultiplier(high[i], low[i], close[i]) * volume[i]
		volSum += volume[i]
		if i >= period {
			flowSum -= moneyFlowMultiplier(high[i-period], low[i-period], close[i-period]) * volume[i-period]
			volSum -= volume[i-period]
		}
		if i >= period-1 {
			if volSum == 0 {
				out = append(out, 0)
				continue
			}
			out = append(out, flowSum/volSum)
		}
	}

	return out
}

// VWAP 锚定成交量加权均价(Anchored VWAP)。
// 从锚点那根 K 线开始,累计"典型价 (H+L+C)/3 × 成交量"再除以
// 累计成交量,代表锚点以来所有买入者的平均持仓成本。价格在
// VWAP 上方,说明锚点后进场的人平均处于盈利状态。
// 锚点越界时收缩到有效范围;累计量为零时退化为当根典型价。
// 返回序列覆盖锚点到结尾,长度 len(close)-anchor。
func VWAP(high, low, close, volume []float64, anchor int) []float64 {
	n := len(close)
	if n == 0 || len(high) != n || len(low) != n || len(volume) != n {
		return nil
	}
	if anchor < 0 {
		anchor = 0
	}
	if anchor >= n {
		anchor = n - 1
	}

	out := make([]float64, 0, n-anchor)
	var cumPV, cumV float64
	for i := anchor; i < n; i++ {
		typical := (high[i] + low[i] + close[i]) / 3
		cumPV += typical * volume[i]
		cumV += volume[i]
		if cumV == 0 {
			out = append(out, typical)
			continue
		}
		out = append(out, cumPV/cumV)
	}

	return out
}
