package indicator

// SMA 简单移动平均线(Simple Moving Average)。
// 把最近 period 根收盘价加起来除以 period,得到一条平滑的均线,
// 常用来判断中长期趋势方向:价格在均线上方偏多,下方偏空。
// 返回的序列右对齐:第一个有效值对应原始序列的第 period-1 根,
// 长度为 len(input)-period+1;数据不足 period 根时返回空序列。
func SMA(input []float64, period int) []float64 {
	if period <= 0 || len(input) < period {
		return nil
	}

	out := make([]float64, 0, len(input)-period+1)

	// 滚动窗口求和:每前进一根,加上新值、减去窗口最左边的旧值,
	// 避免每个点都重新累加一遍。
	var sum float64
	for i, v := range input {
		sum += v
		if i >= period {
			sum -= input[i-period]
		}
		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}

	return out
}

// EMA 指数移动平均线(Exponential Moving Average)。
// 与 SMA 不同,EMA 给越近的价格越大的权重,对行情变化反应更快。
// 种子值取前 period 根的 SMA,之后按经典递推公式:
//
//	EMA(t) = price(t)*k + EMA(t-1)*(1-k),k = 2/(period+1)
//
// 返回序列同样右对齐,第一个值落在第 period-1 根,长度 len(input)-period+1。
func EMA(input []float64, period int) []float64 {
	if period <= 0 || len(input) < period {
		return nil
	}

	out := make([]float64, 0, len(input)-period+1)

	var seed float64
	for _, v := range input[:period] {
		seed += v
	}
	seed /= float64(period)
	out = append(out, seed)

	k := 2.0 / float64(period+1)
	prev := seed
	for _, v := range input[period:] {
		prev = v*k + prev*(1-k)
		out = append(out, prev)
	}

	return out
}
