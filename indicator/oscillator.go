package indicator

// RSI 相对强弱指数(Relative Strength Index)。
// 衡量最近 period 根 K 线里涨幅与跌幅的力量对比,取值 0~100:
// 传统上 70 以上视为超买,30 以下视为超卖。
// 采用 Wilder 平滑:先用前 period 个涨跌幅的简单平均做种子,
// 之后按 avg = (prevAvg*(period-1) + current) / period 递推。
// 第一个有效值对应原始序列的第 period 根(需要 period 个差值),
// 长度为 len(input)-period;期间完全没有下跌时 RSI 取 100。
func RSI(input []float64, period int) []float64 {
	if period <= 0 || len(input) < period+1 {
		return nil
	}

	out := make([]float64, 0, len(input)-period)

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		diff := input[i] - input[i-1]
		if diff > 0 {
			avgGain += diff
		} else {
			avgLoss -= diff
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out = append(out, rsiValue(avgGain, avgLoss))

	for i := period + 1; i < len(input); i++ {
		diff := input[i] - input[i-1]
		var gain, loss float64
		if diff > 0 {
			gain = diff
		} else {
			loss = -diff
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out = append(out, rsiValue(avgGain, avgLoss))
	}

	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	// 一路上涨、没有任何亏损时 RS 趋于无穷,直接取上界 100。
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACD 指数平滑异同移动平均线(Moving Average Convergence Divergence)。
// 快线 EMA(fast) 减慢线 EMA(slow) 得到 MACD 线,再对 MACD 线做一次
// EMA(signal) 得到信号线,两者之差就是柱状图(histogram)。
// MACD 线上穿信号线常被解读为买入信号,下穿则为卖出信号。
// 三条序列统一对齐到信号线的起点,即原始序列的第 slow+signal-2 根,
// 数据不足 slow+signal-1 根时三条都返回空。
func MACD(input []float64, fast, slow, signal int) (macd, sig, hist []float64) {
	if fast <= 0 || slow <= fast || signal <= 0 || len(input) < slow+signal-1 {
		return nil, nil, nil
	}

	emaFast := EMA(input, fast) // 长度 n-fast+1
	emaSlow := EMA(input, slow) // 长度 n-slow+1

	// 快慢两条 EMA 都右对齐,尾部截齐后相减得到完整的 MACD 线。
	line := make([]float64, len(emaSlow))
	offset := len(emaFast) - len(emaSlow)
	for i := range emaSlow {
		line[i] = emaFast[i+offset] - emaSlow[i]
	}

	sig = EMA(line, signal)
	macd = line[len(line)-len(sig):]
	hist = make([]float64, len(sig))
	for i := range sig {
		hist[i] = macd[i] - sig[i]
	}

	return macd, sig, hist
}

// MFI 资金流量指数(Money Flow Index)。
// 可以理解为"带成交量的 RSI":用典型价 (H+L+C)/3 乘以成交量得到
// 资金流,按典型价相对前一根的涨跌把资金流分成流入和流出两类,
// 在 period 窗口内比较两者大小,取值 0~100。
// 第一个有效值对应第 period 根;窗口内完全没有流出时取 100。
func MFI(high, low, close, volume []float64, period int) []float64 {
	n := len(close)
	if period <= 0 || n < period+1 || len(high) != n || len(low) != n || len(volume) != n {
		return nil
	}

	typical := make([]float64, n)
	for i := range close {
		typical[i] = (high[i] + low[i] + close[i]) / 3
	}

	// flows[i] 保存第 i 根的带符号资金流,正为流入、负为流出,
	// 方便滚动窗口把滑出的那根从对应的累加和里扣掉。
	flows := make([]float64, n)
	out := make([]float64, 0, n-period)

	var posSum, negSum float64
	for i := 1; i < n; i++ {
		raw := typical[i] * volume[i]
		switch {
		case typical[i] > typical[i-1]:
			flows[i] = raw
			posSum += raw
		case typical[i] < typical[i-1]:
			flows[i] = -raw
			negSum += raw
		}

		if i > period {
			old := flows[i-period]
			if old > 0 {
				posSum -= old
			} else if old < 0 {
				negSum -= -old
			}
		}

		if i >= period {
			if negSum == 0 {
				out = append(out, 100)
				continue
			}
			ratio := posSum / negSum
			out = append(out, 100-100/(1+ratio))
		}
	}

	return out
}
