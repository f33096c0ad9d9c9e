package indicator

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Level 一条斐波那契回撤水平线。
type Level struct {
	Ratio float64 `json:"ratio"` // 回撤比例,0 表示区间最高点,1 表示最低点
	Price float64 `json:"price"`
}

// fibRatios 经典回撤比例,0 和 1 即区间本身的高低点。
var fibRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1}

// Fibonacci 斐波那契回撤。
// 取整段行情的最高价和最低价,在两者之间按黄金分割比例画出
// 一组水平线:价格从高点回落时,这些位置常被视为潜在支撑。
// 价格按比例从区间高点向下度量,Ratio=0 即最高点。
// 输入为空时返回空。
func Fibonacci(high, low []float64) []Level {
	if len(high) == 0 || len(low) == 0 {
		return nil
	}

	top, bottom := high[0], low[0]
	for _, v := range high {
		if v > top {
			top = v
		}
	}
	for _, v := range low {
		if v < bottom {
			bottom = v
		}
	}

	span := top - bottom
	out := make([]Level, 0, len(fibRatios))
	for _, r := range fibRatios {
		out = append(out, Level{Ratio: r, Price: top - span*r})
	}

	return out
}

// Box 一个达瓦斯箱体:Start 到 End 期间价格被压在 High 与 Low 之间。
type Box struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
}

// Darvas 达瓦斯箱体(Darvas Boxes)。
// 舞蹈家达瓦斯的经典思路:股价大部分时间在一个"箱子"里震荡,
// 突破箱顶才值得追。这里用单遍扫描近似刻画箱体:
//   - 创出新高:当前箱体作废,以这根 K 线重新开箱;
//   - 跌破箱底:箱底下移并计数,连续第 3 次确认箱体破位,
//     收掉当前箱体并在这根 K 线开新箱;
//   - 既没新高也没新低:破位计数清零。
//
// 扫描结束时尚未封口的箱体也一并输出,End 取最后一根的时间。
// 产出的箱体按时间先后排列、互不重叠。
func Darvas(times []time.Time, high, low []float64) []Box {
	n := len(high)
	if n == 0 || len(low) != n || len(times) != n {
		return nil
	}

	var boxes []Box
	top, bottom := high[0], low[0]
	start := 0
	breaks := 0

	for i := 1; i < n; i++ {
		switch {
		case high[i] > top:
			top, bottom = high[i], low[i]
			start = i
			breaks = 0
		case low[i] < bottom:
			bottom = low[i]
			breaks++
			if breaks >= 3 {
				boxes = append(boxes, Box{Start: times[start], End: times[i], High: top, Low: bottom})
				top, bottom = high[i], low[i]
				start = i
				breaks = 0
			}
		default:
			breaks = 0
		}
	}

	boxes = append(boxes, Box{Start: times[start], End: times[n-1], High: top, Low: bottom})
	return boxes
}

// LinRegChannel 线性回归通道。
// 对每个 period 窗口做最小二乘拟合,中轨取拟合直线在窗口末端的
// 值,上下轨为中轨 ± mult 倍的残差总体标准差:残差越散,通道
// 越宽。完全线性的行情残差为零,三条轨重合。
// 三条序列右对齐,第一个值对应第 period-1 根,数据不足时返回空。
func LinRegChannel(input []float64, period int, mult float64) (upper, middle, lower []float64) {
	n := len(input)
	if period < 2 || n < period {
		return nil, nil, nil
	}

	xs := make([]float64, period)
	for i := range xs {
		xs[i] = float64(i)
	}

	size := n - period + 1
	upper = make([]float64, size)
	middle = make([]float64, size)
	lower = make([]float64, size)

	residuals := make([]float64, period)
	for i := 0; i < size; i++ {
		window := input[i : i+period]
		alpha, beta := stat.LinearRegression(xs, window, nil, false)
		for j := range window {
			residuals[j] = window[j] - (alpha + beta*xs[j])
		}
		dev := stat.PopStdDev(residuals, nil)

		mid := alpha + beta*xs[period-1]
		middle[i] = mid
		upper[i] = mid + mult*dev
		lower[i] = mid - mult*dev
	}

	return upper, middle, lower
}

// Pivot 一个窗口的枢轴价。
type Pivot struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// PivotPoints 枢轴点。
// 把序列切成互不重叠的 timeframe 根一组的窗口,每个窗口输出
// 一个枢轴价 (窗口最高 + 窗口最低 + 窗口收盘) / 3,时间取窗口
// 最后一根。日线上常用它作为下一阶段的多空分水岭。
// 只保留最近 keep 个;keep<=0 表示全部保留。数据不足一个完整
// 窗口时返回空。
func PivotPoints(times []time.Time, high, low, close []float64, timeframe, keep int) []Pivot {
	n := len(close)
	if timeframe <= 0 || n < timeframe || len(high) != n || len(low) != n || len(times) != n {
		return nil
	}

	var out []Pivot
	for start := 0; start+timeframe <= n; start += timeframe {
		end := start + timeframe
		top, bottom := high[start], low[start]
		for i := start + 1; i < end; i++ {
			if high[i] > top {
				top = high[i]
			}
			if low[i] < bottom {
				bottom = low[i]
			}
		}
		out = append(out, Pivot{
			Time:  times[end-1],
			Value: (top + bottom + close[end-1]) / 3,
		})
	}

	if keep > 0 && len(out) > keep {
		out = out[len(out)-keep:]
	}

	return out
}
