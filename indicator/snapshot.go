package indicator

import (
	"time"

	"github.com/itqwq/chartkite/model"
)

// Line 一条带时间轴的派生序列,时间与数值一一对应。
// 大多数指标有预热期,序列比原始 K 线短,时间轴取输入的尾段。
type Line struct {
	Time   []time.Time           `json:"time"`
	Values model.Series[float64] `json:"values"`
}

// Band 上中下三轨组成的通道,布林带、肯特纳、回归通道都用它。
type Band struct {
	Time   []time.Time           `json:"time"`
	Upper  model.Series[float64] `json:"upper"`
	Middle model.Series[float64] `json:"middle"`
	Lower  model.Series[float64] `json:"lower"`
}

// MACDLines MACD 的三条序列,已统一对齐到信号线的起点。
type MACDLines struct {
	Time      []time.Time           `json:"time"`
	MACD      model.Series[float64] `json:"macd"`
	Signal    model.Series[float64] `json:"signal"`
	Histogram model.Series[float64] `json:"histogram"`
}

// Params 一次快照计算用到的全部指标参数。
// 零值字段会在 Compute 里被 Default 填上惯用默认值,
// 所以调用方只需覆盖自己关心的那几个。
type Params struct {
	SMAPeriod  int
	EMAPeriod  int
	RSIPeriod  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	MFIPeriod  int

	ATRPeriod   int
	BBPeriod    int
	BBStdDev    float64
	KeltnerEMA  int
	KeltnerATR  int
	KeltnerMult float64
	HVPeriods   []int
	HVTrendOf   int // 在哪条波动率序列上画回归趋势线

	CMFPeriod  int
	VWAPWindow int // 第二条 VWAP 的锚点,距最后一根的根数

	LinRegPeriod int
	LinRegMult   float64
	PivotWindow  int
	PivotKeep    int
}

// Default 填充未设置的参数。周期沿用各指标的经典默认:
// RSI/MFI/ATR 取 14,布林/CMF/肯特纳均线取 20,MACD 取 12/26/9。
func (p Params) Default() Params {
	setInt := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	setFloat := func(v *float64, d float64) {
		if *v <= 0 {
			*v = d
		}
	}

	setInt(&p.SMAPeriod, 20)
	setInt(&p.EMAPeriod, 20)
	setInt(&p.RSIPeriod, 14)
	setInt(&p.MACDFast, 12)
	setInt(&p.MACDSlow, 26)
	setInt(&p.MACDSignal, 9)
	setInt(&p.MFIPeriod, 14)
	setInt(&p.ATRPeriod, 14)
	setInt(&p.BBPeriod, 20)
	setFloat(&p.BBStdDev, 2)
	setInt(&p.KeltnerEMA, 20)
	setInt(&p.KeltnerATR, 10)
	setFloat(&p.KeltnerMult, 2)
	if len(p.HVPeriods) == 0 {
		p.HVPeriods = []int{10, 20, 30}
	}
	setInt(&p.HVTrendOf, 20)
	setInt(&p.CMFPeriod, 20)
	setInt(&p.VWAPWindow, 100)
	setInt(&p.LinRegPeriod, 20)
	setFloat(&p.LinRegMult, 2)
	setInt(&p.PivotWindow, 20)
	setInt(&p.PivotKeep, 5)

	return p
}

// Snapshot 一个标的一次性算完的全套技术分析结果。
// 序列齐备与否取决于输入长度:数据不足的指标就是空序列,
// 由渲染端自行决定画不画,这里不会报错。
type Snapshot struct {
	Symbol string `json:"symbol"`

	SMA  Line      `json:"sma"`
	EMA  Line      `json:"ema"`
	RSI  Line      `json:"rsi"`
	MACD MACDLines `json:"macd"`
	MFI  Line      `json:"mfi"`

	ATR       Line         `json:"atr"`
	Bollinger Band         `json:"bollinger"`
	Keltner   Band         `json:"keltner"`
	HV        map[int]Line `json:"hv"`
	HVTrend   Line         `json:"hv_trend"`

	OBV      Line `json:"obv"`
	ADL      Line `json:"adl"`
	CMF      Line `json:"cmf"`
	VWAPFull Line `json:"vwap_full"` // 锚在序列起点,一般即一年前
	VWAPNear Line `json:"vwap_near"` // 锚在最后 VWAPWindow 根之前

	Fibonacci  []Level `json:"fibonacci"`
	Darvas     []Box   `json:"darvas"`
	Regression Band    `json:"regression"`
	Pivots     []Pivot `json:"pivots"`

	HeikinAshi *model.Dataframe `json:"heikin_ashi"`
}

// tailTime 取时间轴的尾段,长度与右对齐的派生序列一致。
func tailTime(times []time.Time, n int) []time.Time {
	if n <= 0 || n > len(times) {
		return nil
	}
	return times[len(times)-n:]
}

func line(times []time.Time, values []float64) Line {
	return Line{Time: tailTime(times, len(values)), Values: values}
}

func band(times []time.Time, upper, middle, lower []float64) Band {
	return Band{Time: tailTime(times, len(middle)), Upper: upper, Middle: middle, Lower: lower}
}

// Compute 对一段日线 K 线算出完整快照。
// 每个指标都是 (序列, 参数) → 派生序列的纯函数,这里只负责把
// 它们串起来并给结果贴上对应的时间轴。输入太短时各字段为空。
func Compute(df *model.Dataframe, params Params) *Snapshot {
	p := params.Default()
	s := &Snapshot{Symbol: df.Symbol, HV: make(map[int]Line)}

	s.SMA = line(df.Time, SMA(df.Close, p.SMAPeriod))
	s.EMA = line(df.Time, EMA(df.Close, p.EMAPeriod))
	s.RSI = line(df.Time, RSI(df.Close, p.RSIPeriod))

	macd, sig, hist := MACD(df.Close, p.MACDFast, p.MACDSlow, p.MACDSignal)
	s.MACD = MACDLines{Time: tailTime(df.Time, len(macd)), MACD: macd, Signal: sig, Histogram: hist}

	s.MFI = line(df.Time, MFI(df.High, df.Low, df.Close, df.Volume, p.MFIPeriod))
	s.ATR = line(df.Time, ATR(df.High, df.Low, df.Close, p.ATRPeriod))

	upper, middle, lower := BB(df.Close, p.BBPeriod, p.BBStdDev)
	s.Bollinger = band(df.Time, upper, middle, lower)

	upper, middle, lower = Keltner(df.High, df.Low, df.Close, p.KeltnerEMA, p.KeltnerATR, p.KeltnerMult)
	s.Keltner = band(df.Time, upper, middle, lower)

	for _, period := range p.HVPeriods {
		hv := HV(df.Close, period)
		s.HV[period] = line(df.Time, hv)
		if period == p.HVTrendOf {
			s.HVTrend = line(df.Time, TrendLine(hv))
		}
	}

	s.OBV = line(df.Time, OBV(df.Close, df.Volume))
	s.ADL = line(df.Time, ADL(df.High, df.Low, df.Close, df.Volume))
	s.CMF = line(df.Time, CMF(df.High, df.Low, df.Close, df.Volume, p.CMFPeriod))

	s.VWAPFull = line(df.Time, VWAP(df.High, df.Low, df.Close, df.Volume, 0))
	s.VWAPNear = line(df.Time, VWAP(df.High, df.Low, df.Close, df.Volume, df.Len()-p.VWAPWindow))

	s.Fibonacci = Fibonacci(df.High, df.Low)
	s.Darvas = Darvas(df.Time, df.High, df.Low)

	upper, middle, lower = LinRegChannel(df.Close, p.LinRegPeriod, p.LinRegMult)
	s.Regression = band(df.Time, upper, middle, lower)

	s.Pivots = PivotPoints(df.Time, df.High, df.Low, df.Close, p.PivotWindow, p.PivotKeep)
	s.HeikinAshi = HeikinAshi(df)

	return s
}
