// Package model 定义了行情数据的基础结构：单根日K线、按列组织的数据帧、
// 以及平均K线(Heikin Ashi)的递推计算器。所有指标计算都建立在这些结构之上。
package model

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// TelegramSettings 定义了Telegram通知的设置
type TelegramSettings struct {
	Enabled bool   `yaml:"enabled"` // 是否启用Telegram通知
	Token   string `yaml:"token"`   // Telegram bot的Token
	Users   []int  `yaml:"users"`   // 接收通知的用户ID列表
}

// CacheSettings 定义了行情缓存的设置。缓存的只是原始K线数据，指标结果永远不缓存。
type CacheSettings struct {
	File string        `yaml:"file"` // 缓存文件路径，留空表示仅内存
	TTL  time.Duration `yaml:"ttl"`  // 缓存条目的过期时间，如6h
}

// Settings 定义了整个仪表盘应用的设置
type Settings struct {
	Symbols  []string         `yaml:"symbols"`  // 关注的股票代码列表，如AAPL、MSFT
	Days     int              `yaml:"days"`     // 每次抓取的交易日数量，默认约一年(365)
	Port     int              `yaml:"port"`     // 图表服务监听的端口
	Refresh  string           `yaml:"refresh"`  // 可选的cron表达式，定时预热缓存
	Cache    CacheSettings    `yaml:"cache"`    // 行情缓存设置
	Telegram TelegramSettings `yaml:"telegram"` // Telegram通知的设置
}

// Candle 定义了一根日K线的结构。一旦生成即视为不可变，
// 指标计算只读取它，绝不修改。
type Candle struct {
	Symbol    string    // 股票代码
	Time      time.Time // 交易日（序列内递增且唯一）
	UpdatedAt time.Time // 数据源返回该K线的时间
	Open      float64   // 开盘价
	Close     float64   // 收盘价
	Low       float64   // 最低价
	High      float64   // 最高价
	Volume    float64   // 成交量
	Complete  bool      // 当天是否已收盘

	// 从CSV输入中附加的额外列
	Metadata map[string]float64
}

// Empty 判断一根K线是否为空值
func (c Candle) Empty() bool {
	return c.Symbol == "" && c.Close == 0 && c.Open == 0 && c.Volume == 0
}

// ToSlice 将K线转换成字符串切片，用于CSV输出。precision控制价格保留的小数位。
func (c Candle) ToSlice(precision int) []string {
	return []string{
		fmt.Sprintf("%d", c.Time.Unix()),
		strconv.FormatFloat(c.Open, 'f', precision, 64),
		strconv.FormatFloat(c.Close, 'f', precision, 64),
		strconv.FormatFloat(c.Low, 'f', precision, 64),
		strconv.FormatFloat(c.High, 'f', precision, 64),
		strconv.FormatFloat(c.Volume, 'f', precision, 64),
	}
}

// Dataframe 按列存储一个股票代码的时间序列数据。每一列都是一个Series，
// 同一下标的各列数据对应同一个交易日，可以直接交给指标函数做整段计算。
type Dataframe struct {
	Symbol string // 股票代码

	Close  Series[float64] // 收盘价序列
	Open   Series[float64] // 开盘价序列
	High   Series[float64] // 最高价序列
	Low    Series[float64] // 最低价序列
	Volume Series[float64] // 成交量序列

	Time       []time.Time // 时间戳序列
	LastUpdate time.Time   // 最后更新时间

	// 自定义用户元数据
	Metadata map[string]Series[float64]
}

// Push 把一根K线追加到数据帧末尾。调用方负责保证时间递增。
func (df *Dataframe) Push(c Candle) {
	df.Open = append(df.Open, c.Open)
	df.Close = append(df.Close, c.Close)
	df.High = append(df.High, c.High)
	df.Low = append(df.Low, c.Low)
	df.Volume = append(df.Volume, c.Volume)
	df.Time = append(df.Time, c.Time)
	df.LastUpdate = c.Time

	for k, v := range c.Metadata {
		if df.Metadata == nil {
			df.Metadata = make(map[string]Series[float64])
		}
		df.Metadata[k] = append(df.Metadata[k], v)
	}
}

// Len 返回数据帧中K线的数量
func (df Dataframe) Len() int {
	return len(df.Time)
}

// Sample 从数据帧中抽取最近的N个数据点作为一个新的Dataframe
func (df Dataframe) Sample(positions int) Dataframe {
	size := len(df.Time)
	start := size - positions
	if start <= 0 {
		return df
	}

	sample := Dataframe{
		Symbol:     df.Symbol,
		Close:      df.Close.LastValues(positions),
		Open:       df.Open.LastValues(positions),
		High:       df.High.LastValues(positions),
		Low:        df.Low.LastValues(positions),
		Volume:     df.Volume.LastValues(positions),
		Time:       df.Time[start:],
		LastUpdate: df.LastUpdate,
		Metadata:   make(map[string]Series[float64]),
	}

	for key := range df.Metadata {
		sample.Metadata[key] = df.Metadata[key].LastValues(positions)
	}

	return sample
}

// NewDataframe 根据一段升序的K线构建数据帧
func NewDataframe(symbol string, candles []Candle) *Dataframe {
	df := &Dataframe{
		Symbol:   symbol,
		Metadata: make(map[string]Series[float64]),
	}
	for _, c := range candles {
		df.Push(c)
	}
	return df
}

// HeikinAshi 定义了平均K线(Heikin Ashi)的递推状态。
// 每一根平均K线的开盘价依赖于上一根"平均K线"而不是上一根原始K线，
// 所以计算必须逐根推进，状态保存在PreviousHACandle中。
type HeikinAshi struct {
	PreviousHACandle Candle // 前一个平均K线
}

// NewHeikinAshi 创建一个新的HeikinAshi实例
func NewHeikinAshi() *HeikinAshi {
	return &HeikinAshi{}
}

// CalculateHeikinAshi 计算并返回下一根平均K线。
// haClose = (O+H+L+C)/4；haOpen = (前haOpen+前haClose)/2，首根直接取原始开盘价；
// haHigh/haLow 取原始高低价与haOpen、haClose的包络，
// 因此恒有 haHigh >= max(haOpen, haClose) 且 haLow <= min(haOpen, haClose)。
func (ha *HeikinAshi) CalculateHeikinAshi(c Candle) Candle {
	var hkCandle Candle

	// 首根平均K线没有前值可用
	if ha.PreviousHACandle.Empty() {
		hkCandle.Open = c.Open
	} else {
		hkCandle.Open = (ha.PreviousHACandle.Open + ha.PreviousHACandle.Close) / 2
	}

	hkCandle.Close = (c.Open + c.High + c.Low + c.Close) / 4
	hkCandle.High = math.Max(c.High, math.Max(hkCandle.Open, hkCandle.Close))
	hkCandle.Low = math.Min(c.Low, math.Min(hkCandle.Open, hkCandle.Close))
	ha.PreviousHACandle = hkCandle

	return hkCandle
}

// ToHeikinAshi 把一根普通K线转换为平均K线，时间和成交量保持不变
func (c Candle) ToHeikinAshi(ha *HeikinAshi) Candle {
	haCandle := ha.CalculateHeikinAshi(c)

	return Candle{
		Symbol:    c.Symbol,
		Open:      haCandle.Open,
		High:      haCandle.High,
		Low:       haCandle.Low,
		Close:     haCandle.Close,
		Volume:    c.Volume,
		Complete:  c.Complete,
		Time:      c.Time,
		UpdatedAt: c.UpdatedAt,
	}
}
