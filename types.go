package chartkite

import (
	"github.com/itqwq/chartkite/indicator"
	"github.com/itqwq/chartkite/model"
)

// 通过类型别名把常用结构体提到包根,调用方不必逐个引用内部包。
type (
	Settings         = model.Settings         // Settings类型别名,仪表盘的基本设置
	TelegramSettings = model.TelegramSettings // TelegramSettings类型别名,Telegram通知设置
	CacheSettings    = model.CacheSettings    // CacheSettings类型别名,行情缓存设置
	Candle           = model.Candle           // Candle类型别名,单根日K线
	Dataframe        = model.Dataframe        // Dataframe类型别名,按列组织的行情数据
	Series           = model.Series[float64]  // Series类型别名,浮点数时间序列
	Params           = indicator.Params       // Params类型别名,指标参数集
	Snapshot         = indicator.Snapshot     // Snapshot类型别名,一次性算齐的指标快照
)
