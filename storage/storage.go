// Package storage 为行情数据提供两层持久化:
// Cache 是带过期时间的短期缓存,挡住对外部行情接口的重复请求;
// History 是长期的 K 线归档,离线分析和回看历史用。
package storage

import (
	"time"

	"github.com/itqwq/chartkite/model"
)

// Cache 按标的缓存一段日线,到期自动失效。
type Cache interface {
	// Get 返回缓存的 K 线,第二个返回值指示是否命中。
	Get(symbol string) ([]model.Candle, bool, error)
	// Set 缓存一段 K 线,ttl<=0 表示永不过期。
	Set(symbol string, candles []model.Candle, ttl time.Duration) error
	Close() error
}

// History K 线归档,同一标的同一交易日重复写入时覆盖旧值。
type History interface {
	SaveCandles(candles []model.Candle) error
	Candles(filters ...CandleFilter) ([]model.Candle, error)
	Close() error
}

// CandleFilter 查询归档时的筛选条件,全部满足才保留。
type CandleFilter func(model.Candle) bool

// WithSymbol 只保留指定标的。
func WithSymbol(symbol string) CandleFilter {
	return func(c model.Candle) bool {
		return c.Symbol == symbol
	}
}

// WithTimeAfter 只保留指定时刻之后(含)的 K 线。
func WithTimeAfter(t time.Time) CandleFilter {
	return func(c model.Candle) bool {
		return !c.Time.Before(t)
	}
}

// WithTimeBefore 只保留指定时刻之前(含)的 K 线。
func WithTimeBefore(t time.Time) CandleFilter {
	return func(c model.Candle) bool {
		return !c.Time.After(t)
	}
}
