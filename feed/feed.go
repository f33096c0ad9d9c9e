// Package feed 负责把日线 K 线从外部数据源拉回来。
// 数据源都实现同一个 Feeder 接口,Chain 把多个源串成一条故障
// 转移链:主源抽风时自动退避重试、再不行就换备用源,指标计算
// 那边拿到的永远是一段干净的 K 线切片。
package feed

import (
	"context"
	"errors"
	"time"

	"github.com/jpillora/backoff"

	"github.com/itqwq/chartkite/model"
	"github.com/itqwq/chartkite/tools/log"
)

// ErrInsufficientData 数据源返回的 K 线太少,不足以支撑后续计算。
var ErrInsufficientData = errors.New("insufficient data")

// ErrNoData 所有数据源都没能给出任何 K 线。
var ErrNoData = errors.New("no data available")

// Feeder 日线数据源。返回的 K 线按时间升序排列,days 是希望
// 覆盖的自然日跨度(交易日会更少),数据源尽力而为。
// Name 用于日志,标记 K 线是哪个源给的。
type Feeder interface {
	Name() string
	Daily(ctx context.Context, symbol string, days int) ([]model.Candle, error)
}

// Chain 把多个数据源按优先级串起来。
// 对每个源先做几次指数退避的重试,重试耗尽再降级到下一个;
// 全部失败时返回最后一个错误。
type Chain struct {
	feeders    []Feeder
	maxRetries int
	backoffMin time.Duration
	backoffMax time.Duration
}

// ChainOption 调整故障转移链的重试行为。
type ChainOption func(*Chain)

// WithRetries 设置每个数据源的最大尝试次数。
func WithRetries(n int) ChainOption {
	return func(c *Chain) {
		c.maxRetries = n
	}
}

// WithBackoff 设置重试间隔的下限和上限。
func WithBackoff(min, max time.Duration) ChainOption {
	return func(c *Chain) {
		c.backoffMin = min
		c.backoffMax = max
	}
}

// NewChain 按传入顺序构造故障转移链,排在前面的优先。
func NewChain(feeders []Feeder, options ...ChainOption) *Chain {
	chain := &Chain{
		feeders:    feeders,
		maxRetries: 3,
		backoffMin: 500 * time.Millisecond,
		backoffMax: 10 * time.Second,
	}
	for _, option := range options {
		option(chain)
	}
	return chain
}

// Name 实现 Feeder 接口
func (c *Chain) Name() string {
	return "chain"
}

// Daily 依次尝试每个数据源,拿到非空结果立即返回。
func (c *Chain) Daily(ctx context.Context, symbol string, days int) ([]model.Candle, error) {
	var lastErr error

	for _, feeder := range c.feeders {
		// 每个源独立一套退避节奏,失败一次等得更久一点。
		b := &backoff.Backoff{
			Min:    c.backoffMin,
			Max:    c.backoffMax,
			Factor: 2,
			Jitter: true,
		}

		for attempt := 0; attempt < c.maxRetries; attempt++ {
			candles, err := feeder.Daily(ctx, symbol, days)
			if err == nil && len(candles) > 0 {
				return candles, nil
			}
			if err == nil {
				err = ErrNoData
			}
			lastErr = err

			// 上下文取消不值得重试,直接收工。
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			log.Warnf("feed: %s via %s attempt %d failed: %v", symbol, feeder.Name(), attempt+1, err)

			select {
			case <-time.After(b.Duration()):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	if lastErr == nil {
		lastErr = ErrNoData
	}
	return nil, lastErr
}
