package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"github.com/itqwq/chartkite/model"
)

// Finance 基于 piquette/finance-go 的备用数据源。
// 同样的雅虎后端、不同的接入路径,主源被限流时还能顶一阵。
type Finance struct{}

// NewFinance 创建备用数据源。
func NewFinance() *Finance {
	return &Finance{}
}

// Daily 按起止日期拉取日线,转换为内部的 K 线表示。
// Name 实现 Feeder 接口
func (f *Finance) Name() string {
	return "finance-go"
}

func (f *Finance) Daily(ctx context.Context, symbol string, days int) ([]model.Candle, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	var candles []model.Candle
	for iter.Next() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		bar := iter.Bar()
		open, _ := bar.Open.Float64()
		high, _ := bar.High.Float64()
		low, _ := bar.Low.Float64()
		closePrice, _ := bar.Close.Float64()

		candles = append(candles, model.Candle{
			Symbol:    symbol,
			Time:      time.Unix(int64(bar.Timestamp), 0).UTC(),
			UpdatedAt: time.Now().UTC(),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    float64(bar.Volume),
			Complete:  true,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("finance: fetch %s: %w", symbol, err)
	}

	return candles, nil
}
