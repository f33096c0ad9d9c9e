package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/itqwq/chartkite/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// Yahoo 走雅虎财经 v8 chart 接口的主数据源。
// 免密钥、全球股票代码覆盖最全,缺点是偶尔限流,所以外层
// 用 Chain 包一层重试和备用源。
type Yahoo struct {
	client *resty.Client
}

// NewYahoo 创建雅虎数据源。接口对默认 UA 不太友好,带上一个
// 浏览器 UA 可以明显降低被 429 的概率。
func NewYahoo() *Yahoo {
	client := resty.New().
		SetBaseURL(yahooBaseURL).
		SetTimeout(15 * time.Second).
		SetHeader("User-Agent", "Mozilla/5.0 (compatible; chartkite/1.0)")

	return &Yahoo{client: client}
}

// chartResponse 对应 v8 接口返回的 JSON 结构,只保留用得上的
// 字段。停牌日的价格字段是 null,所以数值统一用指针接。
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// rangeFor 把自然日跨度换算成接口认识的区间参数,向上取整到
// 下一个档位,拿多了总比拿少了好。
func rangeFor(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}

// Name 实现 Feeder 接口
func (y *Yahoo) Name() string {
	return "yahoo"
}

// Daily 拉取一段日线 K 线,按时间升序返回。
func (y *Yahoo) Daily(ctx context.Context, symbol string, days int) ([]model.Candle, error) {
	var payload chartResponse

	resp, err := y.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"range":    rangeFor(days),
			"interval": "1d",
		}).
		SetResult(&payload).
		Get("/v8/finance/chart/{symbol}")
	if err != nil {
		return nil, fmt.Errorf("yahoo: fetch %s: %w", symbol, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("yahoo: fetch %s: status %s", symbol, resp.Status())
	}
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %s: %s", payload.Chart.Error.Code, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: %s: %w", symbol, ErrNoData)
	}

	result := payload.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	// 各列长度以最短的为准,畸形响应里兄弟数组可能比时间轴短。
	bars := len(result.Timestamp)
	for _, column := range [][]*float64{quote.Open, quote.High, quote.Low, quote.Close, quote.Volume} {
		if len(column) < bars {
			bars = len(column)
		}
	}

	candles := make([]model.Candle, 0, bars)
	for i, ts := range result.Timestamp[:bars] {
		// 停牌或尚未收盘的日子字段为 null,整根跳过。
		if quote.Open[i] == nil || quote.High[i] == nil ||
			quote.Low[i] == nil || quote.Close[i] == nil {
			continue
		}

		c := model.Candle{
			Symbol:    symbol,
			Time:      time.Unix(ts, 0).UTC(),
			UpdatedAt: time.Now().UTC(),
			Open:      *quote.Open[i],
			High:      *quote.High[i],
			Low:       *quote.Low[i],
			Close:     *quote.Close[i],
			Complete:  true,
		}
		if quote.Volume[i] != nil {
			c.Volume = *quote.Volume[i]
		}
		candles = append(candles, c)
	}

	return candles, nil
}
