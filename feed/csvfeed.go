package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/itqwq/chartkite/model"
)

// SymbolFile 一个标的对应的本地 CSV 数据文件。
type SymbolFile struct {
	Symbol string
	File   string
}

// CSVFeed 从本地 CSV 文件读日线的数据源,离线演示和测试用。
// 文件格式与 download 命令的导出一致:表头 time,open,close,low,
// high,volume,时间列是 Unix 秒;额外的列会进蜡烛的 Metadata。
type CSVFeed struct {
	candles map[string][]model.Candle
}

// parseHeaders 解析表头,返回每个字段所在的列号和预定义之外的
// 额外表头。首行能被解析成数字说明文件没有表头,按默认列序处理。
func parseHeaders(headers []string) (index map[string]int, additional []string, ok bool) {
	headerMap := map[string]int{
		"time": 0, "open": 1, "close": 2, "low": 3, "high": 4, "volume": 5,
	}

	if _, err := strconv.Atoi(headers[0]); err == nil {
		return headerMap, additional, false
	}

	for i, h := range headers {
		if _, ok := headerMap[h]; !ok {
			additional = append(additional, h)
		}
		headerMap[h] = i
	}

	return headerMap, additional, true
}

// NewCSVFeed 读入所有文件并解析成按时间升序的 K 线。
func NewCSVFeed(files ...SymbolFile) (*CSVFeed, error) {
	feed := &CSVFeed{candles: make(map[string][]model.Candle)}

	for _, sf := range files {
		f, err := os.Open(sf.File)
		if err != nil {
			return nil, err
		}

		lines, err := csv.NewReader(f).ReadAll()
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("csvfeed: read %s: %w", sf.File, err)
		}
		if len(lines) == 0 {
			return nil, fmt.Errorf("csvfeed: %s: empty file", sf.File)
		}

		headerMap, additional, hasHeaders := parseHeaders(lines[0])
		if hasHeaders {
			lines = lines[1:]
		}

		candles := make([]model.Candle, 0, len(lines))
		for _, line := range lines {
			timestamp, err := strconv.Atoi(line[headerMap["time"]])
			if err != nil {
				return nil, fmt.Errorf("csvfeed: %s: bad timestamp %q", sf.File, line[headerMap["time"]])
			}

			candle := model.Candle{
				Symbol:    sf.Symbol,
				Time:      time.Unix(int64(timestamp), 0).UTC(),
				UpdatedAt: time.Unix(int64(timestamp), 0).UTC(),
				Complete:  true,
			}

			for field, dst := range map[string]*float64{
				"open": &candle.Open, "close": &candle.Close, "low": &candle.Low,
				"high": &candle.High, "volume": &candle.Volume,
			} {
				*dst, err = strconv.ParseFloat(line[headerMap[field]], 64)
				if err != nil {
					return nil, fmt.Errorf("csvfeed: %s: bad %s value", sf.File, field)
				}
			}

			if len(additional) > 0 {
				candle.Metadata = make(map[string]float64)
				for _, header := range additional {
					candle.Metadata[header], err = strconv.ParseFloat(line[headerMap[header]], 64)
					if err != nil {
						return nil, fmt.Errorf("csvfeed: %s: bad %s value", sf.File, header)
					}
				}
			}

			candles = append(candles, candle)
		}

		feed.candles[sf.Symbol] = candles
	}

	return feed, nil
}

// Daily 返回最近 days 个自然日内的 K 线。
// Name 实现 Feeder 接口
func (c *CSVFeed) Name() string {
	return "csv"
}

func (c *CSVFeed) Daily(_ context.Context, symbol string, days int) ([]model.Candle, error) {
	candles, ok := c.candles[symbol]
	if !ok || len(candles) == 0 {
		return nil, fmt.Errorf("csvfeed: %s: %w", symbol, ErrNoData)
	}

	// 以文件里最后一根为"现在",往回数 days 天。
	start := candles[len(candles)-1].Time.AddDate(0, 0, -days)
	return lo.Filter(candles, func(candle model.Candle, _ int) bool {
		return candle.Time.After(start)
	}), nil
}
