// Package download 把数据源抓到的日K线导出成CSV文件。导出的格式
// 和 feed.CSVFeed 读取的格式一致,仪表盘可以离线复放这些文件。
package download

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/xhit/go-str2duration/v2"

	"github.com/itqwq/chartkite/feed"
	"github.com/itqwq/chartkite/tools/log"
)

// pricePrecision 是写入CSV的价格小数位。美股日线报价到美分,两位足够。
const pricePrecision = 2

// Downloader 从任意Feeder抓取K线并落盘
type Downloader struct {
	feeder feed.Feeder
}

// NewDownloader 创建一个数据下载器
func NewDownloader(feeder feed.Feeder) Downloader {
	return Downloader{
		feeder: feeder,
	}
}

// Parameters 定义了下载的时间范围,以交易日数量表示
type Parameters struct {
	Days int
}

// Option 修改下载参数
type Option func(*Parameters)

// WithDays 设置往回抓取的天数
func WithDays(days int) Option {
	return func(parameters *Parameters) {
		parameters.Days = days
	}
}

// WithLookback 用时长字符串设置抓取范围,如 "90d"、"26w"。
// 解析失败时保留默认值并记录警告。
func WithLookback(lookback string) Option {
	return func(parameters *Parameters) {
		duration, err := str2duration.ParseDuration(lookback)
		if err != nil {
			log.Warnf("download: invalid lookback %q: %s", lookback, err)
			return
		}
		parameters.Days = int(duration / (24 * time.Hour))
	}
}

// Download 抓取一只股票约days个交易日的K线并写入output。
// 文件首行是表头 time,open,close,low,high,volume,时间列为Unix秒。
func (d Downloader) Download(ctx context.Context, symbol, output string, options ...Option) error {
	recordFile, err := os.Create(output)
	if err != nil {
		return err
	}
	defer recordFile.Close()

	parameters := &Parameters{Days: 365}
	for _, option := range options {
		option(parameters)
	}

	log.Infof("Downloading %d days of %s", parameters.Days, symbol)
	candles, err := d.feeder.Daily(ctx, symbol, parameters.Days)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(recordFile)
	err = writer.Write([]string{
		"time", "open", "close", "low", "high", "volume",
	})
	if err != nil {
		return err
	}

	progressBar := progressbar.Default(int64(len(candles)))
	for _, candle := range candles {
		if err := writer.Write(candle.ToSlice(pricePrecision)); err != nil {
			return err
		}
		if err = progressBar.Add(1); err != nil {
			log.Warnf("update progressbar fail: %s", err.Error())
		}
	}

	if err = progressBar.Close(); err != nil {
		log.Warnf("close progressbar fail: %s", err.Error())
	}

	writer.Flush()
	log.Infof("Saved %d candles of %s to %s", len(candles), symbol, output)
	return writer.Error()
}

// DownloadAll 为每只股票在dir下生成 <symbol>.csv,股票代码里的 ^ 和 /
// 替换成下划线以保证文件名合法。任何一只失败都立即返回。
func (d Downloader) DownloadAll(ctx context.Context, symbols []string, dir string, options ...Option) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for _, symbol := range symbols {
		name := strings.NewReplacer("^", "_", "/", "_").Replace(symbol)
		output := filepath.Join(dir, fmt.Sprintf("%s.csv", name))
		if err := d.Download(ctx, symbol, output, options...); err != nil {
			return fmt.Errorf("download %s: %w", symbol, err)
		}
	}
	return nil
}
