// Package chartkite 把各组件装配成完整的股票指标仪表盘:
// 行情抓取、缓存、指标计算、网页图表、定时刷新和告警推送。
package chartkite

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/robfig/cron/v3"

	"github.com/itqwq/chartkite/feed"
	"github.com/itqwq/chartkite/indicator"
	"github.com/itqwq/chartkite/model"
	"github.com/itqwq/chartkite/notification"
	"github.com/itqwq/chartkite/plot"
	"github.com/itqwq/chartkite/service"
	"github.com/itqwq/chartkite/storage"
	"github.com/itqwq/chartkite/tools"
	"github.com/itqwq/chartkite/tools/log"
	"github.com/itqwq/chartkite/tools/report"
)

func init() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04",
	})
}

// Chartkite 是仪表盘的装配中心。它本身不算任何指标,
// 只负责把数据源、缓存、图表服务和通知通道接在一起。
type Chartkite struct {
	settings model.Settings
	feeder   feed.Feeder
	chart    *plot.Chart
	cache    storage.Cache
	history  storage.History
	notifier service.Notifier
	telegram service.Telegram
	cron     *cron.Cron

	params     indicator.Params
	schedulers map[string]*tools.Scheduler
	debug      bool
}

type Option func(*Chartkite)

// NewChartkite 根据设置装配仪表盘。symbols为空时直接报错,
// 缓存未指定时按settings.Cache创建,Telegram启用时自动接上机器人。
func NewChartkite(ctx context.Context, settings model.Settings, feeder feed.Feeder,
	options ...Option) (*Chartkite, error) {
	if len(settings.Symbols) == 0 {
		return nil, fmt.Errorf("no symbols in settings")
	}
	if settings.Days <= 0 {
		settings.Days = 365
	}
	if settings.Port <= 0 {
		settings.Port = 8080
	}

	app := &Chartkite{
		settings:   settings,
		feeder:     feeder,
		params:     indicator.Params{}.Default(),
		schedulers: make(map[string]*tools.Scheduler),
	}

	for _, option := range options {
		option(app)
	}

	var err error
	if app.cache == nil {
		if settings.Cache.File != "" {
			app.cache, err = storage.FromFile(settings.Cache.File)
		} else {
			app.cache, err = storage.FromMemory()
		}
		if err != nil {
			return nil, err
		}
	}

	chartOptions := []plot.Option{
		plot.WithPort(settings.Port),
		plot.WithDays(settings.Days),
		plot.WithSymbols(settings.Symbols...),
		plot.WithParams(app.params),
		plot.WithCache(app.cache, settings.Cache.TTL),
	}
	if app.history != nil {
		chartOptions = append(chartOptions, plot.WithHistory(app.history))
	}
	if app.debug {
		chartOptions = append(chartOptions, plot.WithDebug())
	}

	app.chart, err = plot.NewChart(feeder, chartOptions...)
	if err != nil {
		return nil, err
	}

	if settings.Telegram.Enabled {
		app.telegram, err = notification.NewTelegram(app.chart, settings)
		if err != nil {
			return nil, err
		}
		WithNotifier(app.telegram)(app)
	}

	return app, nil
}

// WithCache 替换默认的行情缓存
func WithCache(cache storage.Cache) Option {
	return func(app *Chartkite) {
		app.cache = cache
	}
}

// WithHistory 启用历史归档,每次抓到的K线都会落入SQL库
func WithHistory(history storage.History) Option {
	return func(app *Chartkite) {
		app.history = history
	}
}

// WithParams 覆盖默认的指标参数
func WithParams(params indicator.Params) Option {
	return func(app *Chartkite) {
		app.params = params.Default()
	}
}

// WithNotifier 注册通知通道,刷新失败和告警命中都会推送
func WithNotifier(notifier service.Notifier) Option {
	return func(app *Chartkite) {
		app.notifier = notifier
	}
}

// WithLogLevel 设置日志级别
func WithLogLevel(level log.Level) Option {
	return func(app *Chartkite) {
		log.SetLevel(level)
	}
}

// WithDebug 关闭前端脚本压缩,方便排查图表问题
func WithDebug() Option {
	return func(app *Chartkite) {
		app.debug = true
	}
}

// WithAlert 给某只股票挂一条告警规则,行情每次刷新后检查
func WithAlert(symbol string, condition func(df *model.Dataframe) bool,
	message func(df *model.Dataframe) string) Option {
	return func(app *Chartkite) {
		scheduler, ok := app.schedulers[symbol]
		if !ok {
			scheduler = tools.NewScheduler(symbol)
			app.schedulers[symbol] = scheduler
		}
		scheduler.AlertWhen(condition, message)
	}
}

// Chart 返回内部的图表服务,测试和自定义装配时用
func (c *Chartkite) Chart() *plot.Chart {
	return c.chart
}

// refresh 强制重抓全部行情,然后跑一遍告警规则
func (c *Chartkite) refresh(ctx context.Context) {
	c.chart.Refresh(ctx)
	c.runAlerts(ctx)
}

func (c *Chartkite) runAlerts(ctx context.Context) {
	for symbol, scheduler := range c.schedulers {
		df, _, err := c.chart.Snapshot(ctx, symbol)
		if err != nil {
			log.Warnf("alerts: snapshot %s: %s", symbol, err)
			if c.notifier != nil {
				c.notifier.OnError(err)
			}
			continue
		}
		scheduler.Update(df, c.notifier)
	}
}

// Summary 把全部股票的统计报告写到w,默认是标准输出
func (c *Chartkite) Summary(ctx context.Context, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	dfs := make([]*model.Dataframe, 0, len(c.settings.Symbols))
	for _, symbol := range c.settings.Symbols {
		df, _, err := c.chart.Snapshot(ctx, symbol)
		if err != nil {
			return fmt.Errorf("summary %s: %w", symbol, err)
		}
		dfs = append(dfs, df)
	}
	return report.Summary(w, dfs)
}

// Run 启动仪表盘并阻塞服务HTTP请求。settings.Refresh配置了cron表达式时,
// 后台按计划刷新缓存;Telegram机器人在此时开始收消息。
func (c *Chartkite) Run(ctx context.Context) error {
	if c.telegram != nil {
		c.telegram.Start()
	}

	if c.settings.Refresh != "" {
		c.cron = cron.New()
		_, err := c.cron.AddFunc(c.settings.Refresh, func() {
			c.refresh(ctx)
		})
		if err != nil {
			return fmt.Errorf("invalid refresh schedule %q: %w", c.settings.Refresh, err)
		}
		c.cron.Start()
		defer c.cron.Stop()
	}

	log.Infof("chartkite started: %d symbols on port %d", len(c.settings.Symbols), c.settings.Port)
	return c.chart.Start()
}
