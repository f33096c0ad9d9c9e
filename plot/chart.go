// Package plot 提供浏览器端的行情仪表盘。
// 后端只做三件事:拉 K 线、算指标快照、以 JSON 吐给前端;
// 画图交给浏览器里的 chart.js,前后端通过 /data 接口分离。
package plot

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/itqwq/chartkite/feed"
	"github.com/itqwq/chartkite/indicator"
	"github.com/itqwq/chartkite/model"
	"github.com/itqwq/chartkite/storage"
	"github.com/itqwq/chartkite/tools/log"
)

//go:embed assets
var staticFiles embed.FS

// Candle 仪表盘用的 K 线数据点,字段名与前端脚本约定一致。
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	Close  float64   `json:"close"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Volume float64   `json:"volume"`
}

// Chart 行情仪表盘。每个标的的数据按需拉取:先查缓存,未命中
// 才去数据源,拿回来顺手写缓存和归档。互斥锁保护 lastUpdate
// 等共享状态,HTTP 处理器会并发进来。
type Chart struct {
	sync.Mutex
	port          int
	debug         bool
	days          int
	ttl           time.Duration
	symbols       []string
	params        indicator.Params
	feeder        feed.Feeder
	cache         storage.Cache
	history       storage.History
	scriptContent string
	indexHTML     *template.Template
	lastUpdate    time.Time
}

// Option 配置 Chart 实例的函数式选项。
type Option func(*Chart)

// WithPort 设置 HTTP 服务监听的端口。
func WithPort(port int) Option {
	return func(chart *Chart) {
		chart.port = port
	}
}

// WithDebug 开启调试模式,前端脚本不压缩,方便在浏览器里断点。
func WithDebug() Option {
	return func(chart *Chart) {
		chart.debug = true
	}
}

// WithDays 设置拉取的自然日跨度,默认一年。
func WithDays(days int) Option {
	return func(chart *Chart) {
		chart.days = days
	}
}

// WithSymbols 设置仪表盘展示的标的列表。
func WithSymbols(symbols ...string) Option {
	return func(chart *Chart) {
		chart.symbols = symbols
	}
}

// WithParams 覆盖指标参数,零值字段仍走默认。
func WithParams(params indicator.Params) Option {
	return func(chart *Chart) {
		chart.params = params
	}
}

// WithCache 挂上 K 线缓存,ttl 是缓存条目的存活时间。
func WithCache(cache storage.Cache, ttl time.Duration) Option {
	return func(chart *Chart) {
		chart.cache = cache
		chart.ttl = ttl
	}
}

// WithHistory 挂上 K 线归档,每次成功拉取后顺手落库。
func WithHistory(history storage.History) Option {
	return func(chart *Chart) {
		chart.history = history
	}
}

// NewChart 创建仪表盘。前端脚本在这里就用 esbuild 转译压缩好,
// 之后每个请求直接吐字符串,不用重复处理。
func NewChart(feeder feed.Feeder, options ...Option) (*Chart, error) {
	chart := &Chart{
		port:   8080,
		days:   365,
		ttl:    time.Hour,
		feeder: feeder,
	}

	for _, option := range options {
		option(chart)
	}

	chartJS, err := staticFiles.ReadFile("assets/chart.js")
	if err != nil {
		return nil, err
	}

	chart.indexHTML, err = template.ParseFS(staticFiles, "assets/chart.html")
	if err != nil {
		return nil, err
	}

	transpiled := api.Transform(string(chartJS), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2015,
		MinifySyntax:      !chart.debug,
		MinifyIdentifiers: !chart.debug,
		MinifyWhitespace:  !chart.debug,
	})
	if len(transpiled.Errors) > 0 {
		return nil, fmt.Errorf("chart script failed with: %v", transpiled.Errors)
	}
	chart.scriptContent = string(transpiled.Code)

	return chart, nil
}

// dataframe 取一个标的的日线:缓存命中直接用,否则走数据源,
// 成功后回填缓存并落归档。
func (c *Chart) dataframe(ctx context.Context, symbol string) (*model.Dataframe, error) {
	if c.cache != nil {
		if candles, found, err := c.cache.Get(symbol); err != nil {
			log.Warnf("chart: cache read %s: %v", symbol, err)
		} else if found {
			return model.NewDataframe(symbol, candles), nil
		}
	}

	candles, err := c.feeder.Daily(ctx, symbol, c.days)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(symbol, candles, c.ttl); err != nil {
			log.Warnf("chart: cache write %s: %v", symbol, err)
		}
	}
	if c.history != nil {
		if err := c.history.SaveCandles(candles); err != nil {
			log.Warnf("chart: history write %s: %v", symbol, err)
		}
	}

	c.Lock()
	c.lastUpdate = time.Now()
	c.Unlock()

	return model.NewDataframe(symbol, candles), nil
}

// Refresh 强制重拉所有标的并回填缓存,定时任务用。
func (c *Chart) Refresh(ctx context.Context) {
	for _, symbol := range c.symbols {
		candles, err := c.feeder.Daily(ctx, symbol, c.days)
		if err != nil {
			log.Errorf("chart: refresh %s: %v", symbol, err)
			continue
		}
		if c.cache != nil {
			if err := c.cache.Set(symbol, candles, c.ttl); err != nil {
				log.Warnf("chart: cache write %s: %v", symbol, err)
			}
		}
		if c.history != nil {
			if err := c.history.SaveCandles(candles); err != nil {
				log.Warnf("chart: history write %s: %v", symbol, err)
			}
		}
		c.Lock()
		c.lastUpdate = time.Now()
		c.Unlock()
	}
}

// Snapshot 取一个标的的完整指标快照,通知和报表复用这条路径。
func (c *Chart) Snapshot(ctx context.Context, symbol string) (*model.Dataframe, *indicator.Snapshot, error) {
	df, err := c.dataframe(ctx, symbol)
	if err != nil {
		return nil, nil, err
	}
	return df, indicator.Compute(df, c.params), nil
}

func (c *Chart) handleIndex(w http.ResponseWriter, r *http.Request) {
	symbols := append([]string(nil), c.symbols...)
	sort.Strings(symbols)

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" && len(symbols) > 0 {
		http.Redirect(w, r, fmt.Sprintf("/?symbol=%s", symbols[0]), http.StatusFound)
		return
	}

	w.Header().Add("Content-Type", "text/html")
	err := c.indexHTML.Execute(w, map[string]interface{}{
		"symbol":  symbol,
		"symbols": symbols,
	})
	if err != nil {
		log.Error(err)
	}
}

func (c *Chart) handleData(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	df, snapshot, err := c.Snapshot(r.Context(), symbol)
	if err != nil {
		log.Errorf("chart: data %s: %v", symbol, err)
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	candles := make([]Candle, df.Len())
	for i := range candles {
		candles[i] = Candle{
			Time:   df.Time[i],
			Open:   df.Open[i],
			Close:  df.Close[i],
			High:   df.High[i],
			Low:    df.Low[i],
			Volume: df.Volume[i],
		}
	}

	w.Header().Set("Content-type", "text/json")
	err = json.NewEncoder(w).Encode(map[string]interface{}{
		"symbol":   symbol,
		"candles":  candles,
		"snapshot": snapshot,
	})
	if err != nil {
		log.Error(err)
	}
}

// handleHealth 给负载均衡器探活用。从没拉到过数据不算不健康
// (可能刚启动),但最近一次成功拉取太久远就该摘掉这个实例了。
func (c *Chart) handleHealth(w http.ResponseWriter, _ *http.Request) {
	c.Lock()
	lastUpdate := c.lastUpdate
	c.Unlock()

	if !lastUpdate.IsZero() && time.Since(lastUpdate) > time.Hour+10*time.Minute {
		// 状态码必须先于响应体写出
		w.WriteHeader(http.StatusServiceUnavailable)
		if _, err := w.Write([]byte(lastUpdate.String())); err != nil {
			log.Error(err)
		}
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Handler 组装出完整的路由,测试时直接挂 httptest 用。
func (c *Chart) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/assets/", http.FileServer(http.FS(staticFiles)))
	mux.HandleFunc("/assets/chart.js", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-type", "application/javascript")
		fmt.Fprint(w, c.scriptContent)
	})
	mux.HandleFunc("/health", c.handleHealth)
	mux.HandleFunc("/data", c.handleData)
	mux.HandleFunc("/", c.handleIndex)

	return mux
}

// Start 启动 HTTP 服务,阻塞到进程退出。
func (c *Chart) Start() error {
	fmt.Printf("Chart available at http://localhost:%d\n", c.port)
	return http.ListenAndServe(fmt.Sprintf(":%d", c.port), c.Handler())
}
