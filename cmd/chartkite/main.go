package main

import (
	"log"
	"os"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/itqwq/chartkite"
	"github.com/itqwq/chartkite/download"
	"github.com/itqwq/chartkite/feed"
	"github.com/itqwq/chartkite/model"
	"github.com/itqwq/chartkite/storage"
	"github.com/itqwq/chartkite/tools/report"
)

// newFeeder 装配默认数据源:Yahoo图表接口优先,finance-go兜底
func newFeeder() feed.Feeder {
	return feed.NewChain([]feed.Feeder{
		feed.NewYahoo(),
		feed.NewFinance(),
	})
}

// loadSettings 读取YAML配置,环境变量里的Telegram令牌优先于文件
func loadSettings(path string) (model.Settings, error) {
	settings, err := model.LoadSettings(path)
	if err != nil {
		return settings, err
	}
	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		settings.Telegram.Token = token
	}
	return settings, nil
}

func main() {
	// .env不存在也没关系,纯属本地开发的便利
	_ = godotenv.Load()

	app := &cli.App{
		Name:     "chartkite",
		HelpName: "chartkite",
		Usage:    "Stock indicator dashboard",
		Commands: []*cli.Command{
			{
				Name:     "serve",
				HelpName: "serve",
				Usage:    "Start the dashboard web server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "eg. ./chartkite.yml",
						Value:   "chartkite.yml",
					},
					&cli.StringFlag{
						Name:    "sqlite",
						Usage:   "archive fetched candles, eg. ./history.db",
						Aliases: []string{"s"},
					},
					&cli.BoolFlag{
						Name:  "debug",
						Usage: "serve unminified chart scripts",
					},
				},
				Action: func(c *cli.Context) error {
					settings, err := loadSettings(c.String("config"))
					if err != nil {
						return err
					}

					options := make([]chartkite.Option, 0)
					if c.Bool("debug") {
						options = append(options, chartkite.WithDebug())
					}
					if file := c.String("sqlite"); file != "" {
						history, err := storage.FromSQL(sqlite.Open(file))
						if err != nil {
							return err
						}
						options = append(options, chartkite.WithHistory(history))
					}

					dashboard, err := chartkite.NewChartkite(c.Context, settings, newFeeder(), options...)
					if err != nil {
						return err
					}
					return dashboard.Run(c.Context)
				},
			},
			{
				Name:     "download",
				HelpName: "download",
				Usage:    "Export daily candles to CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "symbol",
						Aliases: []string{"s"},
						Usage:   "eg. AAPL (omit to export every configured symbol)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "eg. ./aapl.csv",
					},
					&cli.StringFlag{
						Name:  "dir",
						Usage: "output directory for bulk export",
						Value: "data",
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "eg. ./chartkite.yml",
						Value:   "chartkite.yml",
					},
					&cli.IntFlag{
						Name:    "days",
						Aliases: []string{"d"},
						Usage:   "eg. 100 (default 365 days)",
					},
					&cli.StringFlag{
						Name:    "lookback",
						Aliases: []string{"l"},
						Usage:   "eg. 26w or 90d, alternative to --days",
					},
				},
				Action: func(c *cli.Context) error {
					var options []download.Option
					if days := c.Int("days"); days > 0 {
						options = append(options, download.WithDays(days))
					}
					if lookback := c.String("lookback"); lookback != "" {
						options = append(options, download.WithLookback(lookback))
					}

					downloader := download.NewDownloader(newFeeder())

					if symbol := c.String("symbol"); symbol != "" {
						output := c.String("output")
						if output == "" {
							return cli.Exit("--output is required with --symbol", 1)
						}
						return downloader.Download(c.Context, symbol, output, options...)
					}

					settings, err := loadSettings(c.String("config"))
					if err != nil {
						return err
					}
					return downloader.DownloadAll(c.Context, settings.Symbols, c.String("dir"), options...)
				},
			},
			{
				Name:     "report",
				HelpName: "report",
				Usage:    "Print a statistics summary for configured symbols",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "eg. ./chartkite.yml",
						Value:   "chartkite.yml",
					},
				},
				Action: func(c *cli.Context) error {
					settings, err := loadSettings(c.String("config"))
					if err != nil {
						return err
					}

					feeder := newFeeder()
					dfs := make([]*model.Dataframe, 0, len(settings.Symbols))
					for _, symbol := range settings.Symbols {
						candles, err := feeder.Daily(c.Context, symbol, settings.Days)
						if err != nil {
							return err
						}
						dfs = append(dfs, model.NewDataframe(symbol, candles))
					}
					return report.Summary(os.Stdout, dfs)
				},
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
