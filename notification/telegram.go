// Package notification 实现了对外的消息通道。Telegram机器人允许授权用户
// 查询任意股票的最新指标摘要,并在后台刷新失败时收到告警。
package notification

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	tb "gopkg.in/tucnak/telebot.v2"

	"github.com/itqwq/chartkite/indicator"
	"github.com/itqwq/chartkite/model"
	"github.com/itqwq/chartkite/service"
	"github.com/itqwq/chartkite/tools/log"
)

// quoteRegexp 匹配 /quote 命令,捕获股票代码,如 /quote AAPL
var quoteRegexp = regexp.MustCompile(`/quote\s+(?P<symbol>[\w.^-]+)`)

// Snapshotter 提供指标快照,由 plot.Chart 实现。机器人拿到的快照和
// 浏览器页面看到的是同一份计算结果。
type Snapshotter interface {
	Snapshot(ctx context.Context, symbol string) (*model.Dataframe, *indicator.Snapshot, error)
	Refresh(ctx context.Context)
}

// telegram 结构体持有机器人运行所需的全部组件
type telegram struct {
	settings    model.Settings // 机器人设置,含Token和授权用户ID列表
	snapshotter Snapshotter    // 指标快照来源
	defaultMenu *tb.ReplyMarkup
	client      *tb.Bot
}

type Option func(telegram *telegram)

// NewTelegram 创建并初始化Telegram机器人。
// 机器人通过长轮询接收消息,中间件只放行settings.Telegram.Users中登记的用户,
// 其余人的消息直接丢弃。
func NewTelegram(snapshotter Snapshotter, settings model.Settings, options ...Option) (service.Telegram, error) {
	menu := &tb.ReplyMarkup{ResizeReplyKeyboard: true}
	poller := &tb.LongPoller{Timeout: 10 * time.Second}

	// 授权检查:只有登记过的用户ID才能驱动机器人
	userMiddleware := tb.NewMiddlewarePoller(poller, func(u *tb.Update) bool {
		if u.Message == nil || u.Message.Sender == nil {
			log.Error("no message, ", u)
			return false
		}

		for _, user := range settings.Telegram.Users {
			if int(u.Message.Sender.ID) == user {
				return true
			}
		}
		log.Error("invalid user, ", u.Message)
		return false
	})

	client, err := tb.NewBot(tb.Settings{
		ParseMode: tb.ModeMarkdown,
		Token:     settings.Telegram.Token,
		Poller:    userMiddleware,
	})
	if err != nil {
		return nil, err
	}

	// 默认键盘按钮,用户点按钮即发送对应命令
	var (
		symbolsBtn = menu.Text("/symbols")
		quoteBtn   = menu.Text("/quote")
		refreshBtn = menu.Text("/refresh")
	)

	err = client.SetCommands([]tb.Command{
		{Text: "/help", Description: "显示帮助指令"},
		{Text: "/symbols", Description: "列出仪表盘跟踪的股票"},
		{Text: "/quote", Description: "查看某只股票的指标摘要"},
		{Text: "/refresh", Description: "强制重新抓取全部行情"},
	})
	if err != nil {
		return nil, err
	}

	menu.Reply(
		menu.Row(symbolsBtn, quoteBtn, refreshBtn),
	)

	bot := &telegram{
		snapshotter: snapshotter,
		client:      client,
		settings:    settings,
		defaultMenu: menu,
	}

	for _, option := range options {
		option(bot)
	}

	client.Handle("/help", bot.HelpHandle)
	client.Handle("/symbols", bot.SymbolsHandle)
	client.Handle("/quote", bot.QuoteHandle)
	client.Handle("/refresh", bot.RefreshHandle)

	return bot, nil
}

func (t telegram) Start() {
	go t.client.Start()
	for _, id := range t.settings.Telegram.Users {
		_, err := t.client.Send(&tb.User{ID: int64(id)}, "Dashboard bot initialized.", t.defaultMenu)
		if err != nil {
			log.Error(err)
		}
	}
}

// Notify 向所有登记用户群发一条文本消息
func (t telegram) Notify(text string) {
	for _, user := range t.settings.Telegram.Users {
		_, err := t.client.Send(&tb.User{ID: int64(user)}, text)
		if err != nil {
			log.Error(err)
		}
	}
}

// HelpHandle 处理 /help 命令,把注册过的命令和描述列出来发给请求者
func (t telegram) HelpHandle(m *tb.Message) {
	commands, err := t.client.GetCommands()
	if err != nil {
		log.Error(err)
		t.OnError(err)
		return
	}

	lines := make([]string, 0, len(commands))
	for _, command := range commands {
		lines = append(lines, fmt.Sprintf("/%s - %s", command.Text, command.Description))
	}

	_, err = t.client.Send(m.Sender, strings.Join(lines, "\n"))
	if err != nil {
		log.Error(err)
	}
}

// SymbolsHandle 处理 /symbols 命令,按字母序列出配置中跟踪的全部股票
func (t telegram) SymbolsHandle(m *tb.Message) {
	if len(t.settings.Symbols) == 0 {
		_, err := t.client.Send(m.Sender, "No symbols configured.")
		if err != nil {
			log.Error(err)
		}
		return
	}

	symbols := make([]string, len(t.settings.Symbols))
	copy(symbols, t.settings.Symbols)
	sort.Strings(symbols)

	_, err := t.client.Send(m.Sender, fmt.Sprintf("*SYMBOLS*\n`%s`", strings.Join(symbols, "`\n`")))
	if err != nil {
		log.Error(err)
	}
}

// QuoteHandle 处理 /quote 命令。解析出股票代码后计算一份完整快照,
// 把最后一根K线和几项核心指标的末值拼成摘要发回去。
func (t telegram) QuoteHandle(m *tb.Message) {
	match := quoteRegexp.FindStringSubmatch(m.Text)
	if len(match) == 0 {
		_, err := t.client.Send(m.Sender, "Invalid command.\nExample of usage:\n`/quote AAPL`")
		if err != nil {
			log.Error(err)
		}
		return
	}

	symbol := strings.ToUpper(match[1])

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	df, snapshot, err := t.snapshotter.Snapshot(ctx, symbol)
	if err != nil {
		log.Error(err)
		t.OnError(err)
		return
	}

	message := summarize(df, snapshot)
	_, err = t.client.Send(m.Sender, message)
	if err != nil {
		log.Error(err)
	}
}

// RefreshHandle 处理 /refresh 命令,绕过缓存重新抓取全部股票的行情
func (t telegram) RefreshHandle(m *tb.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	t.snapshotter.Refresh(ctx)

	_, err := t.client.Send(m.Sender, "Refresh complete.", t.defaultMenu)
	if err != nil {
		log.Error(err)
	}
}

// OnError 把运行中的错误格式化后推送给所有用户
func (t telegram) OnError(err error) {
	t.Notify(fmt.Sprintf("🛑 ERROR\n-----\n%s", err))
}

// summarize 把快照压缩成一条Markdown消息。只取每个序列的末值:
// 聊天窗口里摘要比整条曲线有用。
func summarize(df *model.Dataframe, snapshot *indicator.Snapshot) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "*%s*\n", df.Symbol)
	if n := df.Len(); n > 0 {
		fmt.Fprintf(&sb, "%s\nClose: `%.2f`  Volume: `%.0f`\n-----\n",
			df.Time[n-1].Format("2006-01-02"), df.Close[n-1], df.Volume[n-1])
	}

	appendLast := func(name string, values model.Series[float64]) {
		if len(values) == 0 {
			return
		}
		fmt.Fprintf(&sb, "%s: `%.2f`\n", name, values.Last(0))
	}

	appendLast("SMA", snapshot.SMA.Values)
	appendLast("EMA", snapshot.EMA.Values)
	appendLast("RSI", snapshot.RSI.Values)
	appendLast("MFI", snapshot.MFI.Values)
	appendLast("MACD", snapshot.MACD.MACD)
	appendLast("Signal", snapshot.MACD.Signal)
	appendLast("ATR", snapshot.ATR.Values)
	appendLast("CMF", snapshot.CMF.Values)
	appendLast("VWAP", snapshot.VWAPNear.Values)
	if hv, ok := snapshot.HV[20]; ok {
		appendLast("HV20", hv.Values)
	}

	return sb.String()
}
