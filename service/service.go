// Package service 汇总各组件之间的接口约定,协调器只面向这些
// 抽象工作,换数据源或通知渠道时不必改装配之外的代码。
package service

import (
	"context"

	"github.com/itqwq/chartkite/model"
)

// Feeder 日线行情数据源,与 feed 包的实现对应。
type Feeder interface {
	Name() string
	Daily(ctx context.Context, symbol string, days int) ([]model.Candle, error)
}

// Notifier 通知出口,发快照摘要和错误告警用。
type Notifier interface {
	Notify(text string)
	OnError(err error)
}

// Telegram 在 Notifier 之上多一个启动方法:机器人要先连上
// 长轮询才能收发消息。
type Telegram interface {
	Notifier
	Start()
}
