// Package tools 汇集仪表盘周边的小工具:指标告警调度器和回撤跟踪器。
package tools

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/itqwq/chartkite/model"
	"github.com/itqwq/chartkite/service"
	"github.com/itqwq/chartkite/tools/log"
)

// AlertCondition 定义一条针对单只股票的告警规则。
// Condition 读取最新数据帧判断是否命中,Message 生成推送文本。
type AlertCondition struct {
	Condition func(df *model.Dataframe) bool
	Message   func(df *model.Dataframe) string
	Once      bool // 命中一次后是否移除该规则
}

// Scheduler 管理一只股票的告警规则集。每次行情刷新后调用Update,
// 命中的规则通过Notifier推送。
type Scheduler struct {
	symbol     string
	conditions []AlertCondition
}

// NewScheduler 创建指定股票的告警调度器
func NewScheduler(symbol string) *Scheduler {
	return &Scheduler{symbol: symbol}
}

// AlertWhen 注册一条每次命中都推送的规则
func (s *Scheduler) AlertWhen(condition func(df *model.Dataframe) bool,
	message func(df *model.Dataframe) string) {
	s.conditions = append(
		s.conditions,
		AlertCondition{Condition: condition, Message: message},
	)
}

// AlertOnce 注册一条命中一次即失效的规则,适合"跌破年内低点"这类
// 只需要知道一次的事件。
func (s *Scheduler) AlertOnce(condition func(df *model.Dataframe) bool,
	message func(df *model.Dataframe) string) {
	s.conditions = append(
		s.conditions,
		AlertCondition{Condition: condition, Message: message, Once: true},
	)
}

// Update 用最新数据帧检查全部规则。命中的规则推送通知;
// Once规则推送后从集合中移除,其余保留等待下一轮。
func (s *Scheduler) Update(df *model.Dataframe, notifier service.Notifier) {
	if df == nil || df.Len() == 0 {
		return
	}

	s.conditions = lo.Filter(s.conditions, func(ac AlertCondition, _ int) bool {
		if !ac.Condition(df) {
			return true
		}

		text := fmt.Sprintf("🔔 %s\n-----\n%s", s.symbol, ac.Message(df))
		if notifier != nil {
			notifier.Notify(text)
		} else {
			log.Info(text)
		}

		return !ac.Once
	})
}
