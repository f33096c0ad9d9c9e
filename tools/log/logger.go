// Package log 对 logrus 的一层薄封装,统一整个项目的日志出口。
// 好处是调用方只 import 这一个包,想换格式或整体调级别时只改这里。
package log

import "github.com/sirupsen/logrus"

// 把常用级别透出来,调用方不必直接依赖 logrus。
var (
	DebugLevel = logrus.DebugLevel
	InfoLevel  = logrus.InfoLevel
	WarnLevel  = logrus.WarnLevel
	ErrorLevel = logrus.ErrorLevel
	FatalLevel = logrus.FatalLevel
)

// TextFormatter 文本格式化器的别名,cmd 里配置输出样式用。
type TextFormatter = logrus.TextFormatter

// Level 日志级别的别名。
type Level = logrus.Level

// Fields 结构化字段集合的别名。
type Fields = logrus.Fields

// CheckErr 错误不为 nil 时按给定级别记一条日志,常用于收尾时
// 不想中断主流程的 Close/Shutdown 错误。
func CheckErr(level Level, err error) {
	if err != nil {
		switch level {
		case logrus.WarnLevel:
			logrus.Warn(err)
		case logrus.ErrorLevel:
			logrus.Error(err)
		case logrus.FatalLevel:
			logrus.Fatal(err)
		default:
			logrus.Debug(err)
		}
	}
}

// SetFormatter 设置全局输出格式。
func SetFormatter(formatter logrus.Formatter) {
	logrus.SetFormatter(formatter)
}

// SetLevel 设置全局日志级别,低于该级别的日志会被丢弃。
func SetLevel(level Level) {
	logrus.SetLevel(level)
}

// WithField 给日志附加一个结构化字段。
func WithField(key string, value interface{}) *logrus.Entry {
	return logrus.WithField(key, value)
}

// WithFields 给日志附加一组结构化字段。
func WithFields(fields Fields) *logrus.Entry {
	return logrus.WithFields(fields)
}

func Debug(messages ...interface{}) {
	logrus.Debug(messages...)
}

func Debugf(format string, messages ...interface{}) {
	logrus.Debugf(format, messages...)
}

func Info(messages ...interface{}) {
	logrus.Info(messages...)
}

func Infof(format string, messages ...interface{}) {
	logrus.Infof(format, messages...)
}

func Warn(messages ...interface{}) {
	logrus.Warn(messages...)
}

func Warnf(format string, messages ...interface{}) {
	logrus.Warnf(format, messages...)
}

func Error(messages ...interface{}) {
	logrus.Error(messages...)
}

func Errorf(format string, messages ...interface{}) {
	logrus.Errorf(format, messages...)
}

func Fatal(messages ...interface{}) {
	logrus.Fatal(messages...)
}
