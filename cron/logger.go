package cron

import (
	"fmt"

	"github.com/gocrud/injector/logging"
	"github.com/robfig/cron/v3"
)

// cronLogger 把框架日志接口适配到 cron 库的日志接口
type cronLogger struct {
	logger logging.Logger
}

func newCronLogger(logger logging.Logger) cron.Logger {
	return &cronLogger{logger: logger}
}

func (l *cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, pairsToFields(keysAndValues)...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...any) {
	fields := append(pairsToFields(keysAndValues), logging.F("error", err.Error()))
	l.logger.Error(msg, fields...)
}

// pairsToFields 把 cron 的 key/value 交替参数转为结构化字段
func pairsToFields(keysAndValues []any) []logging.Field {
	fields := make([]logging.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields = append(fields, logging.F(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
	}
	return fields
}
