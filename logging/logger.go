package logging

import (
	"os"
	"time"
)

// Logger 结构化日志接口
// WithCategory 与 WithFields 返回共享 Sink 的派生 Logger。
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)
	Log(level Level, msg string, fields ...Field)
	WithFields(fields ...Field) Logger
	WithCategory(category string) Logger
}

// LoggerFactory 按类别派生 Logger，并统一管理 Sink 的关闭
type LoggerFactory interface {
	CreateLogger(category string) Logger
	Close() error
}

type factory struct {
	sinks    []Sink
	minLevel Level
}

func (f *factory) CreateLogger(category string) Logger {
	return &logger{
		sinks:    f.sinks,
		minLevel: f.minLevel,
		category: category,
	}
}

// Close 关闭所有 Sink（冲刷异步缓冲）
func (f *factory) Close() error {
	var firstErr error
	for _, s := range f.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// logger 是 Logger 的唯一实现：级别过滤 + 扇出到所有 Sink。
// 派生（WithFields / WithCategory）只复制元数据，Sink 共享。
type logger struct {
	sinks    []Sink
	minLevel Level
	category string
	fields   []Field
}

func (l *logger) Debug(msg string, fields ...Field) { l.Log(LevelDebug, msg, fields...) }
func (l *logger) Info(msg string, fields ...Field)  { l.Log(LevelInfo, msg, fields...) }
func (l *logger) Warn(msg string, fields ...Field)  { l.Log(LevelWarn, msg, fields...) }
func (l *logger) Error(msg string, fields ...Field) { l.Log(LevelError, msg, fields...) }

func (l *logger) Fatal(msg string, fields ...Field) {
	l.Log(LevelFatal, msg, fields...)
	os.Exit(1)
}

func (l *logger) Log(level Level, msg string, fields ...Field) {
	if level < l.minLevel {
		return
	}

	all := fields
	if len(l.fields) > 0 {
		all = make([]Field, 0, len(l.fields)+len(fields))
		all = append(all, l.fields...)
		all = append(all, fields...)
	}

	e := &Entry{
		Time:     time.Now(),
		Level:    level,
		Category: l.category,
		Message:  msg,
		Fields:   all,
	}
	for _, s := range l.sinks {
		s.Write(e)
	}
}

func (l *logger) WithFields(fields ...Field) Logger {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &logger{
		sinks:    l.sinks,
		minLevel: l.minLevel,
		category: l.category,
		fields:   merged,
	}
}

func (l *logger) WithCategory(category string) Logger {
	return &logger{
		sinks:    l.sinks,
		minLevel: l.minLevel,
		category: category,
		fields:   l.fields,
	}
}
