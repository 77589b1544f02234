package logging

import (
	"context"

	"github.com/gocrud/injector/core"
	"github.com/gocrud/injector/di"
)

// BuilderOption 用于配置 Builder
type BuilderOption func(*Builder)

// WithMinimumLevel 设置最小日志级别
func WithMinimumLevel(level Level) BuilderOption {
	return func(b *Builder) {
		b.SetMinimumLevel(level)
	}
}

// WithConsole 添加控制台输出
func WithConsole(options ...ConsoleOptions) BuilderOption {
	return func(b *Builder) {
		b.AddConsole(options...)
	}
}

// WithFile 添加文件输出
func WithFile(path string, options ...FileOptions) BuilderOption {
	return func(b *Builder) {
		b.AddFile(path, options...)
	}
}

// WithSink 添加自定义 Sink
func WithSink(s Sink) BuilderOption {
	return func(b *Builder) {
		b.AddSink(s)
	}
}

// LoggerFeature 把根 Logger 暴露给其他 Option 的 Bootstrap 阶段
// 注入器构建之前，各模块通过它获取日志能力
type LoggerFeature struct {
	Logger Logger
}

// New 启用日志能力
// 注册 LoggerFactory 与根 Logger 到注入器，并作为 Feature 暴露；
// 应用停止时关闭工厂，冲刷异步 Sink 的积压条目。
func New(opts ...BuilderOption) core.Option {
	return func(rt *core.Runtime) error {
		builder := NewBuilder()
		for _, opt := range opts {
			opt(builder)
		}

		f, err := builder.Build()
		if err != nil {
			return err
		}
		logger := f.CreateLogger("app")

		if err := rt.Provide(
			di.ValueProvider{Provide: di.TypeOf[LoggerFactory](), Value: f},
			di.ValueProvider{Provide: di.TypeOf[Logger](), Value: logger},
		); err != nil {
			return err
		}

		rt.Features.Set(LoggerFeature{Logger: logger})
		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			return f.Close()
		})
		return nil
	}
}

// FromRuntime 获取 Bootstrap 阶段的根 Logger
// 未启用日志能力时返回 nil
func FromRuntime(rt *core.Runtime) Logger {
	return core.GetFeature[LoggerFeature](rt).Logger
}
