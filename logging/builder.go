package logging

import (
	"io"
	"os"
)

// ConsoleOptions 控制台输出选项
type ConsoleOptions struct {
	Color  bool
	JSON   bool
	Output io.Writer
}

// FileOptions 文件输出选项
type FileOptions struct {
	JSON       bool
	BufferSize int
}

// Builder 组装 Sink 列表并产出 LoggerFactory
type Builder struct {
	sinks    []Sink
	minLevel Level
	err      error
}

// NewBuilder 创建日志构建器，默认最小级别 Info
func NewBuilder() *Builder {
	return &Builder{minLevel: LevelInfo}
}

// SetMinimumLevel 设置最小日志级别
func (b *Builder) SetMinimumLevel(level Level) *Builder {
	b.minLevel = level
	return b
}

// AddSink 添加自定义 Sink
func (b *Builder) AddSink(s Sink) *Builder {
	b.sinks = append(b.sinks, s)
	return b
}

// AddConsole 添加控制台输出
func (b *Builder) AddConsole(options ...ConsoleOptions) *Builder {
	opts := ConsoleOptions{Color: true}
	if len(options) > 0 {
		opts = options[0]
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	var formatter Formatter
	if opts.JSON {
		formatter = NewJSONFormatter()
	} else {
		tf := NewTextFormatter()
		tf.Color = opts.Color
		formatter = tf
	}
	return b.AddSink(NewWriterSink(opts.Output, formatter))
}

// AddFile 添加文件输出（异步写入）
func (b *Builder) AddFile(path string, options ...FileOptions) *Builder {
	var opts FileOptions
	if len(options) > 0 {
		opts = options[0]
	}

	var formatter Formatter
	if opts.JSON {
		formatter = NewJSONFormatter()
	} else {
		formatter = NewTextFormatter()
	}

	s, err := newFileSink(path, formatter, opts.BufferSize)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	return b.AddSink(s)
}

// Build 产出 LoggerFactory；没有任何 Sink 时默认加一个控制台
func (b *Builder) Build() (LoggerFactory, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.sinks) == 0 {
		b.AddConsole()
	}
	return &factory{sinks: b.sinks, minLevel: b.minLevel}, nil
}
