package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Field 结构化日志字段
type Field struct {
	Key   string
	Value any
}

// F 构造一个字段，调用点写法更紧凑
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Entry 一条完整的日志记录，Formatter 的输入
type Entry struct {
	Time     time.Time
	Level    Level
	Category string
	Message  string
	Fields   []Field
}

// Formatter 把日志条目编码为输出字节（以换行结尾）
type Formatter interface {
	Format(e *Entry) ([]byte, error)
}

// bufPool 格式化期间复用的字节缓冲
var bufPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// TextFormatter 人类可读的单行文本格式
type TextFormatter struct {
	TimestampFormat string
	Color           bool
}

func NewTextFormatter() *TextFormatter {
	return &TextFormatter{TimestampFormat: "2006-01-02 15:04:05"}
}

func (f *TextFormatter) Format(e *Entry) ([]byte, error) {
	buf := bufPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufPool.Put(buf)
	}()

	buf.WriteString(e.Time.Format(f.TimestampFormat))
	buf.WriteByte(' ')
	if f.Color {
		buf.WriteString(levelColor(e.Level))
		buf.WriteString(e.Level.String())
		buf.WriteString(colorReset)
	} else {
		buf.WriteString(e.Level.String())
	}
	if e.Category != "" {
		buf.WriteString(" [")
		buf.WriteString(e.Category)
		buf.WriteByte(']')
	}
	buf.WriteByte(' ')
	buf.WriteString(e.Message)

	if len(e.Fields) > 0 {
		buf.WriteString(" {")
		for i, field := range e.Fields {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(field.Key)
			buf.WriteByte('=')
			fmt.Fprintf(buf, "%v", field.Value)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('\n')

	// 缓冲即将归还池里，必须拷贝
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

const colorReset = "\033[0m"

func levelColor(l Level) string {
	switch l {
	case LevelDebug:
		return "\033[36m"
	case LevelInfo:
		return "\033[32m"
	case LevelWarn:
		return "\033[33m"
	case LevelError:
		return "\033[31m"
	case LevelFatal:
		return "\033[35m"
	default:
		return ""
	}
}

// JSONFormatter 每行一个 JSON 对象的机器可读格式
type JSONFormatter struct {
	TimestampFormat string
}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{TimestampFormat: time.RFC3339Nano}
}

func (f *JSONFormatter) Format(e *Entry) ([]byte, error) {
	record := map[string]any{
		"time":  e.Time.Format(f.TimestampFormat),
		"level": e.Level.String(),
		"msg":   e.Message,
	}
	if e.Category != "" {
		record["category"] = e.Category
	}
	for _, field := range e.Fields {
		record[field.Key] = field.Value
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
