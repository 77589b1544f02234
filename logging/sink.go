package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Sink 接收格式化后的日志条目
// Close 负责冲刷缓冲并释放资源，由 LoggerFactory.Close 统一调用。
type Sink interface {
	Write(e *Entry)
	Close() error
}

// writerSink 同步写入 io.Writer 的 Sink
type writerSink struct {
	mu        sync.Mutex
	w         io.Writer
	formatter Formatter
	closer    io.Closer
}

// NewWriterSink 用给定的 writer 和格式构造同步 Sink
func NewWriterSink(w io.Writer, formatter Formatter) Sink {
	s := &writerSink{w: w, formatter: formatter}
	if c, ok := w.(io.Closer); ok && w != os.Stdout && w != os.Stderr {
		s.closer = c
	}
	return s
}

func (s *writerSink) Write(e *Entry) {
	data, err := s.formatter.Format(e)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: format error: %v\n", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(data); err != nil {
		fmt.Fprintf(os.Stderr, "logging: write error: %v\n", err)
	}
}

func (s *writerSink) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// asyncSink 把条目投递到后台协程，写入不阻塞调用方。
// 队列满时退化为阻塞投递，保证不丢日志。
type asyncSink struct {
	target    Sink
	entryCh   chan *Entry
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewAsyncSink 把一个同步 Sink 包装为异步 Sink
func NewAsyncSink(target Sink, bufferSize int) Sink {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	s := &asyncSink{
		target:  target,
		entryCh: make(chan *Entry, bufferSize),
	}
	s.wg.Add(1)
	go s.drain()
	return s
}

func (s *asyncSink) Write(e *Entry) {
	s.entryCh <- e
}

// Close 停止接收并等待积压条目全部写完
func (s *asyncSink) Close() error {
	s.closeOnce.Do(func() {
		close(s.entryCh)
	})
	s.wg.Wait()
	return s.target.Close()
}

func (s *asyncSink) drain() {
	defer s.wg.Done()
	for e := range s.entryCh {
		s.target.Write(e)
	}
}

// newFileSink 打开（或创建）日志文件并返回异步写入它的 Sink
func newFileSink(path string, formatter Formatter, bufferSize int) (Sink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("logging: failed to open log file %s: %w", path, err)
	}
	return NewAsyncSink(NewWriterSink(file, formatter), bufferSize), nil
}
