package hosting

import (
	"context"
	"sync"
	"time"

	"github.com/gocrud/injector/logging"
)

// BackgroundService 可嵌入的后台服务基类
// Start 阻塞到停止信号或 context 取消；Stop 等待确认退出。
type BackgroundService struct {
	name     string
	logger   logging.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	doneOnce sync.Once
}

// NewBackgroundService 创建后台服务
func NewBackgroundService(name string, logger logging.Logger) *BackgroundService {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &BackgroundService{
		name:   name,
		logger: logger.WithFields(logging.F("service", name)),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start 阻塞直到 Stop 被调用或 context 取消
func (s *BackgroundService) Start(ctx context.Context) error {
	s.logger.Info("background service started")
	select {
	case <-s.stopCh:
	case <-ctx.Done():
	}
	s.markDone()
	return nil
}

// Stop 发出停止信号并等待服务退出或超时
func (s *BackgroundService) Stop(ctx context.Context) error {
	select {
	case <-s.stopCh:
		// 已经停止过
	default:
		close(s.stopCh)
	}

	select {
	case <-s.doneCh:
		s.logger.Info("background service stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("background service stop timed out")
		return ctx.Err()
	}
}

// StopChan 返回停止通道，供嵌入方在 select 中监听
func (s *BackgroundService) StopChan() <-chan struct{} {
	return s.stopCh
}

// markDone 标记服务已退出，幂等
func (s *BackgroundService) markDone() {
	s.doneOnce.Do(func() { close(s.doneCh) })
}

// TimedHostedService 按固定间隔执行任务的托管服务
type TimedHostedService struct {
	*BackgroundService
	interval time.Duration
	task     func(ctx context.Context) error
}

// NewTimedHostedService 创建定时托管服务
func NewTimedHostedService(name string, interval time.Duration, task func(ctx context.Context) error, logger logging.Logger) *TimedHostedService {
	return &TimedHostedService{
		BackgroundService: NewBackgroundService(name, logger),
		interval:          interval,
		task:              task,
	}
}

// Start 按间隔循环执行任务，直到停止信号或 context 取消
func (s *TimedHostedService) Start(ctx context.Context) error {
	defer s.markDone()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.task(ctx); err != nil {
				// 单次任务失败不终止服务
				s.logger.Error("timed task failed", logging.F("error", err.Error()))
			}
		case <-s.StopChan():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
