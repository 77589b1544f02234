package hosting

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gocrud/injector/core"
	"github.com/gocrud/injector/logging"
)

// HostedService 与 core 共用同一个托管服务契约
type HostedService = core.HostedService

// entry 管理器中的一项服务，带名字便于日志定位
type entry struct {
	name string
	svc  HostedService
}

// Manager 并发启动、反向并发停止一组托管服务
// 由 hosting.New 在 OnStart 时组装并驱动。
type Manager struct {
	mu      sync.RWMutex
	entries []entry
	logger  logging.Logger
	wg      sync.WaitGroup
}

// NewManager 创建托管服务管理器
func NewManager(logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &Manager{logger: logger.WithCategory("hosting")}
}

// Add 添加托管服务，名字取服务的具体类型
func (m *Manager) Add(svc HostedService) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry{name: fmt.Sprintf("%T", svc), svc: svc})
}

// StartAll 在独立 goroutine 中启动所有服务
// 返回的通道收集真正的启动失败；context 取消视为正常停止。
func (m *Manager) StartAll(ctx context.Context) <-chan error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	errCh := make(chan error, len(m.entries))
	m.logger.Info("starting hosted services", logging.F("count", len(m.entries)))

	for _, e := range m.entries {
		m.wg.Add(1)
		go func(e entry) {
			defer m.wg.Done()

			err := e.svc.Start(ctx)
			switch {
			case err == nil:
				m.logger.Info("hosted service completed", logging.F("service", e.name))
			case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
				m.logger.Debug("hosted service stopped", logging.F("service", e.name))
			default:
				m.logger.Error("hosted service failed",
					logging.F("service", e.name), logging.F("error", err.Error()))
				errCh <- err
			}
		}(e)
	}
	return errCh
}

// StopAll 反向并发停止所有服务，单个失败只记录不中断
func (m *Manager) StopAll(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.logger.Info("stopping hosted services", logging.F("count", len(m.entries)))

	var wg sync.WaitGroup
	for i := len(m.entries) - 1; i >= 0; i-- {
		wg.Add(1)
		go func(e entry) {
			defer wg.Done()
			if err := e.svc.Stop(ctx); err != nil {
				m.logger.Error("failed to stop hosted service",
					logging.F("service", e.name), logging.F("error", err.Error()))
			}
		}(m.entries[i])
	}
	wg.Wait()
	return nil
}

// Wait 等待所有 Start goroutine 退出
func (m *Manager) Wait() {
	m.wg.Wait()
}
