package config

import (
	"fmt"
	"sync"

	"github.com/gocrud/injector/core"
	"github.com/gocrud/injector/di"
)

// Monitor 监听配置选项：Value 总是返回最新绑定值。
// 配置支持重载时，重载后自动重新绑定；否则退化为静态值。
type Monitor[T any] interface {
	Value() T
}

type monitor[T any] struct {
	cfg     Configuration
	section string

	mu      sync.RWMutex
	current T
}

// NewMonitor 绑定配置节并开始监听重载
func NewMonitor[T any](cfg Configuration, section string) (Monitor[T], error) {
	m := &monitor[T]{cfg: cfg, section: section}
	if err := m.rebind(); err != nil {
		return nil, err
	}
	if rc, ok := cfg.(Reloadable); ok {
		rc.OnReload(func() {
			// 重载后节缺失时保留旧值
			_ = m.rebind()
		})
	}
	return m, nil
}

func (m *monitor[T]) rebind() error {
	var next T
	if err := m.cfg.Bind(m.section, &next); err != nil {
		return fmt.Errorf("config: failed to bind section '%s': %w", m.section, err)
	}
	m.mu.Lock()
	m.current = next
	m.mu.Unlock()
	return nil
}

func (m *monitor[T]) Value() T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// BindMonitor 把配置节注册为 Monitor[T] 单例
// 与 Bind 的区别：Bind 产出一次性快照，Monitor 跟随配置重载刷新。
func BindMonitor[T any](rt *core.Runtime, section string) error {
	return rt.Provide(di.FactoryProvider{
		Provide: di.TypeOf[Monitor[T]](),
		Factory: func(cfg Configuration) (Monitor[T], error) {
			return NewMonitor[T](cfg, section)
		},
		Deps: []any{di.TypeOf[Configuration]()},
	})
}
