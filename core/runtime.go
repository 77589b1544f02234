package core

import (
	"fmt"

	"github.com/gocrud/injector/di"
)

// Runtime 是框架的上帝对象，作为状态容器
// 在 Bootstrap 阶段收集提供者声明，Build 阶段一次性解析为注入器
type Runtime struct {
	// Features 存放构建时特性 (WebBuilder, DbBuilder 等)
	Features FeatureCollection

	// Lifecycle 生命周期管理
	Lifecycle *LifecycleEvents

	// providers 收集到的提供者声明，Build 时统一解析
	providers []any

	// injector 构建完成的注入器，Build 之前为 nil
	injector *di.ReflectiveInjector

	// shutdownCh 用于通知应用退出
	shutdownCh chan struct{}

	// ErrorHandler 用于记录运行时产生的严重错误
	// 外部可以通过设置此字段来接管错误日志
	ErrorHandler func(err error)
}

// NewRuntime 创建一个新的运行时实例
func NewRuntime() *Runtime {
	return &Runtime{
		Lifecycle:  NewLifecycle(),
		shutdownCh: make(chan struct{}),
		ErrorHandler: func(err error) {
			// 默认输出到标准输出
			fmt.Printf("[Runtime Error] %v\n", err)
		},
	}
}

// Shutdown 请求应用退出
// 调用此方法会触发应用关闭流程
func (rt *Runtime) Shutdown() {
	select {
	case <-rt.shutdownCh:
		// 已经关闭，无需操作
	default:
		close(rt.shutdownCh)
	}
}

// Done 返回一个通道，当应用需要退出时该通道会关闭
func (rt *Runtime) Done() <-chan struct{} {
	return rt.shutdownCh
}

// Provide 注册服务提供者声明
// 接受构造函数或任意 di 提供者结构 (ClassProvider, ValueProvider 等)，
// 声明在 Build 时统一解析，Build 之后不允许再追加
func (rt *Runtime) Provide(declarations ...any) error {
	if rt.injector != nil {
		return fmt.Errorf("core: runtime already built, cannot provide %d more declarations", len(declarations))
	}
	rt.providers = append(rt.providers, declarations...)
	return nil
}

// Build 解析所有已收集的声明并构建注入器
// 只能调用一次
func (rt *Runtime) Build() error {
	if rt.injector != nil {
		return fmt.Errorf("core: runtime already built")
	}
	inj, err := di.ResolveAndCreate(rt.providers)
	if err != nil {
		return fmt.Errorf("core: failed to build injector: %w", err)
	}
	rt.injector = inj
	return nil
}

// Injector 返回构建完成的注入器
// Build 之前调用返回 nil
func (rt *Runtime) Injector() di.Injector {
	if rt.injector == nil {
		return nil
	}
	return rt.injector
}

// Apply 应用多个 Option
func (rt *Runtime) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(rt); err != nil {
			return err
		}
	}
	return nil
}
