package hosting

import (
	"context"
	"fmt"
	"reflect"

	"github.com/gocrud/injector/core"
	"github.com/gocrud/injector/logging"
)

// New 批量注册托管服务
// 与 core.WithHostedService 的区别：所有服务由同一个管理器并发启动、反向并发停止
func New(constructors ...any) core.Option {
	return func(rt *core.Runtime) error {
		hostedType := reflect.TypeOf((*HostedService)(nil)).Elem()
		serviceTypes := make([]reflect.Type, 0, len(constructors))

		for _, ctor := range constructors {
			fnType := reflect.TypeOf(ctor)
			if fnType == nil || fnType.Kind() != reflect.Func || fnType.NumOut() == 0 {
				return fmt.Errorf("hosting: constructor must be a function returning the service, got %T", ctor)
			}
			serviceType := fnType.Out(0)
			if !serviceType.Implements(hostedType) {
				return fmt.Errorf("hosting: service %v does not implement hosting.HostedService", serviceType)
			}

			if err := rt.Provide(ctor); err != nil {
				return err
			}
			serviceTypes = append(serviceTypes, serviceType)
		}

		var manager *Manager
		var managerCtx context.Context
		var managerCancel context.CancelFunc

		rt.Lifecycle.OnStart(func(ctx context.Context) error {
			logger := logging.FromRuntime(rt)
			if logger == nil {
				logger = logging.NewLogger()
			}
			manager = NewManager(logger)

			for _, serviceType := range serviceTypes {
				val, err := rt.Injector().Get(serviceType)
				if err != nil {
					return fmt.Errorf("hosting: failed to resolve service %v: %w", serviceType, err)
				}
				manager.Add(val.(HostedService))
			}

			// 服务上下文独立于启动上下文，生命周期伴随应用运行
			managerCtx, managerCancel = context.WithCancel(context.Background())
			errCh := manager.StartAll(managerCtx)

			// 任一服务失败即触发退出 (Fail Fast)
			go func() {
				if err := <-errCh; err != nil {
					if rt.ErrorHandler != nil {
						rt.ErrorHandler(fmt.Errorf("hosting: service exited with error: %w", err))
					}
					rt.Shutdown()
				}
			}()

			return nil
		})

		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			if managerCancel != nil {
				managerCancel()
			}
			if manager == nil {
				return nil
			}
			return manager.StopAll(ctx)
		})

		return nil
	}
}
