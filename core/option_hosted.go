package core

import (
	"context"
	"fmt"
	"reflect"
)

// WithHostedService 注册一个托管服务
// 服务必须实现 HostedService 接口。
// 框架会在 OnStart 时启动 Goroutine 调用 Start，在 OnStop 时调用 Stop。
func WithHostedService(constructor any) Option {
	return func(rt *Runtime) error {
		// 1. 校验构造函数签名，服务令牌取第一个返回值类型
		fnType := reflect.TypeOf(constructor)
		if fnType == nil || fnType.Kind() != reflect.Func || fnType.NumOut() == 0 {
			return fmt.Errorf("WithHostedService: constructor must be a function returning the service, got %T", constructor)
		}
		serviceType := fnType.Out(0)

		// 2. 验证接口
		hostedServiceType := reflect.TypeOf((*HostedService)(nil)).Elem()
		if !serviceType.Implements(hostedServiceType) {
			return fmt.Errorf("WithHostedService: service %v does not implement core.HostedService", serviceType)
		}

		// 3. 注册服务声明
		if err := rt.Provide(constructor); err != nil {
			return fmt.Errorf("WithHostedService: failed to provide service: %w", err)
		}

		var serviceCtx context.Context
		var serviceCancel context.CancelFunc
		var started HostedService

		// 4. 注册生命周期
		rt.Lifecycle.OnStart(func(ctx context.Context) error {
			val, err := rt.Injector().Get(serviceType)
			if err != nil {
				return fmt.Errorf("failed to resolve hosted service %v: %w", serviceType, err)
			}
			svc := val.(HostedService)
			started = svc

			// 创建服务上下文，生命周期伴随应用运行
			serviceCtx, serviceCancel = context.WithCancel(context.Background())

			// 异步调用 Start，允许 Start 方法阻塞
			go func() {
				if err := svc.Start(serviceCtx); err != nil {
					// 记录错误
					if rt.ErrorHandler != nil {
						rt.ErrorHandler(fmt.Errorf("HostedService %v exited with error: %w", serviceType, err))
					}
					// 触发应用退出 (Fail Fast)
					rt.Shutdown()
				}
			}()
			return nil
		})

		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			// 通知 Context 取消
			if serviceCancel != nil {
				serviceCancel()
			}

			// 只停止 OnStart 实际启动过的实例；
			// 从未启动时不能去解析，否则会惰性构造出一个全新服务
			if started == nil {
				return nil
			}
			return started.Stop(ctx)
		})

		return nil
	}
}

// WorkerFunc 定义简单的后台任务函数
// 这是一个阻塞函数，通过 ctx.Done() 判断退出。
type WorkerFunc func(ctx context.Context) error

// WithWorker 将一个阻塞的函数注册为后台服务
// 框架会自动将其适配为 HostedService (异步启动，Cancel停止)
func WithWorker(fn WorkerFunc) Option {
	return func(rt *Runtime) error {
		var workerCtx context.Context
		var workerCancel context.CancelFunc

		rt.Lifecycle.OnStart(func(ctx context.Context) error {
			// 使用 Background 确保 Worker 存活
			workerCtx, workerCancel = context.WithCancel(context.Background())

			go func() {
				if err := fn(workerCtx); err != nil {
					if rt.ErrorHandler != nil {
						rt.ErrorHandler(fmt.Errorf("Worker exited with error: %w", err))
					}
					rt.Shutdown()
				}
			}()
			return nil
		})

		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			if workerCancel != nil {
				workerCancel()
			}
			return nil
		})

		return nil
	}
}
