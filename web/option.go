package web

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gocrud/injector/core"
	"github.com/gocrud/injector/logging"
)

// BuilderOption 用于配置 Web Builder
type BuilderOption func(*Builder)

// WithPort 设置端口
func WithPort(port int) BuilderOption {
	return func(b *Builder) {
		b.UsePort(port)
	}
}

// WithControllers 添加控制器
func WithControllers(controllers ...any) BuilderOption {
	return func(b *Builder) {
		b.AddControllers(controllers...)
	}
}

// WithMiddleware 添加全局中间件
func WithMiddleware(middleware ...gin.HandlerFunc) BuilderOption {
	return func(b *Builder) {
		b.Use(middleware...)
	}
}

// New 启用 Web 能力
func New(opts ...BuilderOption) core.Option {
	return func(rt *core.Runtime) error {
		// 1. 创建 WebBuilder
		builder := NewBuilder()
		builder.UseLogger(logging.FromRuntime(rt))

		// 应用选项
		for _, opt := range opts {
			opt(builder)
		}

		// 2. 注册为 Feature，便于其他 Option 追加路由
		rt.Features.Set(builder)

		// 3. 注册控制器声明，注入器 Build 时统一解析
		decls, err := builder.Declarations()
		if err != nil {
			return err
		}
		if err := rt.Provide(decls...); err != nil {
			return fmt.Errorf("web: failed to register controllers: %w", err)
		}

		// 4. 注册 Host 为 HostedService
		// 工厂函数延迟创建 Host，确保在注入器构建后执行
		hostFactory := func() *Host {
			host := builder.Build(rt.Injector())
			// 顺便注册为 Feature，以便测试或其他组件获取
			rt.Features.Set(host)
			return host
		}

		// 使用 core.WithHostedService 自动管理生命周期 (Start/Stop)
		return core.WithHostedService(hostFactory)(rt)
	}
}
