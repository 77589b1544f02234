package core

import "context"

// HostedService 是后台服务的统一生命周期接口
type HostedService interface {
	// Start 运行服务主循环，在独立 Goroutine 中被调用，允许阻塞；
	// 返回非 nil 错误会触发整个应用的优雅关闭
	Start(ctx context.Context) error

	// Stop 在应用关闭时调用，需在 ctx 超时内完成收尾
	Stop(ctx context.Context) error
}
