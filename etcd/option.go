package etcd

import (
	"context"
	"fmt"
	"sync"

	"github.com/gocrud/injector/core"
	"github.com/gocrud/injector/di"
	"github.com/gocrud/injector/logging"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// BuilderOption 用于配置 Etcd Builder
type BuilderOption func(*Builder)

// WithClient 添加 Etcd 客户端配置
func WithClient(name string, opts ...func(*EtcdClientOptions)) BuilderOption {
	return func(b *Builder) {
		var configure func(*EtcdClientOptions)
		if len(opts) > 0 {
			configure = func(o *EtcdClientOptions) {
				for _, opt := range opts {
					opt(o)
				}
			}
		}
		b.AddClient(name, configure)
	}
}

var (
	tokenMu      sync.Mutex
	clientTokens = make(map[string]*di.Token[*clientv3.Client])
)

// ClientToken 返回命名客户端的注入令牌
func ClientToken(name string) *di.Token[*clientv3.Client] {
	tokenMu.Lock()
	defer tokenMu.Unlock()

	tok, ok := clientTokens[name]
	if !ok {
		tok = di.NewToken[*clientv3.Client]("etcd:" + name)
		clientTokens[name] = tok
	}
	return tok
}

// New 启用 Etcd 能力
func New(opts ...BuilderOption) core.Option {
	return func(rt *core.Runtime) error {
		builder := NewBuilder()
		for _, opt := range opts {
			opt(builder)
		}

		factory, err := builder.Build(logging.FromRuntime(rt))
		if err != nil {
			return err
		}
		if factory == nil {
			return nil
		}

		// 注册 factory 到注入器
		if err := rt.Provide(di.ValueProvider{
			Provide: di.TypeOf[*EtcdClientFactory](),
			Value:   factory,
		}); err != nil {
			return err
		}

		// 注册各个客户端
		var regErr error
		factory.Each(func(name string, client *clientv3.Client) {
			if err := rt.Provide(di.ValueProvider{Provide: ClientToken(name), Value: client}); err != nil {
				regErr = err
			}
			if name == "default" {
				if err := rt.Provide(di.ValueProvider{Provide: di.TypeOf[*clientv3.Client](), Value: client}); err != nil {
					regErr = err
				}
			}
		})
		if regErr != nil {
			return fmt.Errorf("etcd: failed to register instance: %w", regErr)
		}

		// 注册清理钩子
		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			return factory.Close()
		})

		return nil
	}
}
