package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/gocrud/injector/core"
	"github.com/gocrud/injector/di"
	"github.com/gocrud/injector/logging"
	"github.com/redis/go-redis/v9"
)

// BuilderOption 用于配置 Redis Builder
type BuilderOption func(*Builder)

// WithClient 添加 Redis 客户端配置
func WithClient(name string, opts ...func(*RedisClientOptions)) BuilderOption {
	return func(b *Builder) {
		var configure func(*RedisClientOptions)
		if len(opts) > 0 {
			configure = func(o *RedisClientOptions) {
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
	clientTokens = make(map[string]*di.Token[*redis.Client])
)

// ClientToken 返回命名客户端的注入令牌
// 同名调用返回同一个令牌
func ClientToken(name string) *di.Token[*redis.Client] {
	tokenMu.Lock()
	defer tokenMu.Unlock()

	tok, ok := clientTokens[name]
	if !ok {
		tok = di.NewToken[*redis.Client]("redis:" + name)
		clientTokens[name] = tok
	}
	return tok
}

// New 启用 Redis 能力
// 每个命名客户端通过 ClientToken(name) 解析，"default" 客户端同时按类型注册
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

		// 注册工厂
		if err := rt.Provide(di.ValueProvider{
			Provide: di.TypeOf[*RedisClientFactory](),
			Value:   factory,
		}); err != nil {
			return err
		}

		// 注册各个客户端
		var regErr error
		factory.Each(func(name string, client *redis.Client) {
			if err := rt.Provide(di.ValueProvider{Provide: ClientToken(name), Value: client}); err != nil {
				regErr = err
			}
			// default 客户端同时按类型注册
			if name == "default" {
				if err := rt.Provide(di.ValueProvider{Provide: di.TypeOf[*redis.Client](), Value: client}); err != nil {
					regErr = err
				}
			}
		})
		if regErr != nil {
			return fmt.Errorf("redis: failed to register instance: %w", regErr)
		}

		// 注册清理钩子
		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			return factory.Close()
		})

		return nil
	}
}
