package mongodb

import (
	"context"
	"fmt"
	"sync"

	"github.com/gocrud/injector/core"
	"github.com/gocrud/injector/di"
	"github.com/gocrud/injector/logging"
	"github.com/gocrud/mgo"
)

// BuilderOption 用于配置 MongoDB Builder
type BuilderOption func(*Builder)

// WithClient 添加 MongoDB 客户端配置
func WithClient(name string, uri string, opts ...func(*MongoOptions)) BuilderOption {
	return func(b *Builder) {
		var configure func(*MongoOptions)
		if len(opts) > 0 {
			configure = func(o *MongoOptions) {
				for _, opt := range opts {
					opt(o)
				}
			}
		}
		b.Add(name, uri, configure)
	}
}

var (
	tokenMu      sync.Mutex
	clientTokens = make(map[string]*di.Token[*mgo.Client])
)

// ClientToken 返回命名客户端的注入令牌
func ClientToken(name string) *di.Token[*mgo.Client] {
	tokenMu.Lock()
	defer tokenMu.Unlock()

	tok, ok := clientTokens[name]
	if !ok {
		tok = di.NewToken[*mgo.Client]("mongodb:" + name)
		clientTokens[name] = tok
	}
	return tok
}

// New 启用 MongoDB 能力
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

		// 注册 Factory
		if err := rt.Provide(di.ValueProvider{
			Provide: di.TypeOf[*MongoFactory](),
			Value:   factory,
		}); err != nil {
			return err
		}

		// 注册 Client 实例
		var regErr error
		factory.Each(func(name string, client *mgo.Client) {
			if err := rt.Provide(di.ValueProvider{Provide: ClientToken(name), Value: client}); err != nil {
				regErr = err
			}
			if name == "default" {
				if err := rt.Provide(di.ValueProvider{Provide: di.TypeOf[*mgo.Client](), Value: client}); err != nil {
					regErr = err
				}
			}
		})
		if regErr != nil {
			return fmt.Errorf("mongodb: failed to register instance: %w", regErr)
		}

		// 注册清理
		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			return factory.Close()
		})

		return nil
	}
}
