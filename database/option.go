package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/gocrud/injector/core"
	"github.com/gocrud/injector/di"
	"github.com/gocrud/injector/logging"
	"gorm.io/gorm"
)

// BuilderOption 用于配置 Database Builder
type BuilderOption func(*Builder)

// WithDatabase 添加数据库配置
func WithDatabase(name string, dialector gorm.Dialector, opts ...func(*DatabaseOptions)) BuilderOption {
	return func(b *Builder) {
		// 将变长参数转换为单个配置函数
		var configure func(*DatabaseOptions)
		if len(opts) > 0 {
			configure = func(o *DatabaseOptions) {
				for _, opt := range opts {
					opt(o)
				}
			}
		}
		b.Add(name, dialector, configure)
	}
}

var (
	tokenMu  sync.Mutex
	dbTokens = make(map[string]*di.Token[*gorm.DB])
)

// Token 返回命名数据库实例的注入令牌
func Token(name string) *di.Token[*gorm.DB] {
	tokenMu.Lock()
	defer tokenMu.Unlock()

	tok, ok := dbTokens[name]
	if !ok {
		tok = di.NewToken[*gorm.DB]("database:" + name)
		dbTokens[name] = tok
	}
	return tok
}

// New 启用数据库能力
func New(opts ...BuilderOption) core.Option {
	return func(rt *core.Runtime) error {
		builder := NewBuilder()
		for _, opt := range opts {
			opt(builder)
		}

		// 构建工厂，连接与迁移在此发生
		factory, err := builder.Build(logging.FromRuntime(rt))
		if err != nil {
			return err
		}
		if factory == nil {
			return nil
		}

		// 注册工厂
		if err := rt.Provide(di.ValueProvider{
			Provide: di.TypeOf[*DatabaseFactory](),
			Value:   factory,
		}); err != nil {
			return err
		}

		// 注册各个数据库实例
		var regErr error
		factory.Each(func(name string, db *gorm.DB) {
			if err := rt.Provide(di.ValueProvider{Provide: Token(name), Value: db}); err != nil {
				regErr = err
			}
			// default 实例同时按类型注册
			if name == "default" {
				if err := rt.Provide(di.ValueProvider{Provide: di.TypeOf[*gorm.DB](), Value: db}); err != nil {
					regErr = err
				}
			}
		})
		if regErr != nil {
			return fmt.Errorf("database: failed to register instance: %w", regErr)
		}

		// 注册清理钩子
		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			return factory.Close()
		})

		return nil
	}
}
