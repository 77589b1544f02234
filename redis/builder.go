package redis

import (
	"fmt"

	"github.com/gocrud/injector/logging"
)

// Builder Redis 客户端配置构建器
// 配置错误累积到 Build 统一报告，链式调用不中断。
type Builder struct {
	configs map[string]RedisClientOptions
	errors  []error
}

// NewBuilder 创建 Redis 构建器
func NewBuilder() *Builder {
	return &Builder{configs: make(map[string]RedisClientOptions)}
}

// AddClient 添加一个命名客户端配置
func (b *Builder) AddClient(name string, configure func(*RedisClientOptions)) *Builder {
	if _, exists := b.configs[name]; exists {
		b.errors = append(b.errors, fmt.Errorf("redis client '%s' already configured", name))
		return b
	}

	opts := NewDefaultOptions(name)
	if configure != nil {
		configure(opts)
	}
	if err := opts.Validate(); err != nil {
		b.errors = append(b.errors, fmt.Errorf("invalid redis configuration for '%s': %w", name, err))
		return b
	}

	b.configs[name] = *opts
	return b
}

// Build 连接并注册所有客户端；没有任何配置时返回 nil 工厂
func (b *Builder) Build(logger logging.Logger) (*RedisClientFactory, error) {
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("redis configuration errors: %v", b.errors)
	}
	if len(b.configs) == 0 {
		return nil, nil
	}

	factory := NewRedisClientFactory()
	for _, opts := range b.configs {
		if err := factory.Register(opts); err != nil {
			return nil, fmt.Errorf("failed to register redis client '%s': %w", opts.Name, err)
		}
		if logger != nil {
			logger.Info("redis client registered",
				logging.F("name", opts.Name), logging.F("addr", opts.Addr), logging.F("db", opts.DB))
		}
	}
	return factory, nil
}
