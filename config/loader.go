package config

import (
	"fmt"

	"github.com/gocrud/injector/core"
	"github.com/gocrud/injector/di"
)

// BuilderOption 用于配置 ConfigurationBuilder
type BuilderOption func(*ConfigurationBuilder)

// WithYamlFile 添加 YAML 配置文件
func WithYamlFile(path string, optional ...bool) BuilderOption {
	return func(b *ConfigurationBuilder) {
		b.AddYamlFile(path, optional...)
	}
}

// WithJsonFile 添加 JSON 配置文件
func WithJsonFile(path string, optional ...bool) BuilderOption {
	return func(b *ConfigurationBuilder) {
		b.AddJsonFile(path, optional...)
	}
}

// WithEnvPrefix 添加带前缀的环境变量配置源
func WithEnvPrefix(prefix string) BuilderOption {
	return func(b *ConfigurationBuilder) {
		b.AddEnvironmentVariables(prefix)
	}
}

// WithInMemory 添加内存配置源，常用于测试
func WithInMemory(data map[string]any) BuilderOption {
	return func(b *ConfigurationBuilder) {
		b.AddInMemory(data)
	}
}

// WithEtcd 添加 etcd 配置源
func WithEtcd(opts EtcdOptions) BuilderOption {
	return func(b *ConfigurationBuilder) {
		b.AddEtcd(opts)
	}
}

// ConfigFeature 把配置暴露给其他 Option 的 Bootstrap 阶段
type ConfigFeature struct {
	Config Reloadable
}

// New 启用配置能力
// 按顺序加载所有配置源（后面的覆盖前面的），并把 Configuration 注册到注入器
func New(opts ...BuilderOption) core.Option {
	return func(rt *core.Runtime) error {
		builder := NewConfigurationBuilder()
		for _, opt := range opts {
			opt(builder)
		}

		cfg, err := builder.Build()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}

		// 注册 Configuration 到注入器（重载入口单独注册）
		if err := rt.Provide(
			di.ValueProvider{Provide: di.TypeOf[Configuration](), Value: cfg},
			di.ValueProvider{Provide: di.TypeOf[Reloadable](), Value: cfg},
		); err != nil {
			return err
		}

		// 注册为 Runtime Feature，供其他 Option 在 Bootstrap 阶段读取
		rt.Features.Set(ConfigFeature{Config: cfg})

		return nil
	}
}

// FromRuntime 获取 Bootstrap 阶段的配置
// 未启用配置能力时返回 nil
func FromRuntime(rt *core.Runtime) Reloadable {
	return core.GetFeature[ConfigFeature](rt).Config
}

// Bind 将配置节绑定到结构体 *T 并注册为单例
// 绑定在注入器首次解析 *T 时执行
func Bind[T any](rt *core.Runtime, section string) error {
	return rt.Provide(di.FactoryProvider{
		Provide: di.TypeOf[*T](),
		Factory: func(cfg Configuration) (*T, error) {
			var settings T
			if err := cfg.Bind(section, &settings); err != nil {
				return nil, fmt.Errorf("config: failed to bind section '%s': %w", section, err)
			}
			return &settings, nil
		},
		Deps: []any{di.TypeOf[Configuration]()},
	})
}
