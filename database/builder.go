package database

import (
	"fmt"

	"github.com/gocrud/injector/logging"
	"gorm.io/gorm"
)

// Builder 数据库配置构建器
// 配置错误累积到 Build 统一报告，链式调用不中断。
type Builder struct {
	configs map[string]DatabaseOptions
	errors  []error
}

// NewBuilder 创建构建器
func NewBuilder() *Builder {
	return &Builder{configs: make(map[string]DatabaseOptions)}
}

// Add 添加一个命名数据库配置
// dialector 是 GORM 驱动，如 sqlite.Open(dsn)。
func (b *Builder) Add(name string, dialector gorm.Dialector, configure func(*DatabaseOptions)) *Builder {
	if _, exists := b.configs[name]; exists {
		b.errors = append(b.errors, fmt.Errorf("database '%s' already configured", name))
		return b
	}

	opts := NewDefaultOptions(name, dialector)
	if configure != nil {
		configure(opts)
	}
	if err := opts.Validate(); err != nil {
		b.errors = append(b.errors, fmt.Errorf("invalid configuration for '%s': %w", name, err))
		return b
	}

	b.configs[name] = *opts
	return b
}

// Build 打开并注册所有数据库；没有任何配置时返回 nil 工厂
func (b *Builder) Build(logger logging.Logger) (*DatabaseFactory, error) {
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("database configuration errors: %v", b.errors)
	}
	if len(b.configs) == 0 {
		return nil, nil
	}

	factory := NewDatabaseFactory()
	for _, opts := range b.configs {
		if err := factory.Register(opts); err != nil {
			return nil, fmt.Errorf("failed to register database '%s': %w", opts.Name, err)
		}
		if logger != nil {
			logger.Info("database registered",
				logging.F("name", opts.Name), logging.F("dialector", opts.Dialector.Name()))
		}
	}
	return factory, nil
}
