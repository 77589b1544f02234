package database

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

// DatabaseOptions 数据库配置选项
type DatabaseOptions struct {
	Name         string
	Dialector    gorm.Dialector
	GormConfig   *gorm.Config
	MaxIdleConns int
	MaxOpenConns int
	MaxLifetime  time.Duration
	AutoMigrate  []any // 需要自动迁移的模型
}

// NewDefaultOptions 创建默认配置
func NewDefaultOptions(name string, dialector gorm.Dialector) *DatabaseOptions {
	return &DatabaseOptions{
		Name:         name,
		Dialector:    dialector,
		GormConfig:   &gorm.Config{},
		MaxIdleConns: 10,
		MaxOpenConns: 100,
		MaxLifetime:  time.Hour,
		AutoMigrate:  make([]any, 0),
	}
}

// Validate 验证配置
func (o *DatabaseOptions) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("database name is required")
	}
	if o.Dialector == nil {
		return fmt.Errorf("database dialector is required")
	}
	return nil
}

// DatabaseFactory 数据库客户端工厂
type DatabaseFactory struct {
	dbs map[string]*gorm.DB
	mu  sync.RWMutex
}

// NewDatabaseFactory 创建数据库工厂
func NewDatabaseFactory() *DatabaseFactory {
	return &DatabaseFactory{
		dbs: make(map[string]*gorm.DB),
	}
}

// Register 注册数据库实例
func (f *DatabaseFactory) Register(opts DatabaseOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.dbs[opts.Name]; exists {
		return fmt.Errorf("database '%s' already registered", opts.Name)
	}

	db, err := gorm.Open(opts.Dialector, opts.GormConfig)
	if err != nil {
		return fmt.Errorf("failed to open database '%s': %w", opts.Name, err)
	}

	// 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB for '%s': %w", opts.Name, err)
	}

	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(opts.MaxLifetime)

	// 执行自动迁移
	if len(opts.AutoMigrate) > 0 {
		if err := db.AutoMigrate(opts.AutoMigrate...); err != nil {
			return fmt.Errorf("auto migrate failed for '%s': %w", opts.Name, err)
		}
	}

	f.dbs[opts.Name] = db
	return nil
}

// Get 获取指定名称的数据库实例
func (f *DatabaseFactory) Get(name string) (*gorm.DB, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	db, exists := f.dbs[name]
	if !exists {
		return nil, fmt.Errorf("database '%s' not found", name)
	}
	return db, nil
}

// Each 按名称顺序遍历所有数据库实例
func (f *DatabaseFactory) Each(fn func(name string, db *gorm.DB)) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.dbs))
	for name := range f.dbs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fn(name, f.dbs[name])
	}
}

// Close 关闭所有数据库连接
func (f *DatabaseFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	for name, db := range f.dbs {
		sqlDB, err := db.DB()
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to get sql.DB for '%s': %w", name, err))
			continue
		}
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database '%s': %w", name, err))
		}
	}

	f.dbs = make(map[string]*gorm.DB)

	if len(errs) > 0 {
		return fmt.Errorf("errors closing databases: %v", errs)
	}
	return nil
}
