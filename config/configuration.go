package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
)

// Configuration 配置接口（类似于 .NET Core IConfiguration）
type Configuration interface {
	// Get 获取配置值
	Get(key string) string
	// GetWithDefault 获取配置值，如果不存在则返回默认值
	GetWithDefault(key, defaultValue string) string
	// GetInt 获取整数配置值
	GetInt(key string) (int, error)
	// GetBool 获取布尔配置值
	GetBool(key string) (bool, error)
	// GetSection 获取配置节
	GetSection(key string) Configuration
	// Bind 绑定配置到结构体
	Bind(key string, target any) error
	// GetAll 获取所有配置
	GetAll() map[string]any
}

// Reloadable 支持重载的配置
// Build 产出的根配置实现它；GetSection 的子配置不支持重载。
type Reloadable interface {
	Configuration
	// Reload 重新加载全部配置源并原子替换数据
	Reload() error
	// OnReload 注册重载完成后的回调
	OnReload(fn func())
}

// ConfigurationBuilder 配置构建器
type ConfigurationBuilder struct {
	sources []ConfigurationSource
}

// ConfigurationSource 配置源接口
type ConfigurationSource interface {
	Load() (map[string]any, error)
	Name() string
}

// NewConfigurationBuilder 创建配置构建器
func NewConfigurationBuilder() *ConfigurationBuilder {
	return &ConfigurationBuilder{}
}

// Add 添加配置源
func (b *ConfigurationBuilder) Add(source ConfigurationSource) *ConfigurationBuilder {
	b.sources = append(b.sources, source)
	return b
}

// AddJsonFile 添加 JSON 文件配置源
func (b *ConfigurationBuilder) AddJsonFile(path string, optional ...bool) *ConfigurationBuilder {
	return b.Add(&JsonFileSource{Path: path, Optional: len(optional) > 0 && optional[0]})
}

// AddYamlFile 添加 YAML 文件配置源
func (b *ConfigurationBuilder) AddYamlFile(path string, optional ...bool) *ConfigurationBuilder {
	return b.Add(&YamlFileSource{Path: path, Optional: len(optional) > 0 && optional[0]})
}

// AddEnvironmentVariables 添加环境变量配置源
func (b *ConfigurationBuilder) AddEnvironmentVariables(prefix string) *ConfigurationBuilder {
	return b.Add(&EnvironmentVariableSource{Prefix: prefix})
}

// AddInMemory 添加内存配置源
func (b *ConfigurationBuilder) AddInMemory(data map[string]any) *ConfigurationBuilder {
	return b.Add(&InMemorySource{Data: data})
}

// AddEtcd 添加 etcd 配置源
func (b *ConfigurationBuilder) AddEtcd(opts EtcdOptions) *ConfigurationBuilder {
	return b.Add(&EtcdSource{Options: opts.withDefaults()})
}

// Build 按顺序加载所有配置源（后面的覆盖前面的）
// 返回的配置保留源列表，可通过 Reload 重载。
func (b *ConfigurationBuilder) Build() (Reloadable, error) {
	c := &configuration{
		store:   newSnapshotStore(),
		sources: b.sources,
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// configuration 配置实现
// 数据为原子替换的快照，读取无锁；Reload 重新加载源。
type configuration struct {
	store   *snapshotStore
	sources []ConfigurationSource

	mu        sync.Mutex
	callbacks []func()
}

// newSection 从一段已有数据构造子配置（不可重载）
func newSection(data map[string]any) *configuration {
	c := &configuration{store: newSnapshotStore()}
	c.store.Store(data)
	return c
}

// Reload 重新加载全部配置源并原子替换数据
func (c *configuration) Reload() error {
	merged := make(map[string]any)
	for _, source := range c.sources {
		data, err := source.Load()
		if err != nil {
			return fmt.Errorf("failed to load config source %s: %w", source.Name(), err)
		}
		mergeMaps(merged, data)
	}
	c.store.Store(merged)

	c.mu.Lock()
	callbacks := append([]func(){}, c.callbacks...)
	c.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
	return nil
}

// OnReload 注册重载完成后的回调
func (c *configuration) OnReload(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = append(c.callbacks, fn)
}

// Get 获取配置值
func (c *configuration) Get(key string) string {
	value := c.getByPath(key)
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// GetWithDefault 获取配置值，如果不存在则返回默认值
func (c *configuration) GetWithDefault(key, defaultValue string) string {
	if value := c.Get(key); value != "" {
		return value
	}
	return defaultValue
}

// GetInt 获取整数配置值
func (c *configuration) GetInt(key string) (int, error) {
	value := c.getByPath(key)
	if value == nil {
		return 0, fmt.Errorf("key %s not found", key)
	}
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	default:
		return 0, fmt.Errorf("cannot convert %v to int", value)
	}
}

// GetBool 获取布尔配置值
func (c *configuration) GetBool(key string) (bool, error) {
	value := c.getByPath(key)
	if value == nil {
		return false, fmt.Errorf("key %s not found", key)
	}
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	default:
		return false, fmt.Errorf("cannot convert %v to bool", value)
	}
}

// GetSection 获取配置节
func (c *configuration) GetSection(key string) Configuration {
	if m, ok := c.getByPath(key).(map[string]any); ok {
		return newSection(m)
	}
	return newSection(make(map[string]any))
}

// Bind 绑定配置到结构体（JSON 序列化往返）
func (c *configuration) Bind(key string, target any) error {
	var data any
	if key == "" {
		data = c.store.Load()
	} else {
		data = c.getByPath(key)
	}
	if data == nil {
		return fmt.Errorf("key %s not found", key)
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	if err := json.Unmarshal(jsonData, target); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	return nil
}

// GetAll 返回全部配置的副本
func (c *configuration) GetAll() map[string]any {
	result := make(map[string]any)
	mergeMaps(result, c.store.Load())
	return result
}

// getByPath 通过路径获取值（支持 "a:b:c" 或 "a.b.c"）
func (c *configuration) getByPath(path string) any {
	data := c.store.Load()
	if path == "" {
		return data
	}

	current := any(data)
	for _, part := range splitPath(path) {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[part]
	}
	return current
}

// mergeMaps 递归合并 src 到 dst，同名子树合并，其余覆盖
func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		if dstMap, ok := dst[k].(map[string]any); ok {
			if srcMap, ok := v.(map[string]any); ok {
				mergeMaps(dstMap, srcMap)
				continue
			}
		}
		dst[k] = v
	}
}
