package etcd

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// EtcdClientOptions 单个 etcd 客户端的连接参数
type EtcdClientOptions struct {
	Name               string
	Endpoints          []string
	DialTimeout        time.Duration
	Username           string // 可选，非空时启用认证
	Password           string
	AutoSyncInterval   time.Duration
	MaxCallSendMsgSize int
	MaxCallRecvMsgSize int
}

// NewDefaultOptions 返回指向本地单节点的默认参数
func NewDefaultOptions(name string) *EtcdClientOptions {
	return &EtcdClientOptions{
		Name:        name,
		Endpoints:   []string{"localhost:2379"},
		DialTimeout: 5 * time.Second,
	}
}

// Validate 检查必填项
func (o *EtcdClientOptions) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("etcd client name is required")
	}
	if len(o.Endpoints) == 0 {
		return fmt.Errorf("etcd endpoints are required")
	}
	if o.DialTimeout <= 0 {
		return fmt.Errorf("etcd dial timeout must be positive")
	}
	return nil
}

func (o *EtcdClientOptions) clientConfig() clientv3.Config {
	cfg := clientv3.Config{
		Endpoints:   o.Endpoints,
		DialTimeout: o.DialTimeout,
	}
	if o.Username != "" {
		cfg.Username = o.Username
		cfg.Password = o.Password
	}
	if o.AutoSyncInterval > 0 {
		cfg.AutoSyncInterval = o.AutoSyncInterval
	}
	if o.MaxCallSendMsgSize > 0 {
		cfg.MaxCallSendMsgSize = o.MaxCallSendMsgSize
	}
	if o.MaxCallRecvMsgSize > 0 {
		cfg.MaxCallRecvMsgSize = o.MaxCallRecvMsgSize
	}
	return cfg
}

// EtcdClientFactory 按名称管理一组 etcd 客户端
type EtcdClientFactory struct {
	clients map[string]*clientv3.Client
	mu      sync.RWMutex
}

func NewEtcdClientFactory() *EtcdClientFactory {
	return &EtcdClientFactory{
		clients: make(map[string]*clientv3.Client),
	}
}

// Register 按配置建立连接并登记，名称重复时报错
func (f *EtcdClientFactory) Register(opts EtcdClientOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.clients[opts.Name]; exists {
		return fmt.Errorf("etcd client '%s' already registered", opts.Name)
	}

	client, err := clientv3.New(opts.clientConfig())
	if err != nil {
		return fmt.Errorf("failed to create etcd client: %w", err)
	}
	f.clients[opts.Name] = client
	return nil
}

// Get 取出指定名称的客户端
func (f *EtcdClientFactory) Get(name string) (*clientv3.Client, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	client, exists := f.clients[name]
	if !exists {
		return nil, fmt.Errorf("etcd client '%s' not found", name)
	}
	return client, nil
}

// Each 按名称字典序遍历全部客户端
func (f *EtcdClientFactory) Each(fn func(name string, client *clientv3.Client)) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.clients))
	for name := range f.clients {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fn(name, f.clients[name])
	}
}

// Close 关闭并清空全部客户端，汇总各自的关闭错误
func (f *EtcdClientFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	for name, client := range f.clients {
		if err := client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close etcd client '%s': %w", name, err))
		}
	}
	f.clients = make(map[string]*clientv3.Client)
	return errors.Join(errs...)
}
