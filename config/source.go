package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
	"gopkg.in/yaml.v3"
)

// JsonFileSource JSON 文件配置源
type JsonFileSource struct {
	Path     string
	Optional bool
}

func (s *JsonFileSource) Name() string {
	return fmt.Sprintf("JsonFile(%s)", s.Path)
}

func (s *JsonFileSource) Load() (map[string]any, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if s.Optional && os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return result, nil
}

// YamlFileSource YAML 文件配置源
type YamlFileSource struct {
	Path     string
	Optional bool
}

func (s *YamlFileSource) Name() string {
	return fmt.Sprintf("YamlFile(%s)", s.Path)
}

func (s *YamlFileSource) Load() (map[string]any, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if s.Optional && os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	var result map[string]any
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return result, nil
}

// EnvironmentVariableSource 环境变量配置源
// 键做小写化处理，下划线视为层级分隔符：MYAPP_SERVER_PORT → server:port
type EnvironmentVariableSource struct {
	Prefix string
}

func (s *EnvironmentVariableSource) Name() string {
	return fmt.Sprintf("EnvironmentVariables(%s)", s.Prefix)
}

func (s *EnvironmentVariableSource) Load() (map[string]any, error) {
	result := make(map[string]any)
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if s.Prefix != "" {
			if !strings.HasPrefix(key, s.Prefix) {
				continue
			}
			key = strings.TrimPrefix(key, s.Prefix)
		}
		key = strings.ReplaceAll(strings.ToLower(key), "_", ":")
		setNestedValue(result, key, value)
	}
	return result, nil
}

// InMemorySource 内存配置源
type InMemorySource struct {
	Data map[string]any
}

func (s *InMemorySource) Name() string {
	return "InMemory"
}

func (s *InMemorySource) Load() (map[string]any, error) {
	result := make(map[string]any)
	mergeMaps(result, s.Data)
	return result, nil
}

// EtcdOptions etcd 配置源选项
type EtcdOptions struct {
	Endpoints   []string
	Username    string
	Password    string
	Prefix      string
	Timeout     time.Duration
	DialTimeout time.Duration
}

func (o EtcdOptions) withDefaults() EtcdOptions {
	if o.Timeout == 0 {
		o.Timeout = 5 * time.Second
	}
	if o.DialTimeout == 0 {
		o.DialTimeout = 5 * time.Second
	}
	return o
}

// EtcdSource etcd 配置源
// 读取前缀下的全部键值；键中的 / 视为层级分隔符，
// 值依次按 JSON、YAML、普通字符串解释。
type EtcdSource struct {
	Options EtcdOptions
}

func (s *EtcdSource) Name() string {
	return fmt.Sprintf("Etcd(%v)", s.Options.Endpoints)
}

func (s *EtcdSource) Load() (map[string]any, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   s.Options.Endpoints,
		Username:    s.Options.Username,
		Password:    s.Options.Password,
		DialTimeout: s.Options.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}
	defer cli.Close()

	ctx, cancel := context.WithTimeout(context.Background(), s.Options.Timeout)
	defer cancel()

	prefix := s.Options.Prefix
	if prefix == "" {
		prefix = "/"
	}
	resp, err := cli.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to get config from etcd: %w", err)
	}

	result := make(map[string]any)
	for _, kv := range resp.Kvs {
		key := strings.TrimPrefix(string(kv.Key), s.Options.Prefix)
		key = strings.TrimPrefix(key, "/")
		if key == "" {
			continue
		}
		key = strings.ReplaceAll(key, "/", ":")
		setNestedValue(result, key, decodeEtcdValue(kv.Value))
	}
	return result, nil
}

func decodeEtcdValue(raw []byte) any {
	var jsonValue any
	if err := json.Unmarshal(raw, &jsonValue); err == nil {
		return jsonValue
	}
	var yamlValue any
	if err := yaml.Unmarshal(raw, &yamlValue); err == nil {
		return yamlValue
	}
	return string(raw)
}

// setNestedValue 按 ":" 分隔的路径写入嵌套值
// 字符串值尝试按 int、float、bool 依次转型，失败则保持字符串。
func setNestedValue(data map[string]any, path string, value any) {
	parts := strings.Split(path, ":")
	current := data
	for _, part := range parts[:len(parts)-1] {
		if _, exists := current[part]; !exists {
			current[part] = make(map[string]any)
		}
		m, ok := current[part].(map[string]any)
		if !ok {
			return
		}
		current = m
	}

	if strValue, ok := value.(string); ok {
		if intValue, err := strconv.Atoi(strValue); err == nil {
			value = intValue
		} else if floatValue, err := strconv.ParseFloat(strValue, 64); err == nil {
			value = floatValue
		} else if boolValue, err := strconv.ParseBool(strValue); err == nil {
			value = boolValue
		}
	}
	current[parts[len(parts)-1]] = value
}
