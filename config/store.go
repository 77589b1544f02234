package config

import (
	"strings"
	"sync"
	"sync/atomic"
)

// snapshotStore 持有配置数据的不可变快照，读取无锁，
// Reload 时整体原子替换
type snapshotStore struct {
	data atomic.Pointer[map[string]any]
}

func newSnapshotStore() *snapshotStore {
	s := &snapshotStore{}
	empty := make(map[string]any)
	s.data.Store(&empty)
	return s
}

func (s *snapshotStore) Load() map[string]any {
	return *s.data.Load()
}

func (s *snapshotStore) Store(data map[string]any) {
	s.data.Store(&data)
}

// 路径片段解析结果按原始字符串缓存，: 与 . 都作为层级分隔符
var pathSegments sync.Map // string -> []string

func splitPath(path string) []string {
	if v, ok := pathSegments.Load(path); ok {
		return v.([]string)
	}
	parts := strings.Split(strings.ReplaceAll(path, ":", "."), ".")
	pathSegments.Store(path, parts)
	return parts
}
