package config

import (
	"sync"
	"testing"
)

func TestSnapshotStoreAtomicSwap(t *testing.T) {
	store := newSnapshotStore()
	store.Store(map[string]any{"key": "value"})

	if store.Load()["key"] != "value" {
		t.Error("Load must return the stored snapshot")
	}

	// 并发读与原子替换不冲突
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Load()
		}()
	}
	store.Store(map[string]any{"key": "replaced"})
	wg.Wait()

	if store.Load()["key"] != "replaced" {
		t.Error("Store must atomically replace the snapshot")
	}
}

func TestSplitPathSegments(t *testing.T) {
	parts := splitPath("a:b.c")
	if len(parts) != 3 || parts[0] != "a" || parts[1] != "b" || parts[2] != "c" {
		t.Errorf("mixed separators must split into [a b c], got %v", parts)
	}

	// 第二次命中缓存，结果一致
	again := splitPath("a:b.c")
	if len(again) != 3 {
		t.Errorf("cached lookup returned %v", again)
	}
}

// mutableSource 允许测试在 Reload 之间改变数据
type mutableSource struct {
	mu   sync.Mutex
	data map[string]any
}

func (s *mutableSource) Name() string { return "Mutable" }

func (s *mutableSource) Load() (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[string]any)
	mergeMaps(result, s.data)
	return result, nil
}

func (s *mutableSource) set(data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}

func TestReloadReplacesDataAndNotifies(t *testing.T) {
	source := &mutableSource{}
	source.set(map[string]any{"server": map[string]any{"port": 8080}})

	cfg, err := NewConfigurationBuilder().Add(source).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if port, _ := cfg.GetInt("server:port"); port != 8080 {
		t.Fatalf("initial port = %d, want 8080", port)
	}

	notified := false
	cfg.OnReload(func() { notified = true })

	source.set(map[string]any{"server": map[string]any{"port": 9090}})
	if err := cfg.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if port, _ := cfg.GetInt("server:port"); port != 9090 {
		t.Errorf("port after reload = %d, want 9090", port)
	}
	if !notified {
		t.Error("Reload must fire OnReload callbacks")
	}
}

func TestSectionIsNotReloadable(t *testing.T) {
	cfg, err := NewConfigurationBuilder().
		AddInMemory(map[string]any{"db": map[string]any{"dsn": "x"}}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	section := cfg.GetSection("db")
	if _, ok := section.(Reloadable); ok {
		t.Error("sections must not expose Reload")
	}
	if section.Get("dsn") != "x" {
		t.Errorf("section value = %q, want x", section.Get("dsn"))
	}
}

type poolSettings struct {
	Size int `json:"size"`
}

func TestMonitorRefreshesOnReload(t *testing.T) {
	source := &mutableSource{}
	source.set(map[string]any{"pool": map[string]any{"size": 4}})

	cfg, err := NewConfigurationBuilder().Add(source).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	m, err := NewMonitor[poolSettings](cfg, "pool")
	if err != nil {
		t.Fatalf("NewMonitor failed: %v", err)
	}
	if m.Value().Size != 4 {
		t.Fatalf("initial size = %d, want 4", m.Value().Size)
	}

	source.set(map[string]any{"pool": map[string]any{"size": 16}})
	if err := cfg.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if m.Value().Size != 16 {
		t.Errorf("size after reload = %d, want 16", m.Value().Size)
	}
}

func BenchmarkConfigGet(b *testing.B) {
	cfg, err := NewConfigurationBuilder().
		AddInMemory(map[string]any{
			"server": map[string]any{
				"host": "localhost",
				"port": 8080,
			},
		}).
		Build()
	if err != nil {
		b.Fatalf("Build failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cfg.Get("server:host")
	}
}
