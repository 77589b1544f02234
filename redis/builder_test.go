package redis_test

import (
	"testing"

	"github.com/gocrud/injector/logging"
	"github.com/gocrud/injector/redis"
)

func TestBuilderErrors(t *testing.T) {
	logger := logging.NewLogger()
	builder := redis.NewBuilder()

	// 添加无效配置
	builder.AddClient("invalid", func(o *redis.RedisClientOptions) {
		o.Addr = "" // 必填项缺失
	})

	// 添加重复配置
	builder.AddClient("duplicate", nil)
	builder.AddClient("duplicate", nil)

	_, err := builder.Build(logger)
	if err == nil {
		t.Fatal("Expected error from invalid configuration, got nil")
	}

	t.Logf("Got expected error: %v", err)
}

func TestBuilderEmpty(t *testing.T) {
	factory, err := redis.NewBuilder().Build(nil)
	if err != nil {
		t.Fatalf("empty builder must not fail: %v", err)
	}
	if factory != nil {
		t.Error("empty builder must produce nil factory")
	}
}

func TestClientTokenIdentity(t *testing.T) {
	if redis.ClientToken("cache") != redis.ClientToken("cache") {
		t.Error("same name must yield the same token")
	}
	if redis.ClientToken("cache") == redis.ClientToken("queue") {
		t.Error("different names must yield different tokens")
	}
	if got := redis.ClientToken("cache").Name(); got != "redis:cache" {
		t.Errorf("unexpected token name %q", got)
	}
}

func TestDefaultOptionsValidate(t *testing.T) {
	opts := redis.NewDefaultOptions("cache")
	if err := opts.Validate(); err != nil {
		t.Errorf("default options must validate: %v", err)
	}

	opts.DB = -1
	if err := opts.Validate(); err == nil {
		t.Error("negative database number must be rejected")
	}
}
