package etcd_test

import (
	"testing"

	"github.com/gocrud/injector/etcd"
)

func TestBuilderValidation(t *testing.T) {
	builder := etcd.NewBuilder()
	builder.AddClient("invalid", func(o *etcd.EtcdClientOptions) {
		o.Endpoints = nil
	})

	if _, err := builder.Build(nil); err == nil {
		t.Fatal("missing endpoints must be rejected")
	}
}

func TestBuilderDuplicate(t *testing.T) {
	builder := etcd.NewBuilder()
	builder.AddClient("dup", nil)
	builder.AddClient("dup", nil)

	if _, err := builder.Build(nil); err == nil {
		t.Fatal("duplicate client name must be rejected")
	}
}

// clientv3.New 不会立即建立连接，离线环境也能构建工厂
func TestBuilderFactory(t *testing.T) {
	builder := etcd.NewBuilder()
	builder.AddClient("default", nil)

	factory, err := builder.Build(nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer factory.Close()

	client, err := factory.Get("default")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if client == nil {
		t.Fatal("client must not be nil")
	}

	if _, err := factory.Get("missing"); err == nil {
		t.Error("unknown client name must fail")
	}
}

func TestClientTokenIdentity(t *testing.T) {
	if etcd.ClientToken("default") != etcd.ClientToken("default") {
		t.Error("same name must yield the same token")
	}
	if etcd.ClientToken("default") == etcd.ClientToken("watcher") {
		t.Error("different names must yield different tokens")
	}
}
