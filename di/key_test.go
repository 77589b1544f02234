package di_test

import (
	"errors"
	"testing"

	"github.com/gocrud/injector/di"
)

func TestKeyIdempotentIdentity(t *testing.T) {
	reg := di.NewKeyRegistry()
	token := di.NewToken[string]("cache-dsn")

	a, err := reg.Get(token)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	b, _ := reg.Get(token)
	if a != b {
		t.Errorf("same token must yield the same *Key")
	}

	// 传入已有 Key 原样返回
	c, _ := reg.Get(a)
	if c != a {
		t.Errorf("passing an existing *Key must return it unchanged")
	}
}

func TestKeyIDsAreDenseAndAppendOnly(t *testing.T) {
	reg := di.NewKeyRegistry()

	for i := 0; i < 5; i++ {
		k, err := reg.Get(di.NewToken[int]("t"))
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if k.ID != i {
			t.Errorf("expected dense id %d, got %d", i, k.ID)
		}
	}
	if reg.Count() != 5 {
		t.Errorf("expected 5 keys, got %d", reg.Count())
	}

	// 重复查找不分配新 id
	first, _ := reg.Get(di.TypeOf[string]())
	again, _ := reg.Get(di.TypeOf[string]())
	if first.ID != again.ID || reg.Count() != 6 {
		t.Errorf("repeated lookup must not allocate")
	}
}

func TestKeyInvalidToken(t *testing.T) {
	reg := di.NewKeyRegistry()

	_, err := reg.Get(nil)
	var ite *di.InvalidTokenError
	if !errors.As(err, &ite) {
		t.Fatalf("nil token: expected InvalidTokenError, got %v", err)
	}

	// 不可比较的值不能作为 token
	_, err = reg.Get([]string{"not", "comparable"})
	if !errors.As(err, &ite) {
		t.Fatalf("non-comparable token: expected InvalidTokenError, got %v", err)
	}
	_, err = reg.Get(func() {})
	if !errors.As(err, &ite) {
		t.Fatalf("func token: expected InvalidTokenError, got %v", err)
	}
}

func TestKeyDisplayName(t *testing.T) {
	reg := di.NewKeyRegistry()

	k, _ := reg.Get(di.TypeOf[*Engine]())
	if k.DisplayName != "*di_test.Engine" {
		t.Errorf("reflect.Type display name: got %q", k.DisplayName)
	}

	k, _ = reg.Get(di.NewToken[int]("max-retries"))
	if k.DisplayName != "Token[int](max-retries)" {
		t.Errorf("token display name: got %q", k.DisplayName)
	}

	k, _ = reg.Get("plain-string")
	if k.DisplayName != "plain-string" {
		t.Errorf("string display name: got %q", k.DisplayName)
	}
}

func TestDistinctTokensSameTypeName(t *testing.T) {
	reg := di.NewKeyRegistry()

	// 相同名称的两个 Token 是不同 token：身份相等，不是结构相等
	a, _ := reg.Get(di.NewToken[string]("dup"))
	b, _ := reg.Get(di.NewToken[string]("dup"))
	if a.ID == b.ID {
		t.Errorf("structurally equal tokens must still be distinct identities")
	}
}
