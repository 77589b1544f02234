package di

import (
	"fmt"
	"reflect"
	"sync"
)

// Key 是 token 在注入器内部的唯一标识。
//
// 每个不同的 token 在进程生命周期内只会分配一个 Key，ID 从 0 开始
// 密集递增，永不复用。注入器内部按 ID 做线性查找和缓存定位，
// 因此 ID 必须在所有引用它的注入器存活期间保持稳定。
//
// 两个 Key 的 ID 相等当且仅当它们代表同一个 token。
type Key struct {
	// Token 原始 token（reflect.Type、*Token[T] 或任意可比较值）
	Token any

	// ID 全局唯一的密集整数编号，按注册顺序分配
	ID int

	// DisplayName token 的可读名称，用于错误信息和 String() 输出
	DisplayName string
}

// String 返回 Key 的可读描述
func (k *Key) String() string {
	return k.DisplayName
}

// KeyRegistry 负责为 token 分配 Key。
//
// 注册表是只增不减的共享状态：一旦某个 token 分配了 Key，该 Key
// 在进程生命周期内保持不变（下游注入器按 ID 缓存实例，依赖此约定）。
// 没有任何清除或回收入口。
type KeyRegistry struct {
	mu   sync.Mutex
	keys map[any]*Key
}

// NewKeyRegistry 创建一个空的 Key 注册表。
//
// 一般情况下应直接使用 GlobalRegistry；独立的注册表仅用于测试
// 或需要完全隔离 Key 编号空间的宿主。
func NewKeyRegistry() *KeyRegistry {
	return &KeyRegistry{
		keys: make(map[any]*Key),
	}
}

// GlobalRegistry 是进程级共享的 Key 注册表。
//
// ResolveAndCreate 等顶层入口都通过它分配 Key。这是显式导出的
// 共享实例（而非隐藏的内部全局变量）：生命周期与进程相同，
// 只增不减，任何引用其中 Key 的注入器存活期间都不得清空。
var GlobalRegistry = NewKeyRegistry()

// Get 返回 token 对应的 Key。
//
// 幂等：同一个 token 的重复调用返回同一个 *Key；传入已有的 *Key
// 原样返回。token 为 nil 或不可比较（函数、切片、map 等）时返回
// InvalidTokenError。
func (r *KeyRegistry) Get(token any) (*Key, error) {
	if k, ok := token.(*Key); ok {
		return k, nil
	}

	if token == nil {
		return nil, &InvalidTokenError{Token: token}
	}

	// map 查找要求 token 可比较，否则运行时会 panic
	if !reflect.TypeOf(token).Comparable() {
		return nil, &InvalidTokenError{Token: token}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if k, ok := r.keys[token]; ok {
		return k, nil
	}

	k := &Key{
		Token:       token,
		ID:          len(r.keys),
		DisplayName: displayName(token),
	}
	r.keys[token] = k
	return k, nil
}

// MustGet 返回 token 对应的 Key，失败时 panic。
// 内部用于已经校验过的 token（如注入器自身的合成 token）。
func (r *KeyRegistry) MustGet(token any) *Key {
	k, err := r.Get(token)
	if err != nil {
		panic(err)
	}
	return k
}

// Count 返回当前已分配的 Key 数量。
// 下一个分配的 Key 的 ID 等于此值。
func (r *KeyRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

// displayName 计算 token 的可读名称
func displayName(token any) string {
	switch t := token.(type) {
	case reflect.Type:
		return t.String()
	case fmt.Stringer:
		return t.String()
	case string:
		return t
	default:
		return fmt.Sprintf("%v", token)
	}
}
