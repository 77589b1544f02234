package di

import (
	"fmt"
	"strings"
)

// 本包的错误都是同步抛出的本地失败，核心自身不做任何重试。
//
// 解析类错误（NoProviderError、CyclicDependencyError、InstantiationError）
// 在向外传播的过程中会累加经过的 provider Key（最内层的在最前面），
// 最终渲染成可读的依赖路径，例如 "No provider for X! (Y -> X)"。

// InvalidTokenError 表示用 nil 或不可比较的值作为 token。
type InvalidTokenError struct {
	// Token 非法的 token 值
	Token any
}

// Error 实现 error 接口
func (e *InvalidTokenError) Error() string {
	if e.Token == nil {
		return "di: invalid token: nil"
	}
	return fmt.Sprintf("di: invalid token: %v (token must be comparable)", e.Token)
}

// InvalidProviderError 表示 provider 声明结构非法
// （如缺少必填字段，或声明本身不是已知的 provider 形式）。
type InvalidProviderError struct {
	// Provider 非法的声明
	Provider any

	// Reason 非法原因
	Reason string
}

// Error 实现 error 接口
func (e *InvalidProviderError) Error() string {
	return fmt.Sprintf("di: invalid provider %v: %s", e.Provider, e.Reason)
}

// NoProviderError 表示整条父链上都没有请求 token 的绑定，
// 且调用方没有提供默认值。
type NoProviderError struct {
	// Key 未找到绑定的 Key
	Key *Key

	// Chain 传播过程中累加的 provider 路径（最内层在前）
	Chain []*Key
}

// Error 实现 error 接口
func (e *NoProviderError) Error() string {
	return fmt.Sprintf("No provider for %s!%s", e.Key, resolvingPath(e.Chain, e.Key))
}

func (e *NoProviderError) addKey(k *Key) { e.Chain = append(e.Chain, k) }

// CyclicDependencyError 表示某次构造触发了循环依赖保护：
// 单个注入器内的构造次数超过了它的 provider 槽位总数。
//
// 这是一个保守的快速失败：它不追踪精确的环路径，只依据
// "构造次数多于 provider 数量只可能由传递性自依赖导致" 这一事实。
type CyclicDependencyError struct {
	// Key 触发检测的 provider Key
	Key *Key

	// Chain 传播过程中累加的 provider 路径（最内层在前）
	Chain []*Key
}

// Error 实现 error 接口
func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("Cannot instantiate cyclic dependency! %s%s", e.Key, resolvingPath(e.Chain, e.Key))
}

func (e *CyclicDependencyError) addKey(k *Key) { e.Chain = append(e.Chain, k) }

// InstantiationError 表示用户提供的工厂/构造函数自身执行失败。
// 原始错误通过 Unwrap 保留，可用 errors.Is / errors.As 检查。
type InstantiationError struct {
	// Key 执行失败的 provider Key
	Key *Key

	// Cause 工厂返回（或 panic 转换出）的原始错误
	Cause error

	// Chain 传播过程中累加的 provider 路径（最内层在前）
	Chain []*Key
}

// Error 实现 error 接口
func (e *InstantiationError) Error() string {
	return fmt.Sprintf("Error during instantiation of %s!%s: %v", e.Key, resolvingPath(e.Chain, e.Key), e.Cause)
}

// Unwrap 返回原始错误
func (e *InstantiationError) Unwrap() error { return e.Cause }

func (e *InstantiationError) addKey(k *Key) { e.Chain = append(e.Chain, k) }

// OutOfBoundsError 表示按下标访问 provider 时越界。
type OutOfBoundsError struct {
	// Index 非法下标
	Index int

	// Count provider 总数，合法范围是 [0, Count)
	Count int
}

// Error 实现 error 接口
func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("di: provider index %d out of bounds [0, %d)", e.Index, e.Count)
}

// resolvingError 是解析类错误的内部接口，用于在传播时累加路径
type resolvingError interface {
	error
	addKey(*Key)
}

// wrapResolving 在错误向外传播时把当前 provider 的 Key 追加到路径上。
// 非解析类错误原样返回，不做包装也不吞掉。
func wrapResolving(err error, key *Key) error {
	if re, ok := err.(resolvingError); ok {
		re.addKey(key)
		return re
	}
	return err
}

// resolvingPath 渲染依赖路径。chain 最内层在前，展示时反转并以
// 出错的 Key 结尾，让读者按 "入口 -> ... -> 出错位置" 的顺序阅读。
func resolvingPath(chain []*Key, last *Key) string {
	if len(chain) == 0 {
		return ""
	}
	names := make([]string, 0, len(chain)+1)
	for i := len(chain) - 1; i >= 0; i-- {
		names = append(names, chain[i].DisplayName)
	}
	names = append(names, last.DisplayName)
	return " (" + strings.Join(names, " -> ") + ")"
}
