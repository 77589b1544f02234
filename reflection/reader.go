// Package reflection 是依赖元数据的来源。
//
// 注入器核心把 "如何得知构造函数的参数依赖" 抽象为 Reader 接口：
// 给定一个构造函数，返回其按声明顺序排列的参数类型，以及附加在
// 参数上的注解（可选、可见性、token 覆盖）。
//
// 默认实现 TypeReader 通过 reflect 读取函数签名得到参数类型；
// 注解无法从签名推断，由调用方通过 Registry 显式登记 Descriptor
// 补充。Descriptor 可以引用父 Descriptor，元数据沿父链继承，
// 直到找到自带参数元数据的一层为止。
package reflection

import (
	"fmt"
	"reflect"
)

// Inject 注解：用指定 token 覆盖按参数类型推断出的依赖 key。
type Inject struct {
	// Token 覆盖后的 token
	Token any
}

// Optional 注解：依赖找不到时注入 nil 而不是报错。
type Optional struct{}

// Self 注解：依赖只能由当前注入器自身的绑定满足，不向父链查找。
type Self struct{}

// SkipSelf 注解：依赖跳过当前注入器自身的绑定，只向父链查找。
type SkipSelf struct{}

// Parameter 描述构造函数的一个参数依赖。
type Parameter struct {
	// Type 参数的声明类型；按类型注入时即为依赖 token
	Type reflect.Type

	// Annotations 附加在该参数上的注解（Inject / Optional / Self / SkipSelf）
	Annotations []any
}

// Reader 是元数据读取接口。
//
// ctor 必须是函数；返回值按参数声明顺序排列。
type Reader interface {
	Parameters(ctor any) ([]Parameter, error)
}

// TypeReader 是默认的 Reader 实现。
//
// 参数类型来自函数签名；若 Registry 中登记了该构造函数的
// Descriptor，则用其中的注解（含父链继承）补充或覆盖。
type TypeReader struct {
	registry *Registry
}

// NewTypeReader 创建 TypeReader。registry 为 nil 时只读取函数签名。
func NewTypeReader(registry *Registry) *TypeReader {
	return &TypeReader{registry: registry}
}

// DefaultReader 是进程级共享的默认 Reader，绑定 GlobalRegistry。
var DefaultReader Reader = NewTypeReader(GlobalRegistry)

// Parameters 实现 Reader 接口
func (r *TypeReader) Parameters(ctor any) ([]Parameter, error) {
	fnType := reflect.TypeOf(ctor)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("reflection: constructor must be a function, got %T", ctor)
	}

	params := make([]Parameter, fnType.NumIn())
	for i := range params {
		params[i] = Parameter{Type: fnType.In(i)}
	}

	if r.registry != nil {
		if desc := r.registry.Lookup(ctor); desc != nil {
			declared := desc.parameters()
			if len(declared) > len(params) {
				return nil, fmt.Errorf("reflection: descriptor for %v declares %d parameters, constructor takes %d",
					fnType, len(declared), len(params))
			}
			for i, p := range declared {
				if p.Type != nil {
					params[i].Type = p.Type
				}
				params[i].Annotations = p.Annotations
			}
		}
	}

	return params, nil
}
