package reflection

import (
	"reflect"
	"sync"
)

// Descriptor 是显式登记的构造函数元数据。
//
// 它替代了动态语言里 "从原型链上读取构造参数注解" 的机制：
// 自身没有参数元数据的 Descriptor 沿 Parent 链向上查找，
// 直到某一层显式声明了 Params 或链走到头。
type Descriptor struct {
	// Params 按参数顺序的元数据；为 nil 时从 Parent 继承
	Params []Parameter

	// Parent 父 Descriptor（可选）
	Parent *Descriptor
}

// parameters 返回生效的参数元数据，沿父链继承
func (d *Descriptor) parameters() []Parameter {
	for cur := d; cur != nil; cur = cur.Parent {
		if cur.Params != nil {
			return cur.Params
		}
	}
	return nil
}

// Registry 保存构造函数到 Descriptor 的映射。
//
// Go 的函数值不可比较，这里用函数入口地址
// （reflect.Value.Pointer）作为映射键。
type Registry struct {
	mu          sync.RWMutex
	descriptors map[uintptr]*Descriptor
}

// NewRegistry 创建空的元数据注册表
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[uintptr]*Descriptor),
	}
}

// GlobalRegistry 是进程级共享的元数据注册表，DefaultReader 使用它。
var GlobalRegistry = NewRegistry()

// Register 登记构造函数的元数据，返回 Descriptor 以便作为
// 其他 Descriptor 的 Parent 使用。重复登记覆盖旧值。
func (r *Registry) Register(ctor any, desc *Descriptor) *Descriptor {
	fn := reflect.ValueOf(ctor)
	if fn.Kind() != reflect.Func {
		panic("reflection: Register requires a function")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptors[fn.Pointer()] = desc
	return desc
}

// Lookup 返回构造函数登记过的 Descriptor，未登记时返回 nil
func (r *Registry) Lookup(ctor any) *Descriptor {
	fn := reflect.ValueOf(ctor)
	if fn.Kind() != reflect.Func {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.descriptors[fn.Pointer()]
}

// Register 在全局注册表上登记构造函数元数据（语法糖）
func Register(ctor any, desc *Descriptor) *Descriptor {
	return GlobalRegistry.Register(ctor, desc)
}
