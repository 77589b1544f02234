package core

import (
	"fmt"

	"github.com/gocrud/injector/di"
)

// ProvideAs 将构造函数的产物绑定到接口 T 并注册为单例
//
// 示例:
//
//	core.ProvideAs[IService](rt, NewServiceImpl)
func ProvideAs[T any](rt *Runtime, constructor any) error {
	return rt.Provide(di.ClassProvider{
		Provide:  di.TypeOf[T](),
		UseClass: constructor,
	})
}

// ProvideValueAs 将现成实例绑定到接口 T
//
// 示例:
//
//	core.ProvideValueAs[IClock](rt, systemClock{})
func ProvideValueAs[T any](rt *Runtime, value T) error {
	return rt.Provide(di.ValueProvider{
		Provide: di.TypeOf[T](),
		Value:   value,
	})
}

// GetService 从已构建的运行时中解析服务
// 必须在 Build 之后调用
func GetService[T any](rt *Runtime) (T, error) {
	inj := rt.Injector()
	if inj == nil {
		var zero T
		return zero, fmt.Errorf("core: runtime not built yet")
	}
	return di.Get[T](inj)
}
