package di

import "fmt"

// Get 按类型获取实例（泛型语法糖）。
//
// 示例：
//
//	car, err := di.Get[*Car](inj)
func Get[T any](inj Injector) (T, error) {
	var zero T

	value, err := inj.Get(TypeOf[T]())
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("di: resolved value is %T, expected %v", value, TypeOf[T]())
	}
	return typed, nil
}

// GetOrDefault 按类型获取实例，未找到绑定时返回 defaultValue。
// 解析过程中的其他错误（循环依赖、工厂失败）仍然返回。
func GetOrDefault[T any](inj Injector, defaultValue T) (T, error) {
	var zero T

	value, err := inj.Get(TypeOf[T](), defaultValue)
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("di: resolved value is %T, expected %v", value, TypeOf[T]())
	}
	return typed, nil
}

// MustGet 按类型获取实例，失败时 panic。
// 用于组合根等 "失败即崩溃" 的场景。
func MustGet[T any](inj Injector) T {
	value, err := Get[T](inj)
	if err != nil {
		panic(err)
	}
	return value
}

// GetToken 按 Token 获取实例（泛型语法糖），类型由 Token 携带。
//
// 示例：
//
//	dsn, err := di.GetToken(inj, DBConnectionString)
func GetToken[T any](inj Injector, token *Token[T]) (T, error) {
	var zero T

	value, err := inj.Get(token)
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("di: resolved value is %T, expected %v", value, token)
	}
	return typed, nil
}
