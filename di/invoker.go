package di

import (
	"fmt"
	"reflect"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// createFuncInvoker 为构造函数/工厂函数创建调用器。
//
// 约定与校验：
//   - fn 必须是非变参函数，且至少有一个返回值
//   - 最后一个返回值实现 error 时按错误通道处理
//   - 实参为 nil（可选依赖未命中）时以参数类型的零值传入
//   - 反射调用中的 panic 被恢复并转换为 error
func createFuncInvoker(fn any) (Invoker, int, error) {
	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()

	if fnType.Kind() != reflect.Func {
		return nil, 0, fmt.Errorf("expected a function, got %v", fnType)
	}
	if fnType.IsVariadic() {
		return nil, 0, fmt.Errorf("variadic functions are not supported: %v", fnType)
	}
	if fnType.NumOut() == 0 {
		return nil, 0, fmt.Errorf("function must return at least one value: %v", fnType)
	}

	numIn := fnType.NumIn()

	invoke := func(args []any) (result any, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				result = nil
				err = fmt.Errorf("panic: %v", rec)
			}
		}()

		if len(args) != numIn {
			return nil, fmt.Errorf("expected %d arguments, got %d", numIn, len(args))
		}

		in := make([]reflect.Value, numIn)
		for i, arg := range args {
			if arg == nil {
				// 可选依赖未命中：传入参数类型的零值
				in[i] = reflect.Zero(fnType.In(i))
			} else {
				in[i] = reflect.ValueOf(arg)
			}
		}

		results := fnVal.Call(in)

		// 检查 error（最后一个返回值）
		if len(results) > 1 {
			last := results[len(results)-1]
			if last.Type().Implements(errType) {
				if !last.IsNil() {
					return nil, last.Interface().(error)
				}
			}
		}

		return results[0].Interface(), nil
	}

	return invoke, numIn, nil
}

// createValueInvoker 创建返回固定值的零依赖调用器
func createValueInvoker(value any) Invoker {
	return func(args []any) (any, error) {
		return value, nil
	}
}

// createForwardInvoker 创建别名转发调用器：
// 唯一的依赖就是被引用的 token，实例原样转发。
func createForwardInvoker() Invoker {
	return func(args []any) (any, error) {
		return args[0], nil
	}
}
