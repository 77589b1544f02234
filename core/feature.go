package core

import (
	"reflect"
	"sync"
)

// FeatureCollection 按具体类型存放构建期共享的特性对象，
// 各功能包的 Builder（web、cron 等）靠它在 Option 之间传递
type FeatureCollection struct {
	features sync.Map // reflect.Type -> any
}

// Set 以 feature 的动态类型为键登记，同类型后写覆盖先写
func (fc *FeatureCollection) Set(feature any) {
	fc.features.Store(reflect.TypeOf(feature), feature)
}

// Get 按类型取出已登记的特性
func (fc *FeatureCollection) Get(typ reflect.Type) (any, bool) {
	return fc.features.Load(typ)
}

// GetFeature 按 T 从 Runtime 取特性，未登记时返回零值
// 接口类型必须用 (*T)(nil).Elem() 取类型，零值接口的 TypeOf 是 nil
func GetFeature[T any](rt *Runtime) T {
	var zero T
	targetType := reflect.TypeOf((*T)(nil)).Elem()
	if val, ok := rt.Features.Get(targetType); ok {
		return val.(T)
	}
	return zero
}
