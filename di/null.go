package di

// nullInjector 是终端注入器：没有任何存储，也不做缓存。
type nullInjector struct{}

// NullInjector 是规范的 "无 provider、无父级" 终端注入器单例。
//
// 当调用方希望显式给出链条终点时，把它作为父注入器传入：
//
//	inj := di.FromResolvedProviders(resolved, di.NullInjector)
var NullInjector Injector = nullInjector{}

// Get 实现 Injector 接口。
// 未显式提供 notFoundValue（或显式传入 ThrowIfNotFound）时
// 返回 NoProviderError，否则原样返回 notFoundValue。
func (nullInjector) Get(token any, notFoundValue ...any) (any, error) {
	if len(notFoundValue) > 0 && notFoundValue[0] != ThrowIfNotFound {
		return notFoundValue[0], nil
	}

	key, err := GlobalRegistry.Get(token)
	if err != nil {
		return nil, err
	}
	return nil, &NoProviderError{Key: key}
}

// Parent 实现 Injector 接口；终端注入器没有父级
func (nullInjector) Parent() Injector {
	return nil
}
