package di

import (
	"reflect"

	"github.com/gocrud/injector/reflection"
)

// Resolve 把异构的 provider 声明列表规范化为 ResolvedProvider 列表。
//
// 输入可以任意嵌套（[]any 中再嵌 []any），解析前先做深度优先、
// 从左到右的完全展平，nil 条目直接丢弃。类提供者的依赖通过
// reflection.DefaultReader 从构造函数签名推断。
//
// 合并规则：
//   - 每个不同的 Key 产出一个 ResolvedProvider，顺序按首次出现
//   - 同一 Key 的多个非 Multi 声明，后出现的覆盖先出现的
//   - 同一 Key 的 Multi 声明按出现顺序全部保留
//   - Multi 与非 Multi 混用时倾向 Multi 语义（宽松合并）
func Resolve(declarations []any) ([]ResolvedProvider, error) {
	return ResolveWith(declarations, reflection.DefaultReader)
}

// ResolveWith 与 Resolve 相同，但使用指定的元数据源。
// 用于测试或需要替换依赖推断方式的宿主。
func ResolveWith(declarations []any, reader reflection.Reader) ([]ResolvedProvider, error) {
	flat := flatten(declarations, nil)

	// 规范化的中间形式：保留逐条声明，合并阶段再按 Key 归组
	type normalized struct {
		key     *Key
		factory ResolvedFactory
		multi   bool
	}

	items := make([]normalized, 0, len(flat))
	for _, decl := range flat {
		key, factory, multi, err := normalizeProvider(decl, reader)
		if err != nil {
			return nil, err
		}
		items = append(items, normalized{key: key, factory: factory, multi: multi})
	}

	// 按 Key 归组，保持首次出现顺序
	resolved := make([]ResolvedProvider, 0, len(items))
	index := make(map[int]int, len(items))

	for _, item := range items {
		at, seen := index[item.key.ID]
		if !seen {
			index[item.key.ID] = len(resolved)
			resolved = append(resolved, ResolvedProvider{
				Key:       item.key,
				Factories: []ResolvedFactory{item.factory},
				Multi:     item.multi,
			})
			continue
		}

		existing := &resolved[at]
		if existing.Multi || item.multi {
			// 宽松合并：任一方声明 Multi 即按 Multi 语义累积
			existing.Multi = true
			existing.Factories = append(existing.Factories, item.factory)
		} else {
			// 覆盖语义：后出现的声明胜出（用于子配置层叠）
			existing.Factories = []ResolvedFactory{item.factory}
		}
	}

	return resolved, nil
}

// flatten 深度优先展平嵌套声明列表，丢弃 nil 条目
func flatten(declarations []any, out []any) []any {
	for _, decl := range declarations {
		switch d := decl.(type) {
		case nil:
			continue
		case []any:
			out = flatten(d, out)
		default:
			out = append(out, d)
		}
	}
	return out
}

// normalizeProvider 把单条声明规范化为 (Key, ResolvedFactory, multi)
func normalizeProvider(decl any, reader reflection.Reader) (*Key, ResolvedFactory, bool, error) {
	switch p := decl.(type) {
	case ClassProvider:
		key, factory, err := normalizeClass(p, reader)
		return key, factory, p.Multi, err

	case ValueProvider:
		key, factory, err := normalizeValue(p)
		return key, factory, p.Multi, err

	case FactoryProvider:
		key, factory, err := normalizeFactory(p, reader)
		return key, factory, p.Multi, err

	case ExistingProvider:
		key, factory, err := normalizeExisting(p)
		return key, factory, p.Multi, err

	default:
		// 裸构造函数是 ClassProvider 的简写
		if t := reflect.TypeOf(decl); t != nil && t.Kind() == reflect.Func {
			key, factory, err := normalizeClass(ClassProvider{UseClass: decl}, reader)
			return key, factory, false, err
		}
		return nil, ResolvedFactory{}, false, &InvalidProviderError{
			Provider: decl,
			Reason:   "not a provider declaration (expected ClassProvider, ValueProvider, FactoryProvider, ExistingProvider, constructor function or nested list)",
		}
	}
}

func normalizeClass(p ClassProvider, reader reflection.Reader) (*Key, ResolvedFactory, error) {
	if p.UseClass == nil {
		return nil, ResolvedFactory{}, &InvalidProviderError{Provider: p, Reason: "UseClass is required"}
	}

	fnType := reflect.TypeOf(p.UseClass)
	if fnType.Kind() != reflect.Func {
		return nil, ResolvedFactory{}, &InvalidProviderError{Provider: p, Reason: "UseClass must be a constructor function"}
	}
	if fnType.NumOut() == 0 || fnType.Out(0).Implements(errType) {
		return nil, ResolvedFactory{}, &InvalidProviderError{Provider: p, Reason: "constructor must return the instance as its first value"}
	}

	// token 缺省为构造函数第一个返回值的类型
	token := p.Provide
	if token == nil {
		token = fnType.Out(0)
	}

	key, err := GlobalRegistry.Get(token)
	if err != nil {
		return nil, ResolvedFactory{}, err
	}

	deps, err := dependenciesFor(p.UseClass, p.Deps, reader)
	if err != nil {
		return nil, ResolvedFactory{}, &InvalidProviderError{Provider: p, Reason: err.Error()}
	}

	invoke, numIn, err := createFuncInvoker(p.UseClass)
	if err != nil {
		return nil, ResolvedFactory{}, &InvalidProviderError{Provider: p, Reason: err.Error()}
	}
	if len(deps) != numIn {
		return nil, ResolvedFactory{}, &InvalidProviderError{Provider: p, Reason: "Deps length does not match constructor parameter count"}
	}

	return key, ResolvedFactory{Factory: invoke, Deps: deps}, nil
}

func normalizeValue(p ValueProvider) (*Key, ResolvedFactory, error) {
	if p.Provide == nil {
		return nil, ResolvedFactory{}, &InvalidProviderError{Provider: p, Reason: "Provide is required"}
	}

	key, err := GlobalRegistry.Get(p.Provide)
	if err != nil {
		return nil, ResolvedFactory{}, err
	}

	return key, ResolvedFactory{Factory: createValueInvoker(p.Value)}, nil
}

func normalizeFactory(p FactoryProvider, reader reflection.Reader) (*Key, ResolvedFactory, error) {
	if p.Provide == nil {
		return nil, ResolvedFactory{}, &InvalidProviderError{Provider: p, Reason: "Provide is required"}
	}
	if p.Factory == nil {
		return nil, ResolvedFactory{}, &InvalidProviderError{Provider: p, Reason: "Factory is required"}
	}
	if t := reflect.TypeOf(p.Factory); t == nil || t.Kind() != reflect.Func {
		return nil, ResolvedFactory{}, &InvalidProviderError{Provider: p, Reason: "Factory must be a function"}
	}

	key, err := GlobalRegistry.Get(p.Provide)
	if err != nil {
		return nil, ResolvedFactory{}, err
	}

	deps, err := dependenciesFor(p.Factory, p.Deps, reader)
	if err != nil {
		return nil, ResolvedFactory{}, &InvalidProviderError{Provider: p, Reason: err.Error()}
	}

	invoke, numIn, err := createFuncInvoker(p.Factory)
	if err != nil {
		return nil, ResolvedFactory{}, &InvalidProviderError{Provider: p, Reason: err.Error()}
	}
	if len(deps) != numIn {
		return nil, ResolvedFactory{}, &InvalidProviderError{Provider: p, Reason: "Deps length does not match factory parameter count"}
	}

	return key, ResolvedFactory{Factory: invoke, Deps: deps}, nil
}

func normalizeExisting(p ExistingProvider) (*Key, ResolvedFactory, error) {
	if p.Provide == nil {
		return nil, ResolvedFactory{}, &InvalidProviderError{Provider: p, Reason: "Provide is required"}
	}
	if p.Existing == nil {
		return nil, ResolvedFactory{}, &InvalidProviderError{Provider: p, Reason: "Existing is required"}
	}

	key, err := GlobalRegistry.Get(p.Provide)
	if err != nil {
		return nil, ResolvedFactory{}, err
	}
	existingKey, err := GlobalRegistry.Get(p.Existing)
	if err != nil {
		return nil, ResolvedFactory{}, err
	}

	return key, ResolvedFactory{
		Factory: createForwardInvoker(),
		Deps:    []ResolvedDependency{{Key: existingKey}},
	}, nil
}

// dependenciesFor 计算工厂/构造函数的依赖列表。
// explicit 非 nil 时按显式声明，否则由元数据源从签名推断。
func dependenciesFor(fn any, explicit []any, reader reflection.Reader) ([]ResolvedDependency, error) {
	if explicit != nil {
		deps := make([]ResolvedDependency, 0, len(explicit))
		for _, entry := range explicit {
			dep, err := resolveDepEntry(entry)
			if err != nil {
				return nil, err
			}
			deps = append(deps, dep)
		}
		return deps, nil
	}

	params, err := reader.Parameters(fn)
	if err != nil {
		return nil, err
	}

	deps := make([]ResolvedDependency, 0, len(params))
	for _, param := range params {
		dep, err := resolveParameter(param)
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

// resolveDepEntry 解析显式依赖条目（token 或 DepSpec）
func resolveDepEntry(entry any) (ResolvedDependency, error) {
	spec, ok := entry.(DepSpec)
	if !ok {
		spec = DepSpec{Token: entry}
	}

	if spec.Self && spec.SkipSelf {
		return ResolvedDependency{}, &InvalidProviderError{Provider: entry, Reason: "dependency cannot be both Self and SkipSelf"}
	}

	key, err := GlobalRegistry.Get(spec.Token)
	if err != nil {
		return ResolvedDependency{}, err
	}

	visibility := VisibilityDefault
	if spec.Self {
		visibility = VisibilitySelf
	} else if spec.SkipSelf {
		visibility = VisibilitySkipSelf
	}

	return ResolvedDependency{Key: key, Optional: spec.Optional, Visibility: visibility}, nil
}

// resolveParameter 把元数据源给出的参数描述转换为依赖。
// 注解 Inject 覆盖按类型推断的 token，Optional/Self/SkipSelf
// 设置可选性和可见性。
func resolveParameter(param reflection.Parameter) (ResolvedDependency, error) {
	var token any = param.Type
	optional := false
	visibility := VisibilityDefault

	for _, ann := range param.Annotations {
		switch a := ann.(type) {
		case reflection.Inject:
			token = a.Token
		case reflection.Optional:
			optional = true
		case reflection.Self:
			visibility = VisibilitySelf
		case reflection.SkipSelf:
			visibility = VisibilitySkipSelf
		}
	}

	key, err := GlobalRegistry.Get(token)
	if err != nil {
		return ResolvedDependency{}, err
	}

	return ResolvedDependency{Key: key, Optional: optional, Visibility: visibility}, nil
}
