package di

import (
	"fmt"
	"strings"
	"sync"
)

// Injector 是层级式依赖注入容器的接口。
//
// Get 返回 token 在容器作用域内的单例，必要时先惰性构造。
// notFoundValue 最多一个：缺省（或显式传入 ThrowIfNotFound）时
// 未找到绑定返回 NoProviderError；传入其他值时原样返回该值。
type Injector interface {
	// Get 获取 token 对应的实例
	Get(token any, notFoundValue ...any) (any, error)

	// Parent 返回父注入器（没有时为 nil）
	Parent() Injector
}

// throwNotFound 是 "未找到即报错" 的哨兵类型
type throwNotFound struct{}

func (throwNotFound) String() string { return "ThrowIfNotFound" }

// ThrowIfNotFound 是导出的 "未找到即报错" 哨兵值。
//
// Get 缺省就是这个语义；当调用方希望在调用点显式标明
// "此处必须抛错" 时，可以把它作为 notFoundValue 传入。
var ThrowIfNotFound any = throwNotFound{}

// injectorKey 是注入器自身的合成 Key：任何被构造的对象都可以
// 通过声明 Injector 类型的依赖拿到构造它的注入器。
var injectorKey = GlobalRegistry.MustGet(TypeOf[Injector]())

// slot 是单个 provider 的缓存槽位。
// 状态显式二元：未构造 / 已构造（值本身可以合法地为 nil）。
type slot struct {
	built bool
	value any
}

// ReflectiveInjector 是层级式容器的具体实现。
//
// 构造后结构不可变：provider 表固定，只有缓存槽位从
// "未构造" 到 "已构造" 单向迁移，每个槽位最多迁移一次。
// 子注入器持有对父注入器的非拥有引用，父的生命周期独立于子。
//
// 核心解析模型是单线程同步的：构造在同一调用栈上可重入递归。
// 为适配多 goroutine 宿主，槽位迁移由注入器级互斥锁保护；
// 调用用户工厂前锁会被释放（工厂可以拿到注入器并回调 Get），
// 返回后重新检查槽位状态，释放窗口内的重复构造被丢弃。
// 锁的获取顺序沿父链向上，不会反向。
type ReflectiveInjector struct {
	mu     sync.Mutex
	parent Injector

	providers []ResolvedProvider
	keyIDs    []int
	slots     []slot

	// constructions 循环依赖保护计数：在途+已完成的构造数
	// 超过槽位总数时只可能是传递性自依赖
	constructions int
}

// ResolveAndCreate 解析声明并创建注入器（resolve + from 的组合）。
//
// 示例：
//
//	inj, err := di.ResolveAndCreate([]any{NewEngine, NewCar})
//	car, err := di.Get[*Car](inj)
func ResolveAndCreate(declarations []any, parent ...Injector) (*ReflectiveInjector, error) {
	resolved, err := Resolve(declarations)
	if err != nil {
		return nil, err
	}
	return FromResolvedProviders(resolved, parent...), nil
}

// FromResolvedProviders 从已解析的 provider 列表直接创建注入器。
// O(n) 构造，不做任何依赖计算（完全惰性）。
func FromResolvedProviders(providers []ResolvedProvider, parent ...Injector) *ReflectiveInjector {
	inj := &ReflectiveInjector{
		providers: providers,
		keyIDs:    make([]int, len(providers)),
		slots:     make([]slot, len(providers)),
	}
	for i, p := range providers {
		inj.keyIDs[i] = p.Key.ID
	}
	if len(parent) > 0 {
		inj.parent = parent[0]
	}
	return inj
}

// Parent 返回父注入器
func (inj *ReflectiveInjector) Parent() Injector {
	return inj.parent
}

// Get 实现 Injector 接口
func (inj *ReflectiveInjector) Get(token any, notFoundValue ...any) (any, error) {
	key, err := GlobalRegistry.Get(token)
	if err != nil {
		return nil, err
	}

	notFound := ThrowIfNotFound
	if len(notFoundValue) > 0 {
		notFound = notFoundValue[0]
	}

	inj.mu.Lock()
	defer inj.mu.Unlock()
	return inj.getByKey(key, VisibilityDefault, notFound)
}

// ResolveAndCreateChild 以当前注入器为父，解析声明并创建子注入器
func (inj *ReflectiveInjector) ResolveAndCreateChild(declarations []any) (*ReflectiveInjector, error) {
	resolved, err := Resolve(declarations)
	if err != nil {
		return nil, err
	}
	return inj.CreateChildFromResolved(resolved), nil
}

// CreateChildFromResolved 以当前注入器为父创建子注入器
func (inj *ReflectiveInjector) CreateChildFromResolved(providers []ResolvedProvider) *ReflectiveInjector {
	return FromResolvedProviders(providers, inj)
}

// ResolveAndInstantiate 解析单条声明并立即构造一个实例。
// 实例不进入任何缓存槽位：每次调用都产生新实例，
// 依赖仍通过本注入器（含父链）解析。
func (inj *ReflectiveInjector) ResolveAndInstantiate(declaration any) (any, error) {
	resolved, err := Resolve([]any{declaration})
	if err != nil {
		return nil, err
	}
	if len(resolved) != 1 {
		return nil, &InvalidProviderError{Provider: declaration, Reason: "expected exactly one provider declaration"}
	}
	return inj.InstantiateResolved(resolved[0])
}

// InstantiateResolved 用已解析的 provider 构造一个不缓存的新实例。
// 临时 provider 不占槽位，因此不参与循环保护计数；
// 它的依赖仍按槽位正常构造并受保护。
func (inj *ReflectiveInjector) InstantiateResolved(provider ResolvedProvider) (any, error) {
	inj.mu.Lock()
	defer inj.mu.Unlock()

	if provider.Multi {
		values := make([]any, len(provider.Factories))
		for i, factory := range provider.Factories {
			value, err := inj.instantiate(provider.Key, factory)
			if err != nil {
				return nil, err
			}
			values[i] = value
		}
		return values, nil
	}
	return inj.instantiate(provider.Key, provider.Factories[0])
}

// ProviderAt 按下标返回 provider；越界返回 OutOfBoundsError
func (inj *ReflectiveInjector) ProviderAt(index int) (ResolvedProvider, error) {
	if index < 0 || index >= len(inj.providers) {
		return ResolvedProvider{}, &OutOfBoundsError{Index: index, Count: len(inj.providers)}
	}
	return inj.providers[index], nil
}

// NumProviders 返回本注入器自身（不含祖先）的 provider 数量
func (inj *ReflectiveInjector) NumProviders() int {
	return len(inj.providers)
}

// String 返回注入器的可读形式，列出自身（不含祖先）的 provider
func (inj *ReflectiveInjector) String() string {
	names := make([]string, len(inj.providers))
	for i, p := range inj.providers {
		names[i] = p.Key.DisplayName
	}
	return fmt.Sprintf("ReflectiveInjector(providers: [%s])", strings.Join(names, ", "))
}

// getByKey 是内部解析入口。调用前必须持有 inj.mu。
func (inj *ReflectiveInjector) getByKey(key *Key, visibility Visibility, notFound any) (any, error) {
	// 请求注入器自身：短路返回 this
	if key.ID == injectorKey.ID {
		return inj, nil
	}

	// 仅自身可见：只扫描自己的槽位
	if visibility == VisibilitySelf {
		if value, found, err := inj.getOrCreateOwn(key); found || err != nil {
			return value, err
		}
		return notFoundPolicy(key, notFound)
	}

	// 默认从自身开始；SkipSelf 从父开始
	if visibility != VisibilitySkipSelf {
		if value, found, err := inj.getOrCreateOwn(key); found || err != nil {
			return value, err
		}
	}

	// 沿父链上溯：同实现的祖先直接查它自己的槽位，
	// 遇到异种实现（如 NullInjector 边界）则委托给它的 Get
	for ancestor := inj.parent; ancestor != nil; {
		ri, ok := ancestor.(*ReflectiveInjector)
		if !ok {
			return ancestor.Get(key.Token, notFound)
		}

		ri.mu.Lock()
		value, found, err := ri.getOrCreateOwn(key)
		ri.mu.Unlock()
		if found || err != nil {
			return value, err
		}
		ancestor = ri.parent
	}

	return notFoundPolicy(key, notFound)
}

// getOrCreateOwn 在自身槽位中查找 key；命中但未构造时就地构造。
// 返回 found=false 表示本注入器没有该绑定。调用前必须持有 inj.mu。
func (inj *ReflectiveInjector) getOrCreateOwn(key *Key) (any, bool, error) {
	for i, id := range inj.keyIDs {
		if id != key.ID {
			continue
		}
		if inj.slots[i].built {
			return inj.slots[i].value, true, nil
		}

		value, err := inj.construct(inj.providers[i])
		if err != nil {
			// 构造失败不占用槽位：之后的查找会重新执行同一工厂
			return nil, true, err
		}

		if inj.slots[i].built {
			// 工厂调用期间锁被释放过，另一次调用已抢先完成迁移；
			// 丢弃本次结果并回退计数，槽位仍然最多迁移一次
			inj.constructions--
			return inj.slots[i].value, true, nil
		}
		inj.slots[i] = slot{built: true, value: value}
		return value, true, nil
	}
	return nil, false, nil
}

// construct 执行一次 provider 构造（含循环依赖保护）。
// 调用前必须持有 inj.mu。
//
// 计数先于任何实际工作递增；失败路径在返回前递减，
// 使失败的槽位可以被后续调用重试而不触发误报。
func (inj *ReflectiveInjector) construct(provider ResolvedProvider) (any, error) {
	inj.constructions++
	if inj.constructions > len(inj.slots) {
		inj.constructions--
		return nil, &CyclicDependencyError{Key: provider.Key}
	}

	var value any
	var err error
	if provider.Multi {
		values := make([]any, len(provider.Factories))
		for i, factory := range provider.Factories {
			values[i], err = inj.instantiate(provider.Key, factory)
			if err != nil {
				break
			}
		}
		value = values
	} else {
		value, err = inj.instantiate(provider.Key, provider.Factories[0])
	}

	if err != nil {
		inj.constructions--
		return nil, err
	}
	return value, nil
}

// instantiate 解析单个工厂的依赖并调用它。调用前必须持有 inj.mu。
func (inj *ReflectiveInjector) instantiate(key *Key, factory ResolvedFactory) (any, error) {
	args := make([]any, len(factory.Deps))
	for i, dep := range factory.Deps {
		notFound := ThrowIfNotFound
		if dep.Optional {
			// 可选依赖未命中时注入 nil
			notFound = nil
		}

		value, err := inj.getByKey(dep.Key, dep.Visibility, notFound)
		if err != nil {
			// 依赖解析失败：追加当前 provider 构成依赖路径后原样传播
			return nil, wrapResolving(err, key)
		}
		args[i] = value
	}

	// 调用用户工厂前释放锁：工厂可以通过合成的 Injector 依赖
	// 拿到本注入器并在构造期间回调 Get，持锁调用会自死锁
	inj.mu.Unlock()
	value, err := factory.Factory(args)
	inj.mu.Lock()
	if err != nil {
		// 工厂自身失败：包装为 InstantiationError，保留原始错误
		return nil, &InstantiationError{Key: key, Cause: err}
	}
	return value, nil
}

// notFoundPolicy 应用未找到策略
func notFoundPolicy(key *Key, notFound any) (any, error) {
	if notFound != ThrowIfNotFound {
		return notFound, nil
	}
	return nil, &NoProviderError{Key: key}
}
