// Package di 实现层级式的反射依赖注入容器。
//
// 调用方提供一组 provider 声明（构造函数、工厂函数、静态值或别名，
// 每条以 token 为标识），Resolve 把它们规范化为展平的 ResolvedProvider
// 表，ResolveAndCreate 在其上创建注入器。注入器按需惰性构造对象图：
// Get 首次命中某个 token 时递归解析其依赖并缓存单例，之后的获取
// 都是 O(1) 的缓存读取。
//
// 层级：子注入器通过 ResolveAndCreateChild 创建，自身未命中的 token
// 沿父链向上查找。依赖可以用可见性修饰符限制查找范围（Self 仅限
// 自身，SkipSelf 跳过自身），用 Optional 声明缺失时注入 nil。
//
// 基本用法：
//
//	type Engine struct{}
//	func NewEngine() *Engine { return &Engine{} }
//
//	type Car struct{ engine *Engine }
//	func NewCar(e *Engine) *Car { return &Car{engine: e} }
//
//	inj, _ := di.ResolveAndCreate([]any{NewEngine, NewCar})
//	car, _ := di.Get[*Car](inj)
//
// 多值提供者：
//
//	var Plugins = di.NewToken[[]any]("plugins")
//	inj, _ := di.ResolveAndCreate([]any{
//		di.ValueProvider{Provide: Plugins, Value: "a", Multi: true},
//		di.ValueProvider{Provide: Plugins, Value: "b", Multi: true},
//	})
//	all, _ := inj.Get(Plugins) // []any{"a", "b"}，按声明顺序
//
// 循环依赖通过构造计数保护快速失败；工厂自身的失败包装为
// InstantiationError 并保留原始错误，错误信息携带完整的依赖路径。
package di
