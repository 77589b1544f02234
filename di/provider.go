package di

// Visibility 限定依赖解析时允许命中父链上的哪些注入器。
type Visibility int

const (
	// VisibilityDefault 默认可见性：从当前注入器开始沿父链查找
	VisibilityDefault Visibility = iota

	// VisibilitySelf 仅在当前注入器自身的绑定中查找，不上溯父链
	VisibilitySelf

	// VisibilitySkipSelf 跳过当前注入器自身的绑定，只在父链中查找
	VisibilitySkipSelf
)

// String 返回可见性的字符串表示
func (v Visibility) String() string {
	switch v {
	case VisibilitySelf:
		return "Self"
	case VisibilitySkipSelf:
		return "SkipSelf"
	default:
		return "Default"
	}
}

// provider 声明是一个封闭的联合：ClassProvider、ValueProvider、
// FactoryProvider、ExistingProvider 四种显式形式，外加两种简写——
// 裸构造函数（等价于以其第一个返回值类型为 token 的 ClassProvider）
// 和任意嵌套的 []any（解析时深度优先展平，nil 条目忽略）。

// ClassProvider 类提供者：调用构造函数创建实例。
//
// UseClass 必须是构造函数（返回实例，可选地再返回 error）。
// 依赖默认从构造函数签名（经元数据源）推断，Deps 非 nil 时覆盖。
//
// 示例：
//
//	di.ClassProvider{Provide: di.TypeOf[Engine](), UseClass: NewV8Engine}
type ClassProvider struct {
	// Provide 提供的 token；为 nil 时取构造函数第一个返回值类型
	Provide any

	// UseClass 构造函数，参数将被注入
	UseClass any

	// Deps 显式依赖列表（可选，覆盖从签名推断的依赖）
	// 条目可以是 token 或 DepSpec
	Deps []any

	// Multi 多值提供者标记：同一 token 的多个声明聚合为切片
	Multi bool
}

// ValueProvider 值提供者：直接返回静态值，不创建实例。
//
// 示例：
//
//	di.ValueProvider{Provide: PortToken, Value: 8080}
type ValueProvider struct {
	// Provide 提供的 token
	Provide any

	// Value 静态值，按原样返回
	Value any

	// Multi 多值提供者标记
	Multi bool
}

// FactoryProvider 工厂提供者：调用工厂函数创建实例。
//
// Deps 按工厂参数顺序声明依赖；为 nil 时从工厂签名推断。
//
// 示例：
//
//	di.FactoryProvider{
//		Provide: di.TypeOf[*Database](),
//		Factory: func(cfg *Config) (*Database, error) { return Open(cfg.DSN) },
//	}
type FactoryProvider struct {
	// Provide 提供的 token
	Provide any

	// Factory 工厂函数，返回实例，可选地再返回 error
	Factory any

	// Deps 显式依赖列表（可选），条目可以是 token 或 DepSpec
	Deps []any

	// Multi 多值提供者标记
	Multi bool
}

// ExistingProvider 别名提供者：获取 Provide 时实际转发到 Existing。
//
// 示例：
//
//	di.ExistingProvider{Provide: di.TypeOf[Logger](), Existing: di.TypeOf[*ConsoleLogger]()}
type ExistingProvider struct {
	// Provide 提供的 token（别名）
	Provide any

	// Existing 被引用的已存在 token
	Existing any

	// Multi 多值提供者标记
	Multi bool
}

// DepSpec 是依赖列表中的富条目，为单个依赖附加可选性和可见性。
//
// 示例：
//
//	Deps: []any{
//		di.TypeOf[Engine](),
//		di.DepSpec{Token: LoggerToken, Optional: true},
//		di.DepSpec{Token: di.TypeOf[Config](), SkipSelf: true},
//	}
type DepSpec struct {
	// Token 依赖的 token
	Token any

	// Optional 找不到绑定时注入 nil 而不是报错
	Optional bool

	// Self 仅在声明所在的注入器自身查找
	Self bool

	// SkipSelf 跳过声明所在的注入器自身，只查父链
	SkipSelf bool
}

// ResolvedDependency 是规范化后的单个依赖描述。
type ResolvedDependency struct {
	// Key 依赖的 Key
	Key *Key

	// Optional 可选依赖：解析失败时以 nil 注入
	Optional bool

	// Visibility 解析可见性
	Visibility Visibility
}

// Invoker 实例化调用器：以解析好的依赖实参调用工厂，返回实例。
// 封装了反射调用的细节（错误返回值约定、panic 恢复）。
type Invoker func(args []any) (any, error)

// ResolvedFactory 是规范化后的单个工厂及其展平的依赖列表。
type ResolvedFactory struct {
	// Factory 实例化调用器
	Factory Invoker

	// Deps 按参数顺序排列的依赖
	Deps []ResolvedDependency
}

// ResolvedProvider 是 provider 声明规范化后的最终形式。
//
// 不变式：除非 Multi 为 true，Factories 恰好有一个条目；
// Multi 提供者的 Factories 按贡献声明的出现顺序排列。
type ResolvedProvider struct {
	// Key 提供的 Key
	Key *Key

	// Factories 工厂列表
	Factories []ResolvedFactory

	// Multi 多值提供者：Get 返回 []any，每个工厂贡献一个元素
	Multi bool
}
