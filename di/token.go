package di

import (
	"fmt"
	"reflect"
)

// Token 是带类型标注的注入令牌，同一类型的多个绑定靠它区分。
//
// token 的相等性基于指针身份：只有持有同一个 *Token 引用才能取回
// 同一个绑定，结构相等的副本不行。
//
// 典型用法是区分同类型实例（多个数据库连接）或注入基本类型配置值：
//
//	var DBConnectionString = di.NewToken[string]("db-connection")
//
//	inj, _ := di.ResolveAndCreate([]any{
//		di.ValueProvider{Provide: DBConnectionString, Value: "postgres://..."},
//	})
//
//	conn, _ := inj.Get(DBConnectionString)
type Token[T any] struct {
	name string
	typ  reflect.Type
}

// NewToken 创建令牌，name 仅用于错误信息与打印
func NewToken[T any](name string) *Token[T] {
	return &Token[T]{
		name: name,
		typ:  reflect.TypeOf((*T)(nil)).Elem(),
	}
}

func (t *Token[T]) Name() string { return t.name }

func (t *Token[T]) Type() reflect.Type { return t.typ }

func (t *Token[T]) String() string {
	return fmt.Sprintf("Token[%s](%s)", t.typ, t.name)
}

// TypeOf 返回 T 的 reflect.Type
//
// reflect.Type 是规范化的单例，天然满足 token 的身份相等约定，
// 因此它是按类型注册/获取时的标准 token 形式：
//
//	inj.Get(di.TypeOf[*UserService]())
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
