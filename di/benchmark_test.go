package di_test

import (
	"testing"

	"github.com/gocrud/injector/di"
)

// 基准测试：缓存命中后的 Get 应该是纯粹的线性扫描 + 槽位读取

func BenchmarkGetCached(b *testing.B) {
	inj, err := di.ResolveAndCreate([]any{NewEngine, NewCar})
	if err != nil {
		b.Fatal(err)
	}
	if _, err := di.Get[*Car](inj); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := inj.Get(di.TypeOf[*Car]()); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGetThroughParentChain(b *testing.B) {
	root, err := di.ResolveAndCreate([]any{NewEngine})
	if err != nil {
		b.Fatal(err)
	}

	// 构造 4 层深的链，叶子上查根的绑定
	leaf := root
	for i := 0; i < 4; i++ {
		leaf = leaf.CreateChildFromResolved(nil)
	}
	if _, err := di.Get[*Engine](leaf); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := leaf.Get(di.TypeOf[*Engine]()); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResolveAndInstantiate(b *testing.B) {
	inj, err := di.ResolveAndCreate([]any{NewEngine})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := inj.ResolveAndInstantiate(NewCar); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResolve(b *testing.B) {
	declarations := []any{NewEngine, NewCar, NewDashboard}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := di.Resolve(declarations); err != nil {
			b.Fatal(err)
		}
	}
}
