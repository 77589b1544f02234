package database_test

import (
	"context"
	"testing"

	"github.com/gocrud/injector/core"
	"github.com/gocrud/injector/database"
	"github.com/gocrud/injector/di"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name string
}

func TestDatabaseOption(t *testing.T) {
	rt := core.NewRuntime()

	err := rt.Apply(database.New(
		database.WithDatabase("default", sqlite.Open("file::memory:?cache=shared"), func(o *database.DatabaseOptions) {
			o.AutoMigrate = []any{&User{}}
		}),
	))
	if err != nil {
		t.Fatalf("database option failed: %v", err)
	}

	if err := rt.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// default 实例可按类型解析
	db, err := core.GetService[*gorm.DB](rt)
	if err != nil {
		t.Fatalf("resolve *gorm.DB failed: %v", err)
	}

	if err := db.Create(&User{Name: "alice"}).Error; err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	var got User
	if err := db.First(&got, "name = ?", "alice").Error; err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if got.Name != "alice" {
		t.Errorf("unexpected row %+v", got)
	}

	// 命名令牌解析到同一个实例
	named, err := di.GetToken(rt.Injector(), database.Token("default"))
	if err != nil {
		t.Fatalf("resolve named token failed: %v", err)
	}
	if named != db {
		t.Error("named token must resolve to the same *gorm.DB")
	}

	// 工厂也注册到了注入器
	factory, err := core.GetService[*database.DatabaseFactory](rt)
	if err != nil {
		t.Fatalf("resolve factory failed: %v", err)
	}
	if _, err := factory.Get("default"); err != nil {
		t.Errorf("factory must know the default instance: %v", err)
	}

	if err := rt.Lifecycle.Stop(context.Background(), nil); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestBuilderValidation(t *testing.T) {
	builder := database.NewBuilder()
	builder.Add("broken", nil, nil) // dialector 缺失

	if _, err := builder.Build(nil); err == nil {
		t.Fatal("missing dialector must be rejected")
	}
}

func TestBuilderDuplicate(t *testing.T) {
	builder := database.NewBuilder()
	builder.Add("main", sqlite.Open(":memory:"), nil)
	builder.Add("main", sqlite.Open(":memory:"), nil)

	if _, err := builder.Build(nil); err == nil {
		t.Fatal("duplicate database name must be rejected")
	}
}
