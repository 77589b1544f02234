package di_test

import (
	"testing"

	"github.com/gocrud/injector/di"
	"github.com/gocrud/injector/reflection"
)

// 显式登记的元数据驱动类提供者的依赖解析

type Mailer struct {
	DSN string
}

func NewMailer(dsn string) *Mailer { return &Mailer{DSN: dsn} }

type Notifier struct {
	Mailer *Mailer
}

func NewNotifier(m *Mailer) *Notifier { return &Notifier{Mailer: m} }

var mailerDSN = di.NewToken[string]("mailer-dsn")

func TestClassProviderWithInjectAnnotation(t *testing.T) {
	// string 参数按类型无法定位绑定，用 Inject 注解覆盖为 Token
	reflection.Register(NewMailer, &reflection.Descriptor{
		Params: []reflection.Parameter{
			{Annotations: []any{reflection.Inject{Token: mailerDSN}}},
		},
	})

	inj, err := di.ResolveAndCreate([]any{
		di.ValueProvider{Provide: mailerDSN, Value: "smtp://localhost"},
		NewMailer,
	})
	if err != nil {
		t.Fatalf("ResolveAndCreate failed: %v", err)
	}

	mailer, err := di.Get[*Mailer](inj)
	if err != nil {
		t.Fatalf("Get(*Mailer) failed: %v", err)
	}
	if mailer.DSN != "smtp://localhost" {
		t.Errorf("Inject annotation must override the inferred key, got %q", mailer.DSN)
	}
}

func TestClassProviderWithOptionalAnnotation(t *testing.T) {
	reflection.Register(NewNotifier, &reflection.Descriptor{
		Params: []reflection.Parameter{
			{Annotations: []any{reflection.Optional{}}},
		},
	})

	inj, err := di.ResolveAndCreate([]any{NewNotifier})
	if err != nil {
		t.Fatalf("ResolveAndCreate failed: %v", err)
	}

	n, err := di.Get[*Notifier](inj)
	if err != nil {
		t.Fatalf("optional annotated dependency must not fail: %v", err)
	}
	if n.Mailer != nil {
		t.Errorf("missing optional dependency must be nil")
	}
}
