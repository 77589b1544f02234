package core_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gocrud/injector/core"
	"github.com/gocrud/injector/di"
)

type clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type greeter struct {
	Prefix string
}

func newGreeter() *greeter { return &greeter{Prefix: "hello"} }

func TestRuntimeProvideAndBuild(t *testing.T) {
	rt := core.NewRuntime()
	if err := rt.Provide(newGreeter); err != nil {
		t.Fatalf("Provide failed: %v", err)
	}
	if err := rt.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	g, err := di.Get[*greeter](rt.Injector())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if g.Prefix != "hello" {
		t.Errorf("unexpected greeter: %+v", g)
	}
}

func TestRuntimeBuildTwice(t *testing.T) {
	rt := core.NewRuntime()
	if err := rt.Build(); err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	if err := rt.Build(); err == nil {
		t.Fatal("second Build must fail")
	}
	if err := rt.Provide(newGreeter); err == nil {
		t.Fatal("Provide after Build must fail")
	}
}

func TestProvideAs(t *testing.T) {
	rt := core.NewRuntime()
	if err := core.ProvideValueAs[clock](rt, systemClock{}); err != nil {
		t.Fatalf("ProvideValueAs failed: %v", err)
	}
	if err := rt.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	c, err := core.GetService[clock](rt)
	if err != nil {
		t.Fatalf("GetService failed: %v", err)
	}
	if _, ok := c.(systemClock); !ok {
		t.Errorf("expected systemClock, got %T", c)
	}
}

func TestLifecycleOrder(t *testing.T) {
	rt := core.NewRuntime()
	var order []string

	rt.Lifecycle.OnStart(func(ctx context.Context) error {
		order = append(order, "start-a")
		return nil
	})
	rt.Lifecycle.OnStart(func(ctx context.Context) error {
		order = append(order, "start-b")
		return nil
	})
	rt.Lifecycle.OnStop(func(ctx context.Context) error {
		order = append(order, "stop-a")
		return nil
	})
	rt.Lifecycle.OnStop(func(ctx context.Context) error {
		order = append(order, "stop-b")
		return nil
	})

	if err := rt.Lifecycle.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := rt.Lifecycle.Stop(context.Background(), nil); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	want := []string{"start-a", "start-b", "stop-b", "stop-a"}
	if len(order) != len(want) {
		t.Fatalf("got order %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got order %v, want %v", order, want)
		}
	}
}

func TestLifecycleStopContinuesOnError(t *testing.T) {
	rt := core.NewRuntime()
	var stopped []string
	var reported []error

	rt.Lifecycle.OnStop(func(ctx context.Context) error {
		stopped = append(stopped, "first")
		return nil
	})
	rt.Lifecycle.OnStop(func(ctx context.Context) error {
		return errors.New("cleanup failed")
	})

	_ = rt.Lifecycle.Stop(context.Background(), func(err error) {
		reported = append(reported, err)
	})

	if len(stopped) != 1 {
		t.Errorf("remaining hooks must still run, got %v", stopped)
	}
	if len(reported) != 1 {
		t.Errorf("expected 1 reported error, got %v", reported)
	}
}

type pingService struct {
	started chan struct{}
	stopped chan struct{}
}

func newPingService() *pingService {
	return &pingService{
		started: make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (s *pingService) Start(ctx context.Context) error {
	close(s.started)
	<-ctx.Done()
	return nil
}

func (s *pingService) Stop(ctx context.Context) error {
	close(s.stopped)
	return nil
}

func TestWithHostedService(t *testing.T) {
	rt := core.NewRuntime()
	if err := rt.Apply(core.WithHostedService(newPingService)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := rt.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if err := rt.Lifecycle.Start(context.Background()); err != nil {
		t.Fatalf("lifecycle Start failed: %v", err)
	}

	svc, err := core.GetService[*pingService](rt)
	if err != nil {
		t.Fatalf("GetService failed: %v", err)
	}

	select {
	case <-svc.started:
	case <-time.After(time.Second):
		t.Fatal("hosted service did not start")
	}

	if err := rt.Lifecycle.Stop(context.Background(), nil); err != nil {
		t.Fatalf("lifecycle Stop failed: %v", err)
	}

	select {
	case <-svc.stopped:
	case <-time.After(time.Second):
		t.Fatal("hosted service did not stop")
	}
}

func TestWithHostedServiceStopWithoutStart(t *testing.T) {
	var constructed atomic.Int64
	ctor := func() *pingService {
		constructed.Add(1)
		return newPingService()
	}

	rt := core.NewRuntime()
	if err := rt.Apply(core.WithHostedService(ctor)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := rt.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// 未 Start 直接 Stop：不能为了调用 Stop 而惰性构造出一个新服务
	if err := rt.Lifecycle.Stop(context.Background(), nil); err != nil {
		t.Fatalf("lifecycle Stop failed: %v", err)
	}
	if got := constructed.Load(); got != 0 {
		t.Errorf("Stop without Start constructed %d service instances, want 0", got)
	}
}

func TestWithHostedServiceRejectsNonService(t *testing.T) {
	rt := core.NewRuntime()
	err := rt.Apply(core.WithHostedService(newGreeter))
	if err == nil {
		t.Fatal("constructor not implementing HostedService must be rejected")
	}
}

func TestWithWorkerFailureTriggersShutdown(t *testing.T) {
	rt := core.NewRuntime()
	rt.ErrorHandler = func(err error) {}

	if err := rt.Apply(core.WithWorker(func(ctx context.Context) error {
		return errors.New("worker crashed")
	})); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if err := rt.Lifecycle.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	select {
	case <-rt.Done():
	case <-time.After(time.Second):
		t.Fatal("failed worker must request shutdown")
	}
}
