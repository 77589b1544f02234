package hosting_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gocrud/injector/core"
	"github.com/gocrud/injector/hosting"
	"github.com/gocrud/injector/logging"
)

type blockingService struct {
	started atomic.Bool
	stopped atomic.Bool
}

func newBlockingService() *blockingService { return &blockingService{} }

func (s *blockingService) Start(ctx context.Context) error {
	s.started.Store(true)
	<-ctx.Done()
	return ctx.Err()
}

func (s *blockingService) Stop(ctx context.Context) error {
	s.stopped.Store(true)
	return nil
}

func TestManagerStartStop(t *testing.T) {
	logger := logging.NewLogger()
	manager := hosting.NewManager(logger)

	svc := newBlockingService()
	manager.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	manager.StartAll(ctx)

	deadline := time.Now().Add(time.Second)
	for !svc.started.Load() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !svc.started.Load() {
		t.Fatal("service did not start")
	}

	cancel()
	if err := manager.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if !svc.stopped.Load() {
		t.Error("Stop was not invoked")
	}
	manager.Wait()
}

func TestTimedHostedService(t *testing.T) {
	logger := logging.NewLogger()

	var runs atomic.Int64
	svc := hosting.NewTimedHostedService("ticker", 50*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()

	deadline := time.Now().Add(3 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if runs.Load() == 0 {
		t.Fatal("timed task never ran")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := svc.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	<-done
}

func TestHostingOption(t *testing.T) {
	rt := core.NewRuntime()

	if err := rt.Apply(hosting.New(newBlockingService)); err != nil {
		t.Fatalf("hosting option failed: %v", err)
	}
	if err := rt.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := rt.Lifecycle.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	svc, err := core.GetService[*blockingService](rt)
	if err != nil {
		t.Fatalf("GetService failed: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for !svc.started.Load() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !svc.started.Load() {
		t.Fatal("service did not start")
	}

	if err := rt.Lifecycle.Stop(context.Background(), nil); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if !svc.stopped.Load() {
		t.Error("Stop was not invoked")
	}
}

func TestHostingRejectsNonService(t *testing.T) {
	rt := core.NewRuntime()
	if err := rt.Apply(hosting.New(func() int { return 1 })); err == nil {
		t.Fatal("non-service constructor must be rejected")
	}
}
