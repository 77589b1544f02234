package web_test

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocrud/injector/di"
	"github.com/gocrud/injector/web"
)

type greeting struct {
	Message string
}

func newGreeting() *greeting { return &greeting{Message: "pong"} }

// PingController 依赖注入的控制器
type PingController struct {
	greeting *greeting
}

func NewPingController(g *greeting) *PingController {
	return &PingController{greeting: g}
}

func (c *PingController) MountRoutes(router gin.IRouter) {
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, c.greeting.Message)
	})
}

func TestHostServesControllerRoutes(t *testing.T) {
	builder := web.NewBuilder()
	builder.UsePort(0) // 随机端口
	builder.AddControllers(NewPingController)

	decls, err := builder.Declarations()
	if err != nil {
		t.Fatalf("Declarations failed: %v", err)
	}
	decls = append(decls, newGreeting)

	inj, err := di.ResolveAndCreate(decls)
	if err != nil {
		t.Fatalf("ResolveAndCreate failed: %v", err)
	}

	host := builder.Build(inj)

	done := make(chan error, 1)
	go func() { done <- host.Start(context.Background()) }()

	// 等待监听地址可用
	var addr string
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		addr = host.Address()
		if addr != "" {
			if _, port, err := net.SplitHostPort(addr); err == nil && port != "0" {
				addr = net.JoinHostPort("127.0.0.1", port)
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/ping", addr))
	if err != nil {
		t.Fatalf("GET /ping failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "pong" {
		t.Errorf("unexpected response %d %q", resp.StatusCode, body)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := host.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
}

func TestDeclarationsRejectUnknown(t *testing.T) {
	builder := web.NewBuilder()
	builder.AddControllers(42)

	if _, err := builder.Declarations(); err == nil {
		t.Fatal("non-controller value must be rejected")
	}
}

func TestDeclarationsAcceptInstance(t *testing.T) {
	builder := web.NewBuilder()
	builder.AddControllers(&PingController{greeting: &greeting{Message: "hi"}})

	decls, err := builder.Declarations()
	if err != nil {
		t.Fatalf("Declarations failed: %v", err)
	}
	if len(decls) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(decls))
	}
	if _, ok := decls[0].(di.ValueProvider); !ok {
		t.Errorf("instance must become a ValueProvider, got %T", decls[0])
	}
}
