package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gocrud/injector/di"
	"github.com/gocrud/injector/logging"
)

// Host Web 主机，作为托管服务运行
type Host struct {
	port       int
	engine     *gin.Engine
	server     *http.Server
	logger     logging.Logger
	injector   di.Injector
	mountTypes []reflect.Type

	mu   sync.Mutex
	addr string
}

func newHost(port int, engine *gin.Engine, injector di.Injector, mountTypes []reflect.Type, logger logging.Logger) *Host {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &Host{
		port:       port,
		engine:     engine,
		injector:   injector,
		mountTypes: mountTypes,
		logger:     logger.WithCategory("web"),
		server:     &http.Server{Handler: engine},
	}
}

// Address 返回实际监听地址（如 "[::]:50234"）
// 监听建立前返回空串；端口 0 时以此获知随机分配的端口。
func (h *Host) Address() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.addr
}

// Start 挂载控制器路由并开始服务
// 阻塞直到 Stop 或出错，由框架在独立 goroutine 中调用。
func (h *Host) Start(ctx context.Context) error {
	if err := h.mountControllers(); err != nil {
		return fmt.Errorf("web: failed to mount controllers: %w", err)
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", h.port))
	if err != nil {
		return fmt.Errorf("web: failed to listen on port %d: %w", h.port, err)
	}

	h.mu.Lock()
	h.addr = ln.Addr().String()
	h.mu.Unlock()

	h.logger.Info("web host started", logging.F("address", ln.Addr().String()))

	if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		h.logger.Error("web host failed", logging.F("error", err.Error()))
		return err
	}
	return nil
}

// Stop 优雅关闭，等待在途请求完成或 ctx 超时
func (h *Host) Stop(ctx context.Context) error {
	h.logger.Info("web host stopping")
	if err := h.server.Shutdown(ctx); err != nil {
		h.logger.Error("web host shutdown failed", logging.F("error", err.Error()))
		return err
	}
	return nil
}

// mountControllers 从注入器解析控制器并挂载路由
func (h *Host) mountControllers() error {
	for _, typ := range h.mountTypes {
		instance, err := h.injector.Get(typ)
		if err != nil {
			return fmt.Errorf("failed to resolve controller %v: %w", typ, err)
		}

		ctrl, ok := instance.(Controller)
		if !ok {
			return fmt.Errorf("controller %v does not implement web.Controller", typ)
		}

		ctrl.MountRoutes(h.engine)
		h.logger.Debug("mounted controller routes", logging.F("controller", typ.String()))
	}
	return nil
}
