package web

import (
	"fmt"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/gocrud/injector/di"
	"github.com/gocrud/injector/logging"
)

// Controller 控制器接口
// 实现者在 MountRoutes 中把自己的路由挂到 router 上。
type Controller interface {
	MountRoutes(router gin.IRouter)
}

// Builder Web 主机构建器（基于 Gin）
type Builder struct {
	logger      logging.Logger
	port        int
	engine      *gin.Engine
	controllers []any
	mountTypes  []reflect.Type
}

// NewBuilder 创建 Web 构建器
func NewBuilder() *Builder {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Builder{
		port:   8080,
		engine: engine,
	}
}

// UseLogger 设置日志记录器
func (b *Builder) UseLogger(logger logging.Logger) *Builder {
	b.logger = logger
	return b
}

// UsePort 设置端口，0 表示随机端口
func (b *Builder) UsePort(port int) *Builder {
	b.port = port
	return b
}

// Use 注册全局中间件
func (b *Builder) Use(middleware ...gin.HandlerFunc) *Builder {
	b.engine.Use(middleware...)
	return b
}

// Engine 暴露底层 Gin 引擎，用于本构建器未覆盖的定制
func (b *Builder) Engine() *gin.Engine {
	return b.engine
}

// AddControllers 注册控制器：构造函数（构造注入）或实例指针
// 控制器在 Host 启动时才从注入器解析并挂载路由。
func (b *Builder) AddControllers(controllers ...any) *Builder {
	b.controllers = append(b.controllers, controllers...)
	return b
}

// Declarations 把已注册的控制器转换为提供者声明
// 构造函数原样声明，实例指针包装为 ValueProvider。
func (b *Builder) Declarations() ([]any, error) {
	decls := make([]any, 0, len(b.controllers))
	for _, item := range b.controllers {
		serviceType := controllerType(item)
		if serviceType == nil {
			return nil, fmt.Errorf("web: cannot infer controller type from %T", item)
		}

		if reflect.ValueOf(item).Kind() == reflect.Func {
			decls = append(decls, item)
		} else {
			decls = append(decls, di.ValueProvider{Provide: serviceType, Value: item})
		}
		b.mountTypes = append(b.mountTypes, serviceType)
	}
	return decls, nil
}

// Build 构建 Web 主机
// injector 必须是应用的根注入器，Host 启动时用它解析控制器。
func (b *Builder) Build(injector di.Injector) *Host {
	return newHost(b.port, b.engine, injector, b.mountTypes, b.logger)
}

// controllerType 推断控制器的服务类型
func controllerType(target any) reflect.Type {
	val := reflect.ValueOf(target)
	switch {
	case val.Kind() == reflect.Func && val.Type().NumOut() > 0:
		return val.Type().Out(0)
	case val.Kind() == reflect.Ptr:
		return val.Type()
	}
	if t, ok := target.(reflect.Type); ok {
		return t
	}
	return nil
}
