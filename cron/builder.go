package cron

import (
	"fmt"
	"reflect"

	"github.com/gocrud/injector/di"
	"github.com/gocrud/injector/logging"
)

// Builder Cron 配置构建器
type Builder struct {
	enableSeconds    bool
	enableCronLogger bool
	location         string
	jobs             []jobDefinition
}

// NewBuilder 创建 Cron 构建器
func NewBuilder() *Builder {
	return &Builder{
		enableSeconds:    false,
		enableCronLogger: false,
		location:         "UTC",
		jobs:             make([]jobDefinition, 0),
	}
}

// WithSeconds 启用秒级精度
func (b *Builder) WithSeconds() *Builder {
	b.enableSeconds = true
	return b
}

// WithLocation 设置时区
func (b *Builder) WithLocation(location string) *Builder {
	b.location = location
	return b
}

// EnableCronLogger 启用 cron 库的内部调度日志
func (b *Builder) EnableCronLogger() *Builder {
	b.enableCronLogger = true
	return b
}

// AddJob 添加简单任务（无依赖注入）
func (b *Builder) AddJob(spec, name string, handler func()) *Builder {
	b.jobs = append(b.jobs, jobDefinition{
		spec:    spec,
		name:    name,
		handler: handler,
	})
	return b
}

// AddJobWithDI 添加带依赖注入的任务
// handler 可以是任何函数，参数会自动从 DI 容器解析
//
// 示例：
//
//	builder.AddJobWithDI("0 */5 * * * *", "sync-data", func(svc *DataService, logger logging.Logger) {
//	    svc.Sync()
//	})
func (b *Builder) AddJobWithDI(spec, name string, handler any) *Builder {
	b.jobs = append(b.jobs, jobDefinition{
		spec:    spec,
		name:    name,
		handler: handler,
	})
	return b
}

// build 构建 CronService（内部使用）
// 任务定义暂存到 service，真正的注册发生在 Start，此时注入器已经可用
func (b *Builder) build(logger logging.Logger) (*service, error) {
	cronSvc := newService(logger, func(opts *options) {
		opts.EnableSeconds = b.enableSeconds
		opts.EnableCronLogger = b.enableCronLogger
		opts.Location = b.location
		opts.Logger = logger
	})

	cronSvc.jobDefs = b.jobs

	return cronSvc, nil
}

// wrapHandlerWithDI 包装处理器，调用时从注入器解析参数
func wrapHandlerWithDI(injector di.Injector, logger logging.Logger, handler any) (func(), error) {
	handlerValue := reflect.ValueOf(handler)
	handlerType := handlerValue.Type()

	// 检查是否为函数
	if handlerType.Kind() != reflect.Func {
		return nil, fmt.Errorf("handler must be a function, got %v", handlerType.Kind())
	}

	// 每次触发时解析参数再调用，panic 只记录不传播
	wrappedFunc := func() {
		args := make([]reflect.Value, handlerType.NumIn())
		for i := range args {
			paramType := handlerType.In(i)
			instance, err := injector.Get(paramType)
			if err != nil {
				logger.Error("failed to resolve job parameter",
					logging.F("param", paramType.String()), logging.F("error", err.Error()))
				return
			}
			args[i] = reflect.ValueOf(instance)
		}

		defer func() {
			if r := recover(); r != nil {
				logger.Error("job panicked", logging.F("panic", r))
			}
		}()
		handlerValue.Call(args)
	}

	return wrappedFunc, nil
}
