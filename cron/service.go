package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gocrud/injector/di"
	"github.com/gocrud/injector/logging"
	"github.com/robfig/cron/v3"
)

// jobDefinition 暂存的任务定义，注册发生在 Start
type jobDefinition struct {
	spec    string
	name    string
	handler any
}

// service Cron 定时任务托管服务
type service struct {
	cron     *cron.Cron
	logger   logging.Logger
	mu       sync.Mutex
	jobs     map[string]cron.EntryID
	jobDefs  []jobDefinition
	injector di.Injector
}

// options Cron 服务配置选项
type options struct {
	// Location 时区设置，默认 UTC
	Location string
	// EnableSeconds 是否启用秒级精度（默认分钟级）
	EnableSeconds bool
	// Logger 自定义日志记录器
	Logger logging.Logger
	// EnableCronLogger 是否启用 cron 库的内部调度日志
	EnableCronLogger bool
}

// newService 创建 Cron 托管服务
func newService(logger logging.Logger, opts ...func(*options)) *service {
	opt := &options{
		Location: "UTC",
		Logger:   logger,
	}
	for _, o := range opts {
		o(opt)
	}
	if opt.Logger == nil {
		opt.Logger = logging.NewLogger()
	}
	opt.Logger = opt.Logger.WithCategory("cron")

	cronOpts := []cron.Option{
		cron.WithChain(cron.Recover(newCronLogger(opt.Logger))),
	}
	if opt.Location != "" {
		if loc, err := time.LoadLocation(opt.Location); err == nil {
			cronOpts = append(cronOpts, cron.WithLocation(loc))
		} else {
			opt.Logger.Warn("invalid cron location, falling back to UTC",
				logging.F("location", opt.Location))
		}
	}
	if opt.EnableCronLogger {
		cronOpts = append(cronOpts, cron.WithLogger(newCronLogger(opt.Logger)))
	}
	if opt.EnableSeconds {
		cronOpts = append(cronOpts, cron.WithSeconds())
	}

	return &service{
		cron:   cron.New(cronOpts...),
		logger: opt.Logger,
		jobs:   make(map[string]cron.EntryID),
	}
}

// addJob 向调度器注册一个任务
// spec 是 cron 表达式，如 "*/5 * * * *"；启用秒级精度时为六段式。
func (s *service) addJob(spec, name string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, err := s.cron.AddFunc(spec, func() {
		s.logger.Debug("job started", logging.F("job", name))
		defer s.logger.Debug("job completed", logging.F("job", name))
		job()
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job '%s': %w", name, err)
	}

	s.jobs[name] = entryID
	s.logger.Info("job registered", logging.F("job", name), logging.F("spec", spec))
	return nil
}

// removeJob 按名字移除任务
func (s *service) removeJob(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, exists := s.jobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
		s.logger.Info("job removed", logging.F("job", name))
	}
}

// Inject 注入解析任务参数用的注入器
// 必须在 Start 之前调用。
func (s *service) Inject(injector di.Injector, logger logging.Logger) {
	s.injector = injector
	if logger != nil {
		s.logger = logger.WithCategory("cron")
	}
}

// Start 实现 HostedService.Start：注册暂存任务并启动调度器
func (s *service) Start(ctx context.Context) error {
	s.logger.Info("cron service starting", logging.F("pending", len(s.jobDefs)))

	for _, job := range s.jobDefs {
		var handlerFunc func()

		switch h := job.handler.(type) {
		case func():
			handlerFunc = h
		default:
			// 参数从注入器解析的任务
			if s.injector == nil {
				return fmt.Errorf("cron: injector not injected but job '%s' requires it", job.name)
			}
			wrapped, err := wrapHandlerWithDI(s.injector, s.logger, h)
			if err != nil {
				return fmt.Errorf("cron: failed to wrap job '%s': %w", job.name, err)
			}
			handlerFunc = wrapped
		}

		if err := s.addJob(job.spec, job.name, handlerFunc); err != nil {
			return err
		}
	}
	s.jobDefs = nil

	s.cron.Start()
	return nil
}

// Stop 实现 HostedService.Stop：等待在途任务完成或 ctx 超时
func (s *service) Stop(ctx context.Context) error {
	s.logger.Info("cron service stopping")

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
