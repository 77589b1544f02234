package cron

import "testing"

func TestAddAndRemoveJob(t *testing.T) {
	svc := newService(nil, func(opts *options) {
		opts.EnableSeconds = true
	})

	if err := svc.addJob("* * * * * *", "tick", func() {}); err != nil {
		t.Fatalf("addJob failed: %v", err)
	}
	if _, exists := svc.jobs["tick"]; !exists {
		t.Fatal("job must be tracked by name after addJob")
	}

	svc.removeJob("tick")
	if _, exists := svc.jobs["tick"]; exists {
		t.Error("job must be untracked after removeJob")
	}

	// 移除不存在的任务是空操作
	svc.removeJob("missing")
}

func TestAddJobRejectsBadSpec(t *testing.T) {
	svc := newService(nil)
	if err := svc.addJob("not a spec", "bad", func() {}); err == nil {
		t.Fatal("invalid cron expression must be rejected")
	}
}

func TestInvalidLocationFallsBack(t *testing.T) {
	// 非法时区不应让服务构造失败
	svc := newService(nil, func(opts *options) {
		opts.Location = "Not/AZone"
	})
	if svc == nil || svc.cron == nil {
		t.Fatal("service must still be constructed with an invalid location")
	}
}
