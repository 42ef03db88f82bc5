package tasks

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/wall_service/constant"
	"github.com/Xushengqwer/wall_service/repo/mysql"
)

// CounterAuditTask 负责定时从事实表重算冗余计数器，修复增量路径产生的漂移。
// - likes_count / comments_count 以点赞表、评论表为准；posts_count 以帖子表为准。
// - 日常一致性由业务事务内的相对增量保证，本任务是自愈兜底。
type CounterAuditTask struct {
	auditRepo mysql.CounterAuditRepository // MySQL 批量重算仓库
	cron      *cron.Cron                   // cron V3 实例
	logger    *core.ZapLogger              // 日志记录器
}

// NewCounterAuditTask 初始化并启动计数器审计的定时任务。
func NewCounterAuditTask(
	auditRepo mysql.CounterAuditRepository,
	logger *core.ZapLogger,
) *CounterAuditTask {
	cronV3 := cron.New() // 默认分钟级精度
	task := &CounterAuditTask{
		auditRepo: auditRepo,
		cron:      cronV3,
		logger:    logger,
	}
	task.startCronJob() // 在构造函数中启动定时作业
	return task
}

// startCronJob 配置并启动 cron 作业。
// 使用 constant.CounterAuditCronSpec 定义的 cron 表达式调度 runAudit 方法。
func (t *CounterAuditTask) startCronJob() {
	schedule := constant.CounterAuditCronSpec
	t.logger.Info("准备启动计数器审计定时任务", zap.String("schedule", schedule))

	entryID, err := t.cron.AddFunc(schedule, func() {
		t.logger.Info("计数器审计任务开始执行...")
		startTime := time.Now()
		// 为单次任务执行设置超时。全表重算涉及两轮批量 UPDATE，给足余量。
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		t.runAudit(ctx)

		duration := time.Since(startTime)
		t.logger.Info("计数器审计任务执行完毕", zap.Duration("duration", duration))
	})

	if err != nil {
		// 添加 cron 作业失败通常是 schedule 表达式错误，属于启动期致命问题。
		t.logger.Fatal("添加计数器审计 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
	}

	t.cron.Start() // 启动 cron 调度器 (在后台 goroutine 中运行)
	t.logger.Info("计数器审计定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
}

// runAudit 是定时任务执行的实际审计逻辑。
// 1. 重算全部帖子的 likes_count / comments_count。
// 2. 重算全部墙的 posts_count。
// 两步相互独立，前一步失败不阻断后一步。
func (t *CounterAuditTask) runAudit(ctx context.Context) {
	t.logger.Info("任务步骤1: 开始重算帖子计数器...")
	if err := t.auditRepo.AuditPostCounters(ctx); err != nil {
		t.logger.Error("帖子计数器审计失败，漂移将在下一轮继续修复。", zap.Error(err))
	} else {
		t.logger.Info("任务步骤1: 帖子计数器重算完成。")
	}

	t.logger.Info("任务步骤2: 开始重算墙计数器...")
	if err := t.auditRepo.AuditWallCounters(ctx); err != nil {
		t.logger.Error("墙计数器审计失败，漂移将在下一轮继续修复。", zap.Error(err))
	} else {
		t.logger.Info("任务步骤2: 墙计数器重算完成。")
	}
}

// Stop 优雅地停止 cron 调度器。
// 返回一个 context，调用者可以使用它来等待正在运行的任务完成。
func (t *CounterAuditTask) Stop() context.Context {
	t.logger.Info("正在停止计数器审计定时任务...")
	stopCtx := t.cron.Stop() // 停止新任务调度，并在正在执行的任务完成后关闭返回的 context
	t.logger.Info("计数器审计定时任务已停止调度。等待正在执行的任务完成...")
	return stopCtx
}
