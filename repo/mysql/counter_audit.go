package mysql

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/wall_service/config"
	"github.com/Xushengqwer/wall_service/models/entities"
)

// CounterAuditRepository 定义了冗余计数器审计的批量修正操作接口。
// - 计数器日常由业务事务内的相对增量维护；本接口从事实表全量重算，
//   修复增量路径遗漏（进程崩溃、历史缺陷）造成的漂移。
type CounterAuditRepository interface {
	// AuditPostCounters 并发地将全表帖子的 likes_count / comments_count
	// 与点赞表、评论表的真实行数对齐。
	// 允许部分批次失败（记录错误并聚合返回），以实现最终一致性。
	AuditPostCounters(ctx context.Context) error

	// AuditWallCounters 并发地将全表墙的 posts_count 与帖子表的真实行数对齐。
	AuditWallCounters(ctx context.Context) error
}

type counterAuditRepository struct {
	db       *gorm.DB
	logger   *core.ZapLogger
	auditCfg config.CounterAuditConfig
}

// NewCounterAuditRepository 是 counterAuditRepository 的构造函数。
func NewCounterAuditRepository(db *gorm.DB, logger *core.ZapLogger, auditCfg config.CounterAuditConfig) CounterAuditRepository {
	return &counterAuditRepository{db: db, logger: logger, auditCfg: auditCfg}
}

// auditPostCountersSQL 以关联子查询为单条 SQL 重算一批帖子的两个计数器。
// - 子查询限定在 IN 列表内的帖子上执行，单批行数由 BatchSize 控制数据库负载。
const auditPostCountersSQL = `
UPDATE posts p
SET p.likes_count = (
        SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id
    ),
    p.comments_count = (
        SELECT COUNT(*) FROM post_comments c WHERE c.post_id = p.id AND c.deleted_at IS NULL
    )
WHERE p.id IN ? AND p.deleted_at IS NULL`

const auditWallCountersSQL = `
UPDATE walls w
SET w.posts_count = (
        SELECT COUNT(*) FROM posts p WHERE p.wall_id = w.id AND p.deleted_at IS NULL
    )
WHERE w.id IN ? AND w.deleted_at IS NULL`

// AuditPostCounters 实现帖子计数器的全量审计。
func (r *counterAuditRepository) AuditPostCounters(ctx context.Context) error {
	ids, err := r.collectIDs(ctx, &entities.Post{})
	if err != nil {
		return fmt.Errorf("收集待审计帖子 ID 失败: %w", err)
	}
	return r.runAudit(ctx, "帖子计数器审计", ids, auditPostCountersSQL)
}

// AuditWallCounters 实现墙计数器的全量审计。
func (r *counterAuditRepository) AuditWallCounters(ctx context.Context) error {
	ids, err := r.collectIDs(ctx, &entities.Wall{})
	if err != nil {
		return fmt.Errorf("收集待审计墙 ID 失败: %w", err)
	}
	return r.runAudit(ctx, "墙计数器审计", ids, auditWallCountersSQL)
}

// collectIDs 检索指定模型当前全部有效主键。
// - GORM 的软删除作用域会自动排除已删除行。
func (r *counterAuditRepository) collectIDs(ctx context.Context, model interface{}) ([]uint64, error) {
	var ids []uint64
	if err := r.db.WithContext(ctx).Model(model).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// runAudit 实现审计任务的核心并发逻辑。
//
// 核心机制:
// 1. 数据分批: 根据配置 `auditCfg.BatchSize` 将全部 ID 分割成小批次。
// 2. 并发处理: 根据配置 `auditCfg.ConcurrencyLevel` 启动 worker goroutine 池处理这些批次。
// 3. 数据库更新: 每个 worker 对其批次执行一条带关联子查询的 UPDATE 重算计数器。
func (r *counterAuditRepository) runAudit(ctx context.Context, taskName string, ids []uint64, auditSQL string) error {
	total := len(ids)
	if total == 0 {
		r.logger.Info("没有需要审计的记录，任务提前结束", zap.String("task", taskName))
		return nil
	}

	batchSize := r.auditCfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500 // Fallback
		r.logger.Warn("配置 BatchSize 无效，使用默认值",
			zap.String("task", taskName),
			zap.Int("defaultBatchSize", batchSize),
			zap.Int("configured", r.auditCfg.BatchSize),
		)
	}

	concurrencyLevel := r.auditCfg.ConcurrencyLevel
	if concurrencyLevel <= 0 {
		concurrencyLevel = 1 // Fallback (顺序执行)
		r.logger.Warn("配置 ConcurrencyLevel 无效，使用默认值 1",
			zap.String("task", taskName),
			zap.Int("configured", r.auditCfg.ConcurrencyLevel),
		)
	}

	totalBatches := (total + batchSize - 1) / batchSize
	r.logger.Info("开始并发计数器审计",
		zap.String("task", taskName),
		zap.Int("总数", total),
		zap.Int("批大小", batchSize),
		zap.Int("并发数", concurrencyLevel),
		zap.Int("批次数", totalBatches),
	)

	var wg sync.WaitGroup
	jobs := make(chan []uint64, concurrencyLevel)
	results := make(chan error, totalBatches)
	startTime := time.Now()

	for i := 0; i < concurrencyLevel; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for batch := range jobs {
				select {
				case <-ctx.Done():
					r.logger.Warn("上下文取消，Worker 停止处理",
						zap.String("task", taskName),
						zap.Int("workerID", workerID),
						zap.Error(ctx.Err()),
					)
					results <- fmt.Errorf("worker %d: context cancelled: %w", workerID, ctx.Err())
					continue
				default:
				}
				results <- r.auditBatch(ctx, taskName, auditSQL, batch, workerID)
			}
		}(i)
	}

	go func() {
		defer close(jobs)
		for i := 0; i < total; i += batchSize {
			end := i + batchSize
			if end > total {
				end = total
			}
			batchCopy := make([]uint64, end-i)
			copy(batchCopy, ids[i:end])

			select {
			case <-ctx.Done():
				r.logger.Warn("上下文取消，停止分发更多审计批次", zap.String("task", taskName), zap.Error(ctx.Err()))
				return
			case jobs <- batchCopy:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var aggregatedErrors []error
	for err := range results {
		if err != nil {
			aggregatedErrors = append(aggregatedErrors, err)
		}
	}

	failedCount := len(aggregatedErrors)
	r.logger.Info("计数器审计处理完成",
		zap.String("task", taskName),
		zap.Duration("总耗时", time.Since(startTime)),
		zap.Int("总批次数", totalBatches),
		zap.Int("失败批次数", failedCount),
	)

	if failedCount > 0 {
		var errorStrings []string
		for _, e := range aggregatedErrors {
			errorStrings = append(errorStrings, e.Error())
		}
		finalError := fmt.Errorf("%s 过程中发生错误 (%d / %d 个批次失败): %s",
			taskName, failedCount, totalBatches, strings.Join(errorStrings, "; "))
		r.logger.Error("计数器审计最终结果：失败", zap.Error(finalError))
		return finalError
	}

	return nil
}

// auditBatch 负责处理单个批次的计数器重算。
func (r *counterAuditRepository) auditBatch(ctx context.Context, taskName, auditSQL string, batch []uint64, workerID int) error {
	dbStart := time.Now()
	result := r.db.WithContext(ctx).Exec(auditSQL, batch)
	dbDuration := time.Since(dbStart)

	if result.Error != nil {
		r.logger.Error("审计批次更新失败",
			zap.String("task", taskName),
			zap.Int("workerID", workerID),
			zap.Int("batchSize", len(batch)),
			zap.Duration("db耗时", dbDuration),
			zap.Error(result.Error),
		)
		return fmt.Errorf("worker %d 处理批次 (大小 %d) 失败: %w", workerID, len(batch), result.Error)
	}

	r.logger.Debug("审计批次更新成功",
		zap.String("task", taskName),
		zap.Int("workerID", workerID),
		zap.Int("batchSize", len(batch)),
		zap.Int64("修正行数", result.RowsAffected),
		zap.Duration("db耗时", dbDuration),
	)
	return nil
}
